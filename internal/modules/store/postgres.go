package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comandahub/comanda-backend/internal/modules/permission"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL store repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateStore(ctx context.Context, s *Store) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stores (id, name, slug, is_active)
		VALUES ($1, $2, $3, $4)`,
		s.ID, s.Name, s.Slug, s.IsActive)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Store, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanStore(r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM stores WHERE id=$1`, uid))
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*Store, error) {
	return scanStore(r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM stores WHERE slug=$1`, slug))
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]*Store, error) {
	query := `SELECT id, name, slug, is_active, created_at, updated_at FROM stores`
	if activeOnly {
		query += ` WHERE is_active=TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*Store
	for rows.Next() {
		s := &Store{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, s *Store) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE stores SET name=$1, slug=$2, is_active=$3, updated_at=$4 WHERE id=$5`,
		s.Name, s.Slug, s.IsActive, time.Now(), s.ID)
	return err
}

func (r *postgresRepo) UpsertMember(ctx context.Context, m *Member) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO store_members (id, store_id, user_id, role_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id, user_id)
		DO UPDATE SET role_id=EXCLUDED.role_id, updated_at=NOW()`,
		m.ID, m.StoreID, m.UserID, m.RoleID)
	return err
}

func (r *postgresRepo) RemoveMember(ctx context.Context, storeID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM store_members WHERE store_id=$1 AND user_id=$2`, storeID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *postgresRepo) ListMembers(ctx context.Context, storeID string) ([]*Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, user_id, role_id, created_at, updated_at
		FROM store_members WHERE store_id=$1 ORDER BY created_at ASC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.StoreID, &m.UserID, &m.RoleID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresRepo) GetMemberRole(ctx context.Context, storeID, userID string) (*permission.Role, error) {
	role := &permission.Role{}
	var doc []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT r.id, r.store_id, r.name, r.permissions, r.created_at, r.updated_at
		FROM store_members m
		JOIN roles r ON r.id = m.role_id
		WHERE m.store_id=$1 AND m.user_id=$2`,
		storeID, userID).Scan(&role.ID, &role.StoreID, &role.Name, &doc, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, err
	}
	role.Permissions, err = permission.Normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", role.ID, err)
	}
	return role, nil
}

func scanStore(row *sql.Row) (*Store, error) {
	s := &Store{}
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
