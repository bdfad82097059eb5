package permission

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL role repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ListByStore(ctx context.Context, storeID string) ([]*Role, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, name, permissions, created_at, updated_at
		FROM roles WHERE store_id=$1 ORDER BY name ASC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*Role
	for rows.Next() {
		role, err := scanRole(rows.Scan)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Role, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, permissions, created_at, updated_at
		FROM roles WHERE id=$1`, uid)
	return scanRole(row.Scan)
}

func (r *postgresRepo) Update(ctx context.Context, role *Role) error {
	doc, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE roles SET name=$1, permissions=$2, updated_at=$3 WHERE id=$4`,
		role.Name, doc, time.Now(), role.ID)
	return err
}

func scanRole(scan func(...interface{}) error) (*Role, error) {
	role := &Role{}
	var doc []byte
	if err := scan(&role.ID, &role.StoreID, &role.Name, &doc, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	// Rows written before the six-action scheme still carry legacy shapes;
	// normalize on the way out so callers only see the canonical map.
	permissions, err := Normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", role.ID, err)
	}
	role.Permissions = permissions
	return role, nil
}
