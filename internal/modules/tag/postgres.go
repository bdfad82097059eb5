package tag

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL tag repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, t *Tag) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_tags (id, store_id, name, color) VALUES ($1,$2,$3,$4)`,
		t.ID, t.StoreID, t.Name, t.Color)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Tag, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	t := &Tag{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, color, created_at, updated_at
		FROM order_tags WHERE id=$1`, uid).
		Scan(&t.ID, &t.StoreID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresRepo) ListByStore(ctx context.Context, storeID string) ([]*Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, name, color, created_at, updated_at
		FROM order_tags WHERE store_id=$1 ORDER BY name ASC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.StoreID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, t *Tag) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE order_tags SET name=$1, color=$2, updated_at=$3 WHERE id=$4`,
		t.Name, t.Color, time.Now(), t.ID)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_tag_links WHERE tag_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_tags WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit()
}
