package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// ── Products ─────────────────────────────────────────────────────────────────

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, store_id, name, description, base_price, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.StoreID, p.Name, p.Description, p.BasePrice, p.IsActive)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if err := insertGroupLinks(ctx, tx, p.ID, p.ComplementGroupIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p := &Product{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, description, base_price, is_active, created_at, updated_at
		FROM products WHERE id=$1`, uid).
		Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.BasePrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ComplementGroupIDs, err = r.listGroupLinks(ctx, p.ID)
	return p, err
}

func (r *postgresRepo) ListProducts(ctx context.Context, storeID, search string, activeOnly bool) ([]*Product, error) {
	query := `SELECT id, store_id, name, description, base_price, is_active, created_at, updated_at
	          FROM products WHERE store_id=$1`
	args := []interface{}{storeID}
	if search != "" {
		query += ` AND name ILIKE $2`
		args = append(args, "%"+search+"%")
	}
	if activeOnly {
		query += ` AND is_active=TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.BasePrice,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range products {
		p.ComplementGroupIDs, err = r.listGroupLinks(ctx, p.ID)
		if err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *postgresRepo) UpdateProduct(ctx context.Context, p *Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE products SET name=$1, description=$2, base_price=$3, is_active=$4, updated_at=$5
		WHERE id=$6`,
		p.Name, p.Description, p.BasePrice, p.IsActive, time.Now(), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM product_complement_groups WHERE product_id=$1`, p.ID)
	if err != nil {
		return fmt.Errorf("clear group links: %w", err)
	}
	if err := insertGroupLinks(ctx, tx, p.ID, p.ComplementGroupIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) DeleteProduct(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_complement_groups WHERE product_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ── Complement groups ────────────────────────────────────────────────────────

func (r *postgresRepo) CreateGroup(ctx context.Context, g *ComplementGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO complement_groups (id, store_id, name, required)
		VALUES ($1,$2,$3,$4)`,
		g.ID, g.StoreID, g.Name, g.Required)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}

	if err := insertOptions(ctx, tx, g.ID, g.Options); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetGroupByID(ctx context.Context, id string) (*ComplementGroup, error) {
	groups, err := r.GetGroupsByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, sql.ErrNoRows
	}
	return groups[0], nil
}

func (r *postgresRepo) GetGroupsByIDs(ctx context.Context, ids []string) ([]*ComplementGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, name, required, created_at, updated_at
		FROM complement_groups WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return r.collectGroups(ctx, rows)
}

func (r *postgresRepo) ListGroups(ctx context.Context, storeID string) ([]*ComplementGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, name, required, created_at, updated_at
		FROM complement_groups WHERE store_id=$1 ORDER BY name ASC`, storeID)
	if err != nil {
		return nil, err
	}
	return r.collectGroups(ctx, rows)
}

func (r *postgresRepo) UpdateGroup(ctx context.Context, g *ComplementGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE complement_groups SET name=$1, required=$2, updated_at=$3 WHERE id=$4`,
		g.Name, g.Required, time.Now(), g.ID)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}

	// Full replace keeps option ordering an insert-time concern.
	if _, err := tx.ExecContext(ctx, `DELETE FROM complement_options WHERE group_id=$1`, g.ID); err != nil {
		return fmt.Errorf("clear options: %w", err)
	}
	if err := insertOptions(ctx, tx, g.ID, g.Options); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) DeleteGroup(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM complement_options WHERE group_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_complement_groups WHERE group_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM complement_groups WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) collectGroups(ctx context.Context, rows *sql.Rows) ([]*ComplementGroup, error) {
	defer rows.Close()

	var groups []*ComplementGroup
	for rows.Next() {
		g := &ComplementGroup{}
		if err := rows.Scan(&g.ID, &g.StoreID, &g.Name, &g.Required, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range groups {
		optRows, err := r.db.QueryContext(ctx, `
			SELECT id, group_id, name, additional_price, position
			FROM complement_options WHERE group_id=$1 ORDER BY position ASC`, g.ID)
		if err != nil {
			return nil, err
		}
		for optRows.Next() {
			o := &Option{}
			if err := optRows.Scan(&o.ID, &o.GroupID, &o.Name, &o.AdditionalPrice, &o.Position); err != nil {
				optRows.Close()
				return nil, err
			}
			g.Options = append(g.Options, o)
		}
		if err := optRows.Err(); err != nil {
			optRows.Close()
			return nil, err
		}
		optRows.Close()
	}
	return groups, nil
}

func (r *postgresRepo) listGroupLinks(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT group_id FROM product_complement_groups WHERE product_id=$1 ORDER BY position ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertGroupLinks(ctx context.Context, tx *sql.Tx, productID uuid.UUID, groupIDs []uuid.UUID) error {
	for i, gid := range groupIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO product_complement_groups (product_id, group_id, position)
			VALUES ($1,$2,$3)`, productID, gid, i)
		if err != nil {
			return fmt.Errorf("insert group link: %w", err)
		}
	}
	return nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, groupID uuid.UUID, options []*Option) error {
	for i, o := range options {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		o.GroupID = groupID
		o.Position = i
		_, err := tx.ExecContext(ctx, `
			INSERT INTO complement_options (id, group_id, name, additional_price, position)
			VALUES ($1,$2,$3,$4,$5)`,
			o.ID, o.GroupID, o.Name, o.AdditionalPrice, o.Position)
		if err != nil {
			return fmt.Errorf("insert option: %w", err)
		}
	}
	return nil
}
