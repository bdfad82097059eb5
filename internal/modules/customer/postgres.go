package customer

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL customer repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, store_id, name, phone)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.StoreID, c.Name, c.Phone)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	c := &Customer{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, phone, created_at, updated_at
		FROM customers WHERE id=$1`, uid).
		Scan(&c.ID, &c.StoreID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) GetByPhone(ctx context.Context, storeID, phone string) (*Customer, error) {
	c := &Customer{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, phone, created_at, updated_at
		FROM customers WHERE store_id=$1 AND phone=$2`, storeID, phone).
		Scan(&c.ID, &c.StoreID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Search(ctx context.Context, storeID, query string, page, pageSize int) ([]*Customer, int, error) {
	pattern := "%" + query + "%"

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM customers
		WHERE store_id=$1 AND (name ILIKE $2 OR phone LIKE $2)`,
		storeID, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, name, phone, created_at, updated_at
		FROM customers
		WHERE store_id=$1 AND (name ILIKE $2 OR phone LIKE $2)
		ORDER BY name ASC
		LIMIT $3 OFFSET $4`,
		storeID, pattern, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []*Customer
	for rows.Next() {
		c := &Customer{}
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name=$1, phone=$2, updated_at=$3 WHERE id=$4`,
		c.Name, c.Phone, time.Now(), c.ID)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, id)
	return err
}

func (r *postgresRepo) CreateAddress(ctx context.Context, a *Address) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO addresses
		  (id, customer_id, street, number, complement, neighborhood, city, state, cep, principal)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.CustomerID, a.Street, a.Number, a.Complement, a.Neighborhood,
		a.City, a.State, a.CEP, a.Principal)
	return err
}

func (r *postgresRepo) ListAddresses(ctx context.Context, customerID string) ([]*Address, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, street, number, complement, neighborhood, city, state, cep, principal, created_at, updated_at
		FROM addresses WHERE customer_id=$1
		ORDER BY principal DESC, created_at ASC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*Address
	for rows.Next() {
		a := &Address{}
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Street, &a.Number, &a.Complement,
			&a.Neighborhood, &a.City, &a.State, &a.CEP, &a.Principal, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *postgresRepo) GetAddress(ctx context.Context, id string) (*Address, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	a := &Address{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, street, number, complement, neighborhood, city, state, cep, principal, created_at, updated_at
		FROM addresses WHERE id=$1`, uid).
		Scan(&a.ID, &a.CustomerID, &a.Street, &a.Number, &a.Complement,
			&a.Neighborhood, &a.City, &a.State, &a.CEP, &a.Principal, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *postgresRepo) CountAddresses(ctx context.Context, customerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM addresses WHERE customer_id=$1`, customerID).Scan(&n)
	return n, err
}
