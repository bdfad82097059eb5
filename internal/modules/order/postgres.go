package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `o.id, o.store_id, o.customer_id, o.delivery_type, o.delivery_date, o.delivery_time,
	o.address_id, o.subtotal, o.shipping_fee, o.discount, o.total,
	o.payment_status, o.fulfillment_status, o.note, o.created_by, o.created_at, o.updated_at,
	c.name, c.phone`

func (r *postgresRepo) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, store_id, customer_id, delivery_type, delivery_date, delivery_time, address_id,
		   subtotal, shipping_fee, discount, total, payment_status, fulfillment_status, note, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		o.ID, o.StoreID, o.CustomerID, o.DeliveryType,
		nullableString(o.DeliveryDate), nullableString(o.DeliveryTime), o.AddressID,
		o.Subtotal, o.ShippingFee, o.Discount, o.Total,
		o.PaymentStatus, o.FulfillmentStatus, o.Note, o.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	if err := insertTagLinks(ctx, tx, o.ID, o.TagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) Replace(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET
		  customer_id=$1, delivery_type=$2, delivery_date=$3, delivery_time=$4, address_id=$5,
		  subtotal=$6, shipping_fee=$7, discount=$8, total=$9,
		  payment_status=$10, fulfillment_status=$11, note=$12, updated_at=$13
		WHERE id=$14`,
		o.CustomerID, o.DeliveryType,
		nullableString(o.DeliveryDate), nullableString(o.DeliveryTime), o.AddressID,
		o.Subtotal, o.ShippingFee, o.Discount, o.Total,
		o.PaymentStatus, o.FulfillmentStatus, o.Note, time.Now(), o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_tag_links WHERE order_id=$1`, o.ID); err != nil {
		return fmt.Errorf("clear tag links: %w", err)
	}
	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	if err := insertTagLinks(ctx, tx, o.ID, o.TagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.id=$1`, uid)

	o, err := scanOrder(row.Scan)
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.listItems(ctx, o.ID); err != nil {
		return nil, err
	}
	if o.TagIDs, err = r.listTagLinks(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) List(ctx context.Context, storeID string, f Filters) ([]*Order, int, error) {
	where := `o.store_id=$1`
	args := []interface{}{storeID}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := next("%" + f.Search + "%")
		where += fmt.Sprintf(` AND (c.name ILIKE %s OR c.phone LIKE %s)`, p, p)
	}
	if f.PaymentStatus != "" {
		where += ` AND o.payment_status=` + next(f.PaymentStatus)
	}
	if f.FulfillmentStatus != "" {
		where += ` AND o.fulfillment_status=` + next(f.FulfillmentStatus)
	}
	if len(f.TagIDs) > 0 {
		where += ` AND EXISTS (SELECT 1 FROM order_tag_links l WHERE l.order_id=o.id AND l.tag_id = ANY(` +
			next(pq.Array(f.TagIDs)) + `))`
	}
	if f.DateFrom != "" {
		where += ` AND o.delivery_date >= ` + next(f.DateFrom)
	}
	if f.DateTo != "" {
		where += ` AND o.delivery_date <= ` + next(f.DateTo)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders o JOIN customers c ON c.id=o.customer_id WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + `
		FROM orders o JOIN customers c ON c.id=o.customer_id
		WHERE ` + where + `
		ORDER BY o.delivery_date DESC NULLS LAST, o.delivery_time ASC, o.created_at DESC
		LIMIT ` + next(f.PageSize) + ` OFFSET ` + next((f.Page-1)*f.PageSize)

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	for _, o := range orders {
		if o.TagIDs, err = r.listTagLinks(ctx, o.ID); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *postgresRepo) ListOpen(ctx context.Context, storeID string) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN customers c ON c.id=o.customer_id
		WHERE o.store_id=$1
		  AND (o.fulfillment_status <> $2 OR o.payment_status = $3)
		ORDER BY o.delivery_date ASC NULLS FIRST, o.delivery_time ASC`,
		storeID, FulfillmentDelivered, PaymentUnpaid)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, payment *PaymentStatus, fulfillment *FulfillmentStatus) error {
	query := `UPDATE orders SET updated_at=$1`
	args := []interface{}{time.Now()}
	if payment != nil {
		args = append(args, *payment)
		query += fmt.Sprintf(`, payment_status=$%d`, len(args))
	}
	if fulfillment != nil {
		args = append(args, *fulfillment)
		query += fmt.Sprintf(`, fulfillment_status=$%d`, len(args))
	}
	args = append(args, id)
	query += fmt.Sprintf(` WHERE id=$%d`, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *postgresRepo) ReplaceTags(ctx context.Context, orderID string, tagIDs []string) error {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_tag_links WHERE order_id=$1`, oid); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_tag_links (order_id, tag_id) VALUES ($1,$2)`, oid, tagID); err != nil {
			return fmt.Errorf("insert tag link: %w", err)
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_tag_links WHERE order_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var date, deliveryTime sql.NullString
	var addressID sql.NullString
	err := scan(
		&o.ID, &o.StoreID, &o.CustomerID, &o.DeliveryType, &date, &deliveryTime,
		&addressID, &o.Subtotal, &o.ShippingFee, &o.Discount, &o.Total,
		&o.PaymentStatus, &o.FulfillmentStatus, &o.Note, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
		&o.CustomerName, &o.CustomerPhone)
	if err != nil {
		return nil, err
	}
	o.DeliveryDate = date.String
	o.DeliveryTime = deliveryTime.String
	if addressID.Valid {
		uid, err := uuid.Parse(addressID.String)
		if err == nil {
			o.AddressID = &uid
		}
	}
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, line_total, options
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item := &Item{}
		var options []byte
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &options); err != nil {
			return nil, err
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &item.Options); err != nil {
				return nil, fmt.Errorf("decode item options: %w", err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) listTagLinks(ctx context.Context, orderID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id FROM order_tag_links WHERE order_id=$1`, orderID)
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

func insertItems(ctx context.Context, tx *sql.Tx, o *Order) error {
	for _, item := range o.Items {
		options, err := json.Marshal(item.Options)
		if err != nil {
			return fmt.Errorf("encode item options: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, product_name, quantity, unit_price, line_total, options)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			item.ID, o.ID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.LineTotal, options)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}
	return nil
}

func insertTagLinks(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_tag_links (order_id, tag_id) VALUES ($1,$2)`, orderID, tagID)
		if err != nil {
			return fmt.Errorf("insert tag link: %w", err)
		}
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
