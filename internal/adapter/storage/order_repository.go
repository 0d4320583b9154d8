package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rl1809/cims/internal/core/domain"
)

type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

const orderColumns = `id, customer_name, order_date, total_amount, status, created_at`

func (r *OrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY `+r.store.dialect.InsertionOrder)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.store.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Insert stores a new order under its caller-supplied id. A reused id is a
// conflict; the existing order is never overwritten.
func (r *OrderRepository) Insert(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if strings.TrimSpace(o.ID) == "" {
		return nil, domain.NewValidationError("id: is required")
	}
	o.TotalAmount = domain.Money(o.TotalAmount)

	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		found, err := rowExists(ctx, tx, "orders", o.ID)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("order %q already exists: %w", o.ID, domain.ErrConflict)
		}
		return r.insert(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Save updates the order when the id exists and inserts it otherwise.
func (r *OrderRepository) Save(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if strings.TrimSpace(o.ID) == "" {
		return nil, domain.NewValidationError("id: is required")
	}
	o.TotalAmount = domain.Money(o.TotalAmount)

	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		found, err := rowExists(ctx, tx, "orders", o.ID)
		if err != nil {
			return err
		}
		if !found {
			return r.insert(ctx, tx, o)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE orders SET customer_name = ?, order_date = ?, total_amount = ?, status = ?, created_at = ?
			WHERE id = ?`,
			o.CustomerName, o.OrderDate, o.TotalAmount, o.Status, nullTimestamp(o.CreatedAt), o.ID)
		if err != nil {
			return r.store.wrap("update order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// DeleteByID deletes the order and its order items in one transaction.
func (r *OrderRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireExisting(ctx, tx, "orders", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
			return r.store.wrap("delete order items", err)
		}
		return r.store.deleteRow(ctx, tx, "orders", id)
	})
}

func (r *OrderRepository) insert(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, order_date, total_amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.CustomerName, o.OrderDate, o.TotalAmount, o.Status, nullTimestamp(o.CreatedAt))
	if err != nil {
		return r.store.wrap("insert order", err)
	}
	return nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o         domain.Order
		createdAt timestampColumn
	)
	err := row.Scan(&o.ID, &o.CustomerName, &o.OrderDate, &o.TotalAmount, &o.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, err
		}
		return o, fmt.Errorf("scan order: %w", err)
	}
	o.CreatedAt = createdAt.Time
	return o, nil
}
