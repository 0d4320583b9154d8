package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rl1809/cims/internal/core/domain"
)

type OrderItemRepository struct {
	store *Store
}

func NewOrderItemRepository(store *Store) *OrderItemRepository {
	return &OrderItemRepository{store: store}
}

const orderItemColumns = `id, order_id, item_id, quantity, price_per_unit`

func (r *OrderItemRepository) FindAll(ctx context.Context) ([]domain.OrderItem, error) {
	return r.query(ctx, `SELECT `+orderItemColumns+` FROM order_items ORDER BY `+r.store.dialect.InsertionOrder)
}

func (r *OrderItemRepository) FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	return r.query(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE order_id = ? ORDER BY `+
		r.store.dialect.InsertionOrder, orderID)
}

func (r *OrderItemRepository) FindByID(ctx context.Context, id string) (*domain.OrderItem, error) {
	oi, err := scanOrderItem(r.store.db.QueryRowContext(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order item %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &oi, nil
}

func (r *OrderItemRepository) Save(ctx context.Context, oi domain.OrderItem) (*domain.OrderItem, error) {
	oi.PricePerUnit = domain.Money(oi.PricePerUnit)

	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "orders", oi.OrderID); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, "items", oi.ItemID); err != nil {
			return err
		}

		found := false
		if oi.ID == "" {
			oi.ID = uuid.NewString()
		} else {
			var err error
			if found, err = rowExists(ctx, tx, "order_items", oi.ID); err != nil {
				return err
			}
		}

		var err error
		if found {
			_, err = tx.ExecContext(ctx, `
				UPDATE order_items SET order_id = ?, item_id = ?, quantity = ?, price_per_unit = ?
				WHERE id = ?`,
				oi.OrderID, oi.ItemID, oi.Quantity, oi.PricePerUnit, oi.ID)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (id, order_id, item_id, quantity, price_per_unit)
				VALUES (?, ?, ?, ?, ?)`,
				oi.ID, oi.OrderID, oi.ItemID, oi.Quantity, oi.PricePerUnit)
		}
		if err != nil {
			return r.store.wrap("save order item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &oi, nil
}

func (r *OrderItemRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		return r.store.deleteRow(ctx, tx, "order_items", id)
	})
}

func (r *OrderItemRepository) query(ctx context.Context, query string, args ...any) ([]domain.OrderItem, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		oi, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, oi)
	}
	return items, rows.Err()
}

func scanOrderItem(row rowScanner) (domain.OrderItem, error) {
	var oi domain.OrderItem
	if err := row.Scan(&oi.ID, &oi.OrderID, &oi.ItemID, &oi.Quantity, &oi.PricePerUnit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return oi, err
		}
		return oi, fmt.Errorf("scan order item: %w", err)
	}
	return oi, nil
}
