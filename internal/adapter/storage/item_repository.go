package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rl1809/cims/internal/core/domain"
)

type ItemRepository struct {
	store *Store
}

func NewItemRepository(store *Store) *ItemRepository {
	return &ItemRepository{store: store}
}

const itemColumns = `id, name, description, category_id, price, stock, status, sku,
	dimensions, weight, manufacturer, location, date_added, last_updated`

func (r *ItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	return r.query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY `+r.store.dialect.InsertionOrder)
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	item, err := scanItem(r.store.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) Save(ctx context.Context, item domain.Item) (*domain.Item, error) {
	item.Price = domain.Money(item.Price)

	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		if item.CategoryID != nil {
			if err := requireRow(ctx, tx, "categories", *item.CategoryID); err != nil {
				return err
			}
		}

		found := false
		if item.ID == "" {
			item.ID = uuid.NewString()
		} else {
			var err error
			if found, err = rowExists(ctx, tx, "items", item.ID); err != nil {
				return err
			}
		}

		args := []any{
			item.Name, nullString(item.Description), nullStringPtr(item.CategoryID),
			item.Price, item.Stock, item.Status, nullStringPtr(item.SKU),
			nullString(item.Dimensions), nullString(item.Weight), nullString(item.Manufacturer),
			nullString(item.Location), item.DateAdded, nullTimestamp(item.LastUpdated),
			item.ID,
		}

		var err error
		if found {
			_, err = tx.ExecContext(ctx, `
				UPDATE items SET name = ?, description = ?, category_id = ?, price = ?, stock = ?,
					status = ?, sku = ?, dimensions = ?, weight = ?, manufacturer = ?, location = ?,
					date_added = ?, last_updated = ?
				WHERE id = ?`, args...)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO items (name, description, category_id, price, stock, status, sku,
					dimensions, weight, manufacturer, location, date_added, last_updated, id)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		}
		if err != nil {
			return r.store.wrap("save item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteByID refuses to delete an item that order items still reference:
// order history keeps the captured price and quantity.
func (r *ItemRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireExisting(ctx, tx, "items", id); err != nil {
			return err
		}

		referenced, err := countRows(ctx, tx, `SELECT COUNT(*) FROM order_items WHERE item_id = ?`, id)
		if err != nil {
			return err
		}
		if referenced > 0 {
			return fmt.Errorf("item %q is referenced by %d order items: %w",
				id, referenced, domain.ErrReferentialIntegrity)
		}

		return r.store.deleteRow(ctx, tx, "items", id)
	})
}

func (r *ItemRepository) query(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row rowScanner) (domain.Item, error) {
	var (
		item                         domain.Item
		description, categoryID, sku sql.NullString
		dimensions, weight           sql.NullString
		manufacturer, location       sql.NullString
		lastUpdated                  timestampColumn
	)
	err := row.Scan(
		&item.ID, &item.Name, &description, &categoryID, &item.Price, &item.Stock, &item.Status, &sku,
		&dimensions, &weight, &manufacturer, &location, &item.DateAdded, &lastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, err
		}
		return item, fmt.Errorf("scan item: %w", err)
	}
	item.Description = description.String
	item.CategoryID = stringPtr(categoryID)
	item.SKU = stringPtr(sku)
	item.Dimensions = dimensions.String
	item.Weight = weight.String
	item.Manufacturer = manufacturer.String
	item.Location = location.String
	item.LastUpdated = lastUpdated.Time
	return item, nil
}
