package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rl1809/cims/internal/core/domain"
)

type CategoryRepository struct {
	store *Store
}

func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

const categoryColumns = `id, name, capacity`

func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY `+r.store.dialect.InsertionOrder)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	c, err := scanCategory(r.store.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Save(ctx context.Context, c domain.Category) (*domain.Category, error) {
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		found := false
		if c.ID == "" {
			c.ID = uuid.NewString()
		} else {
			var err error
			if found, err = rowExists(ctx, tx, "categories", c.ID); err != nil {
				return err
			}
		}

		var err error
		if found {
			_, err = tx.ExecContext(ctx,
				`UPDATE categories SET name = ?, capacity = ? WHERE id = ?`,
				c.Name, nullIntPtr(c.Capacity), c.ID)
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO categories (id, name, capacity) VALUES (?, ?, ?)`,
				c.ID, c.Name, nullIntPtr(c.Capacity))
		}
		if err != nil {
			return r.store.wrap("save category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteByID deletes the category and the items it owns in one transaction.
// Items already placed on orders block the whole delete.
func (r *CategoryRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireExisting(ctx, tx, "categories", id); err != nil {
			return err
		}

		referenced, err := countRows(ctx, tx, `
			SELECT COUNT(*) FROM order_items oi
			JOIN items i ON i.id = oi.item_id
			WHERE i.category_id = ?`, id)
		if err != nil {
			return err
		}
		if referenced > 0 {
			return fmt.Errorf("category %q has items referenced by %d order items: %w",
				id, referenced, domain.ErrReferentialIntegrity)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE category_id = ?`, id); err != nil {
			return r.store.wrap("delete category items", err)
		}
		return r.store.deleteRow(ctx, tx, "categories", id)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var (
		c        domain.Category
		capacity sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan category: %w", err)
	}
	c.Capacity = intPtr(capacity)
	return c, nil
}
