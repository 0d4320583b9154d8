package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rl1809/cims/internal/core/domain"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

const userColumns = `id, username, password_hash, name, email, role, avatar, created_at`

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY `+r.store.dialect.InsertionOrder)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.store.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Save(ctx context.Context, u domain.User) (*domain.User, error) {
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		found := false
		if u.ID == "" {
			u.ID = uuid.NewString()
		} else {
			var err error
			if found, err = rowExists(ctx, tx, "users", u.ID); err != nil {
				return err
			}
		}

		args := []any{
			u.Username, u.PasswordHash, u.Name, u.Email, u.Role,
			nullString(u.Avatar), nullTimestamp(u.CreatedAt), u.ID,
		}

		var err error
		if found {
			_, err = tx.ExecContext(ctx, `
				UPDATE users SET username = ?, password_hash = ?, name = ?, email = ?, role = ?,
					avatar = ?, created_at = ?
				WHERE id = ?`, args...)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO users (username, password_hash, name, email, role, avatar, created_at, id)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		}
		if err != nil {
			return r.store.wrap("save user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteByID deletes the user and its activity logs in one transaction.
func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireExisting(ctx, tx, "users", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM activity_logs WHERE user_id = ?`, id); err != nil {
			return r.store.wrap("delete activity logs", err)
		}
		return r.store.deleteRow(ctx, tx, "users", id)
	})
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u         domain.User
		avatar    sql.NullString
		createdAt timestampColumn
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.Role, &avatar, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, err
		}
		return u, fmt.Errorf("scan user: %w", err)
	}
	u.Avatar = avatar.String
	u.CreatedAt = createdAt.Time
	return u, nil
}
