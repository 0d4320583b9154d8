package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rl1809/cims/internal/core/domain"
)

type ActivityLogRepository struct {
	store *Store
}

func NewActivityLogRepository(store *Store) *ActivityLogRepository {
	return &ActivityLogRepository{store: store}
}

const activityLogColumns = `id, timestamp, user_id, action, details, category`

func (r *ActivityLogRepository) FindAll(ctx context.Context) ([]domain.ActivityLog, error) {
	return r.query(ctx, `SELECT `+activityLogColumns+` FROM activity_logs ORDER BY `+r.store.dialect.InsertionOrder)
}

func (r *ActivityLogRepository) FindByUserID(ctx context.Context, userID string) ([]domain.ActivityLog, error) {
	return r.query(ctx, `SELECT `+activityLogColumns+` FROM activity_logs WHERE user_id = ? ORDER BY `+
		r.store.dialect.InsertionOrder, userID)
}

func (r *ActivityLogRepository) FindByID(ctx context.Context, id string) (*domain.ActivityLog, error) {
	l, err := scanActivityLog(r.store.db.QueryRowContext(ctx,
		`SELECT `+activityLogColumns+` FROM activity_logs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity log %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ActivityLogRepository) Save(ctx context.Context, l domain.ActivityLog) (*domain.ActivityLog, error) {
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "users", l.UserID); err != nil {
			return err
		}

		found := false
		if l.ID == "" {
			l.ID = uuid.NewString()
		} else {
			var err error
			if found, err = rowExists(ctx, tx, "activity_logs", l.ID); err != nil {
				return err
			}
		}

		args := []any{nullTimestamp(l.Timestamp), l.UserID, l.Action, nullString(l.Details), l.Category, l.ID}

		var err error
		if found {
			_, err = tx.ExecContext(ctx, `
				UPDATE activity_logs SET timestamp = ?, user_id = ?, action = ?, details = ?, category = ?
				WHERE id = ?`, args...)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO activity_logs (timestamp, user_id, action, details, category, id)
				VALUES (?, ?, ?, ?, ?, ?)`, args...)
		}
		if err != nil {
			return r.store.wrap("save activity log", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ActivityLogRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		return r.store.deleteRow(ctx, tx, "activity_logs", id)
	})
}

func (r *ActivityLogRepository) query(ctx context.Context, query string, args ...any) ([]domain.ActivityLog, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.ActivityLog
	for rows.Next() {
		l, err := scanActivityLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanActivityLog(row rowScanner) (domain.ActivityLog, error) {
	var (
		l         domain.ActivityLog
		timestamp timestampColumn
		details   sql.NullString
	)
	if err := row.Scan(&l.ID, &timestamp, &l.UserID, &l.Action, &details, &l.Category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return l, err
		}
		return l, fmt.Errorf("scan activity log: %w", err)
	}
	l.Timestamp = timestamp.Time
	l.Details = details.String
	return l, nil
}
