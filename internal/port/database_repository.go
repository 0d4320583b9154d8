package port

import (
	"context"

	"github.com/rl1809/cims/internal/core/domain"
)

// Every gateway call runs in its own transaction. FindByID and DeleteByID
// wrap domain.ErrNotFound; Save wraps domain.ErrReferentialIntegrity when a
// referenced row is missing and domain.ErrConflict on a unique violation.

type UserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Save inserts when the id is empty or unknown, updates otherwise.
	Save(ctx context.Context, user domain.User) (*domain.User, error)
	// DeleteByID removes the user together with its activity logs.
	DeleteByID(ctx context.Context, id string) error
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	Save(ctx context.Context, category domain.Category) (*domain.Category, error)
	// DeleteByID removes the category together with its items. It fails with
	// ErrReferentialIntegrity when any of those items is on an order.
	DeleteByID(ctx context.Context, id string) error
}

type ItemRepository interface {
	FindAll(ctx context.Context) ([]domain.Item, error)
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	Save(ctx context.Context, item domain.Item) (*domain.Item, error)
	// DeleteByID fails with ErrReferentialIntegrity while order items
	// reference the item.
	DeleteByID(ctx context.Context, id string) error
}

type OrderRepository interface {
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// Insert never overwrites: a reused id fails with ErrConflict.
	Insert(ctx context.Context, order domain.Order) (*domain.Order, error)
	Save(ctx context.Context, order domain.Order) (*domain.Order, error)
	// DeleteByID removes the order together with its order items.
	DeleteByID(ctx context.Context, id string) error
}

type OrderItemRepository interface {
	FindAll(ctx context.Context) ([]domain.OrderItem, error)
	FindByID(ctx context.Context, id string) (*domain.OrderItem, error)
	FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	Save(ctx context.Context, orderItem domain.OrderItem) (*domain.OrderItem, error)
	DeleteByID(ctx context.Context, id string) error
}

type ActivityLogRepository interface {
	FindAll(ctx context.Context) ([]domain.ActivityLog, error)
	FindByID(ctx context.Context, id string) (*domain.ActivityLog, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.ActivityLog, error)
	Save(ctx context.Context, log domain.ActivityLog) (*domain.ActivityLog, error)
	DeleteByID(ctx context.Context, id string) error
}
