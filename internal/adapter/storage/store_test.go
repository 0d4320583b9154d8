package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/cims/internal/core/domain"
)

type repos struct {
	store      *Store
	users      *UserRepository
	logs       *ActivityLogRepository
	categories *CategoryRepository
	items      *ItemRepository
	orders     *OrderRepository
	orderItems *OrderItemRepository
}

func newTestRepos(t *testing.T) repos {
	t.Helper()

	store, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return repos{
		store:      store,
		users:      NewUserRepository(store),
		logs:       NewActivityLogRepository(store),
		categories: NewCategoryRepository(store),
		items:      NewItemRepository(store),
		orders:     NewOrderRepository(store),
		orderItems: NewOrderItemRepository(store),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// itemsIn lists the stored items that reference categoryID.
func itemsIn(t *testing.T, items *ItemRepository, categoryID string) []domain.Item {
	t.Helper()
	all, err := items.FindAll(context.Background())
	require.NoError(t, err)

	var in []domain.Item
	for _, item := range all {
		if item.CategoryID != nil && *item.CategoryID == categoryID {
			in = append(in, item)
		}
	}
	return in
}

func (r repos) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := r.categories.Save(context.Background(), domain.Category{Name: name, Capacity: ptr(100)})
	require.NoError(t, err)
	return c
}

func (r repos) item(t *testing.T, name string, categoryID *string) *domain.Item {
	t.Helper()
	i, err := r.items.Save(context.Background(), domain.Item{
		Name:       name,
		CategoryID: categoryID,
		Price:      money("9.99"),
		Stock:      50,
		Status:     domain.ItemStatusAvailable,
	})
	require.NoError(t, err)
	return i
}

func (r repos) order(t *testing.T, id string) *domain.Order {
	t.Helper()
	o, err := r.orders.Insert(context.Background(), domain.Order{
		ID:           id,
		CustomerName: "Alice",
		OrderDate:    domain.Date{Year: 2026, Month: time.March, Day: 14},
		TotalAmount:  money("100.00"),
		Status:       domain.OrderStatusPending,
	})
	require.NoError(t, err)
	return o
}

func (r repos) user(t *testing.T, username, email string) *domain.User {
	t.Helper()
	u, err := r.users.Save(context.Background(), domain.User{
		Username:     username,
		PasswordHash: "hash",
		Name:         "Test User",
		Email:        email,
		Role:         "USER",
	})
	require.NoError(t, err)
	return u
}

func TestMigrate_Idempotent(t *testing.T) {
	r := newTestRepos(t)

	require.NoError(t, r.store.Migrate(context.Background()))

	var applied int
	err := r.store.DB().QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}

func TestCategory_SaveFindUpdate(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	created := r.category(t, "Electronics")
	assert.NotEmpty(t, created.ID)

	found, err := r.categories.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", found.Name)
	require.NotNil(t, found.Capacity)
	assert.Equal(t, 100, *found.Capacity)

	found.Name = "Books"
	found.Capacity = nil
	_, err = r.categories.Save(ctx, *found)
	require.NoError(t, err)

	reloaded, err := r.categories.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", reloaded.Name)
	assert.Nil(t, reloaded.Capacity)

	all, err := r.categories.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindByID_NotFound(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	_, err := r.categories.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.items.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.orders.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.orderItems.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.logs.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteByID_NotFound(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	assert.ErrorIs(t, r.categories.DeleteByID(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, r.items.DeleteByID(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, r.orders.DeleteByID(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, r.orderItems.DeleteByID(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, r.users.DeleteByID(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, r.logs.DeleteByID(ctx, "missing"), domain.ErrNotFound)
}

func TestUniqueFields_Conflict(t *testing.T) {
	ctx := context.Background()

	t.Run("category name", func(t *testing.T) {
		r := newTestRepos(t)
		r.category(t, "Electronics")
		_, err := r.categories.Save(ctx, domain.Category{Name: "Electronics"})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("item sku", func(t *testing.T) {
		r := newTestRepos(t)
		item := domain.Item{Name: "A", Price: money("1"), Stock: 1, Status: "AVAILABLE", SKU: ptr("SKU-1")}
		_, err := r.items.Save(ctx, item)
		require.NoError(t, err)
		item.Name = "B"
		_, err = r.items.Save(ctx, item)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("items without sku", func(t *testing.T) {
		r := newTestRepos(t)
		r.item(t, "A", nil)
		r.item(t, "B", nil)
	})

	t.Run("username", func(t *testing.T) {
		r := newTestRepos(t)
		r.user(t, "alice", "alice@example.com")
		_, err := r.users.Save(ctx, domain.User{
			Username: "alice", PasswordHash: "x", Name: "Other", Email: "other@example.com", Role: "USER",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("email", func(t *testing.T) {
		r := newTestRepos(t)
		r.user(t, "alice", "alice@example.com")
		_, err := r.users.Save(ctx, domain.User{
			Username: "bob", PasswordHash: "x", Name: "Bob", Email: "alice@example.com", Role: "USER",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("order id", func(t *testing.T) {
		r := newTestRepos(t)
		r.order(t, "ORD123")
		_, err := r.orders.Insert(ctx, domain.Order{
			ID: "ORD123", CustomerName: "Mallory", OrderDate: domain.Today(),
			TotalAmount: money("1"), Status: "PENDING",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)

		kept, err := r.orders.FindByID(ctx, "ORD123")
		require.NoError(t, err)
		assert.Equal(t, "Alice", kept.CustomerName)
	})
}

func TestSave_MissingReference(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	_, err := r.items.Save(ctx, domain.Item{
		Name: "Orphan", CategoryID: ptr("missing"), Price: money("1"), Stock: 1, Status: "AVAILABLE",
	})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)

	item := r.item(t, "Widget", nil)
	_, err = r.orderItems.Save(ctx, domain.OrderItem{
		OrderID: "missing", ItemID: item.ID, Quantity: 1, PricePerUnit: money("1"),
	})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)

	r.order(t, "ORD1")
	_, err = r.orderItems.Save(ctx, domain.OrderItem{
		OrderID: "ORD1", ItemID: "missing", Quantity: 1, PricePerUnit: money("1"),
	})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)

	_, err = r.logs.Save(ctx, domain.ActivityLog{
		Timestamp: time.Now(), UserID: "missing", Action: "LOGIN", Category: "AUTH",
	})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)
}

func TestSave_CheckConstraints(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	_, err := r.items.Save(ctx, domain.Item{Name: "Neg", Price: money("1"), Stock: -1, Status: "AVAILABLE"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	item := r.item(t, "Widget", nil)
	r.order(t, "ORD1")
	_, err = r.orderItems.Save(ctx, domain.OrderItem{
		OrderID: "ORD1", ItemID: item.ID, Quantity: 0, PricePerUnit: money("1"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestItem_RoundTripsAllFields(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	category := r.category(t, "Tools")
	lastUpdated := time.Date(2026, time.October, 15, 9, 30, 0, 123456000, time.UTC)
	saved, err := r.items.Save(ctx, domain.Item{
		Name:         "Drill",
		Description:  "Cordless drill",
		CategoryID:   &category.ID,
		Price:        money("129.999"),
		Stock:        7,
		Status:       "AVAILABLE",
		SKU:          ptr("DRL-01"),
		Dimensions:   "30x20x8",
		Weight:       "1.6kg",
		Manufacturer: "Acme",
		Location:     "A-3",
		DateAdded:    domain.Date{Year: 2026, Month: time.October, Day: 1},
		LastUpdated:  lastUpdated,
	})
	require.NoError(t, err)

	found, err := r.items.FindByID(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, "Drill", found.Name)
	assert.Equal(t, "Cordless drill", found.Description)
	require.NotNil(t, found.CategoryID)
	assert.Equal(t, category.ID, *found.CategoryID)
	assert.True(t, found.Price.Equal(money("130.00")), "price rounded to cents, got %s", found.Price)
	assert.Equal(t, 7, found.Stock)
	require.NotNil(t, found.SKU)
	assert.Equal(t, "DRL-01", *found.SKU)
	assert.Equal(t, "30x20x8", found.Dimensions)
	assert.Equal(t, "1.6kg", found.Weight)
	assert.Equal(t, "Acme", found.Manufacturer)
	assert.Equal(t, "A-3", found.Location)
	assert.Equal(t, domain.Date{Year: 2026, Month: time.October, Day: 1}, found.DateAdded)
	assert.True(t, found.LastUpdated.Equal(lastUpdated), "last updated %v", found.LastUpdated)
}

func TestFindAll_InsertionOrder(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.category(t, name)
	}

	all, err := r.categories.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "zeta", all[0].Name)
	assert.Equal(t, "alpha", all[1].Name)
	assert.Equal(t, "mid", all[2].Name)
}

func TestCategoryDelete_CascadesItems(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	electronics := r.category(t, "Electronics")
	other := r.category(t, "Garden")
	r.item(t, "Widget", &electronics.ID)
	r.item(t, "Gizmo", &electronics.ID)
	kept := r.item(t, "Rake", &other.ID)
	loose := r.item(t, "Loose", nil)

	require.NoError(t, r.categories.DeleteByID(ctx, electronics.ID))

	_, err := r.categories.FindByID(ctx, electronics.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, itemsIn(t, r.items, electronics.ID))

	all, err := r.items.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, kept.ID, all[0].ID)
	assert.Equal(t, loose.ID, all[1].ID)
}

func TestCategoryDelete_BlockedByOrderedItems(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	category := r.category(t, "Electronics")
	ordered := r.item(t, "Widget", &category.ID)
	r.item(t, "Gizmo", &category.ID)
	r.order(t, "ORD1")
	_, err := r.orderItems.Save(ctx, domain.OrderItem{
		OrderID: "ORD1", ItemID: ordered.ID, Quantity: 1, PricePerUnit: money("9.99"),
	})
	require.NoError(t, err)

	err = r.categories.DeleteByID(ctx, category.ID)
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)

	// Nothing was removed.
	assert.Len(t, itemsIn(t, r.items, category.ID), 2)
	_, err = r.categories.FindByID(ctx, category.ID)
	assert.NoError(t, err)
}

func TestItemDelete_BlockedByOrderItems(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	item := r.item(t, "Widget", nil)
	r.order(t, "ORD1")
	line, err := r.orderItems.Save(ctx, domain.OrderItem{
		OrderID: "ORD1", ItemID: item.ID, Quantity: 2, PricePerUnit: money("50.00"),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, r.items.DeleteByID(ctx, item.ID), domain.ErrReferentialIntegrity)

	require.NoError(t, r.orderItems.DeleteByID(ctx, line.ID))
	require.NoError(t, r.items.DeleteByID(ctx, item.ID))
}

func TestOrderDelete_CascadesOrderItems(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	item := r.item(t, "Widget", nil)
	r.order(t, "ORD123")
	r.order(t, "ORD456")
	for _, orderID := range []string{"ORD123", "ORD123", "ORD456"} {
		_, err := r.orderItems.Save(ctx, domain.OrderItem{
			OrderID: orderID, ItemID: item.ID, Quantity: 2, PricePerUnit: money("50.00"),
		})
		require.NoError(t, err)
	}

	require.NoError(t, r.orders.DeleteByID(ctx, "ORD123"))

	all, err := r.orderItems.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ORD456", all[0].OrderID)

	// The referenced item is not owned by the order.
	_, err = r.items.FindByID(ctx, item.ID)
	assert.NoError(t, err)
}

func TestUserDelete_CascadesActivityLogs(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := r.user(t, "alice", "alice@example.com")
	bob := r.user(t, "bob", "bob@example.com")
	for _, userID := range []string{alice.ID, alice.ID, bob.ID} {
		_, err := r.logs.Save(ctx, domain.ActivityLog{
			Timestamp: time.Now(), UserID: userID, Action: "LOGIN", Category: "AUTH",
		})
		require.NoError(t, err)
	}

	require.NoError(t, r.users.DeleteByID(ctx, alice.ID))

	all, err := r.logs.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, bob.ID, all[0].UserID)

	left, err := r.logs.FindByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestOrder_SaveUpdatesAndInsertsUnknownID(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	order := r.order(t, "ORD1")
	order.Status = "SHIPPED"
	order.TotalAmount = money("12.5")
	_, err := r.orders.Save(ctx, *order)
	require.NoError(t, err)

	found, err := r.orders.FindByID(ctx, "ORD1")
	require.NoError(t, err)
	assert.Equal(t, "SHIPPED", found.Status)
	assert.True(t, found.TotalAmount.Equal(money("12.50")))
	assert.Equal(t, domain.Date{Year: 2026, Month: time.March, Day: 14}, found.OrderDate)

	_, err = r.orders.Save(ctx, domain.Order{
		ID: "ORD2", CustomerName: "Bob", OrderDate: domain.Today(), TotalAmount: money("1"), Status: "PENDING",
	})
	require.NoError(t, err)

	all, err := r.orders.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrder_RequiresID(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.orders.Insert(context.Background(), domain.Order{CustomerName: "Alice"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestActivityLog_TimestampRoundTrip(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	user := r.user(t, "alice", "alice@example.com")
	at := time.Date(2026, time.January, 2, 3, 4, 5, 6000, time.UTC)
	saved, err := r.logs.Save(ctx, domain.ActivityLog{
		Timestamp: at, UserID: user.ID, Action: "STOCK_UPDATE", Details: "Widget +5", Category: "INVENTORY",
	})
	require.NoError(t, err)

	found, err := r.logs.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, found.Timestamp.Equal(at), "timestamp %v", found.Timestamp)
	assert.Equal(t, "Widget +5", found.Details)
	assert.Equal(t, "INVENTORY", found.Category)
}
