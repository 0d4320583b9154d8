package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/cims/internal/core/domain"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestToUser_NeverProjectsPassword(t *testing.T) {
	u := domain.User{
		ID: "u1", Username: "alice", PasswordHash: "$2a$10$secret", Name: "Alice",
		Email: "alice@example.com", Role: "ADMIN",
	}

	out := ToUser(u, nil)
	b, err := json.Marshal(out)
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
	assert.Equal(t, "alice", *out.Username)
	assert.Nil(t, out.Avatar)
	assert.NotNil(t, out.ActivityLogs, "owned collection is an empty list, not null")
	assert.Contains(t, string(b), `"activityLogs":[]`)
}

func TestToOrder_KeepsItemOrder(t *testing.T) {
	o := domain.Order{ID: "ORD123", CustomerName: "Alice", TotalAmount: money("100"), Status: "PENDING"}
	lines := []domain.OrderItem{
		{ID: "c", OrderID: "ORD123", ItemID: "i3", Quantity: 1, PricePerUnit: money("1")},
		{ID: "a", OrderID: "ORD123", ItemID: "i1", Quantity: 2, PricePerUnit: money("2")},
		{ID: "b", OrderID: "ORD123", ItemID: "i2", Quantity: 3, PricePerUnit: money("3")},
	}

	out := ToOrder(o, lines)
	require.Len(t, out.OrderItems, 3)
	assert.Equal(t, "c", out.OrderItems[0].ID)
	assert.Equal(t, "a", out.OrderItems[1].ID)
	assert.Equal(t, "b", out.OrderItems[2].ID)
	assert.Equal(t, "ORD123", *out.OrderItems[0].OrderID)
	assert.Nil(t, out.OrderDate)
}

func TestItemRoundTrip(t *testing.T) {
	categoryID := "cat-1"
	sku := "SKU-9"
	item := domain.Item{
		ID:           "item-1",
		Name:         "Widget",
		Description:  "Blue",
		CategoryID:   &categoryID,
		Price:        money("9.99"),
		Stock:        50,
		Status:       "AVAILABLE",
		SKU:          &sku,
		Dimensions:   "1x1x1",
		Weight:       "10g",
		Manufacturer: "Acme",
		Location:     "B-2",
		DateAdded:    domain.Date{Year: 2026, Month: time.June, Day: 30},
		LastUpdated:  time.Date(2026, time.June, 30, 12, 0, 0, 0, time.UTC),
	}

	back := ItemFromDTO(ToItem(item))
	assert.True(t, item.Price.Equal(back.Price))
	back.Price = item.Price
	assert.Equal(t, item, back)

	// The projection copies optional references rather than aliasing them.
	*ToItem(item).CategoryID = "other"
	assert.Equal(t, "cat-1", categoryID)
}

func TestItemFromDTO_BlankOptionalReferencesAreAbsent(t *testing.T) {
	i := ItemFromDTO(Item{Name: ptr("Widget"), SKU: ptr(""), CategoryID: ptr("  ")})
	assert.Nil(t, i.SKU)
	assert.Nil(t, i.CategoryID)

	i = ItemFromDTO(Item{Name: ptr("Widget"), SKU: ptr("SKU-1"), CategoryID: ptr("cat-1")})
	require.NotNil(t, i.SKU)
	assert.Equal(t, "SKU-1", *i.SKU)
	require.NotNil(t, i.CategoryID)
	assert.Equal(t, "cat-1", *i.CategoryID)
}

func TestCategoryRoundTrip(t *testing.T) {
	c := domain.Category{ID: "cat-1", Name: "Tools", Capacity: ptr(40)}
	assert.Equal(t, c, CategoryFromDTO(ToCategory(c)))

	c = domain.Category{ID: "cat-2", Name: "Garden"}
	assert.Equal(t, c, CategoryFromDTO(ToCategory(c)))
}

func TestOrderRoundTrip(t *testing.T) {
	o := domain.Order{
		ID:           "ORD123",
		CustomerName: "Alice",
		OrderDate:    domain.Date{Year: 2026, Month: time.March, Day: 14},
		TotalAmount:  money("19.98"),
		Status:       "SHIPPED",
		CreatedAt:    time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC),
	}

	back := OrderFromDTO(ToOrder(o, nil))
	assert.True(t, o.TotalAmount.Equal(back.TotalAmount), "total %s", back.TotalAmount)
	back.TotalAmount = o.TotalAmount
	assert.Equal(t, o, back)
}

func TestOrderItemRoundTrip(t *testing.T) {
	oi := domain.OrderItem{ID: "l1", OrderID: "ORD1", ItemID: "item-1", Quantity: 3, PricePerUnit: money("9.99")}

	back := OrderItemFromDTO(ToOrderItem(oi))
	assert.True(t, oi.PricePerUnit.Equal(back.PricePerUnit))
	back.PricePerUnit = oi.PricePerUnit
	assert.Equal(t, oi, back)
}

func TestUserRoundTrip(t *testing.T) {
	u := domain.User{
		ID:        "u1",
		Username:  "alice",
		Name:      "Alice",
		Email:     "alice@example.com",
		Role:      "ADMIN",
		Avatar:    "alice.png",
		CreatedAt: time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC),
	}
	assert.Equal(t, u, UserFromDTO(ToUser(u, nil)))

	// The credential never leaves the domain record.
	u.PasswordHash = "$2a$10$secret"
	assert.Empty(t, UserFromDTO(ToUser(u, nil)).PasswordHash)
}

func TestActivityLogRoundTrip(t *testing.T) {
	l := domain.ActivityLog{
		ID:        "log-1",
		Timestamp: time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC),
		UserID:    "u1",
		Action:    "STOCK_UPDATE",
		Details:   "Widget +10",
		Category:  "INVENTORY",
	}
	assert.Equal(t, l, ActivityLogFromDTO(ToActivityLog(l)))

	orphan := domain.ActivityLog{ID: "log-2", Action: "LOGIN", Category: "AUTH"}
	assert.Equal(t, orphan, ActivityLogFromDTO(ToActivityLog(orphan)))
}

func TestCategoryFromDTO_SkipsNilFields(t *testing.T) {
	c := CategoryFromDTO(Category{ID: "c1", Name: ptr("Tools")})
	assert.Equal(t, "Tools", c.Name)
	assert.Nil(t, c.Capacity)
}

func TestApplyCategoryUpdate_PartialKeepsCapacity(t *testing.T) {
	c := domain.Category{ID: "c1", Name: "Stationery", Capacity: ptr(40)}

	ApplyCategoryUpdate(&c, Category{Name: ptr("Books")})

	assert.Equal(t, "Books", c.Name)
	require.NotNil(t, c.Capacity)
	assert.Equal(t, 40, *c.Capacity)
}

func TestApplyItemUpdate_AllowList(t *testing.T) {
	categoryID := "cat-1"
	item := domain.Item{
		ID: "item-1", Name: "Widget", Description: "old", CategoryID: &categoryID,
		Price: money("9.99"), Stock: 50, Status: "AVAILABLE", Location: "A-1",
	}

	ApplyItemUpdate(&item, Item{
		ID:          "hijack",
		Name:        ptr("Widget Pro"),
		Description: ptr("new"),
		Price:       ptr(money("12.345")),
		Stock:       ptr(0),
		Status:      ptr("DISCONTINUED"),
		CategoryID:  ptr("cat-2"),
		Location:    ptr("Z-9"),
	})

	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, "Widget Pro", item.Name)
	assert.Equal(t, "new", item.Description)
	assert.True(t, item.Price.Equal(money("12.35")), "price %s", item.Price)
	assert.Equal(t, 50, item.Stock)
	assert.Equal(t, "AVAILABLE", item.Status)
	assert.Equal(t, "cat-1", *item.CategoryID)
	assert.Equal(t, "A-1", item.Location)
}

func TestApplyOrderUpdate_AllowList(t *testing.T) {
	created := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	o := domain.Order{
		ID: "ORD123", CustomerName: "Alice", OrderDate: domain.Date{Year: 2026, Month: time.March, Day: 14},
		TotalAmount: money("100"), Status: "PENDING", CreatedAt: created,
	}

	later := time.Now()
	ApplyOrderUpdate(&o, Order{
		ID:        "ORD999",
		Status:    ptr("SHIPPED"),
		CreatedAt: &later,
	})

	assert.Equal(t, "ORD123", o.ID)
	assert.Equal(t, "SHIPPED", o.Status)
	assert.Equal(t, "Alice", o.CustomerName)
	assert.True(t, o.TotalAmount.Equal(money("100")))
	assert.Equal(t, created, o.CreatedAt)
}

func TestApplyOrderItemUpdate_KeepsReferences(t *testing.T) {
	oi := domain.OrderItem{ID: "l1", OrderID: "ORD1", ItemID: "i1", Quantity: 2, PricePerUnit: money("50")}

	ApplyOrderItemUpdate(&oi, OrderItem{
		OrderID:  ptr("ORD2"),
		ItemID:   ptr("i2"),
		Quantity: ptr(5),
	})

	assert.Equal(t, "ORD1", oi.OrderID)
	assert.Equal(t, "i1", oi.ItemID)
	assert.Equal(t, 5, oi.Quantity)
	assert.True(t, oi.PricePerUnit.Equal(money("50")))
}

func TestApplyUserUpdate_KeepsUsernameAndPassword(t *testing.T) {
	u := domain.User{ID: "u1", Username: "alice", PasswordHash: "hash", Name: "Alice", Email: "a@example.com", Role: "USER"}

	ApplyUserUpdate(&u, User{Username: ptr("mallory"), Role: ptr("ADMIN"), Avatar: ptr("a.png")})

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "ADMIN", u.Role)
	assert.Equal(t, "a.png", u.Avatar)
}

func TestOrderJSON_Shape(t *testing.T) {
	var in Order
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "ORD123",
		"customerName": "Alice",
		"orderDate": "2026-03-14",
		"totalAmount": "100.00"
	}`), &in))

	o := OrderFromDTO(in)
	assert.Equal(t, "ORD123", o.ID)
	assert.Equal(t, domain.Date{Year: 2026, Month: time.March, Day: 14}, o.OrderDate)
	assert.True(t, o.TotalAmount.Equal(money("100")))
	assert.Empty(t, o.Status)
}

func TestMoneyJSON_IsNumber(t *testing.T) {
	b, err := json.Marshal(ToOrderItem(domain.OrderItem{ID: "l1", Quantity: 2, PricePerUnit: money("9.99")}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"pricePerUnit":9.99`)

	var in Item
	require.NoError(t, json.Unmarshal([]byte(`{"price": 12.5}`), &in))
	require.NotNil(t, in.Price)
	assert.True(t, in.Price.Equal(money("12.5")))
}
