package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/cims/internal/core/domain"
)

// Forward projections: domain -> DTO.

// ToUser projects a user and the activity logs it owns, in the given order.
// The password credential is never projected.
func ToUser(u domain.User, logs []domain.ActivityLog) User {
	return User{
		ID:           u.ID,
		Username:     ptr(u.Username),
		Name:         ptr(u.Name),
		Email:        ptr(u.Email),
		Role:         ptr(u.Role),
		Avatar:       optString(u.Avatar),
		CreatedAt:    optTime(u.CreatedAt),
		ActivityLogs: ToActivityLogs(logs),
	}
}

func ToActivityLog(l domain.ActivityLog) ActivityLog {
	return ActivityLog{
		ID:        l.ID,
		Timestamp: optTime(l.Timestamp),
		UserID:    optString(l.UserID),
		Action:    ptr(l.Action),
		Details:   optString(l.Details),
		Category:  ptr(l.Category),
	}
}

func ToActivityLogs(logs []domain.ActivityLog) []ActivityLog {
	out := make([]ActivityLog, 0, len(logs))
	for _, l := range logs {
		out = append(out, ToActivityLog(l))
	}
	return out
}

func ToCategory(c domain.Category) Category {
	return Category{
		ID:       c.ID,
		Name:     ptr(c.Name),
		Capacity: copyPtr(c.Capacity),
	}
}

func ToItem(i domain.Item) Item {
	return Item{
		ID:           i.ID,
		Name:         ptr(i.Name),
		Description:  optString(i.Description),
		CategoryID:   copyPtr(i.CategoryID),
		Price:        ptr(i.Price),
		Stock:        ptr(i.Stock),
		Status:       ptr(i.Status),
		SKU:          copyPtr(i.SKU),
		Dimensions:   optString(i.Dimensions),
		Weight:       optString(i.Weight),
		Manufacturer: optString(i.Manufacturer),
		Location:     optString(i.Location),
		DateAdded:    optDate(i.DateAdded),
		LastUpdated:  optTime(i.LastUpdated),
	}
}

// ToOrder projects an order and the order items it owns, in the given order.
func ToOrder(o domain.Order, items []domain.OrderItem) Order {
	return Order{
		ID:           o.ID,
		CustomerName: ptr(o.CustomerName),
		OrderDate:    optDate(o.OrderDate),
		TotalAmount:  ptr(o.TotalAmount),
		Status:       ptr(o.Status),
		CreatedAt:    optTime(o.CreatedAt),
		OrderItems:   ToOrderItems(items),
	}
}

func ToOrderItem(oi domain.OrderItem) OrderItem {
	return OrderItem{
		ID:           oi.ID,
		OrderID:      ptr(oi.OrderID),
		ItemID:       ptr(oi.ItemID),
		Quantity:     ptr(oi.Quantity),
		PricePerUnit: ptr(oi.PricePerUnit),
	}
}

func ToOrderItems(items []domain.OrderItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, oi := range items {
		out = append(out, ToOrderItem(oi))
	}
	return out
}

// Reverse projections: DTO -> domain. Only supplied fields are set, and
// references stay plain ids for the gateway to resolve.

func UserFromDTO(d User) domain.User {
	u := domain.User{ID: d.ID}
	set(&u.Username, d.Username)
	set(&u.Name, d.Name)
	set(&u.Email, d.Email)
	set(&u.Role, d.Role)
	set(&u.Avatar, d.Avatar)
	set(&u.CreatedAt, d.CreatedAt)
	return u
}

func ActivityLogFromDTO(d ActivityLog) domain.ActivityLog {
	l := domain.ActivityLog{ID: d.ID}
	set(&l.Timestamp, d.Timestamp)
	set(&l.UserID, d.UserID)
	set(&l.Action, d.Action)
	set(&l.Details, d.Details)
	set(&l.Category, d.Category)
	return l
}

func CategoryFromDTO(d Category) domain.Category {
	c := domain.Category{ID: d.ID}
	set(&c.Name, d.Name)
	setPtr(&c.Capacity, d.Capacity)
	return c
}

func ItemFromDTO(d Item) domain.Item {
	i := domain.Item{ID: d.ID}
	set(&i.Name, d.Name)
	set(&i.Description, d.Description)
	setOptional(&i.CategoryID, d.CategoryID)
	setMoney(&i.Price, d.Price)
	set(&i.Stock, d.Stock)
	set(&i.Status, d.Status)
	setOptional(&i.SKU, d.SKU)
	set(&i.Dimensions, d.Dimensions)
	set(&i.Weight, d.Weight)
	set(&i.Manufacturer, d.Manufacturer)
	set(&i.Location, d.Location)
	set(&i.DateAdded, d.DateAdded)
	set(&i.LastUpdated, d.LastUpdated)
	return i
}

func OrderFromDTO(d Order) domain.Order {
	o := domain.Order{ID: d.ID}
	set(&o.CustomerName, d.CustomerName)
	set(&o.OrderDate, d.OrderDate)
	setMoney(&o.TotalAmount, d.TotalAmount)
	set(&o.Status, d.Status)
	set(&o.CreatedAt, d.CreatedAt)
	return o
}

func OrderItemFromDTO(d OrderItem) domain.OrderItem {
	oi := domain.OrderItem{ID: d.ID}
	set(&oi.OrderID, d.OrderID)
	set(&oi.ItemID, d.ItemID)
	set(&oi.Quantity, d.Quantity)
	setMoney(&oi.PricePerUnit, d.PricePerUnit)
	return oi
}

// Allow-list updates. Fields outside each list are left alone even when the
// DTO carries a value for them.

func ApplyUserUpdate(u *domain.User, d User) {
	set(&u.Name, d.Name)
	set(&u.Email, d.Email)
	set(&u.Role, d.Role)
	set(&u.Avatar, d.Avatar)
}

func ApplyCategoryUpdate(c *domain.Category, d Category) {
	set(&c.Name, d.Name)
	setPtr(&c.Capacity, d.Capacity)
}

func ApplyItemUpdate(i *domain.Item, d Item) {
	set(&i.Name, d.Name)
	set(&i.Description, d.Description)
	setMoney(&i.Price, d.Price)
}

func ApplyOrderUpdate(o *domain.Order, d Order) {
	set(&o.CustomerName, d.CustomerName)
	set(&o.OrderDate, d.OrderDate)
	setMoney(&o.TotalAmount, d.TotalAmount)
	set(&o.Status, d.Status)
}

func ApplyOrderItemUpdate(oi *domain.OrderItem, d OrderItem) {
	set(&oi.Quantity, d.Quantity)
	setMoney(&oi.PricePerUnit, d.PricePerUnit)
}

func ptr[T any](v T) *T {
	return &v
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = copyPtr(src)
	}
}

// setOptional treats a blank value like an absent one, so an empty SKU or
// category reference is stored as NULL rather than as "".
func setOptional(dst **string, src *string) {
	if src != nil && strings.TrimSpace(*src) != "" {
		*dst = copyPtr(src)
	}
}

func setMoney(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = domain.Money(*src)
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func optDate(d domain.Date) *domain.Date {
	if d.IsZero() {
		return nil
	}
	return &d
}
