// Package dto holds the external representations of the domain entities and
// the hand-written projections between the two.
//
// Nil fields mean "not supplied". Projecting a DTO onto a domain record never
// overwrites a stored value with a nil field, and the update projections only
// touch each entity's allow-listed fields.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/cims/internal/core/domain"
)

// Money is written as a JSON number. Both numbers and quoted strings are
// accepted on input.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID           string        `json:"id,omitempty"`
	Username     *string       `json:"username,omitempty" validate:"omitempty,min=1,max=50"`
	Name         *string       `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email        *string       `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Role         *string       `json:"role,omitempty" validate:"omitempty,min=1,max=50"`
	Avatar       *string       `json:"avatar,omitempty" validate:"omitempty,max=255"`
	CreatedAt    *time.Time    `json:"createdAt,omitempty"`
	ActivityLogs []ActivityLog `json:"activityLogs"`
}

type ActivityLog struct {
	ID        string     `json:"id,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	UserID    *string    `json:"userId,omitempty"`
	Action    *string    `json:"action,omitempty" validate:"omitempty,min=1,max=100"`
	Details   *string    `json:"details,omitempty"`
	Category  *string    `json:"category,omitempty" validate:"omitempty,min=1,max=255"`
}

// Category deliberately has no items field.
type Category struct {
	ID       string  `json:"id,omitempty"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,gte=0"`
}

type Item struct {
	ID           string           `json:"id,omitempty"`
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string          `json:"description,omitempty"`
	CategoryID   *string          `json:"categoryId,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Stock        *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Status       *string          `json:"status,omitempty" validate:"omitempty,min=1,max=255"`
	SKU          *string          `json:"sku,omitempty" validate:"omitempty,max=100"`
	Dimensions   *string          `json:"dimensions,omitempty" validate:"omitempty,max=255"`
	Weight       *string          `json:"weight,omitempty" validate:"omitempty,max=255"`
	Manufacturer *string          `json:"manufacturer,omitempty" validate:"omitempty,max=255"`
	Location     *string          `json:"location,omitempty" validate:"omitempty,max=255"`
	DateAdded    *domain.Date     `json:"dateAdded,omitempty"`
	LastUpdated  *time.Time       `json:"lastUpdated,omitempty"`
}

type Order struct {
	ID           string           `json:"id,omitempty" validate:"max=50"`
	CustomerName *string          `json:"customerName,omitempty" validate:"omitempty,min=1,max=255"`
	OrderDate    *domain.Date     `json:"orderDate,omitempty"`
	TotalAmount  *decimal.Decimal `json:"totalAmount,omitempty"`
	Status       *string          `json:"status,omitempty" validate:"omitempty,min=1,max=255"`
	CreatedAt    *time.Time       `json:"createdAt,omitempty"`
	OrderItems   []OrderItem      `json:"orderItems"`
}

type OrderItem struct {
	ID           string           `json:"id,omitempty"`
	OrderID      *string          `json:"orderId,omitempty"`
	ItemID       *string          `json:"itemId,omitempty"`
	Quantity     *int             `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	PricePerUnit *decimal.Decimal `json:"pricePerUnit,omitempty"`
}
