package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPending = "PENDING"

// Order ids are supplied by the caller and never generated.
type Order struct {
	ID           string
	CustomerName string
	OrderDate    Date
	TotalAmount  decimal.Decimal
	Status       string
	CreatedAt    time.Time
}

// OrderItem captures the unit price at order time; it is not recomputed
// from the referenced Item.
type OrderItem struct {
	ID           string
	OrderID      string
	ItemID       string
	Quantity     int
	PricePerUnit decimal.Decimal
}

// LineTotal returns quantity times unit price.
func (oi OrderItem) LineTotal() decimal.Decimal {
	return oi.PricePerUnit.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
