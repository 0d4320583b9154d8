package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const ItemStatusAvailable = "AVAILABLE"

type Item struct {
	ID           string
	Name         string
	Description  string
	CategoryID   *string // optional; weak reference to Category
	Price        decimal.Decimal
	Stock        int
	Status       string
	SKU          *string // unique when set
	Dimensions   string
	Weight       string
	Manufacturer string
	Location     string
	DateAdded    Date
	LastUpdated  time.Time
}
