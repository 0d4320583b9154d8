// Command scenario replays the category, order and partial-update scenarios
// against a fresh in-memory SQLite store and reports PASS/FAIL for each.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/cims/internal/adapter/handler"
	"github.com/rl1809/cims/internal/adapter/storage"
	"github.com/rl1809/cims/internal/app"
	"github.com/rl1809/cims/internal/core/domain"
	"github.com/rl1809/cims/internal/core/dto"
	"github.com/rl1809/cims/internal/port"
)

type scenario struct {
	name string
	run  func(ctx context.Context, svc handler.Services) error
}

func main() {
	ctx := context.Background()

	scenarios := []scenario{
		{"category delete cascades to items", categoryCascade},
		{"order delete cascades to order items", orderCascade},
		{"partial category update keeps capacity", partialCategoryUpdate},
		{"reused order id is rejected", duplicateOrder},
	}

	failed := 0
	start := time.Now()

	fmt.Println("========== SCENARIO RESULTS ==========")
	for _, sc := range scenarios {
		store, err := storage.OpenSQLite(ctx, ":memory:")
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}

		err = sc.run(ctx, app.NewServices(store, port.NopPublisher{}))
		store.Close()

		if err != nil {
			failed++
			fmt.Printf("FAIL: %s: %v\n", sc.name, err)
			continue
		}
		fmt.Printf("PASS: %s\n", sc.name)
	}
	fmt.Printf("Duration:         %v\n", time.Since(start))
	fmt.Println("=======================================")

	if failed > 0 {
		os.Exit(1)
	}
}

func categoryCascade(ctx context.Context, svc handler.Services) error {
	category, err := svc.Categories.Create(ctx, dto.Category{Name: ptr("Electronics"), Capacity: ptr(100)})
	if err != nil {
		return err
	}

	price := decimal.RequireFromString("9.99")
	if _, err := svc.Items.Create(ctx, dto.Item{
		Name:       ptr("Widget"),
		CategoryID: &category.ID,
		Price:      &price,
		Stock:      ptr(50),
	}); err != nil {
		return err
	}

	if err := svc.Categories.Delete(ctx, category.ID); err != nil {
		return err
	}

	items, err := svc.Items.List(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if *item.Name == "Widget" {
			return fmt.Errorf("item %s survived its category", item.ID)
		}
	}
	return nil
}

func orderCascade(ctx context.Context, svc handler.Services) error {
	price := decimal.RequireFromString("50.00")
	item, err := svc.Items.Create(ctx, dto.Item{Name: ptr("Gadget"), Price: &price, Stock: ptr(10)})
	if err != nil {
		return err
	}

	total := decimal.RequireFromString("100.00")
	if _, err := svc.Orders.Create(ctx, dto.Order{ID: "ORD123", CustomerName: ptr("Alice"), TotalAmount: &total}); err != nil {
		return err
	}

	line, err := svc.OrderItems.Create(ctx, dto.OrderItem{
		OrderID:      ptr("ORD123"),
		ItemID:       &item.ID,
		Quantity:     ptr(2),
		PricePerUnit: &price,
	})
	if err != nil {
		return err
	}

	if err := svc.Orders.Delete(ctx, "ORD123"); err != nil {
		return err
	}

	lines, err := svc.OrderItems.List(ctx)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if l.ID == line.ID {
			return fmt.Errorf("order item %s survived its order", l.ID)
		}
	}
	return nil
}

func partialCategoryUpdate(ctx context.Context, svc handler.Services) error {
	category, err := svc.Categories.Create(ctx, dto.Category{Name: ptr("Stationery"), Capacity: ptr(40)})
	if err != nil {
		return err
	}

	updated, err := svc.Categories.Update(ctx, category.ID, dto.Category{Name: ptr("Books")})
	if err != nil {
		return err
	}
	if *updated.Name != "Books" {
		return fmt.Errorf("expected name Books, got %s", *updated.Name)
	}
	if updated.Capacity == nil || *updated.Capacity != 40 {
		return fmt.Errorf("expected capacity 40 to survive, got %v", updated.Capacity)
	}
	return nil
}

func duplicateOrder(ctx context.Context, svc handler.Services) error {
	total := decimal.RequireFromString("10.00")
	order := dto.Order{ID: "ORD-DUP", CustomerName: ptr("Bob"), TotalAmount: &total}

	if _, err := svc.Orders.Create(ctx, order); err != nil {
		return err
	}
	_, err := svc.Orders.Create(ctx, order)
	if !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("expected conflict, got %v", err)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
