package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rl1809/cims/internal/core/domain"
	"github.com/rl1809/cims/internal/core/dto"
	"github.com/rl1809/cims/internal/port"
)

type OrderItemService struct {
	repo  port.OrderItemRepository
	items port.ItemRepository
	notifier
}

func NewOrderItemService(repo port.OrderItemRepository, items port.ItemRepository, events port.EventPublisher) *OrderItemService {
	return &OrderItemService{repo: repo, items: items, notifier: newNotifier(events)}
}

func (s *OrderItemService) List(ctx context.Context) ([]dto.OrderItem, error) {
	lines, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return dto.ToOrderItems(lines), nil
}

// Create adds a line to an existing order. Without an explicit price per
// unit, the item's current price is captured; later item price changes do
// not touch the line.
func (s *OrderItemService) Create(ctx context.Context, in dto.OrderItem) (dto.OrderItem, error) {
	err := check(in,
		requiredString("orderId", in.OrderID),
		requiredString("itemId", in.ItemID),
		requiredValue("quantity", in.Quantity),
		validMoney("pricePerUnit", in.PricePerUnit),
	)
	if err != nil {
		return dto.OrderItem{}, err
	}

	line := dto.OrderItemFromDTO(in)
	line.ID = ""
	if in.PricePerUnit == nil {
		item, err := s.items.FindByID(ctx, line.ItemID)
		if errors.Is(err, domain.ErrNotFound) {
			return dto.OrderItem{}, fmt.Errorf("create order item: item %q does not exist: %w",
				line.ItemID, domain.ErrReferentialIntegrity)
		}
		if err != nil {
			return dto.OrderItem{}, fmt.Errorf("create order item: capture price: %w", err)
		}
		line.PricePerUnit = item.Price
	}

	saved, err := s.repo.Save(ctx, line)
	if err != nil {
		return dto.OrderItem{}, fmt.Errorf("create order item: %w", err)
	}

	s.notify(ctx, entityOrderItem, saved.ID, port.ChangeCreated)
	return dto.ToOrderItem(*saved), nil
}

// Update changes quantity and price per unit only; the order and item
// references are fixed once the line exists.
func (s *OrderItemService) Update(ctx context.Context, id string, in dto.OrderItem) (dto.OrderItem, error) {
	line, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.OrderItem{}, fmt.Errorf("update order item: %w", err)
	}
	if err := check(in, validMoney("pricePerUnit", in.PricePerUnit)); err != nil {
		return dto.OrderItem{}, err
	}

	dto.ApplyOrderItemUpdate(line, in)

	saved, err := s.repo.Save(ctx, *line)
	if err != nil {
		return dto.OrderItem{}, fmt.Errorf("update order item: %w", err)
	}

	s.notify(ctx, entityOrderItem, saved.ID, port.ChangeUpdated)
	return dto.ToOrderItem(*saved), nil
}

func (s *OrderItemService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}

	s.notify(ctx, entityOrderItem, id, port.ChangeDeleted)
	return nil
}
