package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rl1809/cims/internal/core/domain"
	"github.com/rl1809/cims/internal/core/dto"
	"github.com/rl1809/cims/internal/port"
)

type OrderService struct {
	orders     port.OrderRepository
	orderItems port.OrderItemRepository
	notifier
}

func NewOrderService(orders port.OrderRepository, orderItems port.OrderItemRepository, events port.EventPublisher) *OrderService {
	return &OrderService{orders: orders, orderItems: orderItems, notifier: newNotifier(events)}
}

// List returns every order with its order items.
func (s *OrderService) List(ctx context.Context) ([]dto.Order, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	lines, err := s.orderItems.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	byOrder := make(map[string][]domain.OrderItem)
	for _, oi := range lines {
		byOrder[oi.OrderID] = append(byOrder[oi.OrderID], oi)
	}

	out := make([]dto.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.ToOrder(o, byOrder[o.ID]))
	}
	return out, nil
}

// Create stores an order under its caller-supplied id. Reusing an id fails
// with domain.ErrConflict.
func (s *OrderService) Create(ctx context.Context, in dto.Order) (dto.Order, error) {
	err := check(in,
		requiredString("id", &in.ID),
		requiredString("customerName", in.CustomerName),
		requiredValue("totalAmount", in.TotalAmount),
		validMoney("totalAmount", in.TotalAmount),
		suppliedNonBlank("status", in.Status),
	)
	if err != nil {
		return dto.Order{}, err
	}

	order := dto.OrderFromDTO(in)
	order.ID = strings.TrimSpace(order.ID)
	if order.OrderDate.IsZero() {
		order.OrderDate = domain.Today()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	order.CreatedAt = now()

	saved, err := s.orders.Insert(ctx, order)
	if err != nil {
		return dto.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.notify(ctx, entityOrder, saved.ID, port.ChangeCreated)
	return dto.ToOrder(*saved, nil), nil
}

// Update changes customer name, order date, total amount and status only.
func (s *OrderService) Update(ctx context.Context, id string, in dto.Order) (dto.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return dto.Order{}, fmt.Errorf("update order: %w", err)
	}
	err = check(in,
		suppliedNonBlank("customerName", in.CustomerName),
		suppliedNonBlank("status", in.Status),
		validMoney("totalAmount", in.TotalAmount),
	)
	if err != nil {
		return dto.Order{}, err
	}

	dto.ApplyOrderUpdate(order, in)

	saved, err := s.orders.Save(ctx, *order)
	if err != nil {
		return dto.Order{}, fmt.Errorf("update order: %w", err)
	}
	lines, err := s.orderItems.FindByOrderID(ctx, saved.ID)
	if err != nil {
		return dto.Order{}, fmt.Errorf("update order: %w", err)
	}

	s.notify(ctx, entityOrder, saved.ID, port.ChangeUpdated)
	return dto.ToOrder(*saved, lines), nil
}

// Delete removes the order and its order items.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.notify(ctx, entityOrder, id, port.ChangeDeleted)
	return nil
}
