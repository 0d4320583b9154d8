package service

import (
	"context"
	"fmt"

	"github.com/rl1809/cims/internal/core/domain"
	"github.com/rl1809/cims/internal/core/dto"
	"github.com/rl1809/cims/internal/port"
)

type ItemService struct {
	repo port.ItemRepository
	notifier
}

func NewItemService(repo port.ItemRepository, events port.EventPublisher) *ItemService {
	return &ItemService{repo: repo, notifier: newNotifier(events)}
}

func (s *ItemService) List(ctx context.Context) ([]dto.Item, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	out := make([]dto.Item, 0, len(items))
	for _, i := range items {
		out = append(out, dto.ToItem(i))
	}
	return out, nil
}

func (s *ItemService) Create(ctx context.Context, in dto.Item) (dto.Item, error) {
	err := check(in,
		requiredString("name", in.Name),
		requiredValue("price", in.Price),
		requiredValue("stock", in.Stock),
		validMoney("price", in.Price),
		suppliedNonBlank("status", in.Status),
	)
	if err != nil {
		return dto.Item{}, err
	}

	item := dto.ItemFromDTO(in)
	item.ID = ""
	if item.Status == "" {
		item.Status = domain.ItemStatusAvailable
	}
	if item.DateAdded.IsZero() {
		item.DateAdded = domain.Today()
	}
	item.LastUpdated = now()

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return dto.Item{}, fmt.Errorf("create item: %w", err)
	}

	s.notify(ctx, entityItem, saved.ID, port.ChangeCreated)
	return dto.ToItem(*saved), nil
}

// Update changes name, description and price only. Stock, status, category
// and the remaining attributes keep their stored values.
func (s *ItemService) Update(ctx context.Context, id string, in dto.Item) (dto.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.Item{}, fmt.Errorf("update item: %w", err)
	}
	err = check(in,
		suppliedNonBlank("name", in.Name),
		validMoney("price", in.Price),
	)
	if err != nil {
		return dto.Item{}, err
	}

	dto.ApplyItemUpdate(item, in)
	item.LastUpdated = now()

	saved, err := s.repo.Save(ctx, *item)
	if err != nil {
		return dto.Item{}, fmt.Errorf("update item: %w", err)
	}

	s.notify(ctx, entityItem, saved.ID, port.ChangeUpdated)
	return dto.ToItem(*saved), nil
}

// Delete fails with domain.ErrReferentialIntegrity while order items
// reference the item.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.notify(ctx, entityItem, id, port.ChangeDeleted)
	return nil
}
