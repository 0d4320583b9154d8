package service

import (
	"context"
	"fmt"

	"github.com/rl1809/cims/internal/core/dto"
	"github.com/rl1809/cims/internal/port"
)

type CategoryService struct {
	repo port.CategoryRepository
	notifier
}

func NewCategoryService(repo port.CategoryRepository, events port.EventPublisher) *CategoryService {
	return &CategoryService{repo: repo, notifier: newNotifier(events)}
}

func (s *CategoryService) List(ctx context.Context) ([]dto.Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]dto.Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.ToCategory(c))
	}
	return out, nil
}

func (s *CategoryService) Create(ctx context.Context, in dto.Category) (dto.Category, error) {
	if err := check(in, requiredString("name", in.Name)); err != nil {
		return dto.Category{}, err
	}

	category := dto.CategoryFromDTO(in)
	category.ID = ""

	saved, err := s.repo.Save(ctx, category)
	if err != nil {
		return dto.Category{}, fmt.Errorf("create category: %w", err)
	}

	s.notify(ctx, entityCategory, saved.ID, port.ChangeCreated)
	return dto.ToCategory(*saved), nil
}

// Update changes name and capacity only.
func (s *CategoryService) Update(ctx context.Context, id string, in dto.Category) (dto.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.Category{}, fmt.Errorf("update category: %w", err)
	}
	if err := check(in, suppliedNonBlank("name", in.Name)); err != nil {
		return dto.Category{}, err
	}

	dto.ApplyCategoryUpdate(category, in)

	saved, err := s.repo.Save(ctx, *category)
	if err != nil {
		return dto.Category{}, fmt.Errorf("update category: %w", err)
	}

	s.notify(ctx, entityCategory, saved.ID, port.ChangeUpdated)
	return dto.ToCategory(*saved), nil
}

// Delete removes the category and every item in it.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.notify(ctx, entityCategory, id, port.ChangeDeleted)
	return nil
}
