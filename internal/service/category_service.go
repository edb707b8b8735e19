package service

import (
	"context"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/dto"
	"catalog-api/internal/repository"

	"go.uber.org/zap"
)

// CategoryService defines the category use cases
type CategoryService interface {
	List(ctx context.Context, page domain.PageRequest) (dto.Page[dto.CategoryDTO], error)
	Get(ctx context.Context, id int64) (dto.CategoryDTO, error)
	Create(ctx context.Context, req dto.CategoryRequest) (dto.CategoryDTO, error)
	Update(ctx context.Context, id int64, req dto.CategoryRequest) (dto.CategoryDTO, error)
	Delete(ctx context.Context, id int64) error
	ListItems(ctx context.Context, id int64, page domain.PageRequest) (dto.Page[dto.ItemDTO], error)
}

type categoryService struct {
	store     Store
	validator *Validator
	opts      Options
	logger    *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(store Store, validator *Validator, opts Options, logger *zap.Logger) CategoryService {
	return &categoryService{
		store:     store,
		validator: validator,
		opts:      opts,
		logger:    logger,
	}
}

func (s *categoryService) List(ctx context.Context, page domain.PageRequest) (dto.Page[dto.CategoryDTO], error) {
	categories, total, err := s.store.Repositories().Categories.ListPage(ctx, page)
	if err != nil {
		return dto.Page[dto.CategoryDTO]{}, err
	}
	return pageOf(dto.CategoriesToDTO(categories), page, total), nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (dto.CategoryDTO, error) {
	category, err := s.store.Repositories().Categories.FindByID(ctx, id)
	if err != nil {
		return dto.CategoryDTO{}, err
	}
	if category == nil {
		return dto.CategoryDTO{}, notFound("category", id)
	}
	return dto.CategoryToDTO(category), nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (dto.CategoryDTO, error) {
	category, err := s.validator.Category(req)
	if err != nil {
		return dto.CategoryDTO{}, err
	}

	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		return repos.Categories.Create(ctx, category)
	})
	if err != nil {
		return dto.CategoryDTO{}, err
	}

	s.logger.Debug("Category created", zap.Int64("category_id", category.ID), zap.String("code", category.Code))
	return dto.CategoryToDTO(category), nil
}

// Update replaces code and name of an existing category
func (s *categoryService) Update(ctx context.Context, id int64, req dto.CategoryRequest) (dto.CategoryDTO, error) {
	category, err := s.validator.Category(req)
	if err != nil {
		return dto.CategoryDTO{}, err
	}
	category.ID = id

	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		ok, err := repos.Categories.Update(ctx, category)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("category", id)
		}
		return nil
	})
	if err != nil {
		return dto.CategoryDTO{}, err
	}
	return dto.CategoryToDTO(category), nil
}

// Delete removes the category together with its items
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		ok, err := repos.Categories.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("category", id)
		}
		s.logger.Debug("Category deleted", zap.Int64("category_id", id))
		return nil
	})
}

// ListItems pages through the items of an existing category
func (s *categoryService) ListItems(ctx context.Context, id int64, page domain.PageRequest) (dto.Page[dto.ItemDTO], error) {
	repos := s.store.Repositories()

	ok, err := repos.Categories.Exists(ctx, id)
	if err != nil {
		return dto.Page[dto.ItemDTO]{}, err
	}
	if !ok {
		return dto.Page[dto.ItemDTO]{}, notFound("category", id)
	}

	items, total, err := listItemsByCategory(ctx, repos.Items, s.opts.JoinFetch, id, page)
	if err != nil {
		return dto.Page[dto.ItemDTO]{}, fmt.Errorf("list items of category %d: %w", id, err)
	}
	return pageOf(dto.ItemsToDTO(items, s.logger), page, total), nil
}
