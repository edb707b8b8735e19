package service

import (
	"context"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/dto"
	"catalog-api/internal/repository"

	"go.uber.org/zap"
)

// ItemService defines the item use cases
type ItemService interface {
	List(ctx context.Context, categoryID *int64, page domain.PageRequest) (dto.Page[dto.ItemDTO], error)
	Get(ctx context.Context, id int64) (dto.ItemDTO, error)
	Create(ctx context.Context, req dto.ItemRequest) (dto.ItemDTO, error)
	Update(ctx context.Context, id int64, req dto.ItemRequest) (dto.ItemDTO, error)
	Delete(ctx context.Context, id int64) error
}

type itemService struct {
	store     Store
	validator *Validator
	opts      Options
	logger    *zap.Logger
}

// NewItemService creates a new instance of ItemService
func NewItemService(store Store, validator *Validator, opts Options, logger *zap.Logger) ItemService {
	return &itemService{
		store:     store,
		validator: validator,
		opts:      opts,
		logger:    logger,
	}
}

// List pages through all items, or through one category's items when categoryID is set.
// An unknown category yields an empty page.
func (s *itemService) List(ctx context.Context, categoryID *int64, page domain.PageRequest) (dto.Page[dto.ItemDTO], error) {
	repos := s.store.Repositories()

	var (
		items []*domain.Item
		total int64
		err   error
	)
	if categoryID == nil {
		items, total, err = repos.Items.ListPage(ctx, page)
	} else {
		items, total, err = listItemsByCategory(ctx, repos.Items, s.opts.JoinFetch, *categoryID, page)
	}
	if err != nil {
		return dto.Page[dto.ItemDTO]{}, err
	}
	return pageOf(dto.ItemsToDTO(items, s.logger), page, total), nil
}

func (s *itemService) Get(ctx context.Context, id int64) (dto.ItemDTO, error) {
	item, err := s.store.Repositories().Items.FindByID(ctx, id)
	if err != nil {
		return dto.ItemDTO{}, err
	}
	if item == nil {
		return dto.ItemDTO{}, notFound("item", id)
	}
	return dto.ItemToDTO(item, s.logger), nil
}

// requireCategory resolves the item's category inside the running transaction
func requireCategory(ctx context.Context, repos repository.Repositories, item *domain.Item) error {
	category, err := repos.Items.ResolveCategory(ctx, item)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("category %d: %w", item.CategoryID, domain.ErrInvalidReference)
	}
	return nil
}

func (s *itemService) Create(ctx context.Context, req dto.ItemRequest) (dto.ItemDTO, error) {
	item, err := s.validator.Item(req)
	if err != nil {
		return dto.ItemDTO{}, err
	}

	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := requireCategory(ctx, repos, item); err != nil {
			return err
		}
		return repos.Items.Create(ctx, item)
	})
	if err != nil {
		return dto.ItemDTO{}, err
	}

	s.logger.Debug("Item created", zap.Int64("item_id", item.ID), zap.String("sku", item.SKU))
	return dto.ItemToDTO(item, s.logger), nil
}

// Update replaces an existing item. A missing item wins over a missing category.
func (s *itemService) Update(ctx context.Context, id int64, req dto.ItemRequest) (dto.ItemDTO, error) {
	item, err := s.validator.Item(req)
	if err != nil {
		return dto.ItemDTO{}, err
	}
	item.ID = id

	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		exists, err := repos.Items.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("item", id)
		}
		if err := requireCategory(ctx, repos, item); err != nil {
			return err
		}

		ok, err := repos.Items.Update(ctx, item)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("item", id)
		}
		return nil
	})
	if err != nil {
		return dto.ItemDTO{}, err
	}
	return dto.ItemToDTO(item, s.logger), nil
}

func (s *itemService) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		ok, err := repos.Items.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("item", id)
		}
		return nil
	})
}
