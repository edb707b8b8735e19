package service

import (
	"context"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/dto"
	"catalog-api/internal/repository"
)

// Store is the storage surface the services need
type Store interface {
	repository.TxManager
	Repositories() repository.Repositories
}

// Options carries the startup settings that shape service behaviour
type Options struct {
	// JoinFetch selects the single-query item listing when filtering by category
	JoinFetch bool
}

func listItemsByCategory(ctx context.Context, items repository.ItemRepository, joinFetch bool, categoryID int64, page domain.PageRequest) ([]*domain.Item, int64, error) {
	if joinFetch {
		return items.ListByCategoryPageJoinFetch(ctx, categoryID, page)
	}
	return items.ListByCategoryPage(ctx, categoryID, page)
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

func pageOf[T any](content []T, page domain.PageRequest, total int64) dto.Page[T] {
	return dto.BuildPage(content, page.Page, page.Size, total)
}
