package dataset

import (
	"context"
	"fmt"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"go.uber.org/zap"
)

const DefaultBatchSize = 1000

// LoadStats summarizes a Load run
type LoadStats struct {
	Categories int
	Items      int
	Duration   time.Duration
}

// Loader inserts generated rows through the repositories, one transaction per batch
type Loader struct {
	store     repository.TxManager
	batchSize int
	logger    *zap.Logger
}

func NewLoader(store repository.TxManager, batchSize int, logger *zap.Logger) *Loader {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Loader{
		store:     store,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Load inserts the categories and then the items. Generated category positions
// are mapped to the ids the store assigns, so the target tables need not be empty
// as long as codes and SKUs do not collide.
func (l *Loader) Load(ctx context.Context, opts Options) (LoadStats, error) {
	if err := opts.Validate(); err != nil {
		return LoadStats{}, err
	}
	start := time.Now()

	ids, err := l.loadCategories(ctx, opts.Categories)
	if err != nil {
		return LoadStats{}, err
	}

	items, err := l.loadItems(ctx, opts, ids)
	if err != nil {
		return LoadStats{Categories: len(ids), Items: items}, err
	}

	stats := LoadStats{Categories: len(ids), Items: items, Duration: time.Since(start)}
	l.logger.Info("Dataset loaded",
		zap.Int("categories", stats.Categories),
		zap.Int("items", stats.Items),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (l *Loader) loadCategories(ctx context.Context, n int) ([]int64, error) {
	ids := make([]int64, 0, n)
	batch := make([]*domain.Category, 0, l.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := l.store.WithinTx(ctx, func(repos repository.Repositories) error {
			for _, c := range batch {
				if err := repos.Categories.Create(ctx, c); err != nil {
					return fmt.Errorf("category %s: %w", c.Code, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, c := range batch {
			ids = append(ids, c.ID)
		}
		l.logger.Debug("Category batch committed", zap.Int("loaded", len(ids)))
		batch = batch[:0]
		return nil
	}

	for c := range Categories(n) {
		batch = append(batch, &domain.Category{Code: c.Code, Name: c.Name})
		if len(batch) == l.batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (l *Loader) loadItems(ctx context.Context, opts Options, categoryIDs []int64) (int, error) {
	loaded := 0
	batch := make([]*domain.Item, 0, l.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := l.store.WithinTx(ctx, func(repos repository.Repositories) error {
			for _, it := range batch {
				if err := repos.Items.Create(ctx, it); err != nil {
					return fmt.Errorf("item %s: %w", it.SKU, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		loaded += len(batch)
		l.logger.Debug("Item batch committed", zap.Int("loaded", loaded))
		batch = batch[:0]
		return nil
	}

	for it := range Items(opts) {
		batch = append(batch, &domain.Item{
			SKU:        it.SKU,
			Name:       it.Name,
			Price:      it.Price,
			Stock:      it.Stock,
			CategoryID: categoryIDs[it.CategoryID-1],
		})
		if len(batch) == l.batchSize {
			if err := flush(); err != nil {
				return loaded, err
			}
		}
	}
	err := flush()
	return loaded, err
}
