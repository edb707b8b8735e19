package repository

import (
	"context"
	"fmt"

	"catalog-api/internal/database"
)

// Repositories groups the repositories bound to one Querier
type Repositories struct {
	Categories CategoryRepository
	Items      ItemRepository
}

// TxManager runs a unit of work inside a single transaction
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// Store hands out repositories over the pool or over a transaction
type Store struct {
	db    *database.DB
	clock Clock
}

var _ TxManager = (*Store)(nil)

type Option func(*Store)

// WithClock overrides the updated_at clock
func WithClock(clock Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

func NewStore(db *database.DB, opts ...Option) *Store {
	s := &Store{db: db, clock: DefaultClock}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) bind(q Querier) Repositories {
	c := conn{q: q, dialect: s.db.Dialect, now: s.clock}
	categories := &categoryRepository{conn: c}
	return Repositories{
		Categories: categories,
		Items:      &itemRepository{conn: c, categories: categories},
	}
}

// Repositories returns repositories that run each statement on the pool
func (s *Store) Repositories() Repositories {
	return s.bind(s.db.DB)
}

// WithinTx begins a transaction, runs fn with repositories bound to it and
// commits when fn returns nil. Any error rolls the transaction back.
func (s *Store) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(s.bind(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
