package dataset

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

const (
	DefaultCategories = 2000
	DefaultItems      = 100_000
	DefaultSeed       = 42

	SmallPayloadBytes = 1024
	LargePayloadBytes = 5 * 1024

	categoryJitter = 5
	maxStock       = 500
)

// Options drive a deterministic generation run
type Options struct {
	Seed       uint64
	Categories int
	Items      int
	SmallBytes int
	LargeBytes int
}

func DefaultOptions() Options {
	return Options{
		Seed:       DefaultSeed,
		Categories: DefaultCategories,
		Items:      DefaultItems,
		SmallBytes: SmallPayloadBytes,
		LargeBytes: LargePayloadBytes,
	}
}

func (o Options) Validate() error {
	if o.Categories < 1 {
		return errors.New("at least one category is required")
	}
	if o.Items < 0 {
		return fmt.Errorf("item count must not be negative, got %d", o.Items)
	}
	if o.SmallBytes < 0 || o.LargeBytes < 0 {
		return errors.New("payload sizes must not be negative")
	}
	return nil
}

// Category is a generated category row. ID is its 1-based position.
type Category struct {
	ID   int64
	Code string
	Name string
}

// Item is a generated item row. CategoryID refers to a generated Category.ID.
type Item struct {
	ID         int64
	SKU        string
	Name       string
	Price      decimal.Decimal
	Stock      int
	CategoryID int64
}

// Categories yields CAT0001 .. CATnnnn
func Categories(n int) iter.Seq[Category] {
	return func(yield func(Category) bool) {
		for i := 1; i <= n; i++ {
			c := Category{
				ID:   int64(i),
				Code: fmt.Sprintf("CAT%04d", i),
				Name: fmt.Sprintf("Category %04d", i),
			}
			if !yield(c) {
				return
			}
		}
	}
}

// Items yields SKU000001 .. SKUnnnnnn. Every call with the same options
// produces the same sequence, so callers can make several passes without
// holding the rows in memory.
func Items(o Options) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		rng := rand.New(rand.NewPCG(o.Seed+1, o.Seed+1))
		for i := 1; i <= o.Items; i++ {
			it := Item{
				ID:         int64(i),
				SKU:        fmt.Sprintf("SKU%06d", i),
				Name:       fmt.Sprintf("Item %06d", i),
				CategoryID: spreadCategory(rng, i, o.Categories),
				Price:      randomPrice(rng),
				Stock:      randomStock(rng),
			}
			if !yield(it) {
				return
			}
		}
	}
}

// spreadCategory cycles through the categories and shifts by up to five either way
func spreadCategory(rng *rand.Rand, i, categories int) int64 {
	base := (i-1)%categories + 1
	jitter := rng.IntN(2*categoryJitter+1) - categoryJitter
	return int64(min(categories, max(1, base+jitter)))
}

// randomPrice is uniform over 1.00 .. 9999.99
func randomPrice(rng *rand.Rand) decimal.Decimal {
	cents := 100 + rng.Int64N(999_999-100+1)
	return decimal.New(cents, -2)
}

// randomStock is in 0 .. 500, skewed toward low values
func randomStock(rng *rand.Rand) int {
	return int(math.Pow(rng.Float64(), 1.5) * maxStock)
}
