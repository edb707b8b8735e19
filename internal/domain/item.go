package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a stocked article that belongs to exactly one category.
// Category is only populated by join-fetch reads; CategoryID is always the source of truth.
type Item struct {
	ID          int64           `db:"id"`
	SKU         string          `db:"sku"`
	Name        string          `db:"name"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	CategoryID  int64           `db:"category_id"`
	Category    *Category       `db:"-"`
	Description *string         `db:"description"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// ResolvedCategoryID returns the category id the item points to, if any
func (i *Item) ResolvedCategoryID() (int64, bool) {
	if i.CategoryID > 0 {
		return i.CategoryID, true
	}
	if i.Category != nil && i.Category.ID > 0 {
		return i.Category.ID, true
	}
	return 0, false
}
