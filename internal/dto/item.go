package dto

import (
	"catalog-api/internal/domain"

	"go.uber.org/zap"
)

// ItemDTO is the wire shape of an item. CategoryID is the scalar id, never the nested category.
type ItemDTO struct {
	ID          int64   `json:"id" example:"1"`
	SKU         string  `json:"sku" example:"SKU1"`
	Name        string  `json:"name" example:"Cable"`
	Price       Money   `json:"price" swaggertype:"number" example:"9.99"`
	Stock       int     `json:"stock" example:"5"`
	CategoryID  *int64  `json:"categoryId" example:"1"`
	Description *string `json:"description"`
}

// ItemRequest is the body of item create and update
type ItemRequest struct {
	SKU         string  `json:"sku" validate:"notblank,max=64" example:"SKU1"`
	Name        string  `json:"name" validate:"notblank,max=128" example:"Cable"`
	Price       *Money  `json:"price,omitempty" swaggertype:"number" example:"9.99"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=-2147483648,max=2147483647" example:"5"`
	CategoryID  *int64  `json:"categoryId" validate:"required" example:"1"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// ItemToDTO projects an item without touching storage. An item whose category
// cannot be resolved from the loaded state gets a null categoryId and a warning.
func ItemToDTO(item *domain.Item, log *zap.Logger) ItemDTO {
	out := ItemDTO{
		ID:          item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Price:       NewMoney(item.Price),
		Stock:       item.Stock,
		Description: item.Description,
	}

	if id, ok := item.ResolvedCategoryID(); ok {
		out.CategoryID = &id
	} else if log != nil {
		log.Warn("Item without resolvable category", zap.Int64("item_id", item.ID))
	}

	return out
}

// ItemsToDTO projects a slice, skipping nil entries
func ItemsToDTO(items []*domain.Item, log *zap.Logger) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, ItemToDTO(it, log))
	}
	return out
}
