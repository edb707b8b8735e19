package dto

import "catalog-api/internal/domain"

// CategoryDTO is the wire shape of a category
type CategoryDTO struct {
	ID   int64  `json:"id" example:"1"`
	Code string `json:"code" example:"ELEC"`
	Name string `json:"name" example:"Electronics"`
}

// CategoryRequest is the body of category create and update
type CategoryRequest struct {
	Code string `json:"code" validate:"notblank,max=32" example:"ELEC"`
	Name string `json:"name" validate:"notblank,max=128" example:"Electronics"`
}

func CategoryToDTO(c *domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:   c.ID,
		Code: c.Code,
		Name: c.Name,
	}
}

// CategoriesToDTO projects a slice, skipping nil entries
func CategoriesToDTO(categories []*domain.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		if c == nil {
			continue
		}
		out = append(out, CategoryToDTO(c))
	}
	return out
}
