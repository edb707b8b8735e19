package dto

import (
	"math"

	"catalog-api/internal/domain"
)

// Page is the paging envelope every list endpoint returns
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page" example:"0"`
	Size          int   `json:"size" example:"20"`
	TotalElements int64 `json:"totalElements" example:"1"`
	TotalPages    int   `json:"totalPages" example:"1"`
}

// BuildPage wraps one window of content. totalPages is ceil(total/size), 0 when size is 0.
func BuildPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if size > 0 && total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// Paging holds the size defaults list endpoints fall back to
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// Normalize clamps a requested window: negative page becomes 0, a size below 1
// becomes the default and a size above the ceiling becomes the ceiling.
// The clamped values are what the envelope echoes back.
func (p Paging) Normalize(page, size int) domain.PageRequest {
	if page < 0 {
		page = 0
	}
	// keeps page*size inside the OFFSET range
	if page > math.MaxInt32 {
		page = math.MaxInt32
	}
	if size < 1 {
		size = p.DefaultSize
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}
	return domain.PageRequest{Page: page, Size: size}
}

// NormalizePage is Normalize with explicit bounds
func NormalizePage(page, size, defaultSize, maxSize int) domain.PageRequest {
	return Paging{DefaultSize: defaultSize, MaxSize: maxSize}.Normalize(page, size)
}
