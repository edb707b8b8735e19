package dto

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_TotalPagesIsCeiling(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("totalPages = ceil(total/size)", prop.ForAll(
		func(total int64, size int) bool {
			p := BuildPage([]int{}, 0, size, total)
			want := int(total / int64(size))
			if total%int64(size) != 0 {
				want++
			}
			return p.TotalPages == want && p.TotalElements == total && p.Size == size
		},
		gen.Int64Range(0, 1_000_000),
		gen.IntRange(1, 500),
	))

	properties.Property("totalPages * size covers every element exactly once", prop.ForAll(
		func(total int64, size int) bool {
			p := BuildPage[int](nil, 0, size, total)
			covered := int64(p.TotalPages) * int64(size)
			return covered >= total && covered-total < int64(size)
		},
		gen.Int64Range(0, 1_000_000),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_NormalizeStaysInBounds(t *testing.T) {
	paging := Paging{DefaultSize: 20, MaxSize: 200}
	properties := gopter.NewProperties(nil)

	properties.Property("normalized windows are always valid", prop.ForAll(
		func(page int, size int) bool {
			req := paging.Normalize(page, size)
			if req.Page < 0 || req.Size < 1 || req.Size > 200 {
				return false
			}
			if page >= 0 && page <= 1<<31-1 && req.Page != page {
				return false
			}
			if size >= 1 && size <= 200 && req.Size != size {
				return false
			}
			return true
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{"defaults", 0, 0, 0, 20},
		{"negative page", -3, 5, 0, 5},
		{"negative size", 1, -1, 1, 20},
		{"above ceiling", 2, 1000, 2, 200},
		{"at ceiling", 0, 200, 0, 200},
		{"huge page", 1 << 40, 10, 1<<31 - 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NormalizePage(tt.page, tt.size, 20, 200)
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantSize, req.Size)
		})
	}
}

func TestBuildPage_JSONShape(t *testing.T) {
	raw, err := json.Marshal(BuildPage[CategoryDTO](nil, 3, 20, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[],"page":3,"size":20,"totalElements":0,"totalPages":0}`, string(raw))

	zero := BuildPage([]int{1}, 0, 0, 5)
	assert.Zero(t, zero.TotalPages)
}
