package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"catalog-api/internal/domain"
	"catalog-api/internal/dto"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPaging = dto.Paging{DefaultSize: 20, MaxSize: 50}

func requestWithQuery(query string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/items?"+query, nil)
}

func rejectedFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}

func TestPageRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.PageRequest
	}{
		{name: "defaults", query: "", want: domain.PageRequest{Page: 0, Size: 20}},
		{name: "explicit window", query: "page=2&size=10", want: domain.PageRequest{Page: 2, Size: 10}},
		{name: "negative page", query: "page=-3&size=5", want: domain.PageRequest{Page: 0, Size: 5}},
		{name: "zero size", query: "size=0", want: domain.PageRequest{Page: 0, Size: 20}},
		{name: "size above ceiling", query: "size=500", want: domain.PageRequest{Page: 0, Size: 50}},
		{name: "blank values", query: "page=%20&size=", want: domain.PageRequest{Page: 0, Size: 20}},
		{name: "padded values", query: "page=%201%20&size=%207", want: domain.PageRequest{Page: 1, Size: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pageRequest(requestWithQuery(tt.query), testPaging)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageRequest_NonNumeric(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
	}{
		{name: "page", query: "page=abc", fields: []string{"page"}},
		{name: "size", query: "size=1.5", fields: []string{"size"}},
		{name: "both", query: "page=x&size=y", fields: []string{"page", "size"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pageRequest(requestWithQuery(tt.query), testPaging)
			assert.Equal(t, tt.fields, rejectedFields(t, err))
		})
	}
}

func TestProperty_PageRequestStaysInBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("clamped window is always usable", prop.ForAll(
		func(page, size int) bool {
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("size", strconv.Itoa(size))

			got, err := pageRequest(requestWithQuery(q.Encode()), testPaging)
			if err != nil {
				return false
			}
			return got.Page >= 0 && got.Size >= 1 && got.Size <= testPaging.MaxSize
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}

func TestQueryInt64(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    *int64
		wantErr bool
	}{
		{name: "absent", query: "", want: nil},
		{name: "blank", query: "categoryId=%20", want: nil},
		{name: "value", query: "categoryId=42", want: int64Ptr(42)},
		{name: "negative", query: "categoryId=-7", want: int64Ptr(-7)},
		{name: "padded", query: "categoryId=%209%20", want: int64Ptr(9)},
		{name: "not a number", query: "categoryId=abc", wantErr: true},
		{name: "overflow", query: "categoryId=9223372036854775808", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := queryInt64(requestWithQuery(tt.query), "categoryId")
			if tt.wantErr {
				assert.Nil(t, got)
				assert.Equal(t, []string{"categoryId"}, rejectedFields(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathID(t *testing.T) {
	withID := func(raw string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		r := httptest.NewRequest(http.MethodGet, "/items/"+url.PathEscape(raw), nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := pathID(withID("17"))
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	for _, raw := range []string{"abc", "", "1.0", "99999999999999999999"} {
		_, err := pathID(withID(raw))
		assert.Equal(t, []string{"id"}, rejectedFields(t, err), raw)
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
