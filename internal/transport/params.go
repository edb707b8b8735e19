package transport

import (
	"net/http"
	"strconv"
	"strings"

	"catalog-api/internal/domain"
	"catalog-api/internal/dto"

	"github.com/go-chi/chi/v5"
)

// pathID reads the {id} route parameter
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("id", "must be an integer")
	}
	return id, nil
}

// queryInt64 reads an optional integer query parameter; nil when absent
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an integer")
	}
	return &v, nil
}

// pageRequest reads page and size and clamps them to the configured bounds
func pageRequest(r *http.Request, paging dto.Paging) (domain.PageRequest, error) {
	verr := &domain.ValidationError{}
	q := r.URL.Query()

	readInt := func(name string) int {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return 0
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add(name, "must be an integer")
			return 0
		}
		return v
	}

	page := readInt("page")
	size := readInt("size")
	if err := verr.OrNil(); err != nil {
		return domain.PageRequest{}, err
	}
	return paging.Normalize(page, size), nil
}
