package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

func testConfig(joinFetch bool) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		Items:  config.ItemsConfig{JoinFetchEnabled: joinFetch},
		Paging: config.PagingConfig{DefaultSize: 20, MaxSize: 50},
		RateLimit: config.RateLimitConfig{
			Requests: 2,
			Window:   time.Minute,
		},
		Swagger: config.SwaggerConfig{Enabled: true},
	}
}

func openDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(ctx, db, zap.NewNop()))
	return db
}

func newTestRouter(t *testing.T, db *database.DB, joinFetch bool) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config: testConfig(joinFetch),
		Logger: zap.NewNop(),
		DB:     db,
		Store:  repository.NewStore(db),
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type pageBody struct {
	Content       []map[string]interface{} `json:"content"`
	Page          int                      `json:"page"`
	Size          int                      `json:"size"`
	TotalElements int64                    `json:"totalElements"`
	TotalPages    int                      `json:"totalPages"`
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) pageBody {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p pageBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestCatalogLifecycle(t *testing.T) {
	h := newTestRouter(t, openDB(t), false)

	rec := do(t, h, http.MethodPost, "/categories", `{"code":"ELEC","name":"Electronics"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/categories/1", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"id":1,"code":"ELEC","name":"Electronics"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/items", `{"sku":"SKU1","name":"Cable","price":9.99,"stock":5,"categoryId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/items/1", rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), `"price":9.99`)
	assert.JSONEq(t,
		`{"id":1,"sku":"SKU1","name":"Cable","price":9.99,"stock":5,"categoryId":1,"description":null}`,
		rec.Body.String())

	page := decodePage(t, do(t, h, http.MethodGet, "/items?categoryId=1", ""))
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "SKU1", page.Content[0]["sku"])

	page = decodePage(t, do(t, h, http.MethodGet, "/categories/1/items?page=0&size=20", ""))
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 20, page.Size)

	rec = do(t, h, http.MethodDelete, "/categories/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/items/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/categories/1/items", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCategory_DuplicateCode(t *testing.T) {
	h := newTestRouter(t, openDB(t), false)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/categories", `{"code":"ELEC","name":"Electronics"}`).Code)

	rec := do(t, h, http.MethodPost, "/categories", `{"code":"ELEC","name":"Other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"code"`)

	page := decodePage(t, do(t, h, http.MethodGet, "/categories", ""))
	assert.Equal(t, int64(1), page.TotalElements)
}

func TestCreateItem_UnknownCategory(t *testing.T) {
	h := newTestRouter(t, openDB(t), false)

	rec := do(t, h, http.MethodPost, "/items", `{"sku":"SKU1","name":"Cable","price":1,"categoryId":999}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "categoryId")

	page := decodePage(t, do(t, h, http.MethodGet, "/items", ""))
	assert.Zero(t, page.TotalElements)
	assert.NotNil(t, page.Content)
}

func TestCreateItem_ValidationFailure(t *testing.T) {
	h := newTestRouter(t, openDB(t), false)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/categories", `{"code":"ELEC","name":"Electronics"}`).Code)

	rec := do(t, h, http.MethodPost, "/items", `{"sku":"  ","name":"Cable","price":-1,"categoryId":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Details struct {
				ValidationErrors []struct {
					Field string `json:"field"`
				} `json:"validation_errors"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var fields []string
	for _, fe := range body.Error.Details.ValidationErrors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "sku")
	assert.Contains(t, fields, "price")

	rec = do(t, h, http.MethodPost, "/items", `{"sku":"SKU1"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateItem_ExtremeExponentPrice(t *testing.T) {
	h := newTestRouter(t, openDB(t), false)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/categories", `{"code":"ELEC","name":"Electronics"}`).Code)

	for _, price := range []string{"1e900000000", "1e-30000000"} {
		done := make(chan *httptest.ResponseRecorder, 1)
		go func() {
			done <- do(t, h, http.MethodPost, "/items", `{"sku":"SKU1","name":"Cable","price":`+price+`,"categoryId":1}`)
		}()

		select {
		case rec := <-done:
			assert.Equal(t, http.StatusBadRequest, rec.Code, price)
			assert.Contains(t, rec.Body.String(), `"field":"price"`, price)
		case <-time.After(2 * time.Second):
			t.Fatalf("POST /items with price %s did not respond", price)
		}
	}

	page := decodePage(t, do(t, h, http.MethodGet, "/items", ""))
	assert.Zero(t, page.TotalElements)
}

func TestUpdateItem_Idempotent(t *testing.T) {
	h := newTestRouter(t, openDB(t), false)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/categories", `{"code":"ELEC","name":"Electronics"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/items", `{"sku":"SKU1","name":"Cable","categoryId":1}`).Code)

	body := `{"sku":"SKU1","name":"Long cable","price":"12.5","stock":3,"categoryId":1,"description":"2m"}`
	first := do(t, h, http.MethodPut, "/items/1", body)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := do(t, h, http.MethodPut, "/items/1", body)
	require.Equal(t, http.StatusOK, second.Code)

	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Body.String(), `"price":12.50`)

	rec := do(t, h, http.MethodPut, "/items/42", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListingModesAgree(t *testing.T) {
	db := openDB(t)
	plain := newTestRouter(t, db, false)
	joined := newTestRouter(t, db, true)

	require.Equal(t, http.StatusCreated, do(t, plain, http.MethodPost, "/categories", `{"code":"A","name":"A"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, plain, http.MethodPost, "/categories", `{"code":"B","name":"B"}`).Code)
	for i, cat := range []int{1, 2, 1, 1, 2} {
		body := `{"sku":"SKU` + string(rune('A'+i)) + `","name":"Item","price":1.5,"categoryId":` + string(rune('0'+cat)) + `}`
		require.Equal(t, http.StatusCreated, do(t, plain, http.MethodPost, "/items", body).Code)
	}

	for _, path := range []string{
		"/items?categoryId=1",
		"/items?categoryId=1&page=1&size=2",
		"/items?categoryId=2",
		"/categories/1/items?size=1",
	} {
		a := do(t, plain, http.MethodGet, path, "")
		b := do(t, joined, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, a.Code, path)
		require.Equal(t, http.StatusOK, b.Code, path)
		assert.JSONEq(t, a.Body.String(), b.Body.String(), path)
	}

	page := decodePage(t, do(t, joined, http.MethodGet, "/items?categoryId=1&page=1&size=2", ""))
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Content, 1)
}

func TestPagingParameters(t *testing.T) {
	h := newTestRouter(t, openDB(t), false)

	page := decodePage(t, do(t, h, http.MethodGet, "/categories?size=1000", ""))
	assert.Equal(t, 50, page.Size)

	page = decodePage(t, do(t, h, http.MethodGet, "/categories?page=-3&size=0", ""))
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 20, page.Size)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/categories?page=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/items?categoryId=x", "").Code)

	page = decodePage(t, do(t, h, http.MethodGet, "/items?categoryId=77", ""))
	assert.Zero(t, page.TotalElements)
}

func TestNonNumericID(t *testing.T) {
	h := newTestRouter(t, openDB(t), false)

	for _, path := range []string{"/items/abc", "/categories/abc", "/categories/abc/items"} {
		rec := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestHealth(t *testing.T) {
	db := openDB(t)
	h := newTestRouter(t, db, false)

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status   string            `json:"status"`
		Database map[string]string `json:"database"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "up", body.Database["status"])

	require.NoError(t, db.Close())
	rec = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSwaggerDocument(t *testing.T) {
	h := newTestRouter(t, openDB(t), false)

	rec := do(t, h, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/categories/{id}/items"`)
}

func TestSwaggerDocumentMatchesRoutes(t *testing.T) {
	db := openDB(t)
	mux := newMux(Deps{
		Config: testConfig(false),
		Logger: zap.NewNop(),
		DB:     db,
		Store:  repository.NewStore(db),
	})

	routed := map[string]bool{}
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if route == "/health" || strings.HasPrefix(route, "/swagger/") {
			return nil
		}
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		routed[strings.ToLower(method)+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	documented := map[string]bool{}
	for path, ops := range doc.Paths {
		for method := range ops {
			documented[method+" "+path] = true
		}
	}

	assert.Equal(t, routed, documented)
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	db := openDB(t)
	h := NewRouter(Deps{
		Config:  testConfig(false),
		Logger:  zap.NewNop(),
		DB:      db,
		Store:   repository.NewStore(db),
		Limiter: client,
	})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/categories", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/categories", "").Code)

	rec := do(t, h, http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
