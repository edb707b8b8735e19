package transport

import (
	"fmt"
	"net/http"

	"catalog-api/internal/dto"
	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categoryService service.CategoryService
	paging          dto.Paging
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, paging dto.Paging, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		paging:          paging,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/items", h.ListItems)
	})
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        page  query  int  false  "Zero-based page index"  default(0)
// @Param        size  query  int  false  "Page size, capped at the configured maximum"  default(20)
// @Success      200  {object}  dto.Page[dto.CategoryDTO]
// @Failure      400  {object}  middleware.ErrorResponse
// @Router       /categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, h.paging)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	result, err := h.categoryService.List(r.Context(), page)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Get godoc
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "Category id"
// @Success      200  {object}  dto.CategoryDTO
// @Failure      400  {object}  middleware.ErrorResponse
// @Failure      404  "Category not found"
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Create godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "code and name"
// @Success      201  {object}  dto.CategoryDTO
// @Header       201  {string}  Location  "/categories/{id}"
// @Failure      400  {object}  middleware.ErrorResponse
// @Failure      409  {object}  middleware.ErrorResponse
// @Router       /categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/categories/%d", category.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// Update godoc
// @Summary      Replace a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "Category id"
// @Param        body  body  dto.CategoryRequest  true  "code and name"
// @Success      200  {object}  dto.CategoryDTO
// @Failure      400  {object}  middleware.ErrorResponse
// @Failure      404  "Category not found"
// @Failure      409  {object}  middleware.ErrorResponse
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req dto.CategoryRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete godoc
// @Summary      Delete a category and its items
// @Tags         categories
// @Param        id   path  int  true  "Category id"
// @Success      204  "Deleted"
// @Failure      400  {object}  middleware.ErrorResponse
// @Failure      404  "Category not found"
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithStatus(w, http.StatusNoContent)
}

// ListItems godoc
// @Summary      List the items of a category
// @Tags         categories
// @Produce      json
// @Param        id    path   int  true   "Category id"
// @Param        page  query  int  false  "Zero-based page index"  default(0)
// @Param        size  query  int  false  "Page size"  default(20)
// @Success      200  {object}  dto.Page[dto.ItemDTO]
// @Failure      400  {object}  middleware.ErrorResponse
// @Failure      404  "Category not found"
// @Router       /categories/{id}/items [get]
func (h *CategoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	page, err := pageRequest(r, h.paging)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	result, err := h.categoryService.ListItems(r.Context(), id, page)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}
