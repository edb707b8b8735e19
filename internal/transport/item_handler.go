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

// ItemHandler handles HTTP requests for items
type ItemHandler struct {
	itemService service.ItemService
	paging      dto.Paging
	logger      *zap.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService service.ItemService, paging dto.Paging, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		paging:      paging,
		logger:      logger,
	}
}

// RegisterRoutes registers all item routes
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List godoc
// @Summary      List items
// @Description  Optionally filtered by category. An unknown category yields an empty page.
// @Tags         items
// @Produce      json
// @Param        categoryId  query  int  false  "Only items of this category"
// @Param        page        query  int  false  "Zero-based page index"  default(0)
// @Param        size        query  int  false  "Page size"  default(20)
// @Success      200  {object}  dto.Page[dto.ItemDTO]
// @Failure      400  {object}  middleware.ErrorResponse
// @Router       /items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryInt64(r, "categoryId")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	page, err := pageRequest(r, h.paging)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	result, err := h.itemService.List(r.Context(), categoryID, page)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Get godoc
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        id   path  int  true  "Item id"
// @Success      200  {object}  dto.ItemDTO
// @Failure      400  {object}  middleware.ErrorResponse
// @Failure      404  "Item not found"
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	item, err := h.itemService.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Create godoc
// @Summary      Create an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemRequest  true  "price defaults to 0"
// @Success      201  {object}  dto.ItemDTO
// @Header       201  {string}  Location  "/items/{id}"
// @Failure      400  {object}  middleware.ErrorResponse  "validation failure or unknown category"
// @Failure      409  {object}  middleware.ErrorResponse
// @Router       /items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ItemRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	item, err := h.itemService.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/items/%d", item.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// Update godoc
// @Summary      Replace an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  int              true  "Item id"
// @Param        body  body  dto.ItemRequest  true  "full item"
// @Success      200  {object}  dto.ItemDTO
// @Failure      400  {object}  middleware.ErrorResponse  "validation failure or unknown category"
// @Failure      404  "Item not found"
// @Failure      409  {object}  middleware.ErrorResponse
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req dto.ItemRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	item, err := h.itemService.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Delete godoc
// @Summary      Delete an item
// @Tags         items
// @Param        id   path  int  true  "Item id"
// @Success      204  "Deleted"
// @Failure      400  {object}  middleware.ErrorResponse
// @Failure      404  "Item not found"
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.itemService.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithStatus(w, http.StatusNoContent)
}
