package transport

import (
	"errors"
	"net/http"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"

	"go.uber.org/zap"
)

// respondError translates a service failure into its HTTP status
func respondError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var (
		validation *domain.ValidationError
		conflict   *domain.ConflictError
	)

	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}

	switch {
	case errors.As(err, &validation):
		logger.Debug("Request rejected", fields...)
		middleware.RespondWithValidationErrors(w, validation.Fields)

	case errors.Is(err, middleware.ErrInvalidBody):
		logger.Debug("Malformed request body", fields...)
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")

	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("Resource not found", fields...)
		middleware.RespondWithStatus(w, http.StatusNotFound)

	case errors.Is(err, domain.ErrInvalidReference):
		logger.Debug("Unknown category reference", fields...)
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "category not found", map[string]interface{}{
			"validation_errors": []domain.FieldError{{Field: "categoryId", Message: "category does not exist"}},
		})

	case errors.As(err, &conflict):
		logger.Info("Unique key conflict", fields...)
		middleware.RespondWithErrorDetails(w, http.StatusConflict, conflict.Error(), map[string]interface{}{
			"field": conflict.Field,
		})

	case errors.Is(err, domain.ErrConflict):
		logger.Info("Unique key conflict", fields...)
		middleware.RespondWithError(w, http.StatusConflict, "resource already exists")

	default:
		logger.Error("Request failed", fields...)
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
