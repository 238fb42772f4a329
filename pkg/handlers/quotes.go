package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fabworks-io/quotation-engine/pkg/apperrors"
	"github.com/fabworks-io/quotation-engine/pkg/services"
	"github.com/fabworks-io/quotation-engine/pkg/validate"
)

// QuotesHandler handles quote preview and finalize HTTP requests.
type QuotesHandler struct {
	quoting   services.QuotingService
	finalizer services.QuoteFinalizer
	logger    *zap.Logger
}

// NewQuotesHandler creates a new quotes handler.
func NewQuotesHandler(quoting services.QuotingService, finalizer services.QuoteFinalizer, logger *zap.Logger) *QuotesHandler {
	return &QuotesHandler{
		quoting:   quoting,
		finalizer: finalizer,
		logger:    logger,
	}
}

// RegisterRoutes registers the quotes handler's routes on the given mux.
func (h *QuotesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /quotes/preview", h.Preview)
	mux.HandleFunc("POST /quotes/finalize", h.Finalize)
}

// Preview handles POST /quotes/preview
// Computes a customer price without persisting anything.
func (h *QuotesHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req services.QuotePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.writeValidationOrInternal(w, err, "Failed to validate preview request")
		return
	}

	resp, err := h.quoting.Preview(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to preview quote", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to preview quote"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Finalize handles POST /quotes/finalize
// Computes totals, assigns a quote number, and persists the customer quote;
// responds 201 with the stored quote.
func (h *QuotesHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req services.QuoteFinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.writeValidationOrInternal(w, err, "Failed to validate finalize request")
		return
	}

	quote, err := h.finalizer.Finalize(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoActiveMarkupSchema),
			errors.Is(err, apperrors.ErrMissingCostInput):
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrDuplicateQuoteNumber):
			if err := ErrorResponse(w, http.StatusConflict, "conflict", "Quote number already taken, retry"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to finalize quote", zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to finalize quote"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, quote); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeValidationOrInternal maps a validation error to 422 with field
// details, anything else to 500.
func (h *QuotesHandler) writeValidationOrInternal(w http.ResponseWriter, err error, logMsg string) {
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		if err := ValidationErrorResponse(w, verr); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.logger.Error(logMsg, zap.Error(err))
	if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Invalid request"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
