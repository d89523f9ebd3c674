// internal/handlers/ledger.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// LedgerHandler handles movement submission and history queries
type LedgerHandler struct {
	service ports.LedgerService
	logger  *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service ports.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "ledger")),
	}
}

// RecordMovement handles POST /api/v1/movements
func (h *LedgerHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RecordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.RecordMovement(ctx, req.ToRequest())
	if err != nil {
		h.respondMovementError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "movement recorded",
		slog.String("movement_id", record.ID.String()),
		slog.String("product_id", record.ProductID.String()),
		slog.String("type", string(record.Type)),
		slog.Int("delta", record.Delta))

	h.respondJSON(w, http.StatusCreated, record)
}

// ListMovements handles GET /api/v1/movements
func (h *LedgerHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := h.parseFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, total, err := h.service.History(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list movements",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list movements")
		return
	}

	h.respondJSON(w, http.StatusOK, MovementListResponse{
		Movements: records,
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	})
}

// ProductHistory handles GET /api/v1/products/{id}/movements
func (h *LedgerHandler) ProductHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	productID, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.ProductID = &productID

	records, total, err := h.service.History(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load product history",
			slog.String("product_id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	h.respondJSON(w, http.StatusOK, MovementListResponse{
		Movements: records,
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	})
}

// respondMovementError maps domain errors from movement submission to HTTP
// status codes.
func (h *LedgerHandler) respondMovementError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var validationErr domain.ValidationError
	if errors.As(err, &validationErr) {
		h.respondError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	var notFoundErr domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		h.respondError(w, http.StatusNotFound, notFoundErr.Error())
		return
	}

	var stockErr domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		h.respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":     stockErr.Error(),
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
		return
	}

	var durabilityErr domain.DurabilityError
	if errors.As(err, &durabilityErr) {
		h.logger.ErrorContext(ctx, "movement not durable",
			slog.String("op", durabilityErr.Op),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusServiceUnavailable, "Movement could not be recorded")
		return
	}

	h.logger.ErrorContext(ctx, "failed to record movement",
		slog.String("error", err.Error()))
	h.respondError(w, http.StatusInternalServerError, "Failed to record movement")
}

func (h *LedgerHandler) parseFilter(r *http.Request) (ports.MovementFilter, error) {
	filter := ports.MovementFilter{
		Limit: 50,
	}

	q := r.URL.Query()

	if limit := q.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 500 {
				l = 500
			}
			filter.Limit = l
		}
	}

	if offset := q.Get("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	if typeStr := q.Get("type"); typeStr != "" {
		mt := domain.MovementType(typeStr)
		if !mt.Valid() {
			return filter, fmt.Errorf("unknown movement type: %s", typeStr)
		}
		filter.Type = mt
	}

	filter.Actor = q.Get("actor")

	if fromStr := q.Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return filter, fmt.Errorf("invalid from timestamp: %s", fromStr)
		}
		filter.From = &from
	}

	if toStr := q.Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return filter, fmt.Errorf("invalid to timestamp: %s", toStr)
		}
		filter.To = &to
	}

	return filter, nil
}

func (h *LedgerHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *LedgerHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// RecordMovementRequest represents the request body for submitting a movement.
// Quantity is an unsigned magnitude for stock_in/stock_out and a signed delta
// for adjustment.
type RecordMovementRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason,omitempty"`
	Actor     string    `json:"actor,omitempty"`
}

// Validate validates the movement request
func (r *RecordMovementRequest) Validate() error {
	if r.ProductID == uuid.Nil {
		return fmt.Errorf("product_id is required")
	}
	if !domain.MovementType(r.Type).Valid() {
		return fmt.Errorf("type must be one of stock_in, stock_out, adjustment")
	}
	if r.Quantity == 0 {
		return fmt.Errorf("quantity cannot be zero")
	}
	return nil
}

// ToRequest converts the DTO to the service request shape
func (r *RecordMovementRequest) ToRequest() ports.MovementRequest {
	return ports.MovementRequest{
		ProductID: r.ProductID,
		Type:      domain.MovementType(r.Type),
		Quantity:  r.Quantity,
		Reason:    r.Reason,
		Actor:     r.Actor,
	}
}

// MovementListResponse is the paginated history response
type MovementListResponse struct {
	Movements []domain.MovementRecord `json:"movements"`
	Total     int64                   `json:"total"`
	Limit     int                     `json:"limit"`
	Offset    int                     `json:"offset"`
}
