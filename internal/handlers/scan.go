// internal/handlers/scan.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// ScanHandler resolves scanned barcodes to products
type ScanHandler struct {
	resolver ports.BarcodeResolver
	logger   *slog.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(resolver ports.BarcodeResolver, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		resolver: resolver,
		logger:   logger.With(slog.String("handler", "scan")),
	}
}

// Resolve handles GET /api/v1/scan/{barcode}. Lookup is exact-match;
// malformed or partial scans simply fail to resolve.
func (h *ScanHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	barcode := r.PathValue("barcode")

	product, err := h.resolver.Resolve(ctx, barcode)
	if err != nil {
		var notFoundErr domain.NotFoundError
		if errors.As(err, &notFoundErr) {
			h.respondError(w, http.StatusNotFound, "No product matches this barcode")
			return
		}

		h.logger.ErrorContext(ctx, "barcode resolution failed",
			slog.String("barcode", barcode),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to resolve barcode")
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

func (h *ScanHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ScanHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
