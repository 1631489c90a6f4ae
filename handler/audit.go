package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VietOpenCPS/payment/infra/opensearch"
	"github.com/VietOpenCPS/payment/infra/response"
)

// AuditStore is the surface the audit handlers need from the payment
// log index.
type AuditStore interface {
	SearchEntries(ctx context.Context, connectorName string, query map[string]any) ([]opensearch.AuditEntry, error)
	TransactionEntries(ctx context.Context, connectorName, transactionID string) ([]opensearch.AuditEntry, error)
	RecentErrors(ctx context.Context, connectorName string, hours int) ([]opensearch.AuditEntry, error)
	ConnectorStats(ctx context.Context, connectorName string, hours int) (map[string]any, error)
}

// AuditHandler exposes the payment audit trail over HTTP
type AuditHandler struct {
	store AuditStore
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(store AuditStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// ListEntries returns recent audit entries of a connector, optionally
// filtered by ?operation=.
func (h *AuditHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	connectorName := chi.URLParam(r, "connector")

	query := map[string]any{"match_all": map[string]any{}}
	if op := r.URL.Query().Get("operation"); op != "" {
		query = map[string]any{
			"match": map[string]any{"operation": op},
		}
	}

	entries, err := h.store.SearchEntries(ctx, connectorName, query)
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "Audit search failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Audit entries retrieved", map[string]any{
		"connector": connectorName,
		"count":     len(entries),
		"entries":   entries,
	})
}

// TransactionTrail returns every audit entry recorded for one
// transaction id.
func (h *AuditHandler) TransactionTrail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	connectorName := chi.URLParam(r, "connector")
	transactionID := chi.URLParam(r, "transactionID")
	if transactionID == "" {
		response.Error(w, http.StatusBadRequest, "Missing transaction ID", nil)
		return
	}

	entries, err := h.store.TransactionEntries(ctx, connectorName, transactionID)
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "Audit search failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Transaction trail retrieved", map[string]any{
		"connector":     connectorName,
		"transactionId": transactionID,
		"entries":       entries,
	})
}

// RecentErrors returns the failed operations of a connector within the
// last ?hours= (default 24).
func (h *AuditHandler) RecentErrors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	connectorName := chi.URLParam(r, "connector")
	hours := queryHours(r, 24)

	entries, err := h.store.RecentErrors(ctx, connectorName, hours)
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "Audit search failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Recent errors retrieved", map[string]any{
		"connector": connectorName,
		"hours":     hours,
		"count":     len(entries),
		"entries":   entries,
	})
}

// Stats returns aggregated operation counts and latency of a connector
// within the last ?hours= (default 24).
func (h *AuditHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	connectorName := chi.URLParam(r, "connector")
	hours := queryHours(r, 24)

	stats, err := h.store.ConnectorStats(ctx, connectorName, hours)
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "Stats aggregation failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Connector stats retrieved", map[string]any{
		"connector": connectorName,
		"hours":     hours,
		"stats":     stats,
	})
}

func queryHours(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("hours")
	if raw == "" {
		return fallback
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 || hours > 24*30 {
		return fallback
	}
	return hours
}
