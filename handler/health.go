package handler

import (
	"net/http"
	"time"

	"github.com/VietOpenCPS/payment/infra/config"
	"github.com/VietOpenCPS/payment/infra/opensearch"
	"github.com/VietOpenCPS/payment/infra/response"
)

// HealthHandler reports service liveness and dependency health
type HealthHandler struct {
	storage   *config.SQLiteStorage
	search    *opensearch.Client
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage *config.SQLiteStorage, search *opensearch.Client) *HealthHandler {
	return &HealthHandler{
		storage:   storage,
		search:    search,
		startTime: time.Now(),
	}
}

// Health handles GET /health. The service is degraded, not down, when
// a dependency check fails; the endpoint still answers 200.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database":   h.checkDatabase(),
		"audit_sink": h.checkAuditSink(),
	}

	status := "ok"
	for _, check := range checks {
		if check != "ok" && check != "disabled" {
			status = "degraded"
			break
		}
	}

	response.Success(w, http.StatusOK, "Health check", map[string]any{
		"status":         status,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"checks":         checks,
	})
}

func (h *HealthHandler) checkDatabase() string {
	if h.storage == nil {
		return "disabled"
	}
	if _, err := h.storage.GetStats(); err != nil {
		return err.Error()
	}
	return "ok"
}

func (h *HealthHandler) checkAuditSink() string {
	if h.search == nil || !h.search.IsEnabled() {
		return "disabled"
	}
	return "ok"
}
