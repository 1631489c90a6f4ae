package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VietOpenCPS/payment/connector"
	"github.com/VietOpenCPS/payment/infra/config"
	"github.com/VietOpenCPS/payment/infra/response"
)

// ConnectorRegistrar is the surface the config handlers need from the
// connector service.
type ConnectorRegistrar interface {
	AddConnector(name string, config map[string]string) error
	ConnectorNames() []string
}

// ConfigHandler manages connector credentials over HTTP
type ConfigHandler struct {
	configs *config.ConnectorConfig
	service ConnectorRegistrar
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(configs *config.ConnectorConfig, service ConnectorRegistrar) *ConfigHandler {
	return &ConfigHandler{
		configs: configs,
		service: service,
	}
}

// SetConfig stores credentials for a connector and activates it on the
// service, so the next payment request uses the new credentials.
func (h *ConfigHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	connectorName := chi.URLParam(r, "connector")
	if connectorName == "" {
		response.Error(w, http.StatusBadRequest, "Connector parameter is required", nil)
		return
	}

	var credentials map[string]string
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.configs.SetConfig(connectorName, credentials); err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to store config", err)
		return
	}

	if err := h.service.AddConnector(connectorName, credentials); err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to activate connector", err)
		return
	}

	masked, err := h.configs.MaskedConfig(connectorName)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to read back config", err)
		return
	}

	response.Success(w, http.StatusOK, "Connector configured", map[string]any{
		"connector": connectorName,
		"config":    masked,
	})
}

// GetConfig returns the stored credentials of a connector with secret
// values masked.
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	connectorName := chi.URLParam(r, "connector")

	masked, err := h.configs.MaskedConfig(connectorName)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Connector not configured", err)
		return
	}

	response.Success(w, http.StatusOK, "Connector config retrieved", map[string]any{
		"connector": connectorName,
		"config":    masked,
	})
}

// ListConnectors returns the registered, configured and active
// connector names.
func (h *ConfigHandler) ListConnectors(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Connectors listed", map[string]any{
		"registered": connector.Names(),
		"configured": h.configs.ConfiguredConnectors(),
		"active":     h.service.ConnectorNames(),
	})
}

// DeleteConfig removes the stored credentials of a connector.
func (h *ConfigHandler) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	connectorName := chi.URLParam(r, "connector")
	if connectorName == "" {
		response.Error(w, http.StatusBadRequest, "Connector parameter is required", nil)
		return
	}

	if err := h.configs.DeleteConfig(connectorName); err != nil {
		response.Error(w, http.StatusNotFound, "Failed to delete config", err)
		return
	}

	response.Success(w, http.StatusOK, "Connector config deleted", map[string]string{
		"connector": connectorName,
	})
}

// Stats returns credential cache and storage statistics.
func (h *ConfigHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.configs.GetStats()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to collect stats", err)
		return
	}

	response.Success(w, http.StatusOK, "Config stats", stats)
}
