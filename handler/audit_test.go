package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VietOpenCPS/payment/infra/opensearch"
)

// stubAuditStore serves canned entries and records the queries it saw.
type stubAuditStore struct {
	entries   []opensearch.AuditEntry
	stats     map[string]any
	err       error
	lastQuery map[string]any
	lastHours int
}

func (s *stubAuditStore) SearchEntries(_ context.Context, _ string, query map[string]any) ([]opensearch.AuditEntry, error) {
	s.lastQuery = query
	return s.entries, s.err
}

func (s *stubAuditStore) TransactionEntries(_ context.Context, _, _ string) ([]opensearch.AuditEntry, error) {
	return s.entries, s.err
}

func (s *stubAuditStore) RecentErrors(_ context.Context, _ string, hours int) ([]opensearch.AuditEntry, error) {
	s.lastHours = hours
	return s.entries, s.err
}

func (s *stubAuditStore) ConnectorStats(_ context.Context, _ string, hours int) (map[string]any, error) {
	s.lastHours = hours
	return s.stats, s.err
}

func newAuditRouter(store *stubAuditStore) *chi.Mux {
	h := NewAuditHandler(store)

	router := chi.NewRouter()
	router.Get("/v1/audit/{connector}", h.ListEntries)
	router.Get("/v1/audit/{connector}/errors", h.RecentErrors)
	router.Get("/v1/audit/{connector}/stats", h.Stats)
	router.Get("/v1/audit/{connector}/transactions/{transactionID}", h.TransactionTrail)
	return router
}

func TestListEntries(t *testing.T) {
	store := &stubAuditStore{entries: []opensearch.AuditEntry{
		{Connector: "dummy", Operation: "purchase"},
		{Connector: "dummy", Operation: "refund"},
	}}
	router := newAuditRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/audit/dummy", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(2), data["count"])
	assert.Contains(t, store.lastQuery, "match_all")
}

func TestListEntriesFilteredByOperation(t *testing.T) {
	store := &stubAuditStore{}
	router := newAuditRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/audit/dummy?operation=refund", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	match := store.lastQuery["match"].(map[string]any)
	assert.Equal(t, "refund", match["operation"])
}

func TestListEntriesStoreUnavailable(t *testing.T) {
	store := &stubAuditStore{err: fmt.Errorf("audit logging is disabled")}
	router := newAuditRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/audit/dummy", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTransactionTrail(t *testing.T) {
	store := &stubAuditStore{entries: []opensearch.AuditEntry{{TransactionID: "tx-1"}}}
	router := newAuditRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/audit/dummy/transactions/tx-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "tx-1", data["transactionId"])
}

func TestRecentErrorsHours(t *testing.T) {
	store := &stubAuditStore{}
	router := newAuditRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/audit/dummy/errors?hours=6", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, store.lastHours)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/audit/dummy/errors?hours=-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 24, store.lastHours, "invalid hours fall back to the default")
}

func TestConnectorStatsEndpoint(t *testing.T) {
	store := &stubAuditStore{stats: map[string]any{"total_operations": 7}}
	router := newAuditRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/audit/dummy/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	stats := data["stats"].(map[string]any)
	assert.Equal(t, float64(7), stats["total_operations"])
}

var _ AuditStore = (*opensearch.Logger)(nil)
