package opensearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VietOpenCPS/payment/connector"
	"github.com/VietOpenCPS/payment/connector/dummy"
	"github.com/VietOpenCPS/payment/infra/config"
)

func newDisabledLogger(t *testing.T) *Logger {
	t.Helper()
	client, err := NewClient(&config.App{
		OpenSearchURL: "http://localhost:9200",
		EnableAudit:   false,
	})
	require.NoError(t, err)
	return NewLogger(client)
}

func TestNewLogger(t *testing.T) {
	client, err := NewClient(&config.App{
		OpenSearchURL: "http://localhost:9200",
		EnableAudit:   true,
	})
	require.NoError(t, err)

	logger := NewLogger(client)
	assert.NotNil(t, logger)
	assert.Equal(t, client, logger.client)
}

func TestLoggerSatisfiesAuditContract(t *testing.T) {
	var _ connector.AuditLogger = (*Logger)(nil)
}

func TestLogOperationDisabled(t *testing.T) {
	logger := newDisabledLogger(t)

	// must be a no-op, not an attempted network call
	logger.LogOperation(context.Background(), "dummy", connector.OpPurchase, nil, nil, time.Millisecond, nil)
}

func TestLogOperationShortCardNumber(t *testing.T) {
	client, err := NewClient(&config.App{
		OpenSearchURL: "http://127.0.0.1:1",
		EnableAudit:   true,
	})
	require.NoError(t, err)
	logger := NewLogger(client)

	params := connector.NewParams()
	params.Set("amount", "10.00")
	params.Set("currency", "USD")
	req, err := dummy.New().Purchase(params)
	require.NoError(t, err)
	require.NoError(t, req.SetCard(connector.NewCreditCard().SetNumber("123")))

	assert.NotPanics(t, func() {
		logger.LogOperation(context.Background(), "dummy", connector.OpPurchase, req, nil, time.Millisecond, errors.New("card declined"))
	})
}

func TestIndexDisabled(t *testing.T) {
	logger := newDisabledLogger(t)
	assert.NoError(t, logger.Index(context.Background(), AuditEntry{Connector: "dummy"}))
}

func TestSearchDisabled(t *testing.T) {
	logger := newDisabledLogger(t)

	_, err := logger.SearchEntries(context.Background(), "dummy", map[string]any{"match_all": map[string]any{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")

	_, err = logger.ConnectorStats(context.Background(), "dummy", 24)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		excluded string
	}{
		{
			name:     "card number",
			input:    `{"number":"4111111111111111","amount":"10.00"}`,
			excluded: "4111111111111111",
		},
		{
			name:     "cvv",
			input:    `{"cvv":"123"}`,
			excluded: `"cvv":"123"`,
		},
		{
			name:     "secret key",
			input:    `{"secretKey":"sk_live_abc"}`,
			excluded: "sk_live_abc",
		},
		{
			name:     "url parameter",
			input:    `apiKey=abc123&amount=10`,
			excluded: "abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeForLog(tt.input)
			assert.NotContains(t, result, tt.excluded)
			assert.Contains(t, result, "***REDACTED***")
		})
	}
}

func TestSanitizeForLogKeepsSafeFields(t *testing.T) {
	input := `{"amount":"10.00","currency":"USD"}`
	assert.Equal(t, input, SanitizeForLog(input))
}
