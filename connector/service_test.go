package connector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures audit calls for inspection.
type recordingLogger struct {
	calls []auditCall
}

type auditCall struct {
	connector string
	op        Operation
	request   *Request
	response  Response
	err       error
}

func (l *recordingLogger) LogOperation(_ context.Context, name string, op Operation, req *Request, resp Response, _ time.Duration, err error) {
	l.calls = append(l.calls, auditCall{connector: name, op: op, request: req, response: resp, err: err})
}

func newTestService(logger AuditLogger) *Service {
	reg := NewRegistry()
	reg.Register("stub", func() Connector { return newStubConnector() })
	return NewServiceWith(reg, logger)
}

func TestServiceAddConnector(t *testing.T) {
	svc := newTestService(nil)
	require.NoError(t, svc.AddConnector("stub", map[string]string{"apiKey": "k"}))

	conn, err := svc.Connector("stub")
	require.NoError(t, err)
	assert.Equal(t, "k", conn.Parameters().Get("apiKey"))
	assert.Contains(t, svc.ConnectorNames(), "stub")
}

func TestServiceAddUnknownConnector(t *testing.T) {
	svc := newTestService(nil)
	err := svc.AddConnector("missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not registered")
}

func TestServiceConnectorNotConfigured(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.Connector("stub")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not configured")
}

func TestServiceExecute(t *testing.T) {
	logger := &recordingLogger{}
	svc := newTestService(logger)
	require.NoError(t, svc.AddConnector("stub", nil))

	params := NewParams()
	params.Set("amount", "10.00")
	params.Set("currency", "USD")

	resp, err := svc.Execute(context.Background(), "stub", OpPurchase, params)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())

	require.Len(t, logger.calls, 1)
	assert.Equal(t, "stub", logger.calls[0].connector)
	assert.Equal(t, OpPurchase, logger.calls[0].op)
	assert.NoError(t, logger.calls[0].err)
}

func TestServiceExecuteWithCard(t *testing.T) {
	logger := &recordingLogger{}
	svc := newTestService(logger)
	require.NoError(t, svc.AddConnector("stub", nil))

	params := NewParams()
	params.Set("amount", "10.00")
	params.Set("currency", "USD")

	card := NewParams()
	card.Set("number", "4111111111111111")
	card.Set("expiryMonth", "6")
	card.Set("expiryYear", "2040")

	_, err := svc.ExecuteWithCard(context.Background(), "stub", OpPurchase, params, card)
	require.NoError(t, err)

	require.Len(t, logger.calls, 1)
	require.NotNil(t, logger.calls[0].request.Card())
	assert.Equal(t, "4111111111111111", logger.calls[0].request.Card().Number())
}

func TestServiceExecuteAssignsTransactionID(t *testing.T) {
	svc := newTestService(nil)
	require.NoError(t, svc.AddConnector("stub", nil))

	params := NewParams()
	params.Set("amount", "10.00")
	params.Set("currency", "USD")

	_, err := svc.Execute(context.Background(), "stub", OpPurchase, params)
	require.NoError(t, err)
	assert.NotEmpty(t, params.Get("transactionId"), "a transaction id must be generated")
}

func TestServiceExecuteKeepsCallerTransactionID(t *testing.T) {
	svc := newTestService(nil)
	require.NoError(t, svc.AddConnector("stub", nil))

	params := NewParams()
	params.Set("amount", "10.00")
	params.Set("currency", "USD")
	params.Set("transactionId", "caller-1")

	_, err := svc.Execute(context.Background(), "stub", OpPurchase, params)
	require.NoError(t, err)
	assert.Equal(t, "caller-1", params.Get("transactionId"))
}

func TestServiceExecuteUnsupportedOperation(t *testing.T) {
	svc := newTestService(nil)
	require.NoError(t, svc.AddConnector("stub", nil))

	_, err := svc.Execute(context.Background(), "stub", OpDeleteCard, NewParams())
	assert.ErrorIs(t, err, ErrOperationNotSupported)
}

func TestOperationParsing(t *testing.T) {
	op, ok := ParseOperation("purchase")
	require.True(t, ok)
	assert.Equal(t, OpPurchase, op)
	assert.Equal(t, "purchase", op.String())

	_, ok = ParseOperation("teleport")
	assert.False(t, ok)
}
