package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/VietOpenCPS/payment/connector"
)

// AuditEntry is one indexed record of a gateway operation. Card numbers
// are stored masked, never in full.
type AuditEntry struct {
	Timestamp            time.Time `json:"timestamp"`
	Connector            string    `json:"connector"`
	Operation            string    `json:"operation"`
	TransactionID        string    `json:"transaction_id,omitempty"`
	TransactionReference string    `json:"transaction_reference,omitempty"`
	Amount               string    `json:"amount,omitempty"`
	Currency             string    `json:"currency,omitempty"`
	CardNumber           string    `json:"card_number,omitempty"`
	ClientIP             string    `json:"client_ip,omitempty"`
	TestMode             bool      `json:"test_mode"`
	Successful           bool      `json:"successful"`
	Pending              bool      `json:"pending,omitempty"`
	Redirect             bool      `json:"redirect,omitempty"`
	Cancelled            bool      `json:"cancelled,omitempty"`
	Code                 string    `json:"code,omitempty"`
	Message              string    `json:"message,omitempty"`
	Error                string    `json:"error,omitempty"`
	ProcessingTimeMs     int64     `json:"processing_time_ms"`
}

// Logger indexes gateway operations into OpenSearch. It satisfies the
// connector.AuditLogger contract.
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch audit logger.
func NewLogger(client *Client) *Logger {
	return &Logger{
		client: client,
	}
}

// LogOperation records the outcome of one gateway operation. Indexing
// failures are logged and swallowed so that a broken audit sink never
// fails a payment.
func (l *Logger) LogOperation(ctx context.Context, connectorName string, op connector.Operation, req *connector.Request, resp connector.Response, elapsed time.Duration, opErr error) {
	if !l.client.IsEnabled() {
		return
	}

	entry := AuditEntry{
		Timestamp:        time.Now(),
		Connector:        connectorName,
		Operation:        op.String(),
		ProcessingTimeMs: elapsed.Milliseconds(),
	}
	if req != nil {
		entry.TransactionID = req.TransactionID()
		entry.Currency = req.Currency()
		entry.ClientIP = req.ClientIP()
		entry.TestMode = req.TestMode()
		if amount, err := req.Amount(); err == nil {
			entry.Amount = amount
		}
		if card := req.Card(); card != nil && card.Number() != "" {
			entry.CardNumber = card.NumberMasked('X')
		}
	}
	if resp != nil {
		entry.Successful = resp.IsSuccessful()
		entry.Pending = resp.IsPending()
		entry.Redirect = resp.IsRedirect()
		entry.Cancelled = resp.IsCancelled()
		entry.Code = resp.Code()
		entry.Message = resp.Message()
		entry.TransactionReference = resp.TransactionReference()
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}

	if err := l.Index(ctx, entry); err != nil {
		log.Printf("audit indexing failed for %s/%s: %v", connectorName, op, err)
	}
}

// Index writes one audit entry to the connector's audit index.
func (l *Logger) Index(ctx context.Context, entry AuditEntry) error {
	if !l.client.IsEnabled() {
		return nil
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	indexName := l.client.AuditIndexName(entry.Connector)

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index: indexName,
		Body:  bytes.NewReader(entryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index audit entry: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch error: %s", res.String())
	}

	return nil
}

// SearchEntries searches the audit trail of one connector.
func (l *Logger) SearchEntries(ctx context.Context, connectorName string, query map[string]any) ([]AuditEntry, error) {
	if !l.client.IsEnabled() {
		return nil, fmt.Errorf("audit logging is disabled")
	}

	indexName := l.client.AuditIndexName(connectorName)

	searchQuery := map[string]any{
		"query": query,
		"sort": []map[string]any{
			{"timestamp": map[string]string{"order": "desc"}},
		},
		"size": 100,
	}

	queryJSON, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch search error: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source AuditEntry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	entries := make([]AuditEntry, len(searchResult.Hits.Hits))
	for i, hit := range searchResult.Hits.Hits {
		entries[i] = hit.Source
	}

	return entries, nil
}

// TransactionEntries retrieves the audit trail of one transaction.
func (l *Logger) TransactionEntries(ctx context.Context, connectorName, transactionID string) ([]AuditEntry, error) {
	query := map[string]any{
		"match": map[string]any{
			"transaction_id": transactionID,
		},
	}

	return l.SearchEntries(ctx, connectorName, query)
}

// RecentErrors retrieves recent failed operations of one connector.
func (l *Logger) RecentErrors(ctx context.Context, connectorName string, hours int) ([]AuditEntry, error) {
	query := map[string]any{
		"bool": map[string]any{
			"must": []map[string]any{
				{
					"range": map[string]any{
						"timestamp": map[string]any{
							"gte": fmt.Sprintf("now-%dh", hours),
						},
					},
				},
				{
					"term": map[string]any{
						"successful": false,
					},
				},
			},
		},
	}

	return l.SearchEntries(ctx, connectorName, query)
}

// ConnectorStats aggregates operation counts and latency for one
// connector over the last hours.
func (l *Logger) ConnectorStats(ctx context.Context, connectorName string, hours int) (map[string]any, error) {
	if !l.client.IsEnabled() {
		return nil, fmt.Errorf("audit logging is disabled")
	}

	indexName := l.client.AuditIndexName(connectorName)

	aggQuery := map[string]any{
		"query": map[string]any{
			"range": map[string]any{
				"timestamp": map[string]any{
					"gte": fmt.Sprintf("now-%dh", hours),
				},
			},
		},
		"aggs": map[string]any{
			"total_operations": map[string]any{
				"value_count": map[string]any{
					"field": "transaction_id",
				},
			},
			"success_count": map[string]any{
				"filter": map[string]any{
					"term": map[string]any{
						"successful": true,
					},
				},
			},
			"error_count": map[string]any{
				"filter": map[string]any{
					"term": map[string]any{
						"successful": false,
					},
				},
			},
			"avg_processing_time": map[string]any{
				"avg": map[string]any{
					"field": "processing_time_ms",
				},
			},
			"operations": map[string]any{
				"terms": map[string]any{
					"field": "operation",
					"size":  16,
				},
			},
		},
		"size": 0,
	}

	queryJSON, err := json.Marshal(aggQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal aggregation query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return nil, fmt.Errorf("aggregation search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch aggregation error: %s", res.String())
	}

	var result map[string]any
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation results: %w", err)
	}

	return result, nil
}

// LogEvent indexes a system event into the shared system log index.
func (l *Logger) LogEvent(ctx context.Context, entry any) error {
	if !l.client.IsEnabled() {
		return nil
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal system event: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index: "payment-system-logs",
		Body:  bytes.NewReader(entryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index system event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch system log error: %s", res.String())
	}

	return nil
}

// SanitizeForLog removes sensitive information from data before logging
func SanitizeForLog(data string) string {
	sensitiveFields := []string{
		"cardNumber", "card_number", "number", "cvv", "cvc",
		"apiKey", "api_key", "secretKey", "secret_key", "password", "token",
		"authorization", "x-api-key", "x-secret-key",
	}

	result := data
	for _, field := range sensitiveFields {
		patterns := []string{
			fmt.Sprintf(`"%s"\s*:\s*"[^"]*"`, field),
			fmt.Sprintf(`"%s"\s*:\s*'[^']*'`, field),
			fmt.Sprintf(`%s=\w+`, field),
		}

		for _, pattern := range patterns {
			re := regexp.MustCompile(pattern)
			result = re.ReplaceAllString(result, fmt.Sprintf(`"%s":"***REDACTED***"`, field))
		}
	}

	return result
}
