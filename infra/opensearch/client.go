package opensearch

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/VietOpenCPS/payment/infra/config"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Client wraps the OpenSearch client used for the audit trail.
type Client struct {
	client *opensearch.Client
	config *config.App
}

// NewClient creates a new OpenSearch client
func NewClient(cfg *config.App) (*Client, error) {
	opensearchConfig := opensearch.Config{
		Addresses: []string{cfg.OpenSearchURL},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // For development/testing
			},
		},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	if cfg.OpenSearchUser != "" && cfg.OpenSearchPass != "" {
		opensearchConfig.Username = cfg.OpenSearchUser
		opensearchConfig.Password = cfg.OpenSearchPass
	}

	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: client,
		config: cfg,
	}, nil
}

// GetClient returns the underlying OpenSearch client
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// SetupIndices creates the audit index for each given connector if it
// does not exist yet.
func (c *Client) SetupIndices(connectors []string) error {
	for _, name := range connectors {
		indexName := c.AuditIndexName(name)

		exists, err := c.indexExists(indexName)
		if err != nil {
			log.Printf("Error checking index %s: %v", indexName, err)
			continue
		}

		if !exists {
			if err := c.createAuditIndex(indexName); err != nil {
				log.Printf("Error creating index %s: %v", indexName, err)
				continue
			}
			log.Printf("Created OpenSearch index: %s", indexName)
		}
	}

	return nil
}

// indexExists checks if an index exists
func (c *Client) indexExists(indexName string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{
		Index: []string{indexName},
	}

	res, err := req.Do(nil, c.client)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	return res.StatusCode == 200, nil
}

// createAuditIndex creates a new audit index with its mapping.
func (c *Client) createAuditIndex(indexName string) error {
	mapping := `{
		"mappings": {
			"properties": {
				"timestamp": {
					"type": "date",
					"format": "strict_date_optional_time||epoch_millis"
				},
				"connector": {
					"type": "keyword"
				},
				"operation": {
					"type": "keyword"
				},
				"transaction_id": {
					"type": "keyword"
				},
				"transaction_reference": {
					"type": "keyword"
				},
				"amount": {
					"type": "keyword"
				},
				"currency": {
					"type": "keyword"
				},
				"card_number": {
					"type": "keyword"
				},
				"client_ip": {
					"type": "ip"
				},
				"test_mode": {
					"type": "boolean"
				},
				"successful": {
					"type": "boolean"
				},
				"pending": {
					"type": "boolean"
				},
				"redirect": {
					"type": "boolean"
				},
				"cancelled": {
					"type": "boolean"
				},
				"code": {
					"type": "keyword"
				},
				"message": {
					"type": "text"
				},
				"error": {
					"type": "text"
				},
				"processing_time_ms": {
					"type": "integer"
				}
			}
		},
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0
		}
	}`

	req := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(mapping),
	}

	res, err := req.Do(nil, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index creation error: %s", res.String())
	}

	return nil
}

// AuditIndexName returns the audit index of one connector.
func (c *Client) AuditIndexName(connectorName string) string {
	return "payment-" + strings.ToLower(connectorName) + "-audit"
}

// IsEnabled returns whether audit logging is enabled
func (c *Client) IsEnabled() bool {
	return c.config.EnableAudit
}
