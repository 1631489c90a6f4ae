package opensearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VietOpenCPS/payment/infra/config"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.App
	}{
		{
			name: "valid_config_no_auth",
			cfg: &config.App{
				OpenSearchURL: "http://localhost:9200",
				EnableAudit:   true,
			},
		},
		{
			name: "valid_config_with_auth",
			cfg: &config.App{
				OpenSearchURL:  "http://localhost:9200",
				EnableAudit:    true,
				OpenSearchUser: "admin",
				OpenSearchPass: "admin",
			},
		},
		{
			name: "audit_disabled",
			cfg: &config.App{
				OpenSearchURL: "http://localhost:9200",
				EnableAudit:   false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, client)
			assert.NotNil(t, client.GetClient())
			assert.Equal(t, tt.cfg.EnableAudit, client.IsEnabled())
		})
	}
}

func TestAuditIndexName(t *testing.T) {
	client := &Client{config: &config.App{}}
	assert.Equal(t, "payment-dummy-audit", client.AuditIndexName("dummy"))
	assert.Equal(t, "payment-stripe-audit", client.AuditIndexName("Stripe"))
}
