package config

import (
	"fmt"
	"strings"
	"sync"
)

// secretKeys are credential fields that must never leave the service in
// clear text.
var secretKeys = map[string]bool{
	"secretKey": true,
	"apiKey":    true,
	"password":  true,
	"token":     true,
}

// ConnectorConfig manages gateway credentials: an in-memory cache backed
// by SQLite so configured connectors survive a restart.
type ConnectorConfig struct {
	configs map[string]map[string]string
	storage *SQLiteStorage
	mu      sync.RWMutex
}

// NewConnectorConfig creates a credential manager without persistence.
func NewConnectorConfig() *ConnectorConfig {
	return &ConnectorConfig{configs: make(map[string]map[string]string)}
}

// NewConnectorConfigWithStorage creates a credential manager backed by
// storage and warms the cache from it.
func NewConnectorConfigWithStorage(storage *SQLiteStorage) (*ConnectorConfig, error) {
	c := &ConnectorConfig{
		configs: make(map[string]map[string]string),
		storage: storage,
	}
	if storage != nil {
		stored, err := storage.LoadAllConnectorConfigs()
		if err != nil {
			return nil, fmt.Errorf("failed to load connector configs: %w", err)
		}
		for name, config := range stored {
			c.configs[name] = config
		}
	}
	return c, nil
}

// SetConfig stores credentials for a connector and persists them when a
// storage backend is attached.
func (c *ConnectorConfig) SetConfig(connectorName string, config map[string]string) error {
	if connectorName == "" {
		return fmt.Errorf("connector name cannot be empty")
	}
	if len(config) == 0 {
		return fmt.Errorf("config cannot be empty")
	}
	key := strings.ToLower(connectorName)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storage != nil {
		if err := c.storage.SaveConnectorConfig(key, config); err != nil {
			return fmt.Errorf("failed to persist config: %w", err)
		}
	}
	c.configs[key] = config
	return nil
}

// GetConfig returns a copy of the credentials stored for a connector.
func (c *ConnectorConfig) GetConfig(connectorName string) (map[string]string, error) {
	key := strings.ToLower(connectorName)

	c.mu.RLock()
	config, exists := c.configs[key]
	c.mu.RUnlock()

	if !exists && c.storage != nil {
		stored, err := c.storage.LoadConnectorConfig(key)
		if err == nil {
			c.mu.Lock()
			c.configs[key] = stored
			c.mu.Unlock()
			config = stored
			exists = true
		}
	}
	if !exists {
		return nil, fmt.Errorf("no configuration found for connector: %s", connectorName)
	}

	configCopy := make(map[string]string, len(config))
	for k, v := range config {
		configCopy[k] = v
	}
	return configCopy, nil
}

// MaskedConfig returns the credentials of a connector with secret values
// replaced, safe to expose through the API.
func (c *ConnectorConfig) MaskedConfig(connectorName string) (map[string]string, error) {
	config, err := c.GetConfig(connectorName)
	if err != nil {
		return nil, err
	}
	for k := range config {
		if secretKeys[k] {
			config[k] = "********"
		}
	}
	return config, nil
}

// ConfiguredConnectors returns the names of all connectors that have
// credentials.
func (c *ConnectorConfig) ConfiguredConnectors() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.configs))
	for name := range c.configs {
		names = append(names, name)
	}
	return names
}

// DeleteConfig removes a connector's credentials from the cache and the
// storage backend.
func (c *ConnectorConfig) DeleteConfig(connectorName string) error {
	if connectorName == "" {
		return fmt.Errorf("connector name cannot be empty")
	}
	key := strings.ToLower(connectorName)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storage != nil {
		if err := c.storage.DeleteConnectorConfig(key); err != nil {
			return fmt.Errorf("failed to delete persisted config: %w", err)
		}
	}
	delete(c.configs, key)
	return nil
}

// GetStats returns cache and storage statistics.
func (c *ConnectorConfig) GetStats() (map[string]any, error) {
	stats := make(map[string]any)

	c.mu.RLock()
	stats["memory_configs"] = len(c.configs)
	c.mu.RUnlock()

	if c.storage != nil {
		storageStats, err := c.storage.GetStats()
		if err != nil {
			stats["storage_error"] = err.Error()
		} else {
			stats["storage"] = storageStats
		}
	} else {
		stats["storage"] = "not_available"
	}
	return stats, nil
}
