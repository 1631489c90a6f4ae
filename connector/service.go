package connector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditLogger receives one entry per executed gateway operation. The
// zero implementation discards entries; infra wires a real sink.
type AuditLogger interface {
	LogOperation(ctx context.Context, connectorName string, op Operation, req *Request, resp Response, elapsed time.Duration, err error)
}

// NopAuditLogger discards every audit entry.
type NopAuditLogger struct{}

// LogOperation implements AuditLogger.
func (NopAuditLogger) LogOperation(context.Context, string, Operation, *Request, Response, time.Duration, error) {
}

// Service is the facade callers use to run gateway operations against
// named, pre-configured connectors. It keeps one initialized connector
// per name and feeds every operation through the audit logger.
type Service struct {
	mu         sync.RWMutex
	connectors map[string]Connector
	registry   *Registry
	logger     AuditLogger
}

// NewService creates a service backed by the default connector registry.
func NewService() *Service {
	return NewServiceWith(DefaultRegistry, NopAuditLogger{})
}

// NewServiceWith creates a service with an explicit registry and audit
// logger.
func NewServiceWith(registry *Registry, logger AuditLogger) *Service {
	if logger == nil {
		logger = NopAuditLogger{}
	}
	return &Service{
		connectors: make(map[string]Connector),
		registry:   registry,
		logger:     logger,
	}
}

// AddConnector creates the named connector from the registry and
// initializes it with config.
func (s *Service) AddConnector(name string, config map[string]string) error {
	conn, err := s.registry.Create(name)
	if err != nil {
		return err
	}
	if err := conn.Initialize(ParamsFrom(config)); err != nil {
		return fmt.Errorf("failed to initialize connector '%s': %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectors[name] = conn
	return nil
}

// Connector returns the initialized connector registered under name.
func (s *Service) Connector(name string) (Connector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn, ok := s.connectors[name]
	if !ok {
		return nil, fmt.Errorf("connector '%s' is not configured", name)
	}
	return conn, nil
}

// ConnectorNames returns the names of all configured connectors.
func (s *Service) ConnectorNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.connectors))
	for name := range s.connectors {
		names = append(names, name)
	}
	return names
}

// Execute runs op on the named connector: it builds the request through
// the matching factory method, assigns a transaction id when the caller
// supplied none, sends, and audits the outcome.
func (s *Service) Execute(ctx context.Context, name string, op Operation, params *Params) (Response, error) {
	return s.ExecuteWithCard(ctx, name, op, params, nil)
}

// ExecuteWithCard runs op like Execute and attaches a credit card built
// from cardParams to the request before sending.
func (s *Service) ExecuteWithCard(ctx context.Context, name string, op Operation, params, cardParams *Params) (Response, error) {
	conn, err := s.Connector(name)
	if err != nil {
		return nil, err
	}
	if !conn.Supports(op) {
		return nil, ErrOperationNotSupported
	}
	if params == nil {
		params = NewParams()
	}
	if !params.Has("transactionId") {
		params.Set("transactionId", uuid.New().String())
	}

	req, err := buildRequest(conn, op, params)
	if err != nil {
		return nil, err
	}
	if cardParams != nil && cardParams.Len() > 0 {
		if err := req.SetCardParams(cardParams); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := req.Send()
	s.logger.LogOperation(ctx, name, op, req, resp, time.Since(start), err)
	return resp, err
}

func buildRequest(conn Connector, op Operation, params *Params) (*Request, error) {
	switch op {
	case OpAuthorize:
		return conn.Authorize(params)
	case OpCompleteAuthorize:
		return conn.CompleteAuthorize(params)
	case OpCapture:
		return conn.Capture(params)
	case OpPurchase:
		return conn.Purchase(params)
	case OpCompletePurchase:
		return conn.CompletePurchase(params)
	case OpRefund:
		return conn.Refund(params)
	case OpRevert:
		return conn.Revert(params)
	case OpAcceptNotification:
		return conn.AcceptNotification(params)
	case OpCreateCard:
		return conn.CreateCard(params)
	case OpUpdateCard:
		return conn.UpdateCard(params)
	case OpDeleteCard:
		return conn.DeleteCard(params)
	default:
		return nil, ErrOperationNotSupported
	}
}
