// Package handler contains the HTTP handlers of the payment service.
//
// Payment operations are exposed under /v1/payments/{connector}/{operation},
// redirect returns under /v1/callback/{connector} and gateway
// notifications under /v1/webhooks/{connector}. Connector credentials
// are managed under /v1/config and the audit trail is queried under
// /v1/audit.
package handler
