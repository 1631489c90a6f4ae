// Package payment provides a unified payment gateway abstraction: one
// consistent API for charging cards, handling hosted-page redirects and
// refunding transactions across otherwise incompatible gateways.
//
// # Overview
//
// Every gateway speaks its own dialect of authentication, callbacks and
// response formats. This module standardizes them behind the connector
// contract: a connector announces which operations it supports, turns a
// flat parameter set into a Request, and sending that Request yields a
// Response with a uniform outcome surface (successful, pending,
// redirect, cancelled).
//
// # Quick Start
//
// Basic library usage:
//
//	package main
//
//	import (
//	    "context"
//
//	    "github.com/VietOpenCPS/payment/connector"
//	    _ "github.com/VietOpenCPS/payment/connector/stripe" // Import to register connector
//	)
//
//	func main() {
//	    service := connector.NewService()
//
//	    err := service.AddConnector("stripe", map[string]string{
//	        "secretKey": "sk_test_...",
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    params := connector.NewParams()
//	    params.Set("amount", "100.50")
//	    params.Set("currency", "USD")
//	    params.Set("token", "pm_card_visa")
//	    params.Set("returnUrl", "https://yourapp.com/return")
//
//	    resp, err := service.Execute(context.Background(), "stripe", connector.OpPurchase, params)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    if resp.IsRedirect() {
//	        // Forward the customer to the 3-D Secure page
//	    }
//	}
//
// # HTTP API
//
// The same operations are exposed as a REST service:
//
//	# Run an operation
//	POST /v1/payments/{connector}/{operation}
//
//	# Redirect return leg (completePurchase)
//	GET|POST /v1/callback/{connector}
//
//	# Gateway notifications
//	POST /v1/webhooks/{connector}
//
//	# Manage connector credentials
//	GET|POST|DELETE /v1/config/{connector}
//
//	# Query the audit trail
//	GET /v1/audit/{connector}
//
// Credentials are kept in SQLite so configured connectors survive a
// restart; every executed operation is indexed into OpenSearch with the
// card number masked.
//
// # Contributing
//
// To add a new gateway, implement the connector.Connector interface
// (embed connector.Base, supply a Sender per operation), register it
// with connector.Register in an init function, and add tests against
// the Request/Response lifecycle.
package payment
