package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/VietOpenCPS/payment/connector"
	"github.com/VietOpenCPS/payment/handler"
	"github.com/VietOpenCPS/payment/infra/config"
	"github.com/VietOpenCPS/payment/infra/logger"
	"github.com/VietOpenCPS/payment/infra/middle"
	"github.com/VietOpenCPS/payment/infra/opensearch"
	"github.com/VietOpenCPS/payment/infra/response"
	"github.com/VietOpenCPS/payment/router"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := config.Get()

	storage, err := config.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open credential storage: %v", err)
	}
	defer storage.Close()

	credentials, err := config.NewConnectorConfigWithStorage(storage)
	if err != nil {
		log.Fatalf("Failed to load connector credentials: %v", err)
	}

	// Audit sink is optional; the service runs without it.
	var (
		auditLogger connector.AuditLogger = connector.NopAuditLogger{}
		osClient    *opensearch.Client
		osLogger    *opensearch.Logger
	)
	if cfg.EnableAudit {
		osClient, err = opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("OpenSearch unavailable, audit logging disabled: %v", err)
			osClient = nil
		} else {
			if err := osClient.SetupIndices(connector.Names()); err != nil {
				log.Printf("Failed to set up audit indices: %v", err)
			}
			osLogger = opensearch.NewLogger(osClient)
			auditLogger = osLogger
		}
	}
	if osLogger != nil {
		logger.InitGlobalLogger(osLogger)
	} else {
		logger.InitGlobalLogger(nil)
	}

	service := connector.NewServiceWith(connector.DefaultRegistry, auditLogger)

	// Re-activate connectors whose credentials survived the restart.
	for _, name := range credentials.ConfiguredConnectors() {
		stored, err := credentials.GetConfig(name)
		if err != nil {
			log.Printf("Failed to read credentials for connector %s: %v", name, err)
			continue
		}
		if err := service.AddConnector(name, stored); err != nil {
			log.Printf("Failed to activate connector %s: %v", name, err)
			continue
		}
		log.Printf("Activated payment connector: %s", name)
	}

	deps := router.Deps{
		Payments: handler.NewPaymentHandler(service, config.Validator()),
		Configs:  handler.NewConfigHandler(credentials, service),
		Health:   handler.NewHealthHandler(storage, osClient),
	}
	if osLogger != nil {
		deps.Audit = handler.NewAuditHandler(osLogger)
	}

	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middle.PanicRecoveryMiddleware())

	// Security Middleware
	rateLimiter := middle.NewRateLimiter()
	r.Use(middle.SecurityHeadersMiddleware())
	r.Use(middle.IPWhitelistMiddleware())
	r.Use(middle.RateLimitMiddleware(rateLimiter))
	r.Use(middle.RequestValidationMiddleware())
	r.Use(middle.RequestLoggingMiddleware())

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Requested-With", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           300, // Preflight cache time (second)
	}))

	router.Routes(r, deps)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found", nil)
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("API is running on", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
