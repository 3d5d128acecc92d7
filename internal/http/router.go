// Package httpapi wires the HTTP transport (Gin) to the relay services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, structured logging, panic recovery, metrics,
// and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/solxray/wallet-relay/internal/config"
	"github.com/solxray/wallet-relay/internal/domain"
	"github.com/solxray/wallet-relay/internal/http/handlers"
	"github.com/solxray/wallet-relay/internal/http/middleware"
	"github.com/solxray/wallet-relay/internal/repo"
	"github.com/solxray/wallet-relay/internal/services"
)

// audienceShim adapts the repository free functions to the
// services.AudienceRepo interface expected by the NotifyService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type audienceShim struct{}

// ListSubscriptionsByAddresses proxies repo.ListSubscriptionsByAddresses.
func (audienceShim) ListSubscriptionsByAddresses(ctx context.Context, db *gorm.DB, addrs []string) ([]domain.WalletSubscription, error) {
	return repo.ListSubscriptionsByAddresses(ctx, db, addrs)
}

// auditShim adapts the message-log free functions to handlers.AuditRepo.
type auditShim struct{}

// AppendMessageLog proxies repo.AppendMessageLog.
func (auditShim) AppendMessageLog(ctx context.Context, db *gorm.DB, userID, message string) (*domain.MessageLog, error) {
	return repo.AppendMessageLog(ctx, db, userID, message)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability (tracing, metrics), rate limiting, health, and the
// webhook delivery endpoint.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per IP)
func RegisterRoutes(r *gin.Engine, db *gorm.DB, images services.ImageResolver, notifier handlers.Notifier, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB); a single enhanced transaction
	// envelope stays well under this.
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per delivery source IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/helius
	notifySvc := services.NewNotifyService(db, audienceShim{}, images)
	h := handlers.New(db, notifySvc, notifier, auditShim{})

	// Provider delivery endpoint
	r.POST("/wallet", h.Webhook)
}

// limitBody caps the request body size for all endpoints to maxBytes using
// http.MaxBytesReader. Requests exceeding the cap error on body read.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
