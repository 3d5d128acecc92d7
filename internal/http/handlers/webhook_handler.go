package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/solxray/wallet-relay/internal/domain"
	"github.com/solxray/wallet-relay/internal/helius"
	"github.com/solxray/wallet-relay/internal/http/middleware"
)

var (
	// webhookEvents counts received transaction events by outcome.
	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of webhook transaction events received.",
		},
		[]string{"outcome"}, // ok | malformed | failed
	)

	// notificationsSent counts per-user notification deliveries by outcome.
	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of user notifications dispatched.",
		},
		[]string{"outcome"}, // ok | failed
	)
)

func init() {
	prometheus.MustRegister(webhookEvents, notificationsSent)
}

// MessageBuilder turns one transaction event into per-user messages.
type MessageBuilder interface {
	BuildMessages(ctx context.Context, ev *helius.TransactionEvent) ([]domain.OutboundMessage, error)
}

// Notifier delivers one rendered message to its user.
type Notifier interface {
	Send(ctx context.Context, msg domain.OutboundMessage) error
}

// AuditRepo persists a copy of every outbound notification.
type AuditRepo interface {
	AppendMessageLog(ctx context.Context, db *gorm.DB, userID, message string) (*domain.MessageLog, error)
}

// Handler bundles dependencies for all HTTP endpoints.
type Handler struct {
	DB       *gorm.DB
	Messages MessageBuilder
	Notifier Notifier
	Audit    AuditRepo
}

// New constructs a Handler with its dependencies injected.
func New(db *gorm.DB, messages MessageBuilder, notifier Notifier, audit AuditRepo) *Handler {
	return &Handler{DB: db, Messages: messages, Notifier: notifier, Audit: audit}
}

// Webhook handles POST /wallet: the provider's transaction event delivery.
//
// A body that does not decode into a transaction event is a 400 — the
// provider retries malformed deliveries so signalling the defect beats
// swallowing it. Everything downstream of a valid envelope is best-effort:
// per-user delivery failures are logged and counted but never turn into a
// non-200, since the provider would redeliver the whole event to every
// recipient, duplicating the notifications that did go out.
func (h *Handler) Webhook(c *gin.Context) {
	lg := middleware.LoggerFrom(c)

	body, err := c.GetRawData()
	if err != nil {
		webhookEvents.WithLabelValues("malformed").Inc()
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable request body")
		return
	}

	ev, err := helius.ParseEnvelope(body)
	if err != nil {
		lg.Warn().Err(err).Msg("malformed transaction envelope")
		webhookEvents.WithLabelValues("malformed").Inc()
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed transaction envelope")
		return
	}

	ctx := c.Request.Context()
	msgs, err := h.Messages.BuildMessages(ctx, ev)
	if err != nil {
		lg.Error().Err(err).Str("signature", ev.Signature).Msg("audience resolution failed")
		webhookEvents.WithLabelValues("failed").Inc()
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "event processing failed")
		return
	}

	for _, msg := range msgs {
		if _, err := h.Audit.AppendMessageLog(ctx, h.DB, msg.UserID, msg.Text); err != nil {
			lg.Error().Err(err).Str("user_id", msg.UserID).Msg("message audit failed")
		}
		if err := h.Notifier.Send(ctx, msg); err != nil {
			notificationsSent.WithLabelValues("failed").Inc()
			continue
		}
		notificationsSent.WithLabelValues("ok").Inc()
	}

	lg.Info().
		Str("signature", ev.Signature).
		Str("type", ev.Type).
		Int("recipients", len(msgs)).
		Msg("transaction event processed")
	webhookEvents.WithLabelValues("ok").Inc()

	c.String(http.StatusOK, "OK")
}
