package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/inmohub/identity-service/internal/config"
	"github.com/inmohub/identity-service/internal/events"
)

// NotificationService forwards rendered message bodies to the external
// notifier. The core only produces message text; delivery is out of scope
// and stubbed here behind config endpoints.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventActivationCodeIssued, n.handleCodeIssued)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handleCodeIssued)
	n.dispatcher.Subscribe(events.EventAccountActivated, n.handleAccountActivated)
	n.dispatcher.Subscribe(events.EventStaffRegistered, n.handleStaffRegistered)
}

func (n *NotificationService) handleCodeIssued(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CodeIssuedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("code issued",
		zap.String("event_type", string(event.Type)),
		zap.String("email", event.Email))
	n.sendEmailNotificationStub(ctx, event.Email, payload.Subject, payload.Body)
	return nil
}

func (n *NotificationService) handleAccountActivated(ctx context.Context, event events.Event) error {
	n.logger.Info("account activated", zap.String("email", event.Email))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStaffRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("staff registered", zap.String("email", event.Email))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, to, subject, body string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_length", len(body)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)),
		zap.String("email", event.Email))
}
