package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/config"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/mail"
)

// NotificationService turns domain events into outbound mail.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
	cfg        config.MailConfig
	appName    string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger, cfg config.Config) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg.Mail,
		appName:    cfg.App.Name,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventContactMessageReceived, n.handleContactMessageReceived)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
	n.dispatcher.Subscribe(events.EventAssetReleased, n.handleAssetReleased)
}

func (n *NotificationService) handleContactMessageReceived(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ContactMessageReceivedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("ContactMessageReceived", zap.String("message_id", payload.MessageID))

	if strings.TrimSpace(n.cfg.AdminEmail) == "" {
		return nil
	}
	return n.mailer.Send(ctx, n.cfg.AdminEmail, mail.TemplateContactReceived, map[string]any{
		"AppName":      n.appName,
		"FirstName":    payload.FirstName,
		"LastName":     payload.LastName,
		"EmailAddress": payload.EmailAddress,
		"Message":      payload.Preview,
	})
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PasswordChanged", zap.String("user_id", payload.UserID))

	return n.mailer.Send(ctx, payload.EmailAddress, mail.TemplatePasswordChanged, map[string]any{
		"AppName": n.appName,
	})
}

func (n *NotificationService) handleAssetReleased(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AssetReleasedPayload)
	if !ok {
		return nil
	}
	n.logger.Debug("AssetReleased",
		zap.String("resource", payload.Resource),
		zap.String("key", payload.Key))
	return nil
}
