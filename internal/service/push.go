package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"stableride-backend/internal/config"
	"stableride-backend/internal/logger"
)

type fcmPushService struct {
	client *messaging.Client
}

// NewPushService builds the FCM sender. With push disabled in config it
// returns a no-op implementation so callers never nil-check.
func NewPushService(ctx context.Context, cfg config.PushConfig) (PushService, error) {
	if !cfg.Enabled {
		logger.Info("Push notifications disabled")
		return noopPushService{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fcm client: %w", err)
	}
	return &fcmPushService{client: client}, nil
}

func (s *fcmPushService) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push message: %w", err)
	}
	return nil
}

type noopPushService struct{}

func (noopPushService) Send(context.Context, string, string, string, map[string]string) error {
	return nil
}
