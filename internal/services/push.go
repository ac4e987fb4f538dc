package services

import (
	"context"
	"fmt"

	appconfig "amora-backend/internal/config"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// PushService delivers APNs alerts to devices that registered a push
// token. It is a best-effort channel for users who are offline.
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a push service. With an empty key file the
// service is disabled and Send calls are no-ops.
func NewPushService(cfg appconfig.APNSConfig) (*PushService, error) {
	if cfg.KeyFile == "" {
		return &PushService{}, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	t := &token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	}

	client := apns2.NewTokenClient(t)
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushService{
		client: client,
		topic:  cfg.Topic,
	}, nil
}

// Enabled reports whether push delivery is configured
func (s *PushService) Enabled() bool {
	return s != nil && s.client != nil
}

// Send delivers one alert to a device token
func (s *PushService) Send(ctx context.Context, deviceToken, title, body string) error {
	if !s.Enabled() {
		return nil
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload: payload.NewPayload().
			AlertTitle(title).
			AlertBody(body).
			Sound("default"),
	}

	res, err := s.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}
