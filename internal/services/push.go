package services

import (
	"fmt"

	"nalia-backend/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// PushService delivers notifications over APNs. When no certificate is
// configured the service is a no-op, so local setups run without Apple
// credentials.
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a new push service
func NewPushService(cfg config.APNsConfig) (*PushService, error) {
	if cfg.CertPath == "" {
		log.Warn().Msg("APNs certificate not configured, push delivery disabled")
		return &PushService{}, nil
	}

	cert, err := certificate.FromP12File(cfg.CertPath, cfg.CertPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushService{client: client, topic: cfg.Topic}, nil
}

// Send pushes a notification to a device token. Failures are logged and
// swallowed: push is best effort and must never fail the triggering
// action.
func (s *PushService) Send(deviceToken, title, body string) {
	if s.client == nil || deviceToken == "" {
		return
	}

	n := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     payload.NewPayload().AlertTitle(title).AlertBody(body).Sound("default"),
	}

	res, err := s.client.Push(n)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send push notification")
		return
	}
	if !res.Sent() {
		log.Warn().
			Int("status", res.StatusCode).
			Str("reason", res.Reason).
			Msg("Push notification rejected")
	}
}
