package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/posthog/posthog-go"
	"github.com/rs/zerolog/log"
)

// Analytics event names
const (
	EventUserCreated       = "user_created"
	EventStudentRegistered = "student_registered"
	EventAccountActivated  = "account_activated"
	EventPasswordReset     = "password_reset"
)

// HashEmail returns a hex-encoded SHA-256 of the normalized email for use as a distinct ID
func HashEmail(email string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("%x", h)
}

// Tracker records account lifecycle events
type Tracker interface {
	Track(ctx context.Context, email, event string, properties map[string]interface{})
}

// AnalyticsService sends account lifecycle events to PostHog
type AnalyticsService struct {
	client      posthog.Client
	enabled     bool
	environment string
}

type posthogLogger struct{}

func (l posthogLogger) Success(m posthog.APIMessage) {
	log.Debug().Str("type", fmt.Sprintf("%T", m)).Msg("PostHog event delivered")
}

func (l posthogLogger) Failure(m posthog.APIMessage, err error) {
	log.Error().Err(err).Str("type", fmt.Sprintf("%T", m)).Msg("PostHog delivery failed")
}

// AnalyticsConfig holds analytics configuration
type AnalyticsConfig struct {
	PostHogAPIKey string
	PostHogHost   string
	Enabled       bool
	Environment   string
}

// NewAnalyticsService returns a disabled service unless analytics is enabled and keyed
func NewAnalyticsService(cfg AnalyticsConfig) (*AnalyticsService, error) {
	if !cfg.Enabled || cfg.PostHogAPIKey == "" {
		return &AnalyticsService{}, nil
	}

	client, err := posthog.NewWithConfig(
		cfg.PostHogAPIKey,
		posthog.Config{
			Endpoint:  cfg.PostHogHost,
			Interval:  30 * time.Second,
			BatchSize: 100,
			Callback:  posthogLogger{},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostHog client: %w", err)
	}

	return &AnalyticsService{client: client, enabled: true, environment: cfg.Environment}, nil
}

// Enabled reports whether events are forwarded
func (s *AnalyticsService) Enabled() bool {
	return s != nil && s.enabled
}

// Close flushes pending events
func (s *AnalyticsService) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}

func (s *AnalyticsService) properties(extra map[string]interface{}) posthog.Properties {
	props := posthog.NewProperties()
	for k, v := range extra {
		props.Set(k, v)
	}
	if s.environment != "" {
		props.Set("environment", s.environment)
	}
	return props
}

// Track enqueues event for the account identified by email
func (s *AnalyticsService) Track(_ context.Context, email, event string, properties map[string]interface{}) {
	if !s.Enabled() {
		return
	}

	props := s.properties(properties)
	if err := s.client.Enqueue(posthog.Capture{
		DistinctId: "email_" + HashEmail(email),
		Event:      event,
		Timestamp:  time.Now(),
		Properties: props,
	}); err != nil {
		log.Error().Err(err).Str("event", event).Msg("PostHog enqueue failed")
	}
}

var _ Tracker = (*AnalyticsService)(nil)
