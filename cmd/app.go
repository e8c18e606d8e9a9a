package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sccbd/catalog-api/src/config"
	"github.com/sccbd/catalog-api/src/database"
	"github.com/sccbd/catalog-api/src/repositories"
	"github.com/sccbd/catalog-api/src/services"
)

// app holds the database and the services built on it
type app struct {
	db           *database.Database
	analytics    *services.AnalyticsService
	images       *services.ImageStore
	users        *services.UserService
	destinations *services.DestinationService
	products     *services.ProductService
}

// newApp connects to the database, runs migrations and wires the services
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info().Msg("database connected")

	encryptor, err := services.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		db.Close()
		return nil, err
	}
	keys := services.NewKeyService(encryptor, services.NewTokenHasher(cfg.SecretKey))

	images, err := services.NewImageStore(cfg.ImageDir, cfg.MaxUploadBytes)
	if err != nil {
		db.Close()
		return nil, err
	}

	analytics, err := services.NewAnalyticsService(services.AnalyticsConfig{
		PostHogAPIKey: cfg.PostHogAPIKey,
		PostHogHost:   cfg.PostHogHost,
		Enabled:       cfg.PostHogEnabled,
		Environment:   cfg.Environment,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize analytics service: %w", err)
	}
	if analytics.Enabled() {
		log.Info().Str("host", cfg.PostHogHost).Msg("PostHog analytics enabled")
	} else {
		log.Info().Msg("PostHog analytics disabled")
	}

	mailer := services.NewMailer(services.MailerConfig{
		MailgunDomain: cfg.MailgunDomain,
		MailgunAPIKey: cfg.MailgunAPIKey,
		ResendAPIKey:  cfg.ResendAPIKey,
		FromEmail:     cfg.EmailFrom,
		FromName:      cfg.EmailFromName,
	})
	log.Info().Str("mailer", fmt.Sprintf("%T", mailer)).Msg("mail provider selected")

	pool := db.GetPool()
	return &app{
		db:        db,
		analytics: analytics,
		images:    images,
		users: services.NewUserService(repositories.NewUserRepository(pool), keys, images, mailer, analytics, services.UserServiceConfig{
			ClientServer:  cfg.ClientServer,
			ResetTokenTTL: cfg.ResetTokenTTL,
		}),
		destinations: services.NewDestinationService(repositories.NewDestinationRepository(pool), images),
		products:     services.NewProductService(repositories.NewProductRepository(pool)),
	}, nil
}

// Close flushes analytics and closes the pool
func (a *app) Close() {
	if err := a.analytics.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to flush analytics")
	}
	a.db.Close()
}
