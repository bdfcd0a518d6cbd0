package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/cache"
	"github.com/happynation/wellbeing-service/internal/imagehost"
	"github.com/happynation/wellbeing-service/internal/llm"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/repositories/postgres"
	"github.com/happynation/wellbeing-service/internal/scoring"
	"github.com/happynation/wellbeing-service/internal/services"
	"github.com/happynation/wellbeing-service/internal/session"
	"github.com/happynation/wellbeing-service/internal/validator"
	"github.com/happynation/wellbeing-service/pkg"
)

const cachePrefix = "wellbeing"

// app holds everything the commands share. close releases it in reverse
// order of acquisition.
type app struct {
	db        *gorm.DB
	repo      repositories.Repository
	redis     *redis.Client
	tokens    *auth.TokenManager
	validator *validator.Validator
	services  services.ServiceManager

	closers []io.Closer
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logger.Warn("Failed to release resource", "error", err)
		}
	}
}

func openDatabase() (*gorm.DB, repositories.Repository, io.Closer, error) {
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	return db, postgres.NewRepository(db), sqlDB, nil
}

// bootstrap wires the full service graph. Optional collaborators (Redis, the
// model, the image host, SSO) degrade to local or disabled implementations.
func bootstrap(ctx context.Context) (*app, error) {
	a := &app{
		tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		validator: validator.New(),
	}

	db, repo, dbCloser, err := openDatabase()
	if err != nil {
		return nil, err
	}
	a.db, a.repo = db, repo
	a.closers = append(a.closers, dbCloser)

	loadEmployee := func(ctx context.Context, email string) (*models.Employee, error) {
		return repo.Employee().GetByEmail(ctx, email)
	}

	var (
		cacheService cache.CacheService
		sessions     session.Store
	)
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	switch {
	case err != nil:
		logger.Warn("Redis unavailable, using in-process sessions without analytics cache", "error", err)
		sessions = session.NewMemoryStore(loadEmployee)
	case redisClient == nil:
		logger.Info("Redis not configured, using in-process sessions")
		sessions = session.NewMemoryStore(loadEmployee)
	default:
		a.redis = redisClient
		a.closers = append(a.closers, redisClient)
		cacheService = cache.NewRedisCache(redisClient, cachePrefix, logger.Slog())
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL, loadEmployee)
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	a.closers = append(a.closers, publisher)

	generator, err := newGenerator(ctx)
	if err != nil {
		logger.Warn("Generative model unavailable, scoring locally", "provider", cfg.AI.Provider, "error", err)
		generator = nil
	}
	resolver := scoring.NewResolver(generator, logger.Slog(), scoring.WithTimeout(cfg.AI.Timeout))

	uploader, err := newUploader(ctx)
	if err != nil {
		logger.Warn("Image host unavailable, uploads disabled", "provider", cfg.ImageHost.Provider, "error", err)
		uploader = nil
	}

	deps := services.Dependencies{
		Repo:          repo,
		Resolver:      resolver,
		Publisher:     publisher,
		Cache:         cacheService,
		Sessions:      sessions,
		Tokens:        a.tokens,
		Uploader:      uploader,
		Validator:     a.validator,
		Logger:        logger.Slog(),
		HistoryWindow: cfg.HistoryWindow,
		AnalyticsTTL:  cfg.AnalyticsTTL,
	}
	if cfg.Casdoor.Enabled() {
		deps.SSO = auth.NewCasdoorVerifier(
			cfg.Casdoor.Endpoint,
			cfg.Casdoor.ClientID,
			cfg.Casdoor.ClientSecret,
			cfg.Casdoor.Certificate,
			cfg.Casdoor.Organization,
			cfg.Casdoor.Application,
		)
	}

	a.services = services.NewServiceManager(deps)
	return a, nil
}

var errNoProvider = errors.New("no generative model configured")

// newGenerator returns nil without error when AI scoring is switched off.
func newGenerator(ctx context.Context) (scoring.Generator, error) {
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.APIKey == "" {
			return nil, errNoProvider
		}
		return llm.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model, scoring.SystemInstruction)
	case "compat":
		return llm.NewCompatGenerator(cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.APIKey, scoring.SystemInstruction), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}

func newUploader(ctx context.Context) (imagehost.Uploader, error) {
	switch cfg.ImageHost.Provider {
	case "cloudinary":
		if cfg.ImageHost.CloudinaryCloudName == "" {
			return nil, errors.New("cloudinary cloud name is not set")
		}
		return imagehost.NewCloudinaryUploader(cfg.ImageHost.CloudinaryCloudName, cfg.ImageHost.CloudinaryPreset), nil
	case "minio":
		return imagehost.NewMinioUploader(
			ctx,
			cfg.ImageHost.MinioEndpoint,
			cfg.ImageHost.MinioAccessKey,
			cfg.ImageHost.MinioSecretKey,
			cfg.ImageHost.MinioBucket,
			cfg.ImageHost.MinioUseSSL,
			cfg.ImageHost.MinioPublicURL,
		)
	default:
		return nil, fmt.Errorf("unknown image host %q", cfg.ImageHost.Provider)
	}
}
