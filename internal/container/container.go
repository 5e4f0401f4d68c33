package container

import (
	"context"
	"fmt"

	"activities-be/internal/config"
	"activities-be/internal/repository"
	"activities-be/internal/service"
	"activities-be/internal/service/auth"
	"activities-be/pkg/database"
	"activities-be/pkg/logger"
	"activities-be/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	Database    *database.PostgresDB
	RedisClient *redis.Client
	Services    *service.Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Container, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not configured")
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("Database pool initialized")

	// Redis is optional; embed resolution falls back to the database.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			logger.Info("Redis client initialized")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without caching")
	}

	activityRepo := repository.NewActivityRepository(db)
	userRepo := repository.NewUserRepository(db)

	services := &service.Services{
		Activity: service.NewActivityService(activityRepo, redisClient, logger.Logger),
		Auth:     auth.NewService(userRepo, cfg.JWTSecret, logger),
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Database:    db,
		RedisClient: redisClient,
		Services:    services,
	}, nil
}

// Close releases held connections.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if c.Database != nil {
		c.Database.Close()
	}
}

// GetActivityService returns the activity service
func (c *Container) GetActivityService() service.ActivityService {
	return c.Services.Activity
}

// GetAuthService returns the auth service
func (c *Container) GetAuthService() service.AuthService {
	return c.Services.Auth
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetDatabase returns the Postgres pool wrapper
func (c *Container) GetDatabase() *database.PostgresDB {
	return c.Database
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}
