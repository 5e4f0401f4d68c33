package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"activities-be/internal/domain"
	"activities-be/internal/repository"
	apperrors "activities-be/pkg/errors"
	"activities-be/pkg/redis"
)

// DefaultActivityService implements ActivityService over Postgres with a
// Redis cache in front of the embed resolution path.
type DefaultActivityService struct {
	repo   repository.ActivityRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewActivityService creates a new activity service. cache may be nil, in
// which case every embed resolution hits the database.
func NewActivityService(repo repository.ActivityRepository, cache *redis.Client, logger *zap.Logger) *DefaultActivityService {
	return &DefaultActivityService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// List returns public activities plus the viewer's own drafts. The anonymous
// listing is cached; viewer-specific listings always hit the database.
func (s *DefaultActivityService) List(ctx context.Context, viewerID string) ([]domain.Activity, error) {
	var cacheKey string
	if viewerID == "" && s.cache != nil {
		cacheKey = s.cache.KeyBuilder.KeyActivityList()
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil && cached != "" {
			var activities []domain.Activity
			if unmarshalErr := json.Unmarshal([]byte(cached), &activities); unmarshalErr == nil {
				return activities, nil
			}
		} else if err != nil && err != redis.Nil {
			s.logger.Warn("list cache error, falling back to database", zap.Error(err))
		}
	}

	activities, err := s.repo.List(ctx, viewerID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list activities", err)
	}

	if cacheKey != "" {
		if payload, marshalErr := json.Marshal(activities); marshalErr == nil {
			s.cacheAsync(cacheKey, string(payload), redis.TTLActivityList)
		}
	}
	return activities, nil
}

// GetBySlug resolves a slug under the viewer's visibility rules.
func (s *DefaultActivityService) GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Activity, error) {
	act, err := s.repo.GetBySlug(ctx, slug, viewerID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get activity", err)
	}
	if act == nil {
		return nil, apperrors.NewNotFoundError("activity not found", map[string]interface{}{"slug": slug})
	}
	return act, nil
}

// ResolveForEmbed resolves a public activity for the embed surfaces,
// cache-aside. Cache failures fall through to the database; a cached
// not-found sentinel keeps hot missing slugs off Postgres.
func (s *DefaultActivityService) ResolveForEmbed(ctx context.Context, slug string) (*domain.Activity, error) {
	if !domain.ValidSlug(slug) {
		return nil, apperrors.NewNotFoundError("activity not found", map[string]interface{}{"slug": slug})
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.KeyBuilder.KeyEmbedActivity(slug)
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil && cached != "" {
			if cached == cacheNotFoundSentinel {
				return nil, apperrors.NewNotFoundError("activity not found", map[string]interface{}{"slug": slug})
			}
			var act domain.Activity
			if unmarshalErr := json.Unmarshal([]byte(cached), &act); unmarshalErr == nil {
				s.logger.Debug("embed cache hit", zap.String("slug", slug))
				return &act, nil
			}
			s.logger.Warn("embed cache corrupted, falling back to database",
				zap.String("slug", slug))
		} else if err != nil && err != redis.Nil {
			s.logger.Warn("embed cache error, falling back to database",
				zap.String("slug", slug),
				zap.Error(err))
		}
	}

	act, err := s.repo.GetPublicBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.NewResolutionFailedError("failed to resolve activity", err)
	}
	if act == nil {
		if s.cache != nil {
			s.cacheAsync(cacheKey, cacheNotFoundSentinel, notFoundTTL)
		}
		return nil, apperrors.NewNotFoundError("activity not found", map[string]interface{}{"slug": slug})
	}

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(act); marshalErr == nil {
			s.cacheAsync(cacheKey, string(payload), redis.TTLEmbedActivity)
		}
	}

	return act, nil
}

// Create stores a new activity after validating its content payload and slug.
func (s *DefaultActivityService) Create(ctx context.Context, act *domain.Activity) error {
	if err := s.validateContent(act); err != nil {
		return err
	}

	taken, err := s.repo.SlugExists(ctx, act.Slug, "")
	if err != nil {
		return apperrors.NewInternalError("failed to check slug", err)
	}
	if taken {
		return apperrors.NewValidationError("slug already in use", map[string]interface{}{"slug": act.Slug})
	}

	if err := s.repo.Create(ctx, act); err != nil {
		return apperrors.NewInternalError("failed to create activity", err)
	}

	s.invalidateList()
	s.logger.Info("activity created",
		zap.String("activity_id", act.ID),
		zap.String("slug", act.Slug),
		zap.String("content_type", string(act.ContentType)))
	return nil
}

// Update modifies an activity owned by the caller and invalidates any cached
// embed resolution, including the one under the previous slug.
func (s *DefaultActivityService) Update(ctx context.Context, act *domain.Activity) error {
	if err := s.validateContent(act); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, act.ID, act.UserID)
	if err != nil {
		return apperrors.NewInternalError("failed to get activity", err)
	}
	if existing == nil {
		return apperrors.NewNotFoundError("activity not found", map[string]interface{}{"id": act.ID})
	}

	if act.Slug != existing.Slug {
		taken, err := s.repo.SlugExists(ctx, act.Slug, act.ID)
		if err != nil {
			return apperrors.NewInternalError("failed to check slug", err)
		}
		if taken {
			return apperrors.NewValidationError("slug already in use", map[string]interface{}{"slug": act.Slug})
		}
	}

	if err := s.repo.Update(ctx, act); err != nil {
		return apperrors.NewInternalError("failed to update activity", err)
	}

	s.invalidateEmbed(existing.Slug, act.Slug)
	s.logger.Info("activity updated",
		zap.String("activity_id", act.ID),
		zap.String("slug", act.Slug))
	return nil
}

// Delete removes an activity owned by the caller.
func (s *DefaultActivityService) Delete(ctx context.Context, id, userID string) error {
	existing, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return apperrors.NewInternalError("failed to get activity", err)
	}
	if existing == nil {
		return apperrors.NewNotFoundError("activity not found", map[string]interface{}{"id": id})
	}

	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return apperrors.NewInternalError("failed to delete activity", err)
	}
	if !deleted {
		return apperrors.NewNotFoundError("activity not found", map[string]interface{}{"id": id})
	}

	s.invalidateEmbed(existing.Slug)
	s.logger.Info("activity deleted",
		zap.String("activity_id", id),
		zap.String("slug", existing.Slug))
	return nil
}

// cacheNotFoundSentinel marks a slug as known-missing so repeated embed
// probes for dead slugs stay in Redis.
const cacheNotFoundSentinel = "__not_found__"

const notFoundTTL = 30 * time.Second

func (s *DefaultActivityService) validateContent(act *domain.Activity) error {
	if !domain.ValidSlug(act.Slug) {
		return apperrors.NewValidationError("invalid slug", map[string]interface{}{"slug": act.Slug})
	}
	if act.ContentType != domain.ContentTypeQuiz {
		return nil
	}
	quiz, err := act.Quiz()
	if err != nil {
		return apperrors.NewInvalidDefinitionError("quiz content is malformed", err)
	}
	if err := quiz.Validate(); err != nil {
		return apperrors.NewInvalidDefinitionError(err.Error(), err)
	}
	return nil
}

// cacheAsync writes a cache entry without blocking the request path.
func (s *DefaultActivityService) cacheAsync(key, value string, ttl time.Duration) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.cache.Set(ctx, key, value, ttl); err != nil {
			s.logger.Warn("failed to cache embed resolution", zap.Error(err))
		}
	}()
}

// invalidateEmbed drops cached embed resolutions for the given slugs and the
// public listing. Invalidation failures are logged, not returned; stale
// entries age out within their TTL.
func (s *DefaultActivityService) invalidateEmbed(slugs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs)+1)
	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		keys = append(keys, s.cache.KeyBuilder.KeyEmbedActivity(slug))
	}
	keys = append(keys, s.cache.KeyBuilder.KeyActivityList())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("failed to invalidate embed cache",
			zap.Strings("slugs", slugs),
			zap.Error(err))
	}
}

func (s *DefaultActivityService) invalidateList() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, s.cache.KeyBuilder.KeyActivityList()); err != nil {
		s.logger.Warn("failed to invalidate activity list cache", zap.Error(err))
	}
}

var _ ActivityService = (*DefaultActivityService)(nil)
