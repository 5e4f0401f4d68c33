package repository

import (
	"context"

	"activities-be/internal/domain"
)

// ActivityRepository is the persistence contract for activities. All reads
// apply visibility rules; the embedding paths only ever read.
type ActivityRepository interface {
	// List returns public activities, plus the viewer's own when viewerID
	// is non-empty, newest first.
	List(ctx context.Context, viewerID string) ([]domain.Activity, error)
	// GetBySlug resolves a slug under the viewer's visibility.
	GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Activity, error)
	// GetPublicBySlug resolves a slug for anonymous embedding. Returns
	// nil, nil when the slug is absent or the activity is not public.
	GetPublicBySlug(ctx context.Context, slug string) (*domain.Activity, error)
	Create(ctx context.Context, act *domain.Activity) error
	Update(ctx context.Context, act *domain.Activity) error
	Delete(ctx context.Context, id, userID string) (bool, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Activity, error)
}

// UserRepository is the persistence contract for authoring identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
}
