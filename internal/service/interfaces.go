package service

import (
	"context"

	"activities-be/internal/domain"
)

// ActivityService is the business contract for activity authoring and
// embedding. ResolveForEmbed is the only cached path; everything else goes
// straight to the repository.
type ActivityService interface {
	List(ctx context.Context, viewerID string) ([]domain.Activity, error)
	GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Activity, error)
	// ResolveForEmbed resolves a public activity for anonymous embed
	// consumers, cache-aside.
	ResolveForEmbed(ctx context.Context, slug string) (*domain.Activity, error)
	Create(ctx context.Context, act *domain.Activity) error
	Update(ctx context.Context, act *domain.Activity) error
	Delete(ctx context.Context, id, userID string) error
}

// Services aggregates the application services for dependency injection.
type Services struct {
	Activity ActivityService
	Auth     AuthService
}

// AuthService handles credential registration and bearer-token issuance.
type AuthService interface {
	Register(ctx context.Context, username, email, password, firstName, lastName string) (*domain.AuthResult, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*domain.AuthResult, error)
	// ValidateToken parses and verifies a signed token, returning the user
	// it identifies.
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}
