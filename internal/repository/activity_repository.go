package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"activities-be/internal/domain"
	"activities-be/pkg/database"
)

type PostgresActivityRepository struct {
	db *database.PostgresDB
}

func NewActivityRepository(db *database.PostgresDB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

const activityColumns = `a.id, a.user_id, a.title, COALESCE(a.description, ''), a.slug,
       a.is_public, a.content_type, a.content_data, u.username, a.created_at, a.updated_at`

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var act domain.Activity
	var contentType string
	err := row.Scan(
		&act.ID,
		&act.UserID,
		&act.Title,
		&act.Description,
		&act.Slug,
		&act.IsPublic,
		&contentType,
		&act.ContentData,
		&act.Author,
		&act.CreatedAt,
		&act.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	act.ContentType = domain.ParseContentType(contentType)
	return &act, nil
}

// List returns public activities plus the viewer's own, newest first.
func (r *PostgresActivityRepository) List(ctx context.Context, viewerID string) ([]domain.Activity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM activities a
		JOIN users u ON a.user_id = u.id
		WHERE a.is_public = true
		ORDER BY a.updated_at DESC
	`, activityColumns)
	args := []interface{}{}

	if viewerID != "" {
		query = fmt.Sprintf(`
			SELECT %s
			FROM activities a
			JOIN users u ON a.user_id = u.id
			WHERE a.is_public = true OR a.user_id = $1
			ORDER BY a.updated_at DESC
		`, activityColumns)
		args = []interface{}{viewerID}
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		act, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, *act)
	}
	return activities, rows.Err()
}

// GetBySlug resolves a slug under the viewer's visibility rules.
func (r *PostgresActivityRepository) GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Activity, error) {
	// Empty viewer IDs must not reach the uuid comparison.
	if viewerID == "" {
		return r.GetPublicBySlug(ctx, slug)
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM activities a
		JOIN users u ON a.user_id = u.id
		WHERE a.slug = $1 AND (a.is_public = true OR a.user_id = $2)
	`, activityColumns)

	act, err := scanActivity(r.db.Pool.QueryRow(ctx, query, slug, viewerID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return act, nil
}

// GetPublicBySlug resolves a slug for anonymous embedding.
func (r *PostgresActivityRepository) GetPublicBySlug(ctx context.Context, slug string) (*domain.Activity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM activities a
		JOIN users u ON a.user_id = u.id
		WHERE a.slug = $1 AND a.is_public = true
	`, activityColumns)

	act, err := scanActivity(r.db.Pool.QueryRow(ctx, query, slug))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get public activity: %w", err)
	}
	return act, nil
}

// GetByID fetches an activity owned by userID.
func (r *PostgresActivityRepository) GetByID(ctx context.Context, id, userID string) (*domain.Activity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM activities a
		JOIN users u ON a.user_id = u.id
		WHERE a.id = $1 AND a.user_id = $2
	`, activityColumns)

	act, err := scanActivity(r.db.Pool.QueryRow(ctx, query, id, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity by id: %w", err)
	}
	return act, nil
}

// Create inserts a new activity, assigning its id and timestamps.
func (r *PostgresActivityRepository) Create(ctx context.Context, act *domain.Activity) error {
	if act.ID == "" {
		act.ID = uuid.NewString()
	}
	query := `
		INSERT INTO activities (id, user_id, title, description, content_type, content_data, slug, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		act.ID,
		act.UserID,
		act.Title,
		act.Description,
		string(act.ContentType),
		act.ContentData,
		act.Slug,
		act.IsPublic,
	).Scan(&act.CreatedAt, &act.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// Update rewrites an activity owned by its UserID.
func (r *PostgresActivityRepository) Update(ctx context.Context, act *domain.Activity) error {
	query := `
		UPDATE activities
		SET title = $1, description = $2, content_type = $3, content_data = $4,
		    slug = $5, is_public = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		act.Title,
		act.Description,
		string(act.ContentType),
		act.ContentData,
		act.Slug,
		act.IsPublic,
		time.Now().UTC(),
		act.ID,
		act.UserID,
	).Scan(&act.UpdatedAt)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("activity not found or access denied")
	}
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return nil
}

// Delete removes an activity owned by userID. Returns false when no row
// matched.
func (r *PostgresActivityRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM activities WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete activity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SlugExists reports whether another activity already claims the slug.
func (r *PostgresActivityRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM activities WHERE slug = $1)`
	args := []interface{}{slug}
	if excludeID != "" {
		query = `SELECT EXISTS(SELECT 1 FROM activities WHERE slug = $1 AND id != $2)`
		args = append(args, excludeID)
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}
