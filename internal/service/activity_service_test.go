package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"activities-be/internal/domain"
	apperrors "activities-be/pkg/errors"
	"activities-be/pkg/redis"
)

type mockActivityRepo struct {
	activities map[string]*domain.Activity // keyed by slug
	byID       map[string]*domain.Activity
	calls      map[string]int
	failWith   error
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{
		activities: make(map[string]*domain.Activity),
		byID:       make(map[string]*domain.Activity),
		calls:      make(map[string]int),
	}
}

func (m *mockActivityRepo) add(act *domain.Activity) {
	m.activities[act.Slug] = act
	m.byID[act.ID] = act
}

func (m *mockActivityRepo) List(ctx context.Context, viewerID string) ([]domain.Activity, error) {
	m.calls["List"]++
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]domain.Activity, 0, len(m.activities))
	for _, act := range m.activities {
		if act.IsPublic || (viewerID != "" && act.UserID == viewerID) {
			out = append(out, *act)
		}
	}
	return out, nil
}

func (m *mockActivityRepo) GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Activity, error) {
	m.calls["GetBySlug"]++
	if m.failWith != nil {
		return nil, m.failWith
	}
	act, ok := m.activities[slug]
	if !ok || (!act.IsPublic && act.UserID != viewerID) {
		return nil, nil
	}
	return act, nil
}

func (m *mockActivityRepo) GetPublicBySlug(ctx context.Context, slug string) (*domain.Activity, error) {
	m.calls["GetPublicBySlug"]++
	if m.failWith != nil {
		return nil, m.failWith
	}
	act, ok := m.activities[slug]
	if !ok || !act.IsPublic {
		return nil, nil
	}
	return act, nil
}

func (m *mockActivityRepo) Create(ctx context.Context, act *domain.Activity) error {
	m.calls["Create"]++
	if m.failWith != nil {
		return m.failWith
	}
	if act.ID == "" {
		act.ID = "generated-id"
	}
	m.add(act)
	return nil
}

func (m *mockActivityRepo) Update(ctx context.Context, act *domain.Activity) error {
	m.calls["Update"]++
	if m.failWith != nil {
		return m.failWith
	}
	old, ok := m.byID[act.ID]
	if !ok {
		return errors.New("activity not found or access denied")
	}
	delete(m.activities, old.Slug)
	m.add(act)
	return nil
}

func (m *mockActivityRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	m.calls["Delete"]++
	if m.failWith != nil {
		return false, m.failWith
	}
	act, ok := m.byID[id]
	if !ok || act.UserID != userID {
		return false, nil
	}
	delete(m.activities, act.Slug)
	delete(m.byID, id)
	return true, nil
}

func (m *mockActivityRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	m.calls["SlugExists"]++
	if m.failWith != nil {
		return false, m.failWith
	}
	act, ok := m.activities[slug]
	return ok && act.ID != excludeID, nil
}

func (m *mockActivityRepo) GetByID(ctx context.Context, id, userID string) (*domain.Activity, error) {
	m.calls["GetByID"]++
	if m.failWith != nil {
		return nil, m.failWith
	}
	act, ok := m.byID[id]
	if !ok || act.UserID != userID {
		return nil, nil
	}
	return act, nil
}

func testRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func quizActivity(id, slug string, public bool) *domain.Activity {
	content, _ := json.Marshal(domain.QuizContent{
		Questions: []domain.Question{
			{Question: "2+2?", Options: []string{"3", "4"}, Correct: 1},
		},
	})
	return &domain.Activity{
		ID:          id,
		UserID:      "author-1",
		Title:       "Arithmetic",
		Slug:        slug,
		IsPublic:    public,
		ContentType: domain.ContentTypeQuiz,
		ContentData: content,
	}
}

func TestResolveForEmbedCachesResolution(t *testing.T) {
	repo := newMockActivityRepo()
	repo.add(quizActivity("a1", "arithmetic", true))
	cache, mr := testRedis(t)
	svc := NewActivityService(repo, cache, zap.NewNop())

	act, err := svc.ResolveForEmbed(context.Background(), "arithmetic")
	require.NoError(t, err)
	require.NotNil(t, act)
	assert.Equal(t, "Arithmetic", act.Title)
	assert.Equal(t, 1, repo.calls["GetPublicBySlug"])

	// Cache write is fire-and-forget.
	key := cache.KeyBuilder.KeyEmbedActivity("arithmetic")
	require.Eventually(t, func() bool {
		return mr.Exists(key)
	}, 2*time.Second, 10*time.Millisecond)

	act, err = svc.ResolveForEmbed(context.Background(), "arithmetic")
	require.NoError(t, err)
	require.NotNil(t, act)
	assert.Equal(t, "Arithmetic", act.Title)
	assert.Equal(t, 1, repo.calls["GetPublicBySlug"], "second resolution should be served from cache")
}

func TestResolveForEmbedPrivateNotFound(t *testing.T) {
	repo := newMockActivityRepo()
	repo.add(quizActivity("a1", "secret-quiz", false))
	cache, _ := testRedis(t)
	svc := NewActivityService(repo, cache, zap.NewNop())

	act, err := svc.ResolveForEmbed(context.Background(), "secret-quiz")
	assert.Nil(t, act)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestResolveForEmbedCachesNotFound(t *testing.T) {
	repo := newMockActivityRepo()
	cache, mr := testRedis(t)
	svc := NewActivityService(repo, cache, zap.NewNop())

	_, err := svc.ResolveForEmbed(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	key := cache.KeyBuilder.KeyEmbedActivity("missing")
	require.Eventually(t, func() bool {
		return mr.Exists(key)
	}, 2*time.Second, 10*time.Millisecond)

	_, err = svc.ResolveForEmbed(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 1, repo.calls["GetPublicBySlug"], "repeat miss should be served from cache")
}

func TestResolveForEmbedInvalidSlug(t *testing.T) {
	repo := newMockActivityRepo()
	svc := NewActivityService(repo, nil, zap.NewNop())

	_, err := svc.ResolveForEmbed(context.Background(), "Not A Slug!")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, repo.calls["GetPublicBySlug"])
}

func TestResolveForEmbedCorruptCacheFallsBack(t *testing.T) {
	repo := newMockActivityRepo()
	repo.add(quizActivity("a1", "arithmetic", true))
	cache, mr := testRedis(t)
	svc := NewActivityService(repo, cache, zap.NewNop())

	require.NoError(t, mr.Set(cache.KeyBuilder.KeyEmbedActivity("arithmetic"), "{not json"))

	act, err := svc.ResolveForEmbed(context.Background(), "arithmetic")
	require.NoError(t, err)
	require.NotNil(t, act)
	assert.Equal(t, 1, repo.calls["GetPublicBySlug"])
}

func TestResolveForEmbedRepositoryFailure(t *testing.T) {
	repo := newMockActivityRepo()
	repo.failWith = errors.New("connection refused")
	svc := NewActivityService(repo, nil, zap.NewNop())

	_, err := svc.ResolveForEmbed(context.Background(), "arithmetic")
	require.Error(t, err)
	assert.False(t, apperrors.IsNotFound(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeResolutionFailed, appErr.Type)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	repo := newMockActivityRepo()
	repo.add(quizActivity("a1", "arithmetic", true))
	svc := NewActivityService(repo, nil, zap.NewNop())

	dup := quizActivity("", "arithmetic", true)
	err := svc.Create(context.Background(), dup)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestCreateRejectsInvalidQuizDefinition(t *testing.T) {
	repo := newMockActivityRepo()
	svc := NewActivityService(repo, nil, zap.NewNop())

	content, _ := json.Marshal(domain.QuizContent{
		Questions: []domain.Question{
			{Question: "loaded", Options: []string{"a", "b"}, Correct: 5},
		},
	})
	act := &domain.Activity{
		UserID:      "author-1",
		Title:       "Broken",
		Slug:        "broken-quiz",
		ContentType: domain.ContentTypeQuiz,
		ContentData: content,
	}

	err := svc.Create(context.Background(), act)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeInvalidDefinition, appErr.Type)
	assert.Zero(t, repo.calls["Create"])
}

func TestCreateAllowsTextWithoutQuizValidation(t *testing.T) {
	repo := newMockActivityRepo()
	svc := NewActivityService(repo, nil, zap.NewNop())

	content, _ := json.Marshal(domain.TextContent{Content: "<h1>Welcome</h1>"})
	act := &domain.Activity{
		UserID:      "author-1",
		Title:       "Intro",
		Slug:        "intro",
		ContentType: domain.ContentTypeText,
		ContentData: content,
	}

	require.NoError(t, svc.Create(context.Background(), act))
	assert.NotEmpty(t, act.ID)
}

func TestUpdateInvalidatesOldAndNewSlug(t *testing.T) {
	repo := newMockActivityRepo()
	act := quizActivity("a1", "arithmetic", true)
	repo.add(act)
	cache, mr := testRedis(t)
	svc := NewActivityService(repo, cache, zap.NewNop())

	// Warm the cache under the original slug.
	_, err := svc.ResolveForEmbed(context.Background(), "arithmetic")
	require.NoError(t, err)
	oldKey := cache.KeyBuilder.KeyEmbedActivity("arithmetic")
	require.Eventually(t, func() bool { return mr.Exists(oldKey) }, 2*time.Second, 10*time.Millisecond)

	updated := *act
	updated.Slug = "arithmetic-v2"
	require.NoError(t, svc.Update(context.Background(), &updated))

	assert.False(t, mr.Exists(oldKey), "old slug cache entry should be invalidated")
}

func TestUpdateUnknownActivity(t *testing.T) {
	repo := newMockActivityRepo()
	svc := NewActivityService(repo, nil, zap.NewNop())

	err := svc.Update(context.Background(), quizActivity("ghost", "ghost-quiz", true))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteInvalidatesEmbedCache(t *testing.T) {
	repo := newMockActivityRepo()
	act := quizActivity("a1", "arithmetic", true)
	repo.add(act)
	cache, mr := testRedis(t)
	svc := NewActivityService(repo, cache, zap.NewNop())

	_, err := svc.ResolveForEmbed(context.Background(), "arithmetic")
	require.NoError(t, err)
	key := cache.KeyBuilder.KeyEmbedActivity("arithmetic")
	require.Eventually(t, func() bool { return mr.Exists(key) }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.Delete(context.Background(), "a1", "author-1"))
	assert.False(t, mr.Exists(key))
}

func TestDeleteWrongOwner(t *testing.T) {
	repo := newMockActivityRepo()
	repo.add(quizActivity("a1", "arithmetic", true))
	svc := NewActivityService(repo, nil, zap.NewNop())

	err := svc.Delete(context.Background(), "a1", "someone-else")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, repo.activities, "arithmetic")
}

func TestGetBySlugVisibility(t *testing.T) {
	repo := newMockActivityRepo()
	repo.add(quizActivity("a1", "secret-quiz", false))
	svc := NewActivityService(repo, nil, zap.NewNop())

	act, err := svc.GetBySlug(context.Background(), "secret-quiz", "author-1")
	require.NoError(t, err)
	require.NotNil(t, act)

	_, err = svc.GetBySlug(context.Background(), "secret-quiz", "stranger")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
