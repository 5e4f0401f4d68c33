package render

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activities-be/internal/domain"
	apperrors "activities-be/pkg/errors"
	"activities-be/pkg/logger"
)

type stubFetcher struct {
	act *domain.Activity
	err error
}

func (s *stubFetcher) FetchActivity(_ context.Context, _ string) (*domain.Activity, error) {
	return s.act, s.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "test")
	require.NoError(t, err)
	return log
}

func renderedQuizEmbed(t *testing.T, settings domain.QuizSettings) *Embed {
	t.Helper()
	act := quizActivity(t, settings)
	embed, err := NewEmbed(&stubFetcher{act: act}, testLogger(t), act.Slug, NewContainer("host"))
	require.NoError(t, err)
	embed.Render(context.Background())
	require.Equal(t, StateLoaded, embed.State())
	return embed
}

func TestNewEmbedContainerMissing(t *testing.T) {
	_, err := NewEmbed(&stubFetcher{}, testLogger(t), "slug", nil)
	assert.ErrorIs(t, err, ErrContainerMissing)
}

func TestNewEmbedAssignsContainerID(t *testing.T) {
	embed, err := NewEmbed(&stubFetcher{}, testLogger(t), "slug", NewContainer(""))
	require.NoError(t, err)
	assert.NotEmpty(t, embed.ContainerID())
}

func TestEmbedRenderQuiz(t *testing.T) {
	embed := renderedQuizEmbed(t, domain.QuizSettings{AllowRetry: true})
	out := embed.HTML()

	assert.Contains(t, out, "html-activity-container loaded")
	assert.Contains(t, out, "Sample Quiz")
	assert.Contains(t, out, `data-question="0"`)
	assert.Contains(t, out, `data-question="1"`)
	assert.Contains(t, out, "Submit Quiz")
	assert.Contains(t, out, `id="results-host"`)
	assert.Contains(t, out, `id="retryBtn-host"`)
}

func TestEmbedNotFound(t *testing.T) {
	fetcher := &stubFetcher{err: apperrors.NewNotFoundError("nope", map[string]interface{}{"slug": "ghost"})}
	embed, err := NewEmbed(fetcher, testLogger(t), "ghost", NewContainer("host"))
	require.NoError(t, err)

	embed.Render(context.Background())

	assert.Equal(t, StateError, embed.State())
	out := embed.HTML()
	assert.Contains(t, out, "html-activity-container error")
	assert.Contains(t, out, "ghost")
	assert.Contains(t, out, "not found or not public")
}

func TestEmbedResolutionFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	embed, err := NewEmbed(fetcher, testLogger(t), "slug", NewContainer("host"))
	require.NoError(t, err)

	embed.Render(context.Background())

	assert.Equal(t, StateError, embed.State())
	out := embed.HTML()
	assert.Contains(t, out, "Please try again later.")
	// Internal error strings never reach the container.
	assert.NotContains(t, out, "connection refused")
}

func TestEmbedSubmitMarksOptions(t *testing.T) {
	embed := renderedQuizEmbed(t, domain.QuizSettings{})

	// Question 0: correct answer is 1; select 0 (wrong). Question 1 blank.
	require.NoError(t, embed.Select(0, 0))
	embed.Submit()

	require.Equal(t, StateSubmitted, embed.State())
	res := embed.Result()
	require.NotNil(t, res)
	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, BandPoor, res.Band)

	q0 := findByAttr(embed.container, "data-question", "0")
	opts0 := optionNodes(q0)
	assert.True(t, hasClass(opts0[0], "incorrect"))
	assert.True(t, hasClass(opts0[1], "correct"))

	// Blank question: only the correct option marked, nothing incorrect.
	q1 := findByAttr(embed.container, "data-question", "1")
	opts1 := optionNodes(q1)
	assert.True(t, hasClass(opts1[0], "correct"))
	for _, opt := range opts1 {
		assert.False(t, hasClass(opt, "incorrect"))
	}
}

func TestEmbedSubmitDisablesInputsAndShowsResults(t *testing.T) {
	embed := renderedQuizEmbed(t, domain.QuizSettings{AllowRetry: true})
	require.NoError(t, embed.Select(0, 1))
	require.NoError(t, embed.Select(1, 0))

	embed.Submit()

	for _, input := range findAllByClass(embed.container, "option-input") {
		_, disabled := getAttr(input, "disabled")
		assert.True(t, disabled)
	}

	results := findByAttr(embed.container, "id", "results-host")
	require.NotNil(t, results)
	assert.True(t, hasClass(results, "good"))
	style, _ := getAttr(results, "style")
	assert.Equal(t, "display: block", style)
	assert.Contains(t, Serialize(results), "You scored")
	assert.Contains(t, Serialize(results), "2/2")
	assert.Contains(t, Serialize(results), "Excellent work!")

	retry := findByAttr(embed.container, "id", "retryBtn-host")
	require.NotNil(t, retry)
	style, _ = getAttr(retry, "style")
	assert.Equal(t, "display: inline-block", style)
}

func TestEmbedSubmitIdempotent(t *testing.T) {
	embed := renderedQuizEmbed(t, domain.QuizSettings{})
	require.NoError(t, embed.Select(0, 1))

	embed.Submit()
	first := embed.HTML()
	firstResult := embed.Result()

	embed.Submit()

	assert.Equal(t, first, embed.HTML())
	assert.Equal(t, firstResult, embed.Result())
}

func TestEmbedSelectAfterSubmitIgnored(t *testing.T) {
	embed := renderedQuizEmbed(t, domain.QuizSettings{})
	embed.Submit()
	before := embed.HTML()

	require.NoError(t, embed.Select(0, 1))

	assert.Equal(t, before, embed.HTML())
}

func TestEmbedRetryResetsEverything(t *testing.T) {
	embed := renderedQuizEmbed(t, domain.QuizSettings{ShowExplanations: true, AllowRetry: true})
	require.NoError(t, embed.Select(0, 0))
	embed.Submit()

	embed.Reset()

	assert.Equal(t, StateLoaded, embed.State())
	assert.Nil(t, embed.Result())

	for _, input := range findAllByClass(embed.container, "option-input") {
		_, disabled := getAttr(input, "disabled")
		assert.False(t, disabled)
		_, checked := getAttr(input, "checked")
		assert.False(t, checked)
	}
	for _, opt := range findAllByClass(embed.container, "option") {
		assert.False(t, hasClass(opt, "correct"))
		assert.False(t, hasClass(opt, "incorrect"))
	}
	for _, exp := range findAllByClass(embed.container, "explanation") {
		style, _ := getAttr(exp, "style")
		assert.Equal(t, "display: none", style)
	}

	results := findByAttr(embed.container, "id", "results-host")
	style, _ := getAttr(results, "style")
	assert.Equal(t, "display: none", style)
	assert.Nil(t, results.FirstChild)

	submit := findByClass(embed.container, "btn-primary")
	style, _ = getAttr(submit, "style")
	assert.Equal(t, "display: inline-block", style)

	retry := findByAttr(embed.container, "id", "retryBtn-host")
	style, _ = getAttr(retry, "style")
	assert.Equal(t, "display: none", style)

	// Re-armed: a fresh submission grades from a clean slate.
	require.NoError(t, embed.Select(0, 1))
	require.NoError(t, embed.Select(1, 0))
	embed.Submit()
	assert.Equal(t, 2, embed.Result().CorrectCount)
}

func TestEmbedNoRetryWhenDisallowed(t *testing.T) {
	embed := renderedQuizEmbed(t, domain.QuizSettings{AllowRetry: false})
	embed.Submit()

	assert.NotContains(t, embed.HTML(), "retryBtn")
	assert.NotContains(t, embed.HTML(), "Try Again")

	embed.Reset()
	assert.Equal(t, StateSubmitted, embed.State())
}

func TestEmbedExplanationsGated(t *testing.T) {
	shown := renderedQuizEmbed(t, domain.QuizSettings{ShowExplanations: true})
	shown.Submit()
	exp := findByClass(shown.container, "explanation")
	require.NotNil(t, exp)
	style, _ := getAttr(exp, "style")
	assert.Equal(t, "display: block", style)

	hidden := renderedQuizEmbed(t, domain.QuizSettings{ShowExplanations: false})
	hidden.Submit()
	exp = findByClass(hidden.container, "explanation")
	require.NotNil(t, exp)
	style, _ = getAttr(exp, "style")
	assert.Equal(t, "display: none", style)
}

func TestEmbedEscapesQuestionText(t *testing.T) {
	data, _ := json.Marshal(domain.QuizContent{
		Questions: []domain.Question{
			{Question: "<script>alert(1)</script>", Options: []string{"a", "b"}, Correct: 0},
		},
	})
	act := &domain.Activity{Title: "t", Slug: "s", ContentType: domain.ContentTypeQuiz, ContentData: data}
	embed, err := NewEmbed(&stubFetcher{act: act}, testLogger(t), "s", NewContainer("host"))
	require.NoError(t, err)

	embed.Render(context.Background())
	out := embed.HTML()

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestEmbedTextContentVerbatim(t *testing.T) {
	data, _ := json.Marshal(domain.TextContent{Content: "<p>hello <strong>world</strong></p>"})
	act := &domain.Activity{Title: "t", Slug: "s", ContentType: domain.ContentTypeText, ContentData: data}
	embed, err := NewEmbed(&stubFetcher{act: act}, testLogger(t), "s", NewContainer("host"))
	require.NoError(t, err)

	embed.Render(context.Background())

	assert.Contains(t, embed.HTML(), "<p>hello <strong>world</strong></p>")
}

func TestEmbedInvalidQuizDegradesToGeneric(t *testing.T) {
	act := &domain.Activity{
		Title:       "Broken",
		Slug:        "broken",
		ContentType: domain.ContentTypeQuiz,
		ContentData: json.RawMessage(`{"questions":[],"settings":{}}`),
	}
	embed, err := NewEmbed(&stubFetcher{act: act}, testLogger(t), "broken", NewContainer("host"))
	require.NoError(t, err)

	embed.Render(context.Background())

	assert.Equal(t, StateLoaded, embed.State())
	assert.Contains(t, embed.HTML(), "<pre>")
	assert.NotContains(t, embed.HTML(), "Submit Quiz")
}

func TestEmbedInstancesAreIndependent(t *testing.T) {
	act := quizActivity(t, domain.QuizSettings{AllowRetry: true})
	log := testLogger(t)

	first, err := NewEmbed(&stubFetcher{act: act}, log, act.Slug, NewContainer("one"))
	require.NoError(t, err)
	second, err := NewEmbed(&stubFetcher{act: act}, log, act.Slug, NewContainer("two"))
	require.NoError(t, err)

	first.Render(context.Background())
	second.Render(context.Background())

	require.NoError(t, first.Select(0, 1))
	first.Submit()

	// Submitting one instance leaves the other untouched.
	assert.Equal(t, StateSubmitted, first.State())
	assert.Equal(t, StateLoaded, second.State())
	assert.Nil(t, second.Result())
	assert.NotContains(t, second.HTML(), "correct")

	require.NoError(t, second.Select(0, 0))
	second.Submit()
	assert.Equal(t, 1, first.Result().CorrectCount)
	assert.Equal(t, 0, second.Result().CorrectCount)
}

func TestEmbedSelectValidation(t *testing.T) {
	embed := renderedQuizEmbed(t, domain.QuizSettings{})

	assert.Error(t, embed.Select(99, 0))
	assert.Error(t, embed.Select(0, 99))
	assert.Error(t, embed.Select(-1, 0))

	// A selection checks exactly one input per question.
	require.NoError(t, embed.Select(0, 0))
	require.NoError(t, embed.Select(0, 2))
	q0 := findByAttr(embed.container, "data-question", "0")
	checkedCount := 0
	for i, opt := range optionNodes(q0) {
		input := findByClass(opt, "option-input")
		if _, ok := getAttr(input, "checked"); ok {
			checkedCount++
			assert.Equal(t, 2, i)
		}
	}
	assert.Equal(t, 1, checkedCount)
}
