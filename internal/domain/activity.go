package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// ContentType is the closed set of content kinds an activity can take.
// Anything unrecognized collapses to ContentTypeGeneric so both rendering
// paths share one fallback.
type ContentType string

const (
	ContentTypeQuiz    ContentType = "quiz"
	ContentTypeText    ContentType = "text"
	ContentTypeGeneric ContentType = "generic"
)

// ParseContentType maps a stored content type string onto the closed variant.
func ParseContentType(s string) ContentType {
	switch ContentType(s) {
	case ContentTypeQuiz:
		return ContentTypeQuiz
	case ContentTypeText:
		return ContentTypeText
	default:
		return ContentTypeGeneric
	}
}

// Activity is the persisted declarative unit the rendering engine consumes.
type Activity struct {
	ID          string          `json:"id"`
	UserID      string          `json:"-"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Slug        string          `json:"slug"`
	IsPublic    bool            `json:"isPublic"`
	ContentType ContentType     `json:"contentType"`
	ContentData json.RawMessage `json:"contentData"`
	Author      string          `json:"author,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// QuizContent is the payload for ContentTypeQuiz.
type QuizContent struct {
	Questions []Question   `json:"questions"`
	Settings  QuizSettings `json:"settings"`
}

// Question is a single multiple-choice prompt.
type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
}

// QuizSettings control post-submission behavior. ShuffleQuestions is stored
// and round-tripped but no shuffling is performed anywhere.
type QuizSettings struct {
	ShowExplanations bool `json:"showExplanations"`
	AllowRetry       bool `json:"allowRetry"`
	ShuffleQuestions bool `json:"shuffleQuestions"`
}

// TextContent is the payload for ContentTypeText. Content is author-trusted
// markup and is rendered verbatim.
type TextContent struct {
	Content string `json:"content"`
}

// Quiz parses and validates the activity's payload as quiz content.
func (a *Activity) Quiz() (*QuizContent, error) {
	var qc QuizContent
	if err := json.Unmarshal(a.ContentData, &qc); err != nil {
		return nil, fmt.Errorf("malformed quiz payload: %w", err)
	}
	if err := qc.Validate(); err != nil {
		return nil, err
	}
	return &qc, nil
}

// Text parses the activity's payload as rich text content.
func (a *Activity) Text() (*TextContent, error) {
	var tc TextContent
	if err := json.Unmarshal(a.ContentData, &tc); err != nil {
		return nil, fmt.Errorf("malformed text payload: %w", err)
	}
	return &tc, nil
}

// Validate checks the quiz data invariants: at least one question, and every
// correct index inside its option list.
func (qc *QuizContent) Validate() error {
	if len(qc.Questions) == 0 {
		return fmt.Errorf("quiz has no questions")
	}
	for i, q := range qc.Questions {
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d has %d options, need at least 2", i, len(q.Options))
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("question %d correct index %d out of range [0,%d)", i, q.Correct, len(q.Options))
		}
	}
	return nil
}

// slugPattern allows lowercase alphanumerics separated by single hyphens, no
// leading or trailing hyphen.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidSlug reports whether s is usable as an embedding identity.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
