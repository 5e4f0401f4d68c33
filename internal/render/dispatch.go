package render

import (
	"bytes"
	"encoding/json"

	"activities-be/internal/domain"
)

// Variant is the rendering strategy resolved for an activity. Exactly one of
// Quiz or Text is set when Type names that strategy; Generic carries only the
// raw payload dump.
type Variant struct {
	Type domain.ContentType
	Quiz *domain.QuizContent
	Text *domain.TextContent
}

// Dispatch selects the rendering strategy for an activity. Unknown content
// types and invalid definitions (zero questions, correct index out of range,
// malformed payloads) degrade to the generic strategy rather than failing.
// Both adapters route through this so the fallback is identical.
func Dispatch(act *domain.Activity) Variant {
	switch act.ContentType {
	case domain.ContentTypeQuiz:
		qc, err := act.Quiz()
		if err != nil {
			return Variant{Type: domain.ContentTypeGeneric}
		}
		return Variant{Type: domain.ContentTypeQuiz, Quiz: qc}
	case domain.ContentTypeText:
		tc, err := act.Text()
		if err != nil {
			return Variant{Type: domain.ContentTypeGeneric}
		}
		return Variant{Type: domain.ContentTypeText, Text: tc}
	default:
		return Variant{Type: domain.ContentTypeGeneric}
	}
}

// genericDump pretty-prints an arbitrary payload for the generic strategy.
// The output is escaped by the caller before markup insertion.
func genericDump(data json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
