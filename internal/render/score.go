package render

import (
	"math"

	"activities-be/internal/domain"
)

// Band classifies a quiz score.
type Band string

const (
	BandGood    Band = "good"
	BandAverage Band = "average"
	BandPoor    Band = "poor"
)

// Band thresholds and encouragement strings. These constants are the single
// source of truth for scoring: the in-process engine below, the script
// embedded in server documents, and the browser SDK are all generated from
// them.
const (
	bandGoodMin    = 80
	bandAverageMin = 60

	messageGood    = "Excellent work!"
	messageAverage = "Good job!"
	messagePoor    = "Keep practicing!"
)

// NoSelection marks an unanswered question in a QuestionResult.
const NoSelection = -1

// QuestionResult is the graded outcome for one question.
type QuestionResult struct {
	Selected      int  // selected option index, NoSelection when unanswered
	Correct       bool // true only when an option was selected and it matches
	CorrectOption int  // the question's true correct index, always marked post-submission
}

// ScoreResult is the aggregate outcome of one submission.
type ScoreResult struct {
	PerQuestion  []QuestionResult
	CorrectCount int
	Total        int
	Percentage   int
	Band         Band
	Message      string
}

// Score grades a set of selections against quiz questions. It is pure: no
// I/O, no state, identical output for identical input. Unanswered questions
// count as incorrect and carry no selected mark, only the correct option.
func Score(questions []domain.Question, selections map[int]int) ScoreResult {
	result := ScoreResult{
		PerQuestion: make([]QuestionResult, len(questions)),
		Total:       len(questions),
	}

	for i, q := range questions {
		qr := QuestionResult{Selected: NoSelection, CorrectOption: q.Correct}
		if sel, ok := selections[i]; ok && sel >= 0 && sel < len(q.Options) {
			qr.Selected = sel
			qr.Correct = sel == q.Correct
		}
		if qr.Correct {
			result.CorrectCount++
		}
		result.PerQuestion[i] = qr
	}

	if result.Total > 0 {
		result.Percentage = int(math.Round(float64(result.CorrectCount) / float64(result.Total) * 100))
	}
	result.Band, result.Message = BandFor(result.Percentage)

	return result
}

// BandFor maps a percentage to its band and encouragement string. Thresholds
// are evaluated in order, first match wins.
func BandFor(percentage int) (Band, string) {
	switch {
	case percentage >= bandGoodMin:
		return BandGood, messageGood
	case percentage >= bandAverageMin:
		return BandAverage, messageAverage
	default:
		return BandPoor, messagePoor
	}
}
