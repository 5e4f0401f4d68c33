package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activities-be/internal/domain"
)

func fiveQuestions() []domain.Question {
	qs := make([]domain.Question, 5)
	for i := range qs {
		qs[i] = domain.Question{
			Question: "q",
			Options:  []string{"a", "b", "c", "d"},
			Correct:  i % 4,
		}
	}
	return qs
}

func TestScoreAllCorrect(t *testing.T) {
	qs := fiveQuestions()
	sel := map[int]int{}
	for i, q := range qs {
		sel[i] = q.Correct
	}

	res := Score(qs, sel)

	assert.Equal(t, 5, res.CorrectCount)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 100, res.Percentage)
	assert.Equal(t, BandGood, res.Band)
	assert.Equal(t, "Excellent work!", res.Message)
}

func TestScoreFourOfFiveWithOneBlank(t *testing.T) {
	qs := fiveQuestions()
	sel := map[int]int{}
	for i := 0; i < 4; i++ {
		sel[i] = qs[i].Correct
	}
	// question 4 left unanswered

	res := Score(qs, sel)

	assert.Equal(t, 4, res.CorrectCount)
	assert.Equal(t, 80, res.Percentage)
	assert.Equal(t, BandGood, res.Band)
	assert.Equal(t, "Excellent work!", res.Message)

	blank := res.PerQuestion[4]
	assert.Equal(t, NoSelection, blank.Selected)
	assert.False(t, blank.Correct)
	assert.Equal(t, qs[4].Correct, blank.CorrectOption)
}

func TestScoreUnansweredNeverCorrect(t *testing.T) {
	qs := fiveQuestions()

	res := Score(qs, nil)

	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, 0, res.Percentage)
	assert.Equal(t, BandPoor, res.Band)
	for _, qr := range res.PerQuestion {
		assert.Equal(t, NoSelection, qr.Selected)
		assert.False(t, qr.Correct)
	}
}

func TestScoreWrongSelectionMarksBoth(t *testing.T) {
	qs := []domain.Question{{Question: "q", Options: []string{"a", "b", "c"}, Correct: 2}}

	res := Score(qs, map[int]int{0: 0})

	require.Len(t, res.PerQuestion, 1)
	qr := res.PerQuestion[0]
	assert.Equal(t, 0, qr.Selected)
	assert.False(t, qr.Correct)
	assert.Equal(t, 2, qr.CorrectOption)
}

func TestScoreRoundsHalfUp(t *testing.T) {
	// 1 of 8 correct = 12.5%, rounds to 13.
	qs := make([]domain.Question, 8)
	for i := range qs {
		qs[i] = domain.Question{Question: "q", Options: []string{"a", "b"}, Correct: 0}
	}

	res := Score(qs, map[int]int{0: 0})

	assert.Equal(t, 13, res.Percentage)
}

func TestScoreIgnoresOutOfRangeSelections(t *testing.T) {
	qs := []domain.Question{{Question: "q", Options: []string{"a", "b"}, Correct: 0}}

	res := Score(qs, map[int]int{0: 7})

	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, NoSelection, res.PerQuestion[0].Selected)
}

func TestScoreIdempotent(t *testing.T) {
	qs := fiveQuestions()
	sel := map[int]int{0: qs[0].Correct, 1: 3, 2: qs[2].Correct}

	first := Score(qs, sel)
	second := Score(qs, sel)

	assert.Equal(t, first, second)
}

func TestBandBoundaries(t *testing.T) {
	tests := []struct {
		percentage int
		band       Band
		message    string
	}{
		{100, BandGood, "Excellent work!"},
		{80, BandGood, "Excellent work!"},
		{79, BandAverage, "Good job!"},
		{60, BandAverage, "Good job!"},
		{59, BandPoor, "Keep practicing!"},
		{0, BandPoor, "Keep practicing!"},
	}

	for _, tt := range tests {
		band, message := BandFor(tt.percentage)
		assert.Equal(t, tt.band, band, "percentage %d", tt.percentage)
		assert.Equal(t, tt.message, message, "percentage %d", tt.percentage)
	}
}
