package exam

import (
	"errors"
	"math"
	"strconv"
)

const (
	// ScaleMax is the top of the certification-style reporting scale.
	ScaleMax = 1000
	// PassingScore is the minimum scaled score that passes (inclusive).
	PassingScore = 720
)

var (
	// ErrEmptyExam means the document yielded zero valid questions.
	ErrEmptyExam = errors.New("exam yields no valid questions")
	// ErrInvalidPayload means the submitted answers are not a string map.
	ErrInvalidPayload = errors.New("answers payload must be a string map")
)

// Score grades answers against a parsed exam. Answers are keyed by the
// question number formatted as a decimal string. A question is correct only
// when the submitted label exactly equals the document's key for that number;
// an absent submission, or a question without a key entry, counts incorrect.
//
// The scaled score is correct/total on the 0-1000 scale, rounded half away
// from zero (math.Round). Deterministic: identical inputs yield an identical
// result.
func Score(parsed ParsedExam, answers map[string]string) (ScoreResult, error) {
	if answers == nil {
		return ScoreResult{}, ErrInvalidPayload
	}
	total := len(parsed.Questions)
	if total == 0 {
		return ScoreResult{}, ErrEmptyExam
	}

	correct := 0
	details := make([]ScoreDetail, 0, total)
	for _, q := range parsed.Questions {
		ua := answers[strconv.Itoa(q.Number)]
		hit := ua != "" && ua == q.CorrectAnswer
		if hit {
			correct++
		}
		details = append(details, ScoreDetail{
			Number:        q.Number,
			UserAnswer:    ua,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     hit,
		})
	}

	scaled := int(math.Round(float64(correct) / float64(total) * ScaleMax))
	return ScoreResult{
		Total:       total,
		Correct:     correct,
		Incorrect:   total - correct,
		ScaledScore: scaled,
		Passed:      scaled >= PassingScore,
		Details:     details,
	}, nil
}

// ScoreText re-parses raw and grades answers against it. The answer key is
// always derived from the document, never accepted from the caller.
func ScoreText(raw string, answers map[string]string) (ScoreResult, error) {
	return Score(Parse(raw), answers)
}
