package exam

import "time"

// Option labels recognized in exam documents.
const (
	OptionCount = 4
	Labels      = "ABCD"
)

// ExamDuration is the fixed attempt length: 130 minutes.
const ExamDuration = 130 * time.Minute

// ValidLabel reports whether s is a single recognized option label.
func ValidLabel(s string) bool {
	return len(s) == 1 && s >= "A" && s <= "D"
}

// Question is one parsed exam item. CorrectAnswer is never serialized;
// attempt-facing payloads must build their own view types.
type Question struct {
	Number        int               `json:"number"`
	Prompt        string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"-"`
}

// ParsedExam is the ordered, validated result of parsing one document.
// Questions are sorted ascending by number; every question carries exactly
// four options. A question whose document lacks an answer-key entry has an
// empty CorrectAnswer.
type ParsedExam struct {
	Questions []Question
}

// ScoreDetail is the per-question row of a score report.
type ScoreDetail struct {
	Number        int    `json:"number"`
	UserAnswer    string `json:"userAnswer,omitempty"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
	IsCorrect     bool   `json:"isCorrect"`
}

// ScoreResult is the outcome of scoring one attempt, reported on the
// certification-style 0-1000 scale.
type ScoreResult struct {
	Total       int           `json:"total"`
	Correct     int           `json:"correct"`
	Incorrect   int           `json:"incorrect"`
	ScaledScore int           `json:"scaledScore"`
	Passed      bool          `json:"passed"`
	Details     []ScoreDetail `json:"details"`
}
