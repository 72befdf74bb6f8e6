package session

import (
	"time"

	"github.com/examforge/practiced/internal/exam"
)

// Phase is the lifecycle state of an exam session.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseSubmitted  Phase = "submitted"
)

// Session is the full persisted state of one exam attempt. It is written to
// the store as a whole on every mutating transition and rehydrated verbatim
// on restart.
type Session struct {
	ID           string            `json:"id,omitempty"`
	Phase        Phase             `json:"phase"`
	CurrentIndex int               `json:"current_index"`
	Answers      map[string]string `json:"answers"`
	StartedAt    *time.Time        `json:"started_at,omitempty"`
	Deadline     *time.Time        `json:"deadline,omitempty"`
	Result       *exam.ScoreResult `json:"result,omitempty"`
}

func fresh() Session {
	return Session{Phase: PhaseNotStarted, Answers: map[string]string{}}
}

func (s Session) clone() Session {
	out := s
	out.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		out.StartedAt = &t
	}
	if s.Deadline != nil {
		t := *s.Deadline
		out.Deadline = &t
	}
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return out
}

// valid is the shape check applied to rehydrated records. Anything that
// fails is discarded and the session falls back to not_started.
func (s Session) valid() bool {
	switch s.Phase {
	case PhaseNotStarted, PhaseInProgress, PhaseSubmitted:
	default:
		return false
	}
	if s.CurrentIndex < 0 {
		return false
	}
	if s.Phase == PhaseInProgress && s.Deadline == nil {
		return false
	}
	if s.Phase == PhaseSubmitted && s.Result == nil {
		return false
	}
	return true
}
