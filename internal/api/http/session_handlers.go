package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/examforge/practiced/internal/exam"
	"github.com/examforge/practiced/internal/session"
)

func SessionStatusHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, r, engine)
	}
}

func StartSessionHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := engine.Start(r.Context()); err != nil {
			sessionError(w, err)
			return
		}
		respondStatus(w, r, engine)
	}
}

func AnswerHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Label string `json:"label"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if _, err := engine.SelectAnswer(r.Context(), req.Label); err != nil {
			sessionError(w, err)
			return
		}
		respondStatus(w, r, engine)
	}
}

func NavigateHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Index int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if _, err := engine.Navigate(r.Context(), req.Index); err != nil {
			sessionError(w, err)
			return
		}
		respondStatus(w, r, engine)
	}
}

// SubmitSessionHandler is the manual submission path. It requires an explicit
// confirmed flag; the deadline-triggered path inside the engine bypasses it.
func SubmitSessionHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Confirmed bool `json:"confirmed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if !req.Confirmed {
			http.Error(w, "confirmation required", 400)
			return
		}
		if _, err := engine.Submit(r.Context(), false); err != nil {
			sessionError(w, err)
			return
		}
		respondStatus(w, r, engine)
	}
}

func ResetSessionHandler(engine *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := engine.Reset(r.Context()); err != nil {
			sessionError(w, err)
			return
		}
		respondStatus(w, r, engine)
	}
}

func respondStatus(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
	st, err := engine.Status(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, st)
}

func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrStaleTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, session.ErrInvalidLabel):
		http.Error(w, err.Error(), 400)
	case errors.Is(err, exam.ErrEmptyExam):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), 500)
	}
}
