package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/examforge/practiced/internal/content"
	"github.com/examforge/practiced/internal/exam"
	"github.com/examforge/practiced/pkg/monitoring"
)

type configResponse struct {
	AppDomain           string `json:"appDomain"`
	ExamDurationSeconds int    `json:"examDurationSeconds"`
}

func ConfigHandler(appDomain string, durationSeconds int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, configResponse{
			AppDomain:           appDomain,
			ExamDurationSeconds: durationSeconds,
		})
	}
}

// examQuestion is the attempt-facing question view. It has no field for the
// correct answer, so the key cannot leak through this payload.
type examQuestion struct {
	Number   int               `json:"number"`
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
}

type examResponse struct {
	TotalQuestions      int            `json:"totalQuestions"`
	ExamDurationSeconds int            `json:"examDurationSeconds"`
	Questions           []examQuestion `json:"questions"`
}

func GetExamHandler(provider *content.ExamProvider, durationSeconds int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parsed, err := provider.Load(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		qs := make([]examQuestion, 0, len(parsed.Questions))
		for _, q := range parsed.Questions {
			qs = append(qs, examQuestion{Number: q.Number, Question: q.Prompt, Options: q.Options})
		}
		writeJSON(w, examResponse{
			TotalQuestions:      len(qs),
			ExamDurationSeconds: durationSeconds,
			Questions:           qs,
		})
	}
}

func ScoreExamHandler(provider *content.ExamProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monitoring.ScoreRequests.Inc()
		var req struct {
			Answers json.RawMessage `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		answers, ok := decodeAnswers(req.Answers)
		if !ok {
			http.Error(w, exam.ErrInvalidPayload.Error(), 400)
			return
		}
		parsed, err := provider.Load(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		res, err := exam.Score(parsed, answers)
		if err != nil {
			switch {
			case errors.Is(err, exam.ErrEmptyExam):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, exam.ErrInvalidPayload):
				http.Error(w, err.Error(), 400)
			default:
				http.Error(w, err.Error(), 500)
			}
			return
		}
		writeJSON(w, res)
	}
}

// decodeAnswers enforces the payload shape: a JSON object mapping question
// numbers to labels. null, arrays, primitives and non-string values are all
// rejected before any scoring happens.
func decodeAnswers(raw json.RawMessage) (map[string]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	if m == nil {
		return nil, false
	}
	return m, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
