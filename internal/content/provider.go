package content

import (
	"context"

	"github.com/examforge/practiced/internal/exam"
	"github.com/examforge/practiced/pkg/monitoring"
)

// ExamProvider pairs a document source with a parse cache. Both the session
// engine and the scoring boundary load the canonical exam through it.
type ExamProvider struct {
	src   Source
	cache exam.ParseCache
}

func NewExamProvider(src Source) *ExamProvider {
	return &ExamProvider{src: src}
}

// Load fetches the current document text and returns its parse. Cache misses
// re-parse; the parser is pure, so a stale cache can at worst cost a re-parse.
func (p *ExamProvider) Load(ctx context.Context) (exam.ParsedExam, error) {
	text, err := p.src.ExamText(ctx)
	if err != nil {
		return exam.ParsedExam{}, err
	}
	parsed, hit := p.cache.Parse(text)
	if !hit {
		monitoring.ExamParses.Inc()
	}
	return parsed, nil
}
