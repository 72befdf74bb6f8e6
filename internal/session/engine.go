package session

import (
	"context"
	"errors"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/examforge/practiced/internal/content"
	"github.com/examforge/practiced/internal/exam"
	"github.com/examforge/practiced/pkg/monitoring"
)

var (
	// ErrStaleTransition means the session's current phase does not permit
	// the requested transition. The persisted record is left untouched.
	ErrStaleTransition = errors.New("transition not allowed in current phase")
	// ErrInvalidLabel means the chosen answer is not one of the option labels.
	ErrInvalidLabel = errors.New("unrecognized option label")
)

// Engine drives one exam session: timing, navigation, persistence and
// submission. Transitions are serialized under a mutex, and each one saves
// the full session before the in-memory state is committed, so a failed
// write never leaves memory and storage disagreeing.
type Engine struct {
	store    Store
	provider *content.ExamProvider
	now      func() time.Time
	duration time.Duration
	log      *zap.Logger

	mu   sync.Mutex
	sess Session
	stop chan struct{}
	wg   sync.WaitGroup
}

type Option func(*Engine)

// WithClock injects the wall-clock source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithDuration(d time.Duration) Option {
	return func(e *Engine) { e.duration = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine rehydrates the session from the store. An absent or corrupt
// record falls back to not_started. An in_progress record whose deadline has
// already passed is auto-submitted immediately; if that submission cannot be
// scored yet (e.g. the document source is unreachable) the ticker retries.
func NewEngine(ctx context.Context, store Store, provider *content.ExamProvider, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:    store,
		provider: provider,
		now:      time.Now,
		duration: exam.ExamDuration,
		log:      zap.NewNop(),
		sess:     fresh(),
	}
	for _, o := range opts {
		o(e)
	}

	sess, ok, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		if sess.valid() {
			if sess.Answers == nil {
				sess.Answers = map[string]string{}
			}
			e.sess = sess
		} else {
			e.log.Warn("discarding session record that failed shape validation")
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess.Phase == PhaseInProgress {
		if !e.now().Before(*e.sess.Deadline) {
			if err := e.submitLocked(ctx, true); err != nil {
				e.log.Error("auto-submit on rehydrate failed", zap.Error(err))
				e.startTickerLocked()
			}
		} else {
			e.startTickerLocked()
		}
	}
	return e, nil
}

// Start begins a fresh attempt. Valid only from not_started; one Reset away
// from any other phase. The deadline is now plus the fixed exam duration.
func (e *Engine) Start(ctx context.Context) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess.Phase != PhaseNotStarted {
		return Session{}, ErrStaleTransition
	}
	parsed, err := e.provider.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	if len(parsed.Questions) == 0 {
		return Session{}, exam.ErrEmptyExam
	}

	now := e.now()
	deadline := now.Add(e.duration)
	next := Session{
		ID:        uuid.NewString(),
		Phase:     PhaseInProgress,
		Answers:   map[string]string{},
		StartedAt: &now,
		Deadline:  &deadline,
	}
	if err := e.store.Save(ctx, next); err != nil {
		return Session{}, err
	}
	e.sess = next
	e.startTickerLocked()
	monitoring.SessionTransitions.WithLabelValues("start").Inc()
	return e.sess.clone(), nil
}

// SelectAnswer records label for the current question.
func (e *Engine) SelectAnswer(ctx context.Context, label string) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess.Phase != PhaseInProgress {
		return Session{}, ErrStaleTransition
	}
	if !exam.ValidLabel(label) {
		return Session{}, ErrInvalidLabel
	}
	parsed, err := e.provider.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	if len(parsed.Questions) == 0 {
		return Session{}, exam.ErrEmptyExam
	}

	next := e.sess.clone()
	next.CurrentIndex = clamp(next.CurrentIndex, 0, len(parsed.Questions)-1)
	q := parsed.Questions[next.CurrentIndex]
	next.Answers[strconv.Itoa(q.Number)] = label
	if err := e.store.Save(ctx, next); err != nil {
		return Session{}, err
	}
	e.sess = next
	monitoring.SessionTransitions.WithLabelValues("answer").Inc()
	return e.sess.clone(), nil
}

// Navigate moves the cursor; the index is clamped, and the target question
// need not be answered.
func (e *Engine) Navigate(ctx context.Context, index int) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess.Phase != PhaseInProgress {
		return Session{}, ErrStaleTransition
	}
	parsed, err := e.provider.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	if len(parsed.Questions) == 0 {
		return Session{}, exam.ErrEmptyExam
	}

	next := e.sess.clone()
	next.CurrentIndex = clamp(index, 0, len(parsed.Questions)-1)
	if err := e.store.Save(ctx, next); err != nil {
		return Session{}, err
	}
	e.sess = next
	monitoring.SessionTransitions.WithLabelValues("navigate").Inc()
	return e.sess.clone(), nil
}

// Tick samples the clock. Outside in_progress it is a no-op, which is also
// the guard against a second auto-submit from an overlapping tick.
func (e *Engine) Tick(ctx context.Context, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess.Phase != PhaseInProgress || e.sess.Deadline == nil {
		return nil
	}
	if now.Before(*e.sess.Deadline) {
		return nil
	}
	return e.submitLocked(ctx, true)
}

// Submit finalizes the attempt and scores it. auto marks deadline-triggered
// submissions; the transition itself is identical.
func (e *Engine) Submit(ctx context.Context, auto bool) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.submitLocked(ctx, auto); err != nil {
		return Session{}, err
	}
	return e.sess.clone(), nil
}

func (e *Engine) submitLocked(ctx context.Context, auto bool) error {
	if e.sess.Phase != PhaseInProgress {
		return ErrStaleTransition
	}
	parsed, err := e.provider.Load(ctx)
	if err != nil {
		return err
	}
	res, err := exam.Score(parsed, e.sess.Answers)
	if err != nil {
		return err
	}
	next := e.sess.clone()
	next.Phase = PhaseSubmitted
	next.Result = &res
	if err := e.store.Save(ctx, next); err != nil {
		return err
	}
	e.sess = next
	e.stopTickerLocked()
	monitoring.SessionTransitions.WithLabelValues("submit").Inc()
	if auto {
		monitoring.AutoSubmits.Inc()
	}
	return nil
}

// Reset discards the persisted record and returns to not_started. Valid from
// any phase.
func (e *Engine) Reset(ctx context.Context) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Clear(ctx); err != nil {
		return Session{}, err
	}
	e.sess = fresh()
	e.stopTickerLocked()
	monitoring.SessionTransitions.WithLabelValues("reset").Inc()
	return e.sess.clone(), nil
}

// Snapshot returns a copy of the current session state.
func (e *Engine) Snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.clone()
}

// Status is the attempt-facing session view. It carries no answer key.
type Status struct {
	Session
	TotalQuestions      int `json:"totalQuestions"`
	AnsweredCount       int `json:"answeredCount"`
	RemainingSeconds    int `json:"remainingSeconds"`
	ExamDurationSeconds int `json:"examDurationSeconds"`
}

func (e *Engine) Status(ctx context.Context) (Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	parsed, err := e.provider.Load(ctx)
	if err != nil {
		return Status{}, err
	}
	remaining := int(e.duration / time.Second)
	if e.sess.Deadline != nil {
		remaining = int(math.Round(e.sess.Deadline.Sub(e.now()).Seconds()))
	}
	return Status{
		Session:             e.sess.clone(),
		TotalQuestions:      len(parsed.Questions),
		AnsweredCount:       len(e.sess.Answers),
		RemainingSeconds:    remaining,
		ExamDurationSeconds: int(e.duration / time.Second),
	}, nil
}

// Close cancels the ticking activity and waits for it to wind down. No tick
// mutates state after Close returns.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopTickerLocked()
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Engine) startTickerLocked() {
	if e.stop != nil {
		return
	}
	stop := make(chan struct{})
	e.stop = stop
	e.wg.Add(1)
	go e.tickLoop(stop)
}

func (e *Engine) stopTickerLocked() {
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
}

func (e *Engine) tickLoop(stop chan struct{}) {
	defer e.wg.Done()
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if err := e.Tick(context.Background(), e.now()); err != nil {
				e.log.Error("session tick failed", zap.Error(err))
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
