// Package exam runs randomized mock examinations: it samples questions from
// the pool, tracks one selection per question, and scores the attempt once.
package exam

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/archquiz/internal/bank"
	"github.com/mind-engage/archquiz/internal/grading"
	"github.com/mind-engage/archquiz/internal/record"
)

// DefaultSize is the number of questions drawn for an exam.
const DefaultSize = 15

// Unanswered is the selection of a question nobody has picked an answer for.
const Unanswered = grading.Unanswered

// Rand is the source used to shuffle the pool. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type ambientRand struct{}

func (ambientRand) IntN(n int) int { return rand.IntN(n) }

// Option adjusts a session built by Start.
type Option func(*Session)

// WithClock sets the clock used for the start time and the record date.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithLogger sets where failed record writes are reported.
func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.log = l } }

// Session is one exam attempt. It is not safe for concurrent use; Manager
// serializes access when sessions are shared across goroutines.
type Session struct {
	id        string
	questions []bank.Question
	selected  []int
	index     int
	finished  bool
	result    grading.Result
	startedAt time.Time

	now func() time.Time
	log *slog.Logger
}

// Start shuffles pool with rng (Fisher–Yates) and keeps the first
// min(size, len(pool)) questions. A nil rng uses the process-wide source.
// An empty pool gives an empty session; nothing here fails.
func Start(pool []bank.Question, size int, rng Rand, opts ...Option) *Session {
	if rng == nil {
		rng = ambientRand{}
	}
	shuffled := make([]bank.Question, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	n := max(min(size, len(shuffled)), 0)
	s := &Session{
		id:        uuid.NewString(),
		questions: shuffled[:n:n],
		selected:  make([]int, n),
		now:       time.Now,
		log:       slog.Default(),
	}
	for i := range s.selected {
		s.selected[i] = Unanswered
	}
	for _, o := range opts {
		o(s)
	}
	s.startedAt = s.now()
	return s
}

func (s *Session) ID() string           { return s.id }
func (s *Session) StartedAt() time.Time { return s.startedAt }
func (s *Session) Len() int             { return len(s.questions) }
func (s *Session) Index() int           { return s.index }
func (s *Session) Empty() bool          { return len(s.questions) == 0 }
func (s *Session) IsFirst() bool        { return s.index == 0 }
func (s *Session) IsLast() bool         { return s.index >= len(s.questions)-1 }
func (s *Session) Finished() bool       { return s.finished }

// Score returns the final score once the session is finished.
func (s *Session) Score() (int, bool) {
	if !s.finished {
		return 0, false
	}
	return s.result.Correct, true
}

// Result is the per-question outcome; zero until finished.
func (s *Session) Result() grading.Result { return s.result }

// Questions returns the sampled questions in exam order.
func (s *Session) Questions() []bank.Question {
	out := make([]bank.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s *Session) Current() (bank.Question, bool) {
	if s.Empty() {
		return bank.Question{}, false
	}
	return s.questions[s.index], true
}

// Selection is the answer index chosen for the displayed question, or
// Unanswered.
func (s *Session) Selection() int {
	if s.Empty() {
		return Unanswered
	}
	return s.selected[s.index]
}

// Answered counts questions with a selection.
func (s *Session) Answered() int {
	n := 0
	for _, v := range s.selected {
		if v != Unanswered {
			n++
		}
	}
	return n
}

// SelectAnswer records i for the displayed question, replacing any earlier
// pick. Finished sessions are read-only and ignore it, as do indexes the
// question has no answer for.
func (s *Session) SelectAnswer(i int) {
	if s.finished || s.Empty() {
		return
	}
	if i < 0 || i >= len(s.questions[s.index].Answers) {
		return
	}
	s.selected[s.index] = i
}

func (s *Session) Next() {
	if s.index < len(s.questions)-1 {
		s.index++
	}
}

func (s *Session) Previous() {
	if s.index > 0 {
		s.index--
	}
}

// GoTo jumps to question i; out of range is ignored.
func (s *Session) GoTo(i int) {
	if i >= 0 && i < len(s.questions) {
		s.index = i
	}
}

// Finish scores the session and hands the record to w. Only the first call
// scores and writes; later calls return the same score. The write is
// best-effort: failures are logged and the score stands. An empty session
// has nothing to score and stays unfinished.
func (s *Session) Finish(ctx context.Context, w record.Writer) int {
	if s.finished || s.Empty() {
		return s.result.Correct
	}
	s.result = grading.Tally(s.questions, s.selected)
	s.finished = true

	if w != nil {
		rec := record.Record{Score: s.result.Correct, Date: s.now()}
		if err := w.Write(ctx, rec); err != nil {
			s.log.Warn("exam record write failed", "session", s.id, "score", rec.Score, "err", err)
		}
	}
	return s.result.Correct
}
