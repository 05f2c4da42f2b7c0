package quiz

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTotal   = 10
	DefaultSeconds = 30
	// MaxAttempts is the number of judged submissions allowed per problem.
	MaxAttempts = 2
)

// Phase is the state of the current question.
type Phase int

const (
	Asking Phase = iota
	Resolved
	Finished
)

func (p Phase) String() string {
	switch p {
	case Asking:
		return "asking"
	case Resolved:
		return "resolved"
	case Finished:
		return "finished"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// OutcomeKind classifies a judged submission or a timeout.
type OutcomeKind int

const (
	Correct OutcomeKind = iota
	IncorrectRetry
	IncorrectFinal
	TimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case Correct:
		return "correct"
	case IncorrectRetry:
		return "incorrect_retry"
	case IncorrectFinal:
		return "incorrect_final"
	case TimedOut:
		return "timeout"
	}
	return "unknown"
}

func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the result of Submit, Tick or Timeout.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Points int         `json:"points"`
	// Answer is the correct answer. It is only revealed once the question is resolved.
	Answer int `json:"answer"`
}

// Resolved reports whether the outcome ends the current question.
func (o Outcome) Resolved() bool {
	return o.Kind != IncorrectRetry
}

// Next is returned by Advance.
type Next struct {
	Finished bool    `json:"finished"`
	Question int     `json:"question,omitempty"`
	Problem  Problem `json:"problem"`
	Score    int     `json:"score"`
	MaxScore int     `json:"max_score"`
	Grade    string  `json:"grade,omitempty"`
}

// Record is the log entry of one resolved question.
type Record struct {
	Number   int         `json:"number"`
	Problem  Problem     `json:"problem"`
	Outcome  OutcomeKind `json:"outcome"`
	Points   int         `json:"points"`
	Attempts int         `json:"attempts"`
}

// Options configure a new Session. Zero values take the defaults.
type Options struct {
	Player  string
	Total   int
	Seconds int
}

// Session is the mutable state of one quiz run. It has a single owner and is
// not safe for concurrent use.
type Session struct {
	id         string
	player     string
	difficulty Difficulty
	total      int
	seconds    int

	score     int
	count     int
	problem   Problem
	attempts  int
	remaining int
	phase     Phase

	startedAt  time.Time
	finishedAt time.Time
	records    []Record
	gen        *Generator
}

// NewSession starts a quiz and draws its first problem.
func NewSession(gen *Generator, d Difficulty, opts Options) *Session {
	if gen == nil {
		gen = NewGenerator()
	}
	if opts.Total <= 0 {
		opts.Total = DefaultTotal
	}
	if opts.Seconds <= 0 {
		opts.Seconds = DefaultSeconds
	}

	s := &Session{
		id:         uuid.NewString(),
		player:     opts.Player,
		difficulty: d,
		total:      opts.Total,
		seconds:    opts.Seconds,
		startedAt:  time.Now(),
		gen:        gen,
	}
	s.ask(gen.Generate(d))
	return s
}

func (s *Session) ask(p Problem) {
	s.problem = p
	s.attempts = 0
	s.remaining = s.seconds
	s.phase = Asking
}

func (s *Session) ID() string             { return s.id }
func (s *Session) Player() string         { return s.player }
func (s *Session) Difficulty() Difficulty { return s.difficulty }
func (s *Session) Total() int             { return s.total }
func (s *Session) Seconds() int           { return s.seconds }
func (s *Session) Score() int             { return s.score }
func (s *Session) Count() int             { return s.count }
func (s *Session) Attempts() int          { return s.attempts }
func (s *Session) Remaining() int         { return s.remaining }
func (s *Session) Phase() Phase           { return s.phase }
func (s *Session) Problem() Problem       { return s.problem }
func (s *Session) StartedAt() time.Time   { return s.startedAt }
func (s *Session) FinishedAt() time.Time  { return s.finishedAt }
func (s *Session) MaxScore() int          { return MaxScore(s.total) }
func (s *Session) Grade() string          { return Grade(s.score, s.MaxScore()) }

// Records returns a copy of the resolved-question log.
func (s *Session) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Submit judges a raw answer against the current problem. Non-numeric input
// returns ErrInvalidInput and changes nothing.
func (s *Session) Submit(raw string) (Outcome, error) {
	if err := s.checkAsking(); err != nil {
		return Outcome{}, err
	}

	answer, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}

	correct := s.problem.Answer()
	if answer == correct {
		points := PointsSecondTry
		if s.attempts == 0 {
			points = PointsFirstTry
		}
		s.score += points
		return s.resolve(Outcome{Kind: Correct, Points: points, Answer: correct}, s.attempts+1), nil
	}

	s.attempts++
	if s.attempts < MaxAttempts {
		s.remaining = s.seconds
		return Outcome{Kind: IncorrectRetry}, nil
	}
	return s.resolve(Outcome{Kind: IncorrectFinal, Answer: correct}, s.attempts), nil
}

// Tick consumes one second of the countdown. When the countdown reaches zero
// the question times out and the returned bool is true.
func (s *Session) Tick() (Outcome, bool, error) {
	if err := s.checkAsking(); err != nil {
		return Outcome{}, false, err
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return Outcome{}, false, nil
	}
	out, err := s.Timeout()
	return out, true, err
}

// Timeout resolves the current question regardless of attempts used.
func (s *Session) Timeout() (Outcome, error) {
	if err := s.checkAsking(); err != nil {
		return Outcome{}, err
	}
	s.remaining = 0
	return s.resolve(Outcome{Kind: TimedOut, Answer: s.problem.Answer()}, s.attempts), nil
}

// Advance moves past a resolved question, drawing the next problem or
// finishing the quiz.
func (s *Session) Advance() (Next, error) {
	switch s.phase {
	case Finished:
		return Next{}, ErrFinished
	case Asking:
		return Next{}, ErrNotResolved
	}

	s.count++
	if s.count >= s.total {
		s.phase = Finished
		s.finishedAt = time.Now()
		return Next{
			Finished: true,
			Score:    s.score,
			MaxScore: s.MaxScore(),
			Grade:    s.Grade(),
		}, nil
	}

	s.ask(s.gen.Generate(s.difficulty))
	return Next{
		Question: s.count + 1,
		Problem:  s.problem,
		Score:    s.score,
		MaxScore: s.MaxScore(),
	}, nil
}

func (s *Session) checkAsking() error {
	switch s.phase {
	case Finished:
		return ErrFinished
	case Resolved:
		return ErrNotAsking
	}
	return nil
}

func (s *Session) resolve(out Outcome, attempts int) Outcome {
	s.phase = Resolved
	s.records = append(s.records, Record{
		Number:   s.count + 1,
		Problem:  s.problem,
		Outcome:  out.Kind,
		Points:   out.Points,
		Attempts: attempts,
	})
	return out
}

// State is a read-only view of a session.
type State struct {
	ID         string     `json:"id"`
	Player     string     `json:"player,omitempty"`
	Difficulty string     `json:"difficulty"`
	Phase      Phase      `json:"phase"`
	Question   int        `json:"question"`
	Total      int        `json:"total"`
	Problem    string     `json:"problem,omitempty"`
	Attempts   int        `json:"attempts"`
	Remaining  int        `json:"remaining"`
	Score      int        `json:"score"`
	MaxScore   int        `json:"max_score"`
	Grade      string     `json:"grade,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (s *Session) State() State {
	st := State{
		ID:         s.id,
		Player:     s.player,
		Difficulty: s.difficulty.String(),
		Phase:      s.phase,
		Question:   s.count + 1,
		Total:      s.total,
		Attempts:   s.attempts,
		Remaining:  s.remaining,
		Score:      s.score,
		MaxScore:   s.MaxScore(),
		StartedAt:  s.startedAt,
	}
	if s.phase == Finished {
		st.Question = s.total
		st.Grade = s.Grade()
		finished := s.finishedAt
		st.FinishedAt = &finished
	} else {
		st.Problem = s.problem.String()
	}
	return st
}
