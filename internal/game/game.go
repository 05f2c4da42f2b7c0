// Package game runs a quiz session on a single dispatch goroutine. Answer
// submissions, countdown ticks, delayed advances and cancellation are all
// executed there, so the session itself needs no locking.
package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/countdown"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/models"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
)

// ErrStopped is returned by calls made after the game was stopped.
var ErrStopped = errors.New("game stopped")

const (
	DefaultTick         = time.Second
	DefaultCorrectDelay = 1500 * time.Millisecond
	DefaultRevealDelay  = 2 * time.Second
)

// Presenter shows game events to the player. All methods are called from the
// dispatch goroutine.
type Presenter interface {
	Question(st quiz.State)
	Tick(remaining int)
	Outcome(out quiz.Outcome, st quiz.State)
	Invalid(raw string, st quiz.State)
	Finished(next quiz.Next, st quiz.State)
}

// Recorder persists a finished quiz.
type Recorder interface {
	Record(ctx context.Context, result models.Result) error
}

type Options struct {
	// Tick is the length of one countdown second.
	Tick time.Duration
	// CorrectDelay and RevealDelay are how long an outcome stays on screen
	// before the next question when AutoAdvance is set.
	CorrectDelay time.Duration
	RevealDelay  time.Duration
	AutoAdvance  bool
	Recorder     Recorder
}

func (o *Options) setDefaults() {
	if o.Tick <= 0 {
		o.Tick = DefaultTick
	}
	if o.CorrectDelay <= 0 {
		o.CorrectDelay = DefaultCorrectDelay
	}
	if o.RevealDelay <= 0 {
		o.RevealDelay = DefaultRevealDelay
	}
}

// Snapshot is the session state plus the last outcome of the current question.
type Snapshot struct {
	quiz.State
	LastOutcome *quiz.Outcome `json:"last_outcome,omitempty"`
}

// Game owns one session and its countdown.
type Game struct {
	session   *quiz.Session
	presenter Presenter
	opts      Options

	events chan func()
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once

	// touched only on the dispatch goroutine
	ctx          context.Context
	timer        *countdown.Timer
	advance      *time.Timer
	advanceToken uint64
	last         *quiz.Outcome
}

func New(session *quiz.Session, presenter Presenter, opts Options) *Game {
	opts.setDefaults()
	g := &Game{
		session:   session,
		presenter: presenter,
		opts:      opts,
		events:    make(chan func()),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	g.timer = countdown.NewTimer(opts.Tick, func(token uint64) {
		g.post(func() { g.onTick(token) })
	})
	return g
}

// Start launches the dispatch goroutine, shows the first question and starts
// its countdown. The game stops when ctx is cancelled or Stop is called.
func (g *Game) Start(ctx context.Context) {
	g.ctx = ctx
	go g.loop(ctx)
	g.post(func() {
		g.presenter.Question(g.session.State())
		g.timer.Restart()
	})
}

func (g *Game) loop(ctx context.Context) {
	defer close(g.done)
	defer g.release()
	for {
		select {
		case <-ctx.Done():
			return
		case <-g.quit:
			return
		case fn := <-g.events:
			fn()
		}
	}
}

func (g *Game) release() {
	g.timer.Stop()
	g.cancelAdvance()
}

// Stop cancels the pending countdown and any scheduled advance and ends the
// dispatch goroutine. It is safe to call more than once.
func (g *Game) Stop() {
	g.once.Do(func() { close(g.quit) })
}

// Done is closed after the dispatch goroutine has exited.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

func (g *Game) ID() string {
	return g.session.ID()
}

func (g *Game) post(fn func()) bool {
	select {
	case g.events <- fn:
		return true
	case <-g.done:
		return false
	}
}

func (g *Game) call(ctx context.Context, fn func()) error {
	reply := make(chan struct{})
	if !g.post(func() { fn(); close(reply) }) {
		return ErrStopped
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-g.done:
		return ErrStopped
	}
}

// Submit judges an answer. Invalid input returns quiz.ErrInvalidInput and
// does not interrupt the countdown.
func (g *Game) Submit(ctx context.Context, raw string) (quiz.Outcome, error) {
	var (
		out quiz.Outcome
		err error
	)
	if callErr := g.call(ctx, func() { out, err = g.submit(raw) }); callErr != nil {
		return quiz.Outcome{}, callErr
	}
	return out, err
}

// Next advances past a resolved question.
func (g *Game) Next(ctx context.Context) (quiz.Next, error) {
	var (
		next quiz.Next
		err  error
	)
	if callErr := g.call(ctx, func() { next, err = g.next() }); callErr != nil {
		return quiz.Next{}, callErr
	}
	return next, err
}

func (g *Game) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := g.call(ctx, func() {
		snap = Snapshot{State: g.session.State()}
		if g.last != nil {
			last := *g.last
			snap.LastOutcome = &last
		}
	})
	return snap, err
}

func (g *Game) submit(raw string) (quiz.Outcome, error) {
	if g.session.Phase() != quiz.Asking {
		return g.session.Submit(raw)
	}

	out, err := g.session.Submit(raw)
	if errors.Is(err, quiz.ErrInvalidInput) {
		// the running countdown is left alone
		g.presenter.Invalid(raw, g.session.State())
		return out, err
	}
	if err != nil {
		return out, err
	}
	g.timer.Stop()

	g.last = &out
	g.presenter.Outcome(out, g.session.State())

	switch out.Kind {
	case quiz.IncorrectRetry:
		g.timer.Restart()
	case quiz.Correct:
		g.scheduleAdvance(g.opts.CorrectDelay)
	default:
		g.scheduleAdvance(g.opts.RevealDelay)
	}
	return out, nil
}

func (g *Game) onTick(token uint64) {
	if !g.timer.Active(token) {
		return
	}
	out, expired, err := g.session.Tick()
	if err != nil {
		g.timer.Stop()
		return
	}
	if !expired {
		g.presenter.Tick(g.session.Remaining())
		return
	}

	g.timer.Stop()
	g.last = &out
	g.presenter.Outcome(out, g.session.State())
	g.scheduleAdvance(g.opts.RevealDelay)
}

func (g *Game) next() (quiz.Next, error) {
	g.cancelAdvance()
	next, err := g.session.Advance()
	if err != nil {
		return next, err
	}
	g.last = nil

	if next.Finished {
		g.timer.Stop()
		g.record()
		g.presenter.Finished(next, g.session.State())
		return next, nil
	}

	g.presenter.Question(g.session.State())
	g.timer.Restart()
	return next, nil
}

func (g *Game) scheduleAdvance(delay time.Duration) {
	if !g.opts.AutoAdvance {
		return
	}
	g.cancelAdvance()
	token := g.advanceToken
	g.advance = time.AfterFunc(delay, func() {
		g.post(func() {
			if token != g.advanceToken {
				return
			}
			if _, err := g.next(); err != nil {
				log.Printf("game %s: advance failed: %v", g.session.ID(), err)
			}
		})
	})
}

func (g *Game) cancelAdvance() {
	g.advanceToken++
	if g.advance != nil {
		g.advance.Stop()
		g.advance = nil
	}
}

func (g *Game) record() {
	if g.opts.Recorder == nil {
		return
	}
	ctx := g.ctx
	if ctx == nil || ctx.Err() != nil {
		ctx = context.Background()
	}
	if err := g.opts.Recorder.Record(ctx, ResultFromSession(g.session)); err != nil {
		log.Printf("game %s: failed to record result: %v", g.session.ID(), err)
	}
}
