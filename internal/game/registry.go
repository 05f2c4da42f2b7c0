package game

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
)

type entry struct {
	game     *Game
	lastSeen atomic.Int64
}

func newEntry(g *Game) *entry {
	e := &entry{game: g}
	e.touch()
	return e
}

func (e *entry) touch() {
	e.lastSeen.Store(time.Now().UnixNano())
}

func (e *entry) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, e.lastSeen.Load()))
}

// Registry tracks the running games of a multi-player front-end.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{games: make(map[string]*entry)}
}

// Put stores g under key, stopping any game previously stored there.
func (r *Registry) Put(key string, g *Game) {
	r.mu.Lock()
	old := r.games[key]
	r.games[key] = newEntry(g)
	r.mu.Unlock()

	if old != nil && old.game != g {
		old.game.Stop()
	}
}

// Get returns the game stored under key and marks it as recently used.
func (r *Registry) Get(key string) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.games[key]
	if !ok {
		return nil, false
	}
	e.touch()
	return e.game, true
}

// Remove stops and forgets the game stored under key.
func (r *Registry) Remove(key string) bool {
	r.mu.Lock()
	e, ok := r.games[key]
	delete(r.games, key)
	r.mu.Unlock()

	if ok {
		e.game.Stop()
	}
	return ok
}

// RemoveIf removes key only while it still holds g. A finished game uses it
// to clean up without evicting a newer game stored under the same key.
func (r *Registry) RemoveIf(key string, g *Game) bool {
	r.mu.Lock()
	e, ok := r.games[key]
	ok = ok && e.game == g
	if ok {
		delete(r.games, key)
	}
	r.mu.Unlock()

	if ok {
		g.Stop()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep removes games that have stopped or have not been used for maxIdle,
// and returns how many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	now := time.Now()
	var stale []*Game

	r.mu.Lock()
	for key, e := range r.games {
		if isDone(e.game) || e.idleSince(now) >= maxIdle {
			stale = append(stale, e.game)
			delete(r.games, key)
		}
	}
	r.mu.Unlock()

	for _, g := range stale {
		g.Stop()
	}
	return len(stale)
}

// Reap sweeps the registry every interval until ctx is cancelled.
func (r *Registry) Reap(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				log.Printf("game: reaped %d idle games, %d running", n, r.Len())
			}
		}
	}
}

func isDone(g *Game) bool {
	select {
	case <-g.Done():
		return true
	default:
		return false
	}
}

// StopAll stops every game, e.g. on shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	games := r.games
	r.games = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range games {
		e.game.Stop()
	}
}

// NopPresenter ignores all events. Front-ends that poll state use it.
type NopPresenter struct{}

func (NopPresenter) Question(quiz.State)              {}
func (NopPresenter) Tick(int)                         {}
func (NopPresenter) Outcome(quiz.Outcome, quiz.State) {}
func (NopPresenter) Invalid(string, quiz.State)       {}
func (NopPresenter) Finished(quiz.Next, quiz.State)   {}
