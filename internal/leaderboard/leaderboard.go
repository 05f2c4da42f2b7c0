// Package leaderboard ranks players by their best score per difficulty.
package leaderboard

import (
	"context"
	"log"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/models"
)

// Board stores and ranks best scores.
type Board interface {
	// Record keeps the score only if it beats the player's previous best.
	Record(ctx context.Context, player, difficulty string, score int) error
	Top(ctx context.Context, difficulty string, limit int) ([]models.LeaderboardEntry, error)
	// Rank returns the player's 1-based rank, or 0 if unranked.
	Rank(ctx context.Context, difficulty, player string) (int64, error)
}

// ResultStore is the persistence needed by Recorder.
type ResultStore interface {
	Record(ctx context.Context, r models.Result) error
}

// Recorder saves a finished quiz and then updates the leaderboard. A
// leaderboard failure is logged but does not fail the save.
type Recorder struct {
	Store ResultStore
	Board Board
}

func (r *Recorder) Record(ctx context.Context, result models.Result) error {
	if r.Store != nil {
		if err := r.Store.Record(ctx, result); err != nil {
			return err
		}
	}
	if r.Board != nil && result.Player != "" {
		if err := r.Board.Record(ctx, result.Player, result.Difficulty, result.Score); err != nil {
			log.Printf("leaderboard update failed for %s: %v", result.Player, err)
		}
	}
	return nil
}
