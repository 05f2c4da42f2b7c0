package leaderboard

import (
	"context"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/models"
)

// ScoreStore is implemented by db.Store.
type ScoreStore interface {
	TopScores(ctx context.Context, difficulty string, limit int) ([]models.LeaderboardEntry, error)
	PlayerRank(ctx context.Context, difficulty, player string) (int64, error)
}

// SQLBoard ranks straight from the stored results, so Record has nothing to do.
type SQLBoard struct {
	store ScoreStore
}

func NewSQLBoard(store ScoreStore) *SQLBoard {
	return &SQLBoard{store: store}
}

func (b *SQLBoard) Record(ctx context.Context, player, difficulty string, score int) error {
	return nil
}

func (b *SQLBoard) Top(ctx context.Context, difficulty string, limit int) ([]models.LeaderboardEntry, error) {
	return b.store.TopScores(ctx, difficulty, limit)
}

func (b *SQLBoard) Rank(ctx context.Context, difficulty, player string) (int64, error) {
	return b.store.PlayerRank(ctx, difficulty, player)
}
