package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/models"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix is prepended to the difficulty to form the ZSET key.
const KeyPrefix = "leaderboard:"

// RedisBoard keeps one sorted set per difficulty, member = player,
// score = best quiz score.
type RedisBoard struct {
	client redis.Cmdable
}

func NewRedisBoard(client redis.Cmdable) *RedisBoard {
	return &RedisBoard{client: client}
}

func Key(difficulty string) string {
	return KeyPrefix + difficulty
}

func (b *RedisBoard) Record(ctx context.Context, player, difficulty string, score int) error {
	// GT only replaces the stored score when the new one is higher
	return b.client.ZAddGT(ctx, Key(difficulty), redis.Z{
		Score:  float64(score),
		Member: player,
	}).Err()
}

func (b *RedisBoard) Top(ctx context.Context, difficulty string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	results, err := b.client.ZRevRangeWithScores(ctx, Key(difficulty), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard %s: %w", difficulty, err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(results))
	for i, z := range results {
		player, _ := z.Member.(string)
		entries = append(entries, models.LeaderboardEntry{
			Player:     player,
			Difficulty: difficulty,
			Score:      int64(z.Score),
			Rank:       int64(i + 1),
		})
	}
	return entries, nil
}

func (b *RedisBoard) Rank(ctx context.Context, difficulty, player string) (int64, error) {
	rank, err := b.client.ZRevRank(ctx, Key(difficulty), player).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil
}

// Connect opens a Redis client and waits for it to answer PING.
func Connect(ctx context.Context, addr, password string, db, maxRetries int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if maxRetries < 1 {
		maxRetries = 1
	}
	var err error
	for i := 1; i <= maxRetries; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		log.Printf("Waiting for Redis at %s... (%d/%d)", addr, i, maxRetries)
		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
	client.Close()
	return nil, fmt.Errorf("redis %s unreachable after %d attempts: %w", addr, maxRetries, err)
}
