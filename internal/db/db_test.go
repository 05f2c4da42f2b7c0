package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "quiz.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult(session, player, difficulty string, score int, finished time.Time) models.Result {
	return models.Result{
		SessionID:  session,
		Player:     player,
		Difficulty: difficulty,
		Score:      score,
		MaxScore:   100,
		Grade:      "A",
		Questions:  10,
		FirstTry:   8,
		Wrong:      1,
		TimedOut:   1,
		StartedAt:  finished.Add(-2 * time.Minute),
		FinishedAt: finished,
		Answers: []models.Answer{
			{Number: 1, Problem: "7 - 3", Correct: 4, Outcome: "correct", Points: 10, Attempts: 1},
			{Number: 2, Problem: "2 + 2", Correct: 4, Outcome: "timeout", Points: 0, Attempts: 0},
		},
	}
}

func TestAddAndGetResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	id, err := store.AddResult(ctx, sampleResult("s-1", "luna", "easy", 85, now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetResult(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID != "s-1" || got.Player != "luna" || got.Score != 85 || got.TimedOut != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if !got.FinishedAt.Equal(now) {
		t.Fatalf("finished_at mismatch: got %v want %v", got.FinishedAt, now)
	}
	if len(got.Answers) != 2 || got.Answers[0].Problem != "7 - 3" || got.Answers[1].Outcome != "timeout" {
		t.Fatalf("unexpected answers: %+v", got.Answers)
	}
}

func TestAddResult_DuplicateSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	r := sampleResult("dup", "luna", "easy", 50, time.Now())

	if _, err := store.AddResult(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.AddResult(ctx, r); err == nil {
		t.Fatalf("expected unique constraint error")
	}

	results, err := store.ListResults(ctx, models.ResultFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("failed insert should roll back, got %d results", len(results))
	}
}

func TestGetResult_NotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetResult(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListResults_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	fixtures := []models.Result{
		sampleResult("a", "luna", "easy", 90, base),
		sampleResult("b", "luna", "hard", 40, base.Add(time.Minute)),
		sampleResult("c", "sol", "easy", 70, base.Add(2*time.Minute)),
	}
	for _, r := range fixtures {
		if _, err := store.AddResult(ctx, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := store.ListResults(ctx, models.ResultFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 || all[0].SessionID != "c" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	luna, _ := store.ListResults(ctx, models.ResultFilter{Player: "luna"})
	if len(luna) != 2 {
		t.Fatalf("expected 2 results for luna, got %d", len(luna))
	}

	easy, _ := store.ListResults(ctx, models.ResultFilter{Difficulty: "easy", Limit: 1})
	if len(easy) != 1 || easy[0].SessionID != "c" {
		t.Fatalf("unexpected filtered results: %+v", easy)
	}
}

func TestDeleteResult_CascadesAnswers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.AddResult(ctx, sampleResult("x", "luna", "easy", 60, time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.DeleteResult(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.DeleteResult(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	var count int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM answers").Scan(&count); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected answers to be deleted, got %d", count)
	}
}

func TestGetStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	r1 := sampleResult("1", "luna", "easy", 100, now)
	r1.Grade = "A+"
	r2 := sampleResult("2", "luna", "easy", 50, now)
	r2.Grade = "D"
	r3 := sampleResult("3", "sol", "hard", 30, now.AddDate(0, 0, -30))
	r3.Grade = "F"
	for _, r := range []models.Result{r1, r2, r3} {
		if _, err := store.AddResult(ctx, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalQuizzes != 3 || stats.QuizzesLast7Days != 2 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.AveragePercent != 60 {
		t.Fatalf("expected 60%% average, got %v", stats.AveragePercent)
	}
	if stats.CountByGrade["A+"] != 1 || stats.CountByGrade["F"] != 1 {
		t.Fatalf("unexpected grade counts: %v", stats.CountByGrade)
	}
	if len(stats.ByDifficulty) != 2 || stats.ByDifficulty[0].Difficulty != "easy" || stats.ByDifficulty[0].BestScore != 100 {
		t.Fatalf("unexpected difficulty stats: %+v", stats.ByDifficulty)
	}
}

func TestTopScoresAndRank(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	fixtures := []models.Result{
		sampleResult("1", "luna", "easy", 70, now),
		sampleResult("2", "luna", "easy", 95, now),
		sampleResult("3", "sol", "easy", 80, now),
		sampleResult("4", "mars", "hard", 100, now),
	}
	for _, r := range fixtures {
		if _, err := store.AddResult(ctx, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	top, err := store.TopScores(ctx, "easy", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 || top[0].Player != "luna" || top[0].Score != 95 || top[1].Rank != 2 {
		t.Fatalf("unexpected leaderboard: %+v", top)
	}

	rank, err := store.PlayerRank(ctx, "easy", "sol")
	if err != nil || rank != 2 {
		t.Fatalf("expected rank 2, got %d (%v)", rank, err)
	}
	rank, err = store.PlayerRank(ctx, "easy", "mars")
	if err != nil || rank != 0 {
		t.Fatalf("expected no rank, got %d (%v)", rank, err)
	}
}

func TestPlayerRankMatchesTopScoresOnTies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i, player := range []string{"vega", "luna", "sol", "ares"} {
		score := 90
		if player == "ares" {
			score = 100
		}
		if _, err := store.AddResult(ctx, sampleResult(fmt.Sprint(i), player, "medium", score, now)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	top, err := store.TopScores(ctx, "medium", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 4 {
		t.Fatalf("expected 4 entries, got %+v", top)
	}
	for _, e := range top {
		rank, err := store.PlayerRank(ctx, "medium", e.Player)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rank != e.Rank {
			t.Errorf("%s: PlayerRank = %d, TopScores rank = %d", e.Player, rank, e.Rank)
		}
	}
	if top[1].Player != "luna" || top[1].Rank != 2 {
		t.Fatalf("ties should be ordered by name: %+v", top)
	}
}

func TestNewStore_ReopenKeepsTimeouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := sampleResult("s-1", "luna", "easy", 85, time.Now())
	id, err := store.AddResult(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Close()

	store, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	got, err := store.GetResult(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TimedOut != 1 {
		t.Fatalf("timed_out lost on reopen: %+v", got)
	}
}
