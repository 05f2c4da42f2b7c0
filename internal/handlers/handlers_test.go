package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/game"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/models"
	"github.com/gofiber/fiber/v2"
)

type stubBoard struct {
	entries []models.LeaderboardEntry
	asked   string
	limit   int
}

func (b *stubBoard) Record(ctx context.Context, player, difficulty string, score int) error {
	return nil
}

func (b *stubBoard) Top(ctx context.Context, difficulty string, limit int) ([]models.LeaderboardEntry, error) {
	b.asked = difficulty
	b.limit = limit
	return b.entries, nil
}

func (b *stubBoard) Rank(ctx context.Context, difficulty, player string) (int64, error) {
	return 0, nil
}

type recorded struct {
	results chan models.Result
}

func (r *recorded) Record(ctx context.Context, result models.Result) error {
	r.results <- result
	return nil
}

func newTestApp(t *testing.T, questions int) (*fiber.App, *game.Registry, *stubBoard, *recorded) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	games := game.NewRegistry()
	t.Cleanup(games.StopAll)
	board := &stubBoard{}
	rec := &recorded{results: make(chan models.Result, 1)}

	h := NewQuizHandlers(ctx, games, board, Settings{
		Questions: questions,
		Seconds:   30,
		// long enough that no countdown expires during a test
		Tick:     time.Hour,
		Recorder: rec,
	})
	app := fiber.New()
	h.Register(app)
	return app, games, board, rec
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

func solve(t *testing.T, problem string) int {
	t.Helper()
	var a, b int
	var op string
	if _, err := fmt.Sscanf(problem, "%d %s %d", &a, &op, &b); err != nil {
		t.Fatalf("parse problem %q: %v", problem, err)
	}
	if op == "-" {
		return a - b
	}
	return a + b
}

func startQuiz(t *testing.T, app *fiber.App) map[string]any {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/v1/quiz", `{"player":"luna","difficulty":"easy"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("start: status %d body %v", status, body)
	}
	return body
}

func TestStartQuiz(t *testing.T) {
	app, games, _, _ := newTestApp(t, 2)

	body := startQuiz(t, app)
	if body["phase"] != "asking" {
		t.Errorf("phase = %v, want asking", body["phase"])
	}
	if body["remaining"] != float64(30) {
		t.Errorf("remaining = %v, want 30", body["remaining"])
	}
	if body["question"] != float64(1) || body["total"] != float64(2) {
		t.Errorf("question %v of %v, want 1 of 2", body["question"], body["total"])
	}
	if games.Len() != 1 {
		t.Errorf("registry has %d games, want 1", games.Len())
	}
}

func TestStartQuizValidation(t *testing.T) {
	app, _, _, _ := newTestApp(t, 2)

	tests := []struct {
		name string
		body string
	}{
		{"missing player", `{"difficulty":"easy"}`},
		{"blank player", `{"player":"   ","difficulty":"easy"}`},
		{"unknown difficulty", `{"player":"luna","difficulty":"extreme"}`},
		{"bad json", `{"player":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, app, http.MethodPost, "/v1/quiz", tt.body)
			if status != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
		})
	}
}

func TestPlayThroughQuiz(t *testing.T) {
	app, games, _, rec := newTestApp(t, 2)
	quiz := startQuiz(t, app)
	id := quiz["id"].(string)

	for question := 1; question <= 2; question++ {
		answer := solve(t, quiz["problem"].(string))
		status, body := do(t, app, http.MethodPost, "/v1/quiz/"+id+"/answer", fmt.Sprintf(`{"answer":"%d"}`, answer))
		if status != fiber.StatusOK {
			t.Fatalf("answer %d: status %d body %v", question, status, body)
		}
		out := body["outcome"].(map[string]any)
		if out["kind"] != "correct" || out["points"] != float64(10) {
			t.Fatalf("answer %d: outcome %v", question, out)
		}

		status, _ = do(t, app, http.MethodPost, "/v1/quiz/"+id+"/answer", `{"answer":"1"}`)
		if status != fiber.StatusConflict {
			t.Errorf("answer after resolve: status %d, want 409", status)
		}

		status, body = do(t, app, http.MethodPost, "/v1/quiz/"+id+"/next", "")
		if status != fiber.StatusOK {
			t.Fatalf("next %d: status %d body %v", question, status, body)
		}
		next := body["next"].(map[string]any)
		if question < 2 {
			quiz = body["quiz"].(map[string]any)
			continue
		}
		if next["finished"] != true || next["score"] != float64(20) || next["grade"] != "A+" {
			t.Errorf("final next = %v", next)
		}
	}

	select {
	case r := <-rec.results:
		if r.Score != 20 || r.Player != "luna" {
			t.Errorf("recorded %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("result was not recorded")
	}
	if games.Len() != 0 {
		t.Errorf("finished quiz still registered")
	}
}

func TestSubmitInvalidAnswer(t *testing.T) {
	app, _, _, _ := newTestApp(t, 2)
	id := startQuiz(t, app)["id"].(string)

	status, _ := do(t, app, http.MethodPost, "/v1/quiz/"+id+"/answer", `{"answer":"seven"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}

	_, body := do(t, app, http.MethodGet, "/v1/quiz/"+id, "")
	if body["phase"] != "asking" || body["attempts"] != float64(0) || body["score"] != float64(0) {
		t.Errorf("state changed after invalid input: %v", body)
	}
}

func TestNextBeforeResolved(t *testing.T) {
	app, _, _, _ := newTestApp(t, 2)
	id := startQuiz(t, app)["id"].(string)

	status, _ := do(t, app, http.MethodPost, "/v1/quiz/"+id+"/next", "")
	if status != fiber.StatusConflict {
		t.Errorf("status = %d, want 409", status)
	}
}

func TestStopQuiz(t *testing.T) {
	app, games, _, _ := newTestApp(t, 2)
	id := startQuiz(t, app)["id"].(string)

	status, _ := do(t, app, http.MethodDelete, "/v1/quiz/"+id, "")
	if status != fiber.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	if games.Len() != 0 {
		t.Errorf("registry has %d games after delete", games.Len())
	}

	status, _ = do(t, app, http.MethodGet, "/v1/quiz/"+id, "")
	if status != fiber.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", status)
	}
	status, _ = do(t, app, http.MethodDelete, "/v1/quiz/"+id, "")
	if status != fiber.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", status)
	}
}

func TestAbandonedQuizExpires(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	games := game.NewRegistry()
	t.Cleanup(games.StopAll)

	h := NewQuizHandlers(ctx, games, &stubBoard{}, Settings{
		Questions:   2,
		Seconds:     30,
		Tick:        time.Hour,
		IdleTimeout: 20 * time.Millisecond,
	})
	app := fiber.New()
	h.Register(app)

	for i := 0; i < 3; i++ {
		startQuiz(t, app)
	}

	deadline := time.Now().Add(2 * time.Second)
	for games.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d abandoned quizzes still running", games.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGetLeaderboard(t *testing.T) {
	app, _, board, _ := newTestApp(t, 2)
	board.entries = []models.LeaderboardEntry{
		{Player: "luna", Difficulty: "hard", Score: 90, Rank: 1},
	}

	status, body := do(t, app, http.MethodGet, "/v1/leaderboard/2?limit=5", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d body %v", status, body)
	}
	if board.asked != "hard" || board.limit != 5 {
		t.Errorf("board asked for %q limit %d", board.asked, board.limit)
	}
	entries := body["leaderboard"].([]any)
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}

	status, _ = do(t, app, http.MethodGet, "/v1/leaderboard/hard?limit=0", "")
	if status != fiber.StatusBadRequest {
		t.Errorf("limit=0: status %d, want 400", status)
	}
	status, _ = do(t, app, http.MethodGet, "/v1/leaderboard/nope", "")
	if status != fiber.StatusBadRequest {
		t.Errorf("unknown difficulty: status %d, want 400", status)
	}
}
