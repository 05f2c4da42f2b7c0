package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/game"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/leaderboard"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Settings are applied to every quiz started over HTTP.
type Settings struct {
	Questions int
	Seconds   int
	Tick      time.Duration
	Recorder  game.Recorder
	// IdleTimeout drops quizzes nobody has touched for this long. Zero keeps
	// them until they are deleted.
	IdleTimeout time.Duration
}

// QuizHandlers contains HTTP handlers for quiz endpoints
type QuizHandlers struct {
	ctx      context.Context
	games    *game.Registry
	board    leaderboard.Board
	settings Settings
	validate *validator.Validate
}

// NewQuizHandlers creates the handlers. Games started through them live until
// ctx is cancelled, they finish, they are deleted, or they sit idle for
// settings.IdleTimeout.
func NewQuizHandlers(ctx context.Context, games *game.Registry, board leaderboard.Board, settings Settings) *QuizHandlers {
	if settings.IdleTimeout > 0 {
		go games.Reap(ctx, settings.IdleTimeout/2, settings.IdleTimeout)
	}
	return &QuizHandlers{
		ctx:      ctx,
		games:    games,
		board:    board,
		settings: settings,
		validate: validator.New(),
	}
}

// Register mounts the routes on app.
func (h *QuizHandlers) Register(app *fiber.App) {
	api := app.Group("/v1/quiz")
	api.Post("/", h.HandleStartQuiz)
	api.Get("/:id", h.HandleGetQuiz)
	api.Post("/:id/answer", h.HandleSubmitAnswer)
	api.Post("/:id/next", h.HandleNextQuestion)
	api.Delete("/:id", h.HandleStopQuiz)

	app.Get("/v1/leaderboard/:difficulty", h.HandleGetLeaderboard)
}

type startRequest struct {
	Player     string `json:"player" validate:"required,max=64"`
	Difficulty string `json:"difficulty" validate:"required"`
}

// HandleStartQuiz handles POST /v1/quiz
func (h *QuizHandlers) HandleStartQuiz(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}
	req.Player = strings.TrimSpace(req.Player)
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err.Error(),
		})
	}
	difficulty, err := quiz.ParseDifficulty(req.Difficulty)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	session := quiz.NewSession(nil, difficulty, quiz.Options{
		Player:  req.Player,
		Total:   h.settings.Questions,
		Seconds: h.settings.Seconds,
	})
	g := game.New(session, game.NopPresenter{}, game.Options{
		Tick:     h.settings.Tick,
		Recorder: h.settings.Recorder,
	})
	g.Start(h.ctx)
	h.games.Put(g.ID(), g)

	snap, err := g.Snapshot(c.Context())
	if err != nil {
		log.Printf("Error reading new quiz %s: %v", g.ID(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start quiz",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

// HandleGetQuiz handles GET /v1/quiz/:id
func (h *QuizHandlers) HandleGetQuiz(c *fiber.Ctx) error {
	g, ok := h.games.Get(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	snap, err := g.Snapshot(c.Context())
	if err != nil {
		return h.gameError(c, err)
	}
	return c.JSON(snap)
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// HandleSubmitAnswer handles POST /v1/quiz/:id/answer
func (h *QuizHandlers) HandleSubmitAnswer(c *fiber.Ctx) error {
	g, ok := h.games.Get(c.Params("id"))
	if !ok {
		return notFound(c)
	}

	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	out, err := g.Submit(c.Context(), req.Answer)
	if err != nil {
		return h.gameError(c, err)
	}
	snap, err := g.Snapshot(c.Context())
	if err != nil {
		return h.gameError(c, err)
	}

	return c.JSON(fiber.Map{
		"outcome": out,
		"quiz":    snap,
	})
}

// HandleNextQuestion handles POST /v1/quiz/:id/next
func (h *QuizHandlers) HandleNextQuestion(c *fiber.Ctx) error {
	id := c.Params("id")
	g, ok := h.games.Get(id)
	if !ok {
		return notFound(c)
	}

	next, err := g.Next(c.Context())
	if err != nil {
		return h.gameError(c, err)
	}

	if next.Finished {
		h.games.Remove(id)
		return c.JSON(fiber.Map{
			"next": next,
		})
	}

	snap, err := g.Snapshot(c.Context())
	if err != nil {
		return h.gameError(c, err)
	}
	return c.JSON(fiber.Map{
		"next": next,
		"quiz": snap,
	})
}

// HandleStopQuiz handles DELETE /v1/quiz/:id
func (h *QuizHandlers) HandleStopQuiz(c *fiber.Ctx) error {
	if !h.games.Remove(c.Params("id")) {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetLeaderboard handles GET /v1/leaderboard/:difficulty
// Query params: limit (optional, default 10)
func (h *QuizHandlers) HandleGetLeaderboard(c *fiber.Ctx) error {
	difficulty, err := quiz.ParseDifficulty(c.Params("difficulty"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be between 1 and 100",
			})
		}
	}

	entries, err := h.board.Top(c.Context(), difficulty.String(), limit)
	if err != nil {
		log.Printf("Error getting leaderboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get leaderboard",
		})
	}

	return c.JSON(fiber.Map{
		"difficulty":  difficulty.String(),
		"leaderboard": entries,
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Quiz not found",
	})
}

func (h *QuizHandlers) gameError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, quiz.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Enter a valid number",
		})
	case errors.Is(err, quiz.ErrNotAsking), errors.Is(err, quiz.ErrNotResolved), errors.Is(err, quiz.ErrFinished):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, game.ErrStopped):
		return notFound(c)
	}
	log.Printf("Quiz request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal error",
	})
}
