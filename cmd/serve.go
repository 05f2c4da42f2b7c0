package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/game"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/handlers"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/leaderboard"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz as an HTTP JSON API",
	Long: `Serve the quiz over HTTP.

  POST   /v1/quiz                   start a quiz {"player", "difficulty"}
  GET    /v1/quiz/:id               current state
  POST   /v1/quiz/:id/answer        submit {"answer"}
  POST   /v1/quiz/:id/next          move past a resolved question
  DELETE /v1/quiz/:id               abandon a quiz
  GET    /v1/leaderboard/:difficulty?limit=10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		port := cfg.Server.Port
		if servePort != "" {
			port = servePort
		}

		store, err := openStore()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer store.Close()

		board, closeBoard := openBoard(ctx, store)
		defer closeBoard()

		games := game.NewRegistry()
		defer games.StopAll()

		quizHandlers := handlers.NewQuizHandlers(ctx, games, board, handlers.Settings{
			Questions:   cfg.Quiz.Questions,
			Seconds:     cfg.Quiz.SecondsPerQuestion,
			Recorder:    &leaderboard.Recorder{Store: store, Board: board},
			IdleTimeout: cfg.Server.IdleTimeout,
		})

		app := fiber.New(fiber.Config{
			AppName: "mathquiz",
		})
		app.Use(logger.New())
		app.Use(recover.New())
		app.Use("/v1/quiz", limiter.New(limiter.Config{
			Max:        120,
			Expiration: 1 * time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
		quizHandlers.Register(app)

		go func() {
			<-ctx.Done()
			log.Println("Shutting down...")
			if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
				log.Printf("Shutdown error: %v", err)
			}
		}()

		log.Printf("🧮 Listening on :%s", port)
		return app.Listen(":" + port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default from config)")
}
