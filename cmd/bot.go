package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/leaderboard"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/telegram"
	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the quiz as a Telegram bot",
	Long: `Run the quiz as a Telegram bot.
The token is read from telegram.token in the config file or from
MATHQUIZ_TELEGRAM_TOKEN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Telegram.Token == "" {
			return errors.New("telegram token is required (set MATHQUIZ_TELEGRAM_TOKEN)")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		board, closeBoard := openBoard(ctx, store)
		defer closeBoard()

		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.Debug, board, telegram.Settings{
			Questions:    cfg.Quiz.Questions,
			Seconds:      cfg.Quiz.SecondsPerQuestion,
			CorrectDelay: cfg.Quiz.CorrectDelay,
			RevealDelay:  cfg.Quiz.RevealDelay,
			Recorder:     &leaderboard.Recorder{Store: store, Board: board},
		})
		if err != nil {
			return err
		}

		log.Println("🤖 Bot is starting...")
		bot.Start(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
