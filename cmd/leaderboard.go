package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
	"github.com/spf13/cobra"
)

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [difficulty]",
	Short: "Show the best scores for a difficulty",
	Long: `Show each player's best score for a difficulty, highest first.
Without an argument the configured default difficulty is shown.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := cfg.Quiz.Difficulty
		if len(args) > 0 {
			name = args[0]
		}
		d, err := quiz.ParseDifficulty(name)
		if err != nil {
			fmt.Println("❌", err)
			return
		}

		ctx := context.Background()
		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		board, closeBoard := openBoard(ctx, store)
		defer closeBoard()

		entries, err := board.Top(ctx, d.String(), leaderboardLimit)
		if err != nil {
			fmt.Println("❌ Error reading leaderboard:", err)
			return
		}
		if len(entries) == 0 {
			fmt.Printf("🏆 No %s scores yet. Be the first!\n", d)
			return
		}

		fmt.Printf("🏆 Top %s scores:\n\n", d)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Rank\tPlayer\tBest")
		fmt.Fprintln(w, "----\t------\t----")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%d\n", e.Rank, e.Player, e.Score)
		}
		w.Flush()

		if cfg.Player == "" {
			return
		}
		rank, err := board.Rank(ctx, d.String(), cfg.Player)
		if err == nil && rank > int64(len(entries)) {
			fmt.Printf("\nYou (%s) are ranked #%d.\n", cfg.Player, rank)
		}
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	leaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", 10, "number of players to show")
}
