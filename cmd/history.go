package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/models"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
	"github.com/spf13/cobra"
)

var (
	historyPlayer     string
	historyDifficulty string
	historyLimit      int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished quizzes, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		filter := models.ResultFilter{Player: historyPlayer, Limit: historyLimit}
		if historyDifficulty != "" {
			d, err := quiz.ParseDifficulty(historyDifficulty)
			if err != nil {
				fmt.Println("❌", err)
				return
			}
			filter.Difficulty = d.String()
		}

		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		results, err := store.ListResults(context.Background(), filter)
		if err != nil {
			fmt.Println("❌ Error listing results:", err)
			return
		}
		if len(results) == 0 {
			fmt.Println("No quizzes played yet. Start one with 'mathquiz play'.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDate\tPlayer\tDifficulty\tScore\tGrade")
		fmt.Fprintln(w, "--\t----\t------\t----------\t-----\t-----")

		for _, r := range results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\t%s\n",
				r.ID, r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Player, r.Difficulty, r.Score, r.MaxScore, r.Grade)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&historyPlayer, "player", "p", "", "only this player")
	historyCmd.Flags().StringVarP(&historyDifficulty, "difficulty", "d", "", "only this difficulty")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of rows")
}
