package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz statistics per difficulty",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		stats, err := store.GetStats(context.Background())
		if err != nil {
			fmt.Println("❌ Error fetching stats:", err)
			return
		}

		fmt.Println("📊 Statistics")
		fmt.Println("-------------")
		fmt.Printf("Quizzes played:  %d\n", stats.TotalQuizzes)
		fmt.Printf("Last 7 days:     %d\n", stats.QuizzesLast7Days)
		fmt.Printf("Average score:   %.1f%%\n", stats.AveragePercent)

		if len(stats.ByDifficulty) == 0 {
			return
		}
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Difficulty\tQuizzes\tAverage\tBest")
		fmt.Fprintln(w, "----------\t-------\t-------\t----")
		for _, d := range stats.ByDifficulty {
			fmt.Fprintf(w, "%s\t%d\t%.1f\t%d\n", d.Difficulty, d.Quizzes, d.AverageScore, d.BestScore)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
