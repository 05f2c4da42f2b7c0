package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the grade distribution of all quizzes",
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

		fmt.Println("\n📊 Performance Overview")
		fmt.Println("=======================")
		fmt.Printf("Quizzes played:     %d\n", stats.TotalQuizzes)
		fmt.Printf("Quizzes last 7D:    %d\n", stats.QuizzesLast7Days)
		fmt.Printf("Average score:      %.1f%%\n", stats.AveragePercent)

		fmt.Println("\n📈 Grade Distribution")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Grade\tCount")
		fmt.Fprintln(w, "-----\t-----")

		for _, grade := range quiz.Grades() {
			count := stats.CountByGrade[grade]
			fmt.Fprintf(w, "%s\t%d\t%s\n", grade, count, strings.Repeat("█", count))
		}
		w.Flush()
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}
