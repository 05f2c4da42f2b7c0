package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/db"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a finished quiz question by question",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("❌ Invalid ID")
			return
		}

		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		r, err := store.GetResult(context.Background(), id)
		if errors.Is(err, db.ErrNotFound) {
			fmt.Printf("❌ No quiz with ID %d\n", id)
			return
		}
		if err != nil {
			fmt.Println("❌ Error fetching quiz:", err)
			return
		}

		fmt.Printf("\n🧮 Quiz %d: %s, %s\n", r.ID, r.Player, r.Difficulty)
		fmt.Println("========================================")
		fmt.Printf("Played:   %s (%s)\n", r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Duration().Round(time.Second))
		fmt.Printf("Score:    %d/%d (%d%%)\n", r.Score, r.MaxScore, r.Percent())
		fmt.Printf("Grade:    %s\n", r.Grade)
		fmt.Printf("Breakdown: %d first try, %d second try, %d wrong, %d timed out\n\n",
			r.FirstTry, r.SecondTry, r.Wrong, r.TimedOut)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tProblem\tAnswer\tOutcome\tTries\tPoints")
		fmt.Fprintln(w, "-\t-------\t------\t-------\t-----\t------")
		for _, a := range r.Answers {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%d\n", a.Number, a.Problem, a.Correct, a.Outcome, a.Attempts, a.Points)
		}
		w.Flush()
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
