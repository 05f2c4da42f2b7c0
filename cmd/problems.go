package cmd

import (
	"fmt"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
	"github.com/spf13/cobra"
)

var (
	problemsCount   int
	problemsSeed    int64
	problemsAnswers bool
)

var problemsCmd = &cobra.Command{
	Use:   "problems [difficulty]",
	Short: "Print sample problems, e.g. for a printed worksheet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d, err := quiz.ParseDifficulty(args[0])
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		if problemsCount < 1 {
			fmt.Println("❌ Count must be at least 1")
			return
		}

		gen := quiz.NewGenerator()
		if cmd.Flags().Changed("seed") {
			gen = quiz.NewSeededGenerator(problemsSeed)
		}

		level := d.Level()
		fmt.Printf("📝 %d %s problems (%d-%d)\n\n", problemsCount, d, level.Min, level.Max)
		for i := 1; i <= problemsCount; i++ {
			p := gen.Generate(d)
			if problemsAnswers {
				fmt.Printf("%3d. %s = %d\n", i, p, p.Answer())
			} else {
				fmt.Printf("%3d. %s = ____\n", i, p)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(problemsCmd)

	problemsCmd.Flags().IntVarP(&problemsCount, "count", "n", quiz.DefaultTotal, "number of problems")
	problemsCmd.Flags().Int64Var(&problemsSeed, "seed", 0, "seed for a repeatable sheet")
	problemsCmd.Flags().BoolVarP(&problemsAnswers, "answers", "a", false, "print the answers")
}
