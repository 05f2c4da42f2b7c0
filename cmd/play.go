package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/game"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/leaderboard"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
	"github.com/spf13/cobra"
)

var (
	playDifficulty string
	playQuestions  int
	playSeconds    int
	playPlayer     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a quiz in the terminal",
	Long: `Play a quiz in the terminal.
If no difficulty is given you are asked to pick one. Type your answer and
press Enter. Press Ctrl-C to quit.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		board, closeBoard := openBoard(ctx, store)
		defer closeBoard()

		player := playPlayer
		if player == "" {
			player = cfg.Player
		}
		questions := playQuestions
		if questions <= 0 {
			questions = cfg.Quiz.Questions
		}
		seconds := playSeconds
		if seconds <= 0 {
			seconds = cfg.Quiz.SecondsPerQuestion
		}

		lines := readLines(os.Stdin)
		recorder := &leaderboard.Recorder{Store: store, Board: board}

		difficulty := playDifficulty
		for {
			d, ok := chooseDifficulty(ctx, difficulty, lines)
			if !ok {
				return
			}

			ok = runQuiz(ctx, lines, d, quiz.Options{
				Player:  player,
				Total:   questions,
				Seconds: seconds,
			}, recorder)
			if !ok {
				fmt.Println("\n👋 Quiz abandoned.")
				return
			}

			if rank, err := board.Rank(ctx, d.String(), player); err == nil && rank > 0 {
				fmt.Printf("🏆 You are #%d on the %s leaderboard.\n", rank, d)
			}

			fmt.Print("\nPlay again? (y/N): ")
			answer, ok := readLine(ctx, lines)
			answer = strings.ToLower(answer)
			if !ok || (answer != "y" && answer != "yes") {
				fmt.Println("👋 Bye!")
				return
			}
			difficulty = ""
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVarP(&playDifficulty, "difficulty", "d", "", "easy, medium or hard")
	playCmd.Flags().IntVarP(&playQuestions, "questions", "n", 0, "number of questions (default from config)")
	playCmd.Flags().IntVarP(&playSeconds, "seconds", "s", 0, "seconds per question (default from config)")
	playCmd.Flags().StringVarP(&playPlayer, "player", "p", "", "name on the leaderboard (default from config)")
}

// readLines feeds stdin lines to a channel that is closed on EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func readLine(ctx context.Context, lines <-chan string) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-lines:
		return strings.TrimSpace(line), ok
	}
}

func chooseDifficulty(ctx context.Context, flag string, lines <-chan string) (quiz.Difficulty, bool) {
	if flag != "" {
		d, err := quiz.ParseDifficulty(flag)
		if err == nil {
			return d, true
		}
		fmt.Println("⚠️", err)
	}

	levels := quiz.Difficulties()
	fmt.Println("\n========================================")
	fmt.Println("DIFFICULTY LEVEL")
	for i, d := range levels {
		level := d.Level()
		fmt.Printf(" %d. %-7s (%d-%d)\n", i+1, d, level.Min, level.Max)
	}
	fmt.Println("========================================")

	for {
		fmt.Print("Choose 1-3: ")
		input, ok := readLine(ctx, lines)
		if !ok {
			return quiz.Easy, false
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(levels) {
			return levels[n-1], true
		}
		if d, err := quiz.ParseDifficulty(input); err == nil {
			return d, true
		}
		fmt.Println("⚠️  Invalid choice.")
	}
}

// runQuiz plays one quiz to the end. It returns false when the player quit
// or stdin closed first.
func runQuiz(ctx context.Context, lines <-chan string, d quiz.Difficulty, opts quiz.Options, recorder game.Recorder) bool {
	presenter := newTerminalPresenter(os.Stdout)
	session := quiz.NewSession(nil, d, opts)
	g := game.New(session, presenter, game.Options{
		CorrectDelay: cfg.Quiz.CorrectDelay,
		RevealDelay:  cfg.Quiz.RevealDelay,
		AutoAdvance:  true,
		Recorder:     recorder,
	})

	fmt.Printf("\n🧮 %s quiz: %d questions, %ds each. Good luck!\n", d, session.Total(), session.Seconds())
	g.Start(ctx)
	defer g.Stop()

	for {
		select {
		case <-presenter.finished:
			return true
		case <-ctx.Done():
			return false
		case line, ok := <-lines:
			if !ok {
				return false
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			// invalid input is reported by the presenter
			if _, err := g.Submit(ctx, line); errors.Is(err, quiz.ErrNotAsking) {
				fmt.Println("⏳ Wait for the next question.")
			}
		}
	}
}

type terminalPresenter struct {
	w        io.Writer
	finished chan quiz.Next
}

func newTerminalPresenter(w io.Writer) *terminalPresenter {
	return &terminalPresenter{w: w, finished: make(chan quiz.Next, 1)}
}

func (p *terminalPresenter) Question(st quiz.State) {
	fmt.Fprintln(p.w, "\n----------------------------------------")
	fmt.Fprintf(p.w, "Question %d/%d    Score: %d    ⏱ %ds\n", st.Question, st.Total, st.Score, st.Remaining)
	fmt.Fprintf(p.w, "\n   %s = ?\n\n", st.Problem)
}

func (p *terminalPresenter) Tick(remaining int) {
	if remaining%10 == 0 || remaining <= 5 {
		fmt.Fprintf(p.w, "⏱ %ds left\n", remaining)
	}
}

func (p *terminalPresenter) Outcome(out quiz.Outcome, st quiz.State) {
	switch out.Kind {
	case quiz.Correct:
		fmt.Fprintf(p.w, "✅ Correct! +%d points\n", out.Points)
	case quiz.IncorrectRetry:
		fmt.Fprintf(p.w, "❌ Incorrect. One more try! (⏱ %ds)\n", st.Remaining)
	case quiz.IncorrectFinal:
		fmt.Fprintf(p.w, "❌ Incorrect. The answer was %d\n", out.Answer)
	case quiz.TimedOut:
		fmt.Fprintf(p.w, "⏰ Time's up! The answer was %d\n", out.Answer)
	}
}

func (p *terminalPresenter) Invalid(raw string, st quiz.State) {
	fmt.Fprintf(p.w, "⚠️  %q is not a number. Please enter a valid number.\n", raw)
}

func (p *terminalPresenter) Finished(next quiz.Next, st quiz.State) {
	fmt.Fprintln(p.w, "\n========================================")
	fmt.Fprintln(p.w, "🏁 QUIZ COMPLETE")
	fmt.Fprintf(p.w, "Score: %d/%d (%d%%)\n", next.Score, next.MaxScore, quiz.Percent(next.Score, next.MaxScore))
	fmt.Fprintf(p.w, "Grade: %s\n", next.Grade)
	fmt.Fprintln(p.w, "========================================")
	p.finished <- next
}
