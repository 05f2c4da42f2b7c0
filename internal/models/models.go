package models

import "time"

// Result is a finished quiz as stored in the database.
type Result struct {
	ID         int       `json:"id"`
	SessionID  string    `json:"session_id"`
	Player     string    `json:"player"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	MaxScore   int       `json:"max_score"`
	Grade      string    `json:"grade"`
	Questions  int       `json:"questions"`
	FirstTry   int       `json:"first_try"`  // correct on the first attempt
	SecondTry  int       `json:"second_try"` // correct on the second attempt
	Wrong      int       `json:"wrong"`
	TimedOut   int       `json:"timed_out"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Answers    []Answer  `json:"answers,omitempty"`
}

// Percent returns the score as a whole percentage.
func (r Result) Percent() int {
	if r.MaxScore == 0 {
		return 0
	}
	return r.Score * 100 / r.MaxScore
}

// Duration is how long the quiz took.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Answer is one resolved question of a Result.
type Answer struct {
	ID       int    `json:"id"`
	ResultID int    `json:"result_id"`
	Number   int    `json:"number"`
	Problem  string `json:"problem"`
	Correct  int    `json:"correct"`
	Outcome  string `json:"outcome"`
	Points   int    `json:"points"`
	Attempts int    `json:"attempts"`
}

// ResultFilter narrows ListResults. Zero values match everything.
type ResultFilter struct {
	Player     string
	Difficulty string
	Limit      int
}

// DifficultyStats aggregates results for one difficulty.
type DifficultyStats struct {
	Difficulty   string
	Quizzes      int
	AverageScore float64
	BestScore    int
}

type Stats struct {
	TotalQuizzes     int
	QuizzesLast7Days int
	AveragePercent   float64
	ByDifficulty     []DifficultyStats
	CountByGrade     map[string]int
}

// LeaderboardEntry is a player's best score on one difficulty.
type LeaderboardEntry struct {
	Player     string `json:"player"`
	Difficulty string `json:"difficulty"`
	Score      int64  `json:"score"`
	Rank       int64  `json:"rank"`
}
