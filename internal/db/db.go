package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a result does not exist.
var ErrNotFound = errors.New("result not found")

type Store struct {
	db *sql.DB
}

// DefaultPath is ~/.mathquiz/mathquiz.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".mathquiz", "mathquiz.db"), nil
}

// NewStore opens (and creates if needed) the database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("cannot create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	queryResults := `
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT UNIQUE NOT NULL,
		player TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		score INTEGER NOT NULL,
		max_score INTEGER NOT NULL,
		grade TEXT NOT NULL,
		questions INTEGER NOT NULL,
		first_try INTEGER DEFAULT 0,
		second_try INTEGER DEFAULT 0,
		wrong INTEGER DEFAULT 0,
		timed_out INTEGER DEFAULT 0,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(queryResults); err != nil {
		return err
	}

	queryAnswers := `
	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		result_id INTEGER NOT NULL,
		number INTEGER NOT NULL,
		problem TEXT NOT NULL,
		correct INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		points INTEGER NOT NULL,
		attempts INTEGER NOT NULL,
		FOREIGN KEY (result_id) REFERENCES results(id) ON DELETE CASCADE
	);
	`
	if _, err := db.Exec(queryAnswers); err != nil {
		return err
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_results_difficulty_score ON results (difficulty, score DESC)`); err != nil {
		return err
	}

	return nil
}

// AddResult stores a finished quiz and its answers in one transaction and
// returns the new result ID.
func (s *Store) AddResult(ctx context.Context, r models.Result) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO results (session_id, player, difficulty, score, max_score, grade, questions,
			first_try, second_try, wrong, timed_out, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Player, r.Difficulty, r.Score, r.MaxScore, r.Grade, r.Questions,
		r.FirstTry, r.SecondTry, r.Wrong, r.TimedOut, r.StartedAt.UTC(), r.FinishedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, a := range r.Answers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO answers (result_id, number, problem, correct, outcome, points, attempts)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, a.Number, a.Problem, a.Correct, a.Outcome, a.Points, a.Attempts,
		)
		if err != nil {
			return 0, fmt.Errorf("insert answer %d: %w", a.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(id), nil
}

// Record implements game.Recorder.
func (s *Store) Record(ctx context.Context, r models.Result) error {
	_, err := s.AddResult(ctx, r)
	return err
}

const resultColumns = `id, session_id, player, difficulty, score, max_score, grade, questions,
	first_try, second_try, wrong, timed_out, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (models.Result, error) {
	var r models.Result
	var timedOut sql.NullInt64
	err := row.Scan(&r.ID, &r.SessionID, &r.Player, &r.Difficulty, &r.Score, &r.MaxScore, &r.Grade,
		&r.Questions, &r.FirstTry, &r.SecondTry, &r.Wrong, &timedOut, &r.StartedAt, &r.FinishedAt)
	r.TimedOut = int(timedOut.Int64)
	return r, err
}

// GetResult returns a result with its answers.
func (s *Store) GetResult(ctx context.Context, id int) (*models.Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM results WHERE id = ?`, id)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.Answers, err = s.getAnswers(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) getAnswers(ctx context.Context, resultID int) ([]models.Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, result_id, number, problem, correct, outcome, points, attempts
		FROM answers WHERE result_id = ? ORDER BY number ASC`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.ResultID, &a.Number, &a.Problem, &a.Correct, &a.Outcome, &a.Points, &a.Attempts); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ListResults returns results newest first, without answers.
func (s *Store) ListResults(ctx context.Context, f models.ResultFilter) ([]models.Result, error) {
	var where []string
	var args []any
	if f.Player != "" {
		where = append(where, "player = ?")
		args = append(args, f.Player)
	}
	if f.Difficulty != "" {
		where = append(where, "difficulty = ?")
		args = append(args, f.Difficulty)
	}

	query := `SELECT ` + resultColumns + ` FROM results`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY finished_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *Store) DeleteResult(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM results WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{
		CountByGrade: make(map[string]int),
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results").Scan(&stats.TotalQuizzes); err != nil {
		return nil, err
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results WHERE finished_at > ?", weekAgo).Scan(&stats.QuizzesLast7Days); err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, "SELECT AVG(score * 100.0 / max_score) FROM results WHERE max_score > 0").Scan(&avg); err != nil {
		return nil, err
	}
	if avg.Valid {
		stats.AveragePercent = avg.Float64
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT difficulty, COUNT(*), AVG(score), MAX(score)
		FROM results GROUP BY difficulty ORDER BY difficulty`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d models.DifficultyStats
		if err := rows.Scan(&d.Difficulty, &d.Quizzes, &d.AverageScore, &d.BestScore); err != nil {
			return nil, err
		}
		stats.ByDifficulty = append(stats.ByDifficulty, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	gradeRows, err := s.db.QueryContext(ctx, "SELECT grade, COUNT(*) FROM results GROUP BY grade")
	if err != nil {
		return nil, err
	}
	defer gradeRows.Close()
	for gradeRows.Next() {
		var grade string
		var count int
		if err := gradeRows.Scan(&grade, &count); err != nil {
			return nil, err
		}
		stats.CountByGrade[grade] = count
	}

	return stats, gradeRows.Err()
}

// TopScores returns each player's best score on difficulty, highest first.
func (s *Store) TopScores(ctx context.Context, difficulty string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT player, MAX(score) AS best
		FROM results
		WHERE difficulty = ?
		GROUP BY player
		ORDER BY best DESC, player ASC
		LIMIT ?`, difficulty, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		e := models.LeaderboardEntry{Difficulty: difficulty, Rank: int64(len(entries) + 1)}
		if err := rows.Scan(&e.Player, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PlayerRank returns the 1-based position of player's best score on
// difficulty, ordered the same way as TopScores, or 0 if the player has no
// results there.
func (s *Store) PlayerRank(ctx context.Context, difficulty, player string) (int64, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM results WHERE difficulty = ? AND player = ?", difficulty, player).Scan(&best)
	if err != nil {
		return 0, err
	}
	if !best.Valid {
		return 0, nil
	}

	var better int64
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT player, MAX(score) AS best FROM results WHERE difficulty = ? GROUP BY player
		) WHERE best > ? OR (best = ? AND player < ?)`,
		difficulty, best.Int64, best.Int64, player).Scan(&better)
	if err != nil {
		return 0, err
	}
	return better + 1, nil
}
