package quiz

import (
	"fmt"
	"strings"
)

// Difficulty is a named tier fixing the operand range for generated problems.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Level holds the numeric settings of a difficulty tier.
type Level struct {
	Min int
	Max int
	// AllowNegative lets subtraction produce a negative result.
	AllowNegative bool
}

var levels = map[Difficulty]Level{
	Easy:   {Min: 0, Max: 9},
	Medium: {Min: 10, Max: 99},
	Hard:   {Min: 1000, Max: 9999, AllowNegative: true},
}

var difficultyNames = map[Difficulty]string{
	Easy:   "easy",
	Medium: "medium",
	Hard:   "hard",
}

// Difficulties lists all tiers from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// Level returns the settings for d. Unknown values fall back to Easy.
func (d Difficulty) Level() Level {
	if l, ok := levels[d]; ok {
		return l
	}
	return levels[Easy]
}

func (d Difficulty) Valid() bool {
	_, ok := levels[d]
	return ok
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// ParseDifficulty accepts a tier name ("easy", "Medium", ...) or its number (0-2).
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range difficultyNames {
		if s == name || s == fmt.Sprint(int(d)) {
			return d, nil
		}
	}
	return Easy, fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}
