package quiz

import "testing"

func TestGrade(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "A+"},
		{90, "A+"},
		{85, "A"},
		{80, "A"},
		{75, "B"},
		{60, "C"},
		{55, "D"},
		{50, "D"},
		{49, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		if got := Grade(tt.score, 100); got != tt.want {
			t.Fatalf("Grade(%d, 100) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestGrade_ScalesWithMaxScore(t *testing.T) {
	if got := Grade(45, MaxScore(5)); got != "A+" {
		t.Fatalf("45/50: got %q", got)
	}
	if got := Grade(24, MaxScore(5)); got != "F" {
		t.Fatalf("24/50: got %q", got)
	}
	if got := Grade(0, 0); got != "F" {
		t.Fatalf("empty quiz: got %q", got)
	}
}

func TestGrades_CoverEveryGrade(t *testing.T) {
	seen := map[string]bool{}
	for _, g := range Grades() {
		seen[g] = true
	}
	for score := 0; score <= 100; score++ {
		if g := Grade(score, 100); !seen[g] {
			t.Fatalf("Grade(%d, 100) = %q is not listed by Grades", score, g)
		}
	}
	if got := Grades(); got[0] != "A+" || got[len(got)-1] != "F" {
		t.Fatalf("Grades() = %v", got)
	}
}
