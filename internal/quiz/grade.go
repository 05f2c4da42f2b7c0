package quiz

// Points awarded for a correct answer on the first and second attempt.
const (
	PointsFirstTry  = 10
	PointsSecondTry = 5
)

var gradeBands = []struct {
	percent int
	grade   string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B"},
	{60, "C"},
	{50, "D"},
}

// MaxScore is the best possible score for a quiz of total questions.
func MaxScore(total int) int {
	return PointsFirstTry * total
}

// Grade maps a score out of maxScore to a letter grade.
func Grade(score, maxScore int) string {
	if maxScore <= 0 {
		return "F"
	}
	for _, band := range gradeBands {
		if score*100 >= band.percent*maxScore {
			return band.grade
		}
	}
	return "F"
}

// Percent returns score as a whole percentage of maxScore, rounded down.
func Percent(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return score * 100 / maxScore
}

// Grades lists every grade from best to worst.
func Grades() []string {
	grades := make([]string, 0, len(gradeBands)+1)
	for _, band := range gradeBands {
		grades = append(grades, band.grade)
	}
	return append(grades, "F")
}
