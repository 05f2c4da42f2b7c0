package game

import (
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/models"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
)

// ResultFromSession builds the stored form of a finished session.
func ResultFromSession(s *quiz.Session) models.Result {
	r := models.Result{
		SessionID:  s.ID(),
		Player:     s.Player(),
		Difficulty: s.Difficulty().String(),
		Score:      s.Score(),
		MaxScore:   s.MaxScore(),
		Grade:      s.Grade(),
		Questions:  s.Total(),
		StartedAt:  s.StartedAt(),
		FinishedAt: s.FinishedAt(),
	}

	for _, rec := range s.Records() {
		switch rec.Outcome {
		case quiz.Correct:
			if rec.Points == quiz.PointsFirstTry {
				r.FirstTry++
			} else {
				r.SecondTry++
			}
		case quiz.IncorrectFinal:
			r.Wrong++
		case quiz.TimedOut:
			r.TimedOut++
		}
		r.Answers = append(r.Answers, models.Answer{
			Number:   rec.Number,
			Problem:  rec.Problem.String(),
			Correct:  rec.Problem.Answer(),
			Outcome:  rec.Outcome.String(),
			Points:   rec.Points,
			Attempts: rec.Attempts,
		})
	}
	return r
}
