package telegram

import (
	"fmt"
	"log"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// warnAt lists the remaining seconds that get a reminder message. Other ticks
// are silent so a chat is not flooded once per second.
var warnAt = map[int]bool{10: true, 5: true}

// chatPresenter renders game events as chat messages.
type chatPresenter struct {
	sender     Sender
	chatID     int64
	difficulty quiz.Difficulty
	// onFinish runs after the final message is sent.
	onFinish func()
}

func (p *chatPresenter) Question(st quiz.State) {
	text := fmt.Sprintf("❓ *Question %d/%d*\n\n`%s = ?`\n\n⏱ %ds  •  Score: %d",
		st.Question, st.Total, st.Problem, st.Remaining, st.Score)
	msg := tgbotapi.NewMessage(p.chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to menu", actionMenu),
		),
	)
	if _, err := p.sender.Send(msg); err != nil {
		log.Printf("Error sending question: %v", err)
	}
}

func (p *chatPresenter) Tick(remaining int) {
	if warnAt[remaining] {
		sendText(p.sender, p.chatID, fmt.Sprintf("⏱ %d seconds left", remaining))
	}
}

func (p *chatPresenter) Outcome(out quiz.Outcome, st quiz.State) {
	sendText(p.sender, p.chatID, outcomeText(out))
}

func (p *chatPresenter) Invalid(raw string, st quiz.State) {
	sendText(p.sender, p.chatID, "⚠️ Please enter a valid number.")
}

func (p *chatPresenter) Finished(next quiz.Next, st quiz.State) {
	text := fmt.Sprintf("🏁 *Quiz complete!*\n\n📊 Score: %d/%d (%d%%)\n🎓 Grade: *%s*",
		next.Score, next.MaxScore, quiz.Percent(next.Score, next.MaxScore), next.Grade)
	msg := tgbotapi.NewMessage(p.chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Play again", playData(p.difficulty)),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Menu", actionMenu),
		),
	)
	if _, err := p.sender.Send(msg); err != nil {
		log.Printf("Error sending final message: %v", err)
	}
	if p.onFinish != nil {
		p.onFinish()
	}
}

func outcomeText(out quiz.Outcome) string {
	switch out.Kind {
	case quiz.Correct:
		return fmt.Sprintf("✅ Correct! +%d points", out.Points)
	case quiz.IncorrectRetry:
		return "❌ Incorrect. Try once more!"
	case quiz.IncorrectFinal:
		return fmt.Sprintf("❌ Incorrect. The answer was %d", out.Answer)
	case quiz.TimedOut:
		return fmt.Sprintf("⏰ Time's up! The answer was %d", out.Answer)
	}
	return ""
}
