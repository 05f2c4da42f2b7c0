package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/game"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/leaderboard"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/quiz"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of tgbotapi.BotAPI the bot talks through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Settings are applied to every quiz started from a chat.
type Settings struct {
	Questions    int
	Seconds      int
	Tick         time.Duration
	CorrectDelay time.Duration
	RevealDelay  time.Duration
	Recorder     game.Recorder
}

type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	games    *game.Registry
	board    leaderboard.Board
	settings Settings
}

func NewBot(token string, debug bool, board leaderboard.Board, settings Settings) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug

	b := newBot(api, board, settings)
	b.api = api
	return b, nil
}

func newBot(sender Sender, board leaderboard.Board, settings Settings) *Bot {
	return &Bot{
		sender:   sender,
		games:    game.NewRegistry(),
		board:    board,
		settings: settings,
	}
}

// Start polls for updates until ctx is cancelled. Running quizzes are stopped
// on return.
func (b *Bot) Start(ctx context.Context) {
	defer b.games.StopAll()
	log.Printf("Authorised on account: %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil {
		return
	}

	switch msg.Command() {
	case "start", "menu":
		b.stopQuiz(msg.Chat.ID)
		b.sendMainMenu(msg.Chat.ID)
	case "play":
		d, err := quiz.ParseDifficulty(msg.CommandArguments())
		if err != nil {
			b.sendDifficultyMenu(msg.Chat.ID)
			return
		}
		b.startQuiz(ctx, msg.Chat.ID, playerName(msg.From), d)
	case "leaderboard":
		b.handleLeaderboard(ctx, msg.Chat.ID)
	case "rules":
		b.handleRules(msg.Chat.ID)
	case "":
		b.handleAnswer(ctx, msg.Chat.ID, msg.Text)
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Try /start")
	}
}

const (
	actionPlay        = "play"
	actionChoose      = "choose"
	actionLeaderboard = "leaderboard"
	actionRules       = "rules"
	actionMenu        = "back_to_menu"
)

func playData(d quiz.Difficulty) string {
	return actionPlay + "_" + d.String()
}

// parseCallback splits callback data into an action and, for play buttons,
// the chosen difficulty.
func parseCallback(data string) (string, quiz.Difficulty, error) {
	if rest, ok := strings.CutPrefix(data, actionPlay+"_"); ok {
		d, err := quiz.ParseDifficulty(rest)
		if err != nil {
			return "", quiz.Easy, err
		}
		return actionPlay, d, nil
	}
	switch data {
	case actionChoose, actionLeaderboard, actionRules, actionMenu:
		return data, quiz.Easy, nil
	}
	return "", quiz.Easy, fmt.Errorf("unknown callback %q", data)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := b.sender.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	action, d, err := parseCallback(callback.Data)
	if err != nil {
		log.Printf("Ignoring callback: %v", err)
		return
	}

	switch action {
	case actionPlay:
		b.startQuiz(ctx, chatID, playerName(callback.From), d)
	case actionChoose:
		b.sendDifficultyMenu(chatID)
	case actionLeaderboard:
		b.handleLeaderboard(ctx, chatID)
	case actionRules:
		b.handleRules(chatID)
	case actionMenu:
		b.stopQuiz(chatID)
		b.sendMainMenu(chatID)
	}
}

func playerName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return user.FirstName
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (b *Bot) startQuiz(ctx context.Context, chatID int64, player string, d quiz.Difficulty) {
	session := quiz.NewSession(nil, d, quiz.Options{
		Player:  player,
		Total:   b.settings.Questions,
		Seconds: b.settings.Seconds,
	})
	presenter := &chatPresenter{sender: b.sender, chatID: chatID, difficulty: d}
	g := game.New(session, presenter, game.Options{
		Tick:         b.settings.Tick,
		CorrectDelay: b.settings.CorrectDelay,
		RevealDelay:  b.settings.RevealDelay,
		AutoAdvance:  true,
		Recorder:     b.settings.Recorder,
	})

	key := chatKey(chatID)
	presenter.onFinish = func() { b.games.RemoveIf(key, g) }

	// replaces, and stops, any quiz already running in this chat
	b.games.Put(key, g)
	g.Start(ctx)
}

func (b *Bot) stopQuiz(chatID int64) {
	b.games.Remove(chatKey(chatID))
}

func (b *Bot) handleAnswer(ctx context.Context, chatID int64, text string) {
	g, ok := b.games.Get(chatKey(chatID))
	if !ok {
		b.sendMessage(chatID, "No quiz running. Press /start to play.")
		return
	}

	_, err := g.Submit(ctx, text)
	switch {
	case err == nil, errors.Is(err, quiz.ErrInvalidInput):
		// the presenter has already replied
	case errors.Is(err, quiz.ErrNotAsking):
		b.sendMessage(chatID, "⏳ Wait for the next question.")
	case errors.Is(err, quiz.ErrFinished), errors.Is(err, game.ErrStopped):
		b.games.Remove(chatKey(chatID))
		b.sendMessage(chatID, "This quiz is over. Press /start to play again.")
	default:
		log.Printf("Error submitting answer in chat %d: %v", chatID, err)
	}
}

func (b *Bot) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "🧮 *Maths Quiz*\n\nAnswer arithmetic problems against the clock.")
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Play", actionChoose),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", actionLeaderboard),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Rules", actionRules),
		),
	)
	if _, err := b.sender.Send(msg); err != nil {
		log.Printf("Error sending main menu: %v", err)
	}
}

func (b *Bot) sendDifficultyMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Choose a difficulty:")
	var row []tgbotapi.InlineKeyboardButton
	for _, d := range quiz.Difficulties() {
		level := d.Level()
		label := fmt.Sprintf("%s (%d-%d)", capitalize(d.String()), level.Min, level.Max)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, playData(d)))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Menu", actionMenu),
		),
	)
	if _, err := b.sender.Send(msg); err != nil {
		log.Printf("Error sending difficulty menu: %v", err)
	}
}

func (b *Bot) handleRules(chatID int64) {
	text := fmt.Sprintf("📖 *Rules*\n\n"+
		"• %d questions, %d seconds each\n"+
		"• %d points for a correct first answer\n"+
		"• %d points if you get it on the second try\n"+
		"• Two wrong answers or running out of time scores nothing\n\n"+
		"Type your answer as a number.",
		b.settings.Questions, b.settings.Seconds, quiz.PointsFirstTry, quiz.PointsSecondTry)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Play", actionChoose),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Menu", actionMenu),
		),
	)
	if _, err := b.sender.Send(msg); err != nil {
		log.Printf("Error sending rules: %v", err)
	}
}

func (b *Bot) handleLeaderboard(ctx context.Context, chatID int64) {
	if b.board == nil {
		b.sendMessage(chatID, "🏆 The leaderboard is not available.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Leaderboard\n")
	for _, d := range quiz.Difficulties() {
		top, err := b.board.Top(ctx, d.String(), 5)
		if err != nil {
			log.Printf("Error getting %s leaderboard: %v", d, err)
			b.sendMessage(chatID, "❌ Could not load the leaderboard.")
			return
		}
		fmt.Fprintf(&sb, "\n%s\n", strings.ToUpper(d.String()))
		if len(top) == 0 {
			sb.WriteString("   no scores yet\n")
			continue
		}
		for i, entry := range top {
			fmt.Fprintf(&sb, "%s %d. %s - %d\n", medal(i), entry.Rank, entry.Player, entry.Score)
		}
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Play", actionChoose),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Menu", actionMenu),
		),
	)
	if _, err := b.sender.Send(msg); err != nil {
		log.Printf("Error sending leaderboard: %v", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func medal(i int) string {
	switch i {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	}
	return "🔸"
}

func (b *Bot) sendMessage(chatID int64, text string) {
	sendText(b.sender, chatID, text)
}

func sendText(sender Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := sender.Send(msg); err != nil {
		log.Printf("Error sending msg: %v", err)
	}
}
