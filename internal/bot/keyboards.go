package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AndriiKibish/BBQ-reserve/internal/engine"
)

// Main menu and retry menu button labels. These strings exist only at
// this boundary; decodeMessage maps them onto engine commands.
const (
	btnBook     = "🍖 Book the grill"
	btnMine     = "📋 My reservations"
	btnAll      = "📊 All reservations"
	btnCancel   = "❌ Cancel a reservation"
	btnNewTime  = "🕐 Pick another time"
	btnNewDate  = "📅 Pick another date"
	btnShowAll  = "👀 Show all reservations"
)

const cancelPickPrefix = "cancel:"

// decodeMessage turns raw message text into a tagged engine event.
func decodeMessage(userID int64, text string) engine.Event {
	switch text {
	case "/start", "/reset":
		return engine.Event{UserID: userID, Command: engine.CmdStart}
	case "/book", btnBook:
		return engine.Event{UserID: userID, Command: engine.CmdBook}
	case "/mine", btnMine:
		return engine.Event{UserID: userID, Command: engine.CmdListMine}
	case "/all", btnAll:
		return engine.Event{UserID: userID, Command: engine.CmdListAll}
	case "/cancel", btnCancel:
		return engine.Event{UserID: userID, Command: engine.CmdCancelDialog}
	case btnNewTime:
		return engine.Event{UserID: userID, Command: engine.CmdRetryTime}
	case btnNewDate:
		return engine.Event{UserID: userID, Command: engine.CmdRetryDate}
	case btnShowAll:
		return engine.Event{UserID: userID, Command: engine.CmdShowAll}
	default:
		return engine.Event{UserID: userID, Command: engine.CmdText, Text: text}
	}
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBook),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMine),
			tgbotapi.NewKeyboardButton(btnAll),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func retryMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnNewTime),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnNewDate),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnShowAll),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelPickKeyboard(picks []engine.PickItem) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(picks))
	for _, pick := range picks {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(pick.Label, fmt.Sprintf("%s%d", cancelPickPrefix, pick.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// sendReply renders one engine reply into a Telegram message.
func (b *Bot) sendReply(chatID int64, reply engine.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)

	switch reply.Options {
	case engine.OptionsMainMenu:
		msg.ReplyMarkup = mainMenuKeyboard()
	case engine.OptionsRetryMenu:
		msg.ReplyMarkup = retryMenuKeyboard()
	case engine.OptionsDateRequest:
		now := time.Now()
		msg.ReplyMarkup = monthKeyboard(now.Year(), now.Month(), today())
	case engine.OptionsCancelPick:
		msg.ReplyMarkup = cancelPickKeyboard(reply.Picks)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send reply failed")
	}
}
