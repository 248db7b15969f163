package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AndriiKibish/BBQ-reserve/internal/models"
)

// Inline calendar callback payloads. Paging round-trips stay inside this
// widget; only a day selection reaches the engine.
const (
	calDayPrefix  = "cal:day:"  // cal:day:2024-06-01
	calPagePrefix = "cal:page:" // cal:page:2024-06
	calIgnore     = "cal:ignore"
)

const monthKey = "2006-01"

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// monthKeyboard renders one calendar month. Days before minDate are
// shown blank and answer with calIgnore.
func monthKeyboard(year int, month time.Month, minDate time.Time) tgbotapi.InlineKeyboardMarkup {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)

	var rows [][]tgbotapi.InlineKeyboardButton

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(first.Format("January 2006"), calIgnore),
	))

	weekdays := []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	var header []tgbotapi.InlineKeyboardButton
	for _, wd := range weekdays {
		header = append(header, tgbotapi.NewInlineKeyboardButtonData(wd, calIgnore))
	}
	rows = append(rows, header)

	// Monday-first offset of the month's first day.
	offset := (int(first.Weekday()) + 6) % 7
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var week []tgbotapi.InlineKeyboardButton
	for i := 0; i < offset; i++ {
		week = append(week, tgbotapi.NewInlineKeyboardButtonData(" ", calIgnore))
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		if date.Before(minDate) {
			week = append(week, tgbotapi.NewInlineKeyboardButtonData(" ", calIgnore))
		} else {
			week = append(week, tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d", day),
				calDayPrefix+date.Format(models.DateLayout),
			))
		}
		if len(week) == 7 {
			rows = append(rows, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, tgbotapi.NewInlineKeyboardButtonData(" ", calIgnore))
		}
		rows = append(rows, week)
	}

	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)
	nav := []tgbotapi.InlineKeyboardButton{}
	if !prev.AddDate(0, 1, -1).Before(minDate) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("<", calPagePrefix+prev.Format(monthKey)))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(">", calPagePrefix+next.Format(monthKey)))
	rows = append(rows, nav)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// editCalendar re-renders an already-sent calendar onto another month.
func (b *Bot) editCalendar(chatID int64, messageID int, page string) {
	first, err := time.ParseInLocation(monthKey, page, time.Local)
	if err != nil {
		b.logger.Warn().Str("page", page).Msg("bad calendar page payload")
		return
	}

	markup := monthKeyboard(first.Year(), first.Month(), today())
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("edit calendar failed")
	}
}
