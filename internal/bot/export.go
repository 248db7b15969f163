package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/AndriiKibish/BBQ-reserve/internal/models"
)

const exportSheet = "Reservations"

// exportToExcel writes every reservation in [from, to] to an xlsx file
// and returns its path.
func (b *Bot) exportToExcel(ctx context.Context, from, to string) (string, error) {
	if err := os.MkdirAll(b.cfg.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	reservations, err := b.store.ListByDateRange(ctx, from, to)
	if err != nil {
		return "", fmt.Errorf("load reservations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Unit", "Date", "Start", "End", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}

	for row, r := range reservations {
		values := []interface{}{
			r.ID, r.Unit, r.Date, r.StartTime, r.EndTime,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(exportSheet, cell, v)
		}
	}

	path := filepath.Join(b.cfg.Exports.Path, fmt.Sprintf("reservations_%s_%s.xlsx", from, to))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save export file: %w", err)
	}
	return path, nil
}

func (b *Bot) sendExport(ctx context.Context, chatID int64, from, to string) {
	path, err := b.exportToExcel(ctx, from, to)
	if err != nil {
		b.logger.Error().Err(err).Msg("export failed")
		b.sendMessage(chatID, "Export failed, check the logs.")
		return
	}

	file, err := os.Open(path)
	if err != nil {
		b.logger.Error().Err(err).Str("path", path).Msg("open export file failed")
		b.sendMessage(chatID, "Export failed, check the logs.")
		return
	}
	defer file.Close()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{
		Name:   filepath.Base(path),
		Reader: file,
	})
	doc.Caption = fmt.Sprintf("Reservations from %s to %s", from, to)

	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error().Err(err).Msg("send export document failed")
		b.sendMessage(chatID, "Export failed, check the logs.")
		return
	}
}

// handleManagerCommand processes commands reserved for configured
// manager accounts. Returns true when the message was consumed.
func (b *Bot) handleManagerCommand(ctx context.Context, msg *tgbotapi.Message) bool {
	switch {
	case msg.Text == "/export":
		from := time.Now().Format(models.DateLayout)
		to := time.Now().AddDate(0, 0, 6).Format(models.DateLayout)
		b.sendExport(ctx, msg.Chat.ID, from, to)
		return true

	case strings.HasPrefix(msg.Text, "/export_range"):
		parts := strings.Fields(msg.Text)
		if len(parts) != 3 {
			b.sendMessage(msg.Chat.ID, "Usage: /export_range YYYY-MM-DD YYYY-MM-DD")
			return true
		}
		from, to := parts[1], parts[2]
		if _, err := time.Parse(models.DateLayout, from); err != nil {
			b.sendMessage(msg.Chat.ID, "Bad start date, use YYYY-MM-DD.")
			return true
		}
		if _, err := time.Parse(models.DateLayout, to); err != nil {
			b.sendMessage(msg.Chat.ID, "Bad end date, use YYYY-MM-DD.")
			return true
		}
		if from > to {
			b.sendMessage(msg.Chat.ID, "The start date must not be after the end date.")
			return true
		}
		b.sendExport(ctx, msg.Chat.ID, from, to)
		return true
	}

	return false
}
