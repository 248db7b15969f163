package bot

import (
	"testing"

	"github.com/AndriiKibish/BBQ-reserve/internal/engine"
)

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		text string
		want engine.Command
	}{
		{"/start", engine.CmdStart},
		{"/reset", engine.CmdStart},
		{btnBook, engine.CmdBook},
		{"/book", engine.CmdBook},
		{btnMine, engine.CmdListMine},
		{btnAll, engine.CmdListAll},
		{btnCancel, engine.CmdCancelDialog},
		{btnNewTime, engine.CmdRetryTime},
		{btnNewDate, engine.CmdRetryDate},
		{btnShowAll, engine.CmdShowAll},
		{"18:00 20:00", engine.CmdText},
		{"42", engine.CmdText},
		{"", engine.CmdText},
	}

	for _, tt := range tests {
		ev := decodeMessage(77, tt.text)
		if ev.Command != tt.want {
			t.Errorf("decodeMessage(%q) = %s, want %s", tt.text, ev.Command, tt.want)
		}
		if ev.UserID != 77 {
			t.Errorf("decodeMessage(%q) user = %d, want 77", tt.text, ev.UserID)
		}
		if tt.want == engine.CmdText && ev.Text != tt.text {
			t.Errorf("decodeMessage(%q) text = %q", tt.text, ev.Text)
		}
	}
}

func TestCancelPickKeyboard(t *testing.T) {
	picks := []engine.PickItem{
		{ID: 3, Label: "2024-06-01 18:00-20:00"},
		{ID: 9, Label: "2024-06-02 10:00-11:00"},
	}
	kb := cancelPickKeyboard(picks)
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("keyboard has %d rows, want 2", len(kb.InlineKeyboard))
	}
	if got := *kb.InlineKeyboard[0][0].CallbackData; got != "cancel:3" {
		t.Errorf("first payload = %q, want cancel:3", got)
	}
	if got := kb.InlineKeyboard[1][0].Text; got != "2024-06-02 10:00-11:00" {
		t.Errorf("second label = %q", got)
	}
}
