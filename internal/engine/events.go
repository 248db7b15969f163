package engine

// Command is the closed set of dialog actions. The chat adapter decodes
// button labels and callback payloads into commands once, at the
// boundary, so the engine never matches on raw strings.
type Command int

const (
	// CmdText is free text consumed by whichever stage is active.
	CmdText Command = iota
	CmdStart
	CmdBook
	CmdListMine
	CmdListAll
	CmdCancelDialog
	CmdRetryTime
	CmdRetryDate
	CmdShowAll
	CmdDatePicked
	CmdCancelPick
)

func (c Command) String() string {
	switch c {
	case CmdText:
		return "text"
	case CmdStart:
		return "start"
	case CmdBook:
		return "book"
	case CmdListMine:
		return "list_mine"
	case CmdListAll:
		return "list_all"
	case CmdCancelDialog:
		return "cancel_dialog"
	case CmdRetryTime:
		return "retry_time"
	case CmdRetryDate:
		return "retry_date"
	case CmdShowAll:
		return "show_all"
	case CmdDatePicked:
		return "date_picked"
	case CmdCancelPick:
		return "cancel_pick"
	default:
		return "unknown"
	}
}

// Event is one inbound user action, already decoded by the adapter.
type Event struct {
	UserID  int64
	Command Command
	Text    string // free text payload for CmdText
	Date    string // YYYY-MM-DD, set for CmdDatePicked
	PickID  int64  // reservation id, set for CmdCancelPick
}

// OptionSet tells the adapter which interactive controls to attach to a
// reply. The engine never knows how they are rendered.
type OptionSet int

const (
	OptionsNone OptionSet = iota
	// OptionsMainMenu shows the top-level actions.
	OptionsMainMenu
	// OptionsRetryMenu shows the conflict recovery actions.
	OptionsRetryMenu
	// OptionsDateRequest asks the adapter to run its date picker.
	OptionsDateRequest
	// OptionsCancelPick shows one selectable entry per item in Picks.
	OptionsCancelPick
)

// PickItem is one selectable reservation in a cancel menu.
type PickItem struct {
	ID    int64
	Label string
}

// Reply is one outbound message for the adapter to deliver.
type Reply struct {
	Text    string
	Options OptionSet
	Picks   []PickItem
}
