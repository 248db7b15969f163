// Package engine implements the reservation dialog as a finite-state
// machine over tagged events. It is transport-agnostic: the Telegram
// adapter decodes updates into Events and renders Replies.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/AndriiKibish/BBQ-reserve/internal/metrics"
	"github.com/AndriiKibish/BBQ-reserve/internal/models"
	"github.com/AndriiKibish/BBQ-reserve/internal/schedule"
	"github.com/AndriiKibish/BBQ-reserve/internal/session"
	"github.com/AndriiKibish/BBQ-reserve/internal/storage"
)

// User-visible dialog texts.
const (
	msgWelcome        = "Hi! I'm the grill booking bot. Pick an action:"
	msgAskUnit        = "Enter your unit number (1-120):"
	msgBadUnit        = "That unit does not exist in this building. Enter a number from 1 to 120."
	msgAskDate        = "Pick a date:"
	msgAskTime        = "Enter the time range as HH:MM HH:MM (for example, 18:00 20:00):"
	msgBadTimeFormat  = "Wrong format. Enter the time as HH:MM HH:MM, hours 00-23, minutes 00-59."
	msgBadTimeOrder   = "The start time must be before the end time. Try again:"
	msgSlotTaken      = "That time slot is already taken. Try another time or date:"
	msgNoReservations = "You have no reservations."
	msgNoneAtAll      = "There are no reservations yet."
	msgNoneToCancel   = "You have no reservations to cancel."
	msgPickCancel     = "Select a reservation to cancel:"
	msgCancelled      = "Reservation cancelled."
	msgCancelMissing  = "That reservation no longer exists, so nothing was cancelled."
	msgUseCalendar    = "Please pick a date using the calendar."
	msgUsePickList    = "Please select a reservation from the list."
	msgGenericError   = "Something went wrong. Please try again."
)

// BookingStore is the durable reservation collection the engine commits
// into. *storage.Store satisfies it.
type BookingStore interface {
	TryCommit(ctx context.Context, candidate models.Reservation) (models.Reservation, error)
	ListByOwner(ctx context.Context, owner int64) ([]models.Reservation, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)
	DeleteByIDAndOwner(ctx context.Context, id, owner int64) error
}

// Engine drives one dialog step per inbound event. It is safe for
// concurrent use across users; per-user ordering is the adapter's
// responsibility.
type Engine struct {
	store    BookingStore
	sessions session.Store
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// New builds an engine. metrics may be nil.
func New(store BookingStore, sessions session.Store, logger zerolog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		store:    store,
		sessions: sessions,
		logger:   logger.With().Str("component", "engine").Logger(),
		metrics:  m,
	}
}

// Handle advances the user's dialog with one event and returns the
// replies to deliver. A non-nil error signals an infrastructure failure;
// the replies still contain a user-facing message and the session keeps
// its stage so the user can retry the same input.
func (e *Engine) Handle(ctx context.Context, ev Event) ([]Reply, error) {
	if e.metrics != nil {
		e.metrics.CommandsTotal.WithLabelValues(ev.Command.String()).Inc()
	}

	sess, err := e.sessions.Get(ctx, ev.UserID)
	if err != nil {
		e.logger.Error().Err(err).Int64("user_id", ev.UserID).Msg("session lookup failed")
		return []Reply{{Text: msgGenericError, Options: OptionsMainMenu}}, err
	}

	switch ev.Command {
	case CmdStart:
		return e.reset(ctx, ev.UserID, Reply{Text: msgWelcome, Options: OptionsMainMenu})

	case CmdBook:
		// A new booking intent abandons any dialog in flight.
		fresh := session.New()
		fresh.Stage = session.StageAwaitUnit
		if err := e.sessions.Put(ctx, ev.UserID, fresh); err != nil {
			return e.infraFailure(ev.UserID, err, "start booking dialog")
		}
		return []Reply{{Text: msgAskUnit}}, nil

	case CmdListMine:
		return e.listMine(ctx, ev.UserID)

	case CmdListAll:
		return e.listAll(ctx)

	case CmdCancelDialog:
		return e.startCancel(ctx, ev.UserID)

	case CmdDatePicked:
		return e.handleDatePicked(ctx, ev, sess)

	case CmdRetryTime:
		if sess.Stage != session.StageAwaitRetry {
			return e.reprompt(sess), nil
		}
		sess.Stage = session.StageAwaitTime
		if err := e.sessions.Put(ctx, ev.UserID, sess); err != nil {
			return e.infraFailure(ev.UserID, err, "retry time")
		}
		return []Reply{{Text: msgAskTime}}, nil

	case CmdRetryDate:
		if sess.Stage != session.StageAwaitRetry {
			return e.reprompt(sess), nil
		}
		sess.Stage = session.StageAwaitDate
		if err := e.sessions.Put(ctx, ev.UserID, sess); err != nil {
			return e.infraFailure(ev.UserID, err, "retry date")
		}
		return []Reply{{Text: msgAskDate, Options: OptionsDateRequest}}, nil

	case CmdShowAll:
		// Side query from the retry menu; the stage does not move.
		if sess.Stage != session.StageAwaitRetry {
			return e.reprompt(sess), nil
		}
		return e.listAll(ctx)

	case CmdCancelPick:
		return e.handleCancelPick(ctx, ev, sess)

	default:
		return e.handleText(ctx, ev, sess)
	}
}

func (e *Engine) handleText(ctx context.Context, ev Event, sess *session.Session) ([]Reply, error) {
	switch sess.Stage {
	case session.StageAwaitUnit:
		return e.handleUnit(ctx, ev, sess)
	case session.StageAwaitTime, session.StageAwaitRetry:
		return e.handleTime(ctx, ev, sess)
	default:
		return e.reprompt(sess), nil
	}
}

func (e *Engine) handleUnit(ctx context.Context, ev Event, sess *session.Session) ([]Reply, error) {
	unit, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || !models.ValidUnit(unit) {
		return []Reply{{Text: msgBadUnit}}, nil
	}

	sess.Unit = unit
	sess.Stage = session.StageAwaitDate
	if err := e.sessions.Put(ctx, ev.UserID, sess); err != nil {
		return e.infraFailure(ev.UserID, err, "store unit")
	}
	return []Reply{{Text: msgAskDate, Options: OptionsDateRequest}}, nil
}

func (e *Engine) handleDatePicked(ctx context.Context, ev Event, sess *session.Session) ([]Reply, error) {
	if sess.Stage != session.StageAwaitDate {
		return e.reprompt(sess), nil
	}
	if _, err := time.Parse(models.DateLayout, ev.Date); err != nil {
		return []Reply{{Text: msgAskDate, Options: OptionsDateRequest}}, nil
	}

	sess.Date = ev.Date
	sess.Stage = session.StageAwaitTime
	if err := e.sessions.Put(ctx, ev.UserID, sess); err != nil {
		return e.infraFailure(ev.UserID, err, "store date")
	}
	return []Reply{{Text: fmt.Sprintf("You picked %s. %s", ev.Date, msgAskTime)}}, nil
}

func (e *Engine) handleTime(ctx context.Context, ev Event, sess *session.Session) ([]Reply, error) {
	start, end, err := schedule.ParseTimeRange(strings.TrimSpace(ev.Text))
	if err != nil {
		return []Reply{{Text: msgBadTimeFormat}}, nil
	}
	if err := schedule.ValidateRange(start, end); err != nil {
		return []Reply{{Text: msgBadTimeOrder}}, nil
	}

	candidate := models.Reservation{
		Unit:      sess.Unit,
		Owner:     ev.UserID,
		Date:      sess.Date,
		StartTime: start.String(),
		EndTime:   end.String(),
	}

	committed, err := e.store.TryCommit(ctx, candidate)
	var conflict *storage.ConflictError
	switch {
	case err == nil:
		if e.metrics != nil {
			e.metrics.CommitsTotal.WithLabelValues(metrics.OutcomeCommitted).Inc()
		}
		return e.reset(ctx, ev.UserID, Reply{
			Text: fmt.Sprintf("Reservation confirmed: unit %d, %s %s-%s.",
				committed.Unit, committed.Date, committed.StartTime, committed.EndTime),
			Options: OptionsMainMenu,
		})

	case errors.As(err, &conflict):
		if e.metrics != nil {
			e.metrics.CommitsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
		}
		sess.Start, sess.End = candidate.StartTime, candidate.EndTime
		sess.Stage = session.StageAwaitRetry
		if err := e.sessions.Put(ctx, ev.UserID, sess); err != nil {
			return e.infraFailure(ev.UserID, err, "store retry stage")
		}
		var b strings.Builder
		b.WriteString(msgSlotTaken)
		for _, r := range conflict.Conflicting {
			fmt.Fprintf(&b, "\nOccupied: %s-%s", r.StartTime, r.EndTime)
		}
		return []Reply{{Text: b.String(), Options: OptionsRetryMenu}}, nil

	default:
		if e.metrics != nil {
			e.metrics.CommitsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		// The stage is untouched so the same input can be retried.
		return e.infraFailure(ev.UserID, err, "commit reservation")
	}
}

func (e *Engine) startCancel(ctx context.Context, userID int64) ([]Reply, error) {
	mine, err := e.store.ListByOwner(ctx, userID)
	if err != nil {
		return e.infraFailure(userID, err, "list own reservations")
	}
	if len(mine) == 0 {
		return e.reset(ctx, userID, Reply{Text: msgNoneToCancel, Options: OptionsMainMenu})
	}

	picks := make([]PickItem, 0, len(mine))
	for _, r := range mine {
		picks = append(picks, PickItem{
			ID:    r.ID,
			Label: fmt.Sprintf("%s %s-%s", r.Date, r.StartTime, r.EndTime),
		})
	}

	sess := session.New()
	sess.Stage = session.StageAwaitCancelPick
	if err := e.sessions.Put(ctx, userID, sess); err != nil {
		return e.infraFailure(userID, err, "start cancel dialog")
	}
	return []Reply{{Text: msgPickCancel, Options: OptionsCancelPick, Picks: picks}}, nil
}

func (e *Engine) handleCancelPick(ctx context.Context, ev Event, sess *session.Session) ([]Reply, error) {
	if sess.Stage != session.StageAwaitCancelPick {
		return e.reprompt(sess), nil
	}

	err := e.store.DeleteByIDAndOwner(ctx, ev.PickID, ev.UserID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Deleting someone else's (or a vanished) reservation is an
		// explicit failure, never a silent success.
		return e.reset(ctx, ev.UserID, Reply{Text: msgCancelMissing, Options: OptionsMainMenu})
	case err != nil:
		return e.infraFailure(ev.UserID, err, "cancel reservation")
	default:
		return e.reset(ctx, ev.UserID, Reply{Text: msgCancelled, Options: OptionsMainMenu})
	}
}

func (e *Engine) listMine(ctx context.Context, userID int64) ([]Reply, error) {
	mine, err := e.store.ListByOwner(ctx, userID)
	if err != nil {
		return e.infraFailure(userID, err, "list own reservations")
	}
	if len(mine) == 0 {
		return []Reply{{Text: msgNoReservations}}, nil
	}

	var b strings.Builder
	b.WriteString("Your reservations:")
	for _, r := range mine {
		fmt.Fprintf(&b, "\n%s %s-%s", r.Date, r.StartTime, r.EndTime)
	}
	return []Reply{{Text: b.String()}}, nil
}

func (e *Engine) listAll(ctx context.Context) ([]Reply, error) {
	all, err := e.store.ListAll(ctx)
	if err != nil {
		e.logger.Error().Err(err).Msg("list all reservations")
		return []Reply{{Text: msgGenericError}}, err
	}
	if len(all) == 0 {
		return []Reply{{Text: msgNoneAtAll}}, nil
	}

	var b strings.Builder
	b.WriteString("All reservations:")
	for _, r := range all {
		fmt.Fprintf(&b, "\nUnit %d: %s %s-%s", r.Unit, r.Date, r.StartTime, r.EndTime)
	}
	return []Reply{{Text: b.String()}}, nil
}

// reprompt re-states the active stage's expected input without moving.
func (e *Engine) reprompt(sess *session.Session) []Reply {
	switch sess.Stage {
	case session.StageAwaitUnit:
		return []Reply{{Text: msgAskUnit}}
	case session.StageAwaitDate:
		return []Reply{{Text: msgUseCalendar, Options: OptionsDateRequest}}
	case session.StageAwaitTime:
		return []Reply{{Text: msgAskTime}}
	case session.StageAwaitRetry:
		return []Reply{{Text: msgSlotTaken, Options: OptionsRetryMenu}}
	case session.StageAwaitCancelPick:
		return []Reply{{Text: msgUsePickList}}
	default:
		return []Reply{{Text: msgWelcome, Options: OptionsMainMenu}}
	}
}

func (e *Engine) reset(ctx context.Context, userID int64, replies ...Reply) ([]Reply, error) {
	if err := e.sessions.Reset(ctx, userID); err != nil {
		e.logger.Error().Err(err).Int64("user_id", userID).Msg("session reset failed")
	}
	return replies, nil
}

func (e *Engine) infraFailure(userID int64, err error, op string) ([]Reply, error) {
	if e.metrics != nil {
		e.metrics.ErrorsTotal.Inc()
	}
	e.logger.Error().Err(err).Int64("user_id", userID).Str("op", op).Msg("dialog step failed")
	return []Reply{{Text: msgGenericError}}, err
}
