package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
	"github.com/sapphires-iaq/filterwatch/internal/logger"
)

// ConditionStore is the read-only view over the sensor pipeline's output.
type ConditionStore interface {
	// LatestCondition returns the newest condition event, or nil when none exists.
	LatestCondition(ctx context.Context) (*filter.ConditionEvent, error)
	// LatestDecision returns the operator's standing instruction, OFF when absent.
	LatestDecision(ctx context.Context) (filter.State, error)
}

// DecisionLedger records operator decisions and per-event actions.
type DecisionLedger interface {
	// AppendDecision appends the operator's standing ON/OFF instruction.
	AppendDecision(ctx context.Context, state filter.State) error
	// AppendAction appends an action taken against a condition event.
	AppendAction(ctx context.Context, eventID int64, action filter.Action) error
	// IsProcessed reports whether any action row exists for the event.
	IsProcessed(ctx context.Context, eventID int64) (bool, error)
}

// ReminderQueue holds pending deferral reminders.
type ReminderQueue interface {
	// Schedule inserts a reminder due after the provided delay.
	Schedule(ctx context.Context, eventID int64, delay time.Duration, label string) error
	// Due returns the next due reminder, or nil when none is due.
	Due(ctx context.Context) (*filter.Reminder, error)
	// Cancel deletes an evaluated reminder.
	Cancel(ctx context.Context, reminderID int64) error
}

// Deferral lengths offered by the decision modal.
const (
	remind20Delay = 20 * time.Minute
	remind20Label = "20 minutes"
	remind60Delay = time.Hour
	remind60Label = "1 hour"
)

// Status line texts for the branches that do not embed an event ID.
const (
	statusMonitoring       = "Monitoring filter state..."
	statusReminderDue      = "Reminder due. Showing modal."
	statusReminderLapsed   = "Reminder lapsed; condition no longer active."
	statusFanEnabled       = "Fan enabled by user choice."
	statusShowDisclaimer   = "User chose to keep fan off, showing disclaimer."
	statusRemind20Set      = "Reminder set for 20 minutes."
	statusRemind60Set      = "Reminder set for 1 hour."
	statusShowCaution      = "User insisted on keeping fan off, showing caution."
	statusDisclaimerCancel = "User changed mind at disclaimer, fan enabled."
	statusCautionClosed    = "Caution modal closed, user aware fan is off."
)

// Orchestrator evaluates triggers against the three stores.
// Evaluations must be serialized by the caller; the orchestrator itself
// keeps no mutable state between calls.
type Orchestrator struct {
	// conditions is the externally written condition feed.
	conditions ConditionStore
	// ledger receives every decision and processed-action write.
	ledger DecisionLedger
	// reminders is the durable deferral queue.
	reminders ReminderQueue
}

// New wires an orchestrator over the provided stores.
func New(conditions ConditionStore, ledger DecisionLedger, reminders ReminderQueue) *Orchestrator {
	return &Orchestrator{
		conditions: conditions,
		ledger:     ledger,
		reminders:  reminders,
	}
}

// Evaluate runs one transition of the state machine and returns the next
// session flags plus the presentation tuple. It never fails: degraded store
// reads fall back to their documented defaults and the returned view is
// always valid, at worst unchanged.
func (o *Orchestrator) Evaluate(ctx context.Context, trigger filter.Trigger, session *filter.Session) (*filter.Session, filter.View) {
	next := session.Clone()
	if next == nil {
		next = &filter.Session{}
	}

	latest := o.latestCondition(ctx)

	var status string
	if trigger == filter.TriggerTick {
		status = o.evaluateTick(ctx, latest, next)
	} else {
		status = o.evaluateAction(ctx, trigger, latest, next)
	}

	if status == "" {
		status = statusMonitoring
	}

	return next, filter.View{
		MainModalOpen:  next.ModalOpen,
		DisclaimerOpen: next.DisclaimerOpen,
		CautionOpen:    next.CautionOpen,
		StatusText:     status,
	}
}

// FanOn reports whether the fan is effectively running: the latest condition
// must be ON and the operator's standing decision must be ON. Degrades to
// false when either read fails.
func (o *Orchestrator) FanOn(ctx context.Context) bool {
	latest := o.latestCondition(ctx)
	if latest == nil || !latest.State.IsOn() {
		return false
	}

	decision, err := o.conditions.LatestDecision(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Decision read failed, reporting fan off", "error", err)
		return false
	}

	return decision.IsOn()
}

// evaluateTick handles the periodic evaluation. Only the IDLE phase reacts
// to ticks; an open dialog waits for the operator.
func (o *Orchestrator) evaluateTick(ctx context.Context, latest *filter.ConditionEvent, next *filter.Session) string {
	if next.Phase() != filter.PhaseIdle {
		return ""
	}

	// A due reminder outranks the already-processed suppression: it is the
	// one sanctioned way to reopen a dismissed event.
	if reminder := o.dueReminder(ctx); reminder != nil {
		// Delete before prompting so a crash in between re-delivers nothing.
		o.cancelReminder(ctx, reminder.ReminderID)

		if latest != nil && latest.EventID == reminder.EventID && latest.State.IsOn() {
			next.ModalOpen = true

			logger.InfoKV(ctx, "Due reminder reopened the decision modal",
				"event_id", reminder.EventID, "reminder_id", reminder.ReminderID)

			return statusReminderDue
		}

		// The condition cleared (or moved on) while the reminder was
		// pending: consume it silently, never leave it due forever.
		logger.InfoKV(ctx, "Due reminder consumed without prompting",
			"event_id", reminder.EventID, "reminder_id", reminder.ReminderID)

		return statusReminderLapsed
	}

	if latest == nil || !latest.State.IsOn() {
		return ""
	}

	if o.isProcessed(ctx, latest.EventID) {
		return ""
	}

	next.ModalOpen = true
	o.appendAction(ctx, latest.EventID, filter.ActionShowingModal)

	logger.InfoKV(ctx, "Filter condition detected, prompting operator", "event_id", latest.EventID)

	return fmt.Sprintf("Filter ON detected. Event %d. User attention required.", latest.EventID)
}

// evaluateAction handles one operator input. Triggers that are invalid for
// the current phase are ignored and leave session and stores untouched.
//
//nolint:cyclop // One arm per transition of the table keeps it reviewable.
func (o *Orchestrator) evaluateAction(ctx context.Context, trigger filter.Trigger, latest *filter.ConditionEvent, next *filter.Session) string {
	switch next.Phase() {
	case filter.PhasePrompting:
		switch trigger {
		case filter.TriggerApprove:
			o.appendDecision(ctx, filter.StateOn)
			if latest != nil {
				o.appendAction(ctx, latest.EventID, filter.ActionOn)
			}

			next.ModalOpen = false

			return statusFanEnabled

		case filter.TriggerDecline:
			// No ledger write yet; the disclaimer decides the outcome.
			next.ModalOpen = false
			next.DisclaimerOpen = true

			return statusShowDisclaimer

		case filter.TriggerDefer20:
			o.scheduleDeferral(ctx, latest, remind20Delay, remind20Label, filter.ActionRemind20)
			next.ModalOpen = false

			return statusRemind20Set

		case filter.TriggerDefer60:
			o.scheduleDeferral(ctx, latest, remind60Delay, remind60Label, filter.ActionRemind60)
			next.ModalOpen = false

			return statusRemind60Set
		}

	case filter.PhaseDisclaiming:
		switch trigger {
		case filter.TriggerDisclaimerConfirm:
			o.appendDecision(ctx, filter.StateOff)
			if latest != nil {
				o.appendAction(ctx, latest.EventID, filter.ActionOff)
			}

			next.DisclaimerOpen = false
			next.CautionOpen = true

			return statusShowCaution

		case filter.TriggerDisclaimerCancel:
			o.appendDecision(ctx, filter.StateOn)
			if latest != nil {
				o.appendAction(ctx, latest.EventID, filter.ActionOn)
			}

			next.DisclaimerOpen = false

			return statusDisclaimerCancel
		}

	case filter.PhaseCautioning:
		if trigger == filter.TriggerCautionAck {
			next.CautionOpen = false

			return statusCautionClosed
		}

	case filter.PhaseIdle:
		// Operator actions require an open dialog.
	}

	logger.DebugKV(ctx, "Ignoring trigger invalid for current phase",
		"trigger", trigger, "phase", next.Phase())

	return ""
}

// scheduleDeferral schedules a reminder and records the deferral in the ledger.
func (o *Orchestrator) scheduleDeferral(ctx context.Context, latest *filter.ConditionEvent, delay time.Duration, label string, action filter.Action) {
	if latest == nil {
		return
	}

	if err := o.reminders.Schedule(ctx, latest.EventID, delay, label); err != nil {
		logger.ErrorKV(ctx, "Reminder scheduling failed", "event_id", latest.EventID, "error", err)
	}

	o.appendAction(ctx, latest.EventID, action)
}

// latestCondition reads the newest condition event, degrading to "no event".
func (o *Orchestrator) latestCondition(ctx context.Context) *filter.ConditionEvent {
	latest, err := o.conditions.LatestCondition(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Condition read failed, assuming no event", "error", err)
		return nil
	}

	return latest
}

// dueReminder reads the next due reminder, degrading to "none due".
func (o *Orchestrator) dueReminder(ctx context.Context) *filter.Reminder {
	reminder, err := o.reminders.Due(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Reminder read failed, assuming none due", "error", err)
		return nil
	}

	return reminder
}

// isProcessed checks the coarse "ever touched" mark. A failed read counts
// as processed so an outage can only suppress prompting, never repeat it.
func (o *Orchestrator) isProcessed(ctx context.Context, eventID int64) bool {
	processed, err := o.ledger.IsProcessed(ctx, eventID)
	if err != nil {
		logger.WarnKV(ctx, "Processed check failed, suppressing prompt", "event_id", eventID, "error", err)
		return true
	}

	return processed
}

// appendDecision writes the standing instruction; failure is logged and the
// transition proceeds, matching the always-complete policy.
func (o *Orchestrator) appendDecision(ctx context.Context, state filter.State) {
	if err := o.ledger.AppendDecision(ctx, state); err != nil {
		logger.ErrorKV(ctx, "Decision write failed", "state", state, "error", err)
	}
}

// appendAction writes a ledger action; failure is logged, not propagated.
func (o *Orchestrator) appendAction(ctx context.Context, eventID int64, action filter.Action) {
	if err := o.ledger.AppendAction(ctx, eventID, action); err != nil {
		logger.ErrorKV(ctx, "Action write failed", "event_id", eventID, "action", action, "error", err)
	}
}

// cancelReminder deletes an evaluated reminder; failure is logged so the
// next tick can consume the reminder again (deletion is idempotent).
func (o *Orchestrator) cancelReminder(ctx context.Context, reminderID int64) {
	if err := o.reminders.Cancel(ctx, reminderID); err != nil {
		logger.ErrorKV(ctx, "Reminder cancellation failed", "reminder_id", reminderID, "error", err)
	}
}
