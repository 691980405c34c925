package filter

import "time"

// State is the ON/OFF value carried by condition events and operator
// decisions. The literal strings are what the store persists.
type State string

const (
	// StateOn means the filter-activation condition holds (or the operator
	// wants the fan running, depending on context).
	StateOn State = "ON"
	// StateOff is the opposite and the default when no record exists.
	StateOff State = "OFF"
)

// IsOn reports whether the state equals StateOn.
func (s State) IsOn() bool {
	return s == StateOn
}

// ConditionEvent is the latest filter-activation condition derived by the
// sensor pipeline. Events are immutable and carry a strictly increasing ID.
type ConditionEvent struct {
	// EventID is the strictly increasing identifier of the event.
	EventID int64
	// State is the derived condition state at the time of the event.
	State State
}

// Action is the kind of a processed-events ledger entry.
type Action string

const (
	// ActionShowingModal records that the decision modal was opened for an event.
	ActionShowingModal Action = "SHOWING_MODAL"
	// ActionOn records that the operator enabled the fan for an event.
	ActionOn Action = "ON"
	// ActionOff records that the operator kept the fan off for an event.
	ActionOff Action = "OFF"
	// ActionRemind20 records a 20-minute deferral for an event.
	ActionRemind20 Action = "REMIND_20"
	// ActionRemind60 records a one-hour deferral for an event.
	ActionRemind60 Action = "REMIND_60"
)

// Reminder is a scheduled future re-evaluation request tied to one event.
// It is consumed (deleted) exactly once when its due time is evaluated.
type Reminder struct {
	// ReminderID identifies the queue row.
	ReminderID int64
	// EventID is the condition event the reminder re-opens.
	EventID int64
	// DueTime is when the reminder should fire.
	DueTime time.Time
	// Label is the human-readable deferral length ("20 minutes", "1 hour").
	Label string
}

// TimeLayout is the fixed-width timestamp format persisted in the store.
// Zero-padded 24-hour formatting keeps lexicographic and chronological
// ordering identical, which the reminder due-query relies on.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in the store's sortable timestamp format.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses a store timestamp back into a time.Time.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
