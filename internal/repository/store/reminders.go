package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
)

// RemindersRepository owns the durable queue of pending deferral reminders.
// A reminder is created by a deferral action and deleted exactly once when
// its due time is evaluated.
type RemindersRepository struct {
	// db is the shared database handle.
	db *sql.DB
	// now supplies timestamps; overridable in tests.
	now func() time.Time
}

// NewRemindersRepository creates a repository over the provided handle.
func NewRemindersRepository(db *sql.DB) *RemindersRepository {
	return &RemindersRepository{
		db:  db,
		now: time.Now,
	}
}

// Schedule inserts a reminder due after the provided delay.
func (r *RemindersRepository) Schedule(ctx context.Context, eventID int64, delay time.Duration, label string) error {
	const query = `INSERT INTO reminders (event_id, reminder_time, reminder_type) VALUES ($1, $2, $3)`

	dueTime := filter.FormatTime(r.now().Add(delay))

	if _, err := r.db.ExecContext(ctx, query, eventID, dueTime, label); err != nil {
		return fmt.Errorf("schedule reminder for event %d: %w", eventID, err)
	}

	return nil
}

// Due returns the next reminder whose due time has passed, or nil when none
// is due. When several are due at once the earliest due time wins, then the
// lowest reminder ID, so evaluation order is deterministic.
func (r *RemindersRepository) Due(ctx context.Context) (*filter.Reminder, error) {
	const query = `
		SELECT reminder_id, event_id, reminder_time, reminder_type
		FROM reminders
		WHERE reminder_time <= $1
		ORDER BY reminder_time ASC, reminder_id ASC
		LIMIT 1`

	var (
		reminder filter.Reminder
		dueTime  string
	)

	err := r.db.QueryRowContext(ctx, query, filter.FormatTime(r.now())).Scan(
		&reminder.ReminderID,
		&reminder.EventID,
		&dueTime,
		&reminder.Label,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("query due reminder: %w", err)
	}

	// A malformed due time is treated as absence of the field, not as fatal.
	if parsed, err := filter.ParseTime(dueTime); err == nil {
		reminder.DueTime = parsed
	}

	return &reminder, nil
}

// Cancel deletes the reminder row once it has been evaluated.
func (r *RemindersRepository) Cancel(ctx context.Context, reminderID int64) error {
	const query = `DELETE FROM reminders WHERE reminder_id = $1`

	if _, err := r.db.ExecContext(ctx, query, reminderID); err != nil {
		return fmt.Errorf("cancel reminder %d: %w", reminderID, err)
	}

	return nil
}

// WithClock overrides the timestamp source. Intended for tests.
func (r *RemindersRepository) WithClock(now func() time.Time) *RemindersRepository {
	r.now = now

	return r
}
