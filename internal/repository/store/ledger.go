package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
)

// LedgerRepository owns all writes to the append-only decision ledger:
// operator decisions and per-event processed actions. Rows are never
// updated or deleted.
type LedgerRepository struct {
	// db is the shared database handle.
	db *sql.DB
	// now supplies timestamps; overridable in tests.
	now func() time.Time
}

// NewLedgerRepository creates a repository over the provided handle.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{
		db:  db,
		now: time.Now,
	}
}

// AppendDecision records the operator's standing ON/OFF instruction.
func (r *LedgerRepository) AppendDecision(ctx context.Context, state filter.State) error {
	const query = `INSERT INTO operator_decisions (timestamp, state) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, filter.FormatTime(r.now()), string(state)); err != nil {
		return fmt.Errorf("append operator decision: %w", err)
	}

	return nil
}

// AppendAction records an action taken against a condition event.
// Multiple actions may exist for the same event; the ledger is a timeline.
func (r *LedgerRepository) AppendAction(ctx context.Context, eventID int64, action filter.Action) error {
	const query = `INSERT INTO processed_events (event_id, action, processed_timestamp) VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, eventID, string(action), filter.FormatTime(r.now())); err != nil {
		return fmt.Errorf("append processed action: %w", err)
	}

	return nil
}

// IsProcessed reports whether any action row exists for the event. This is a
// coarse "ever touched" check: once true, tick-triggered prompting stops
// forever for that event and only a reminder can reopen it.
func (r *LedgerRepository) IsProcessed(ctx context.Context, eventID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM processed_events WHERE event_id = $1)`

	var processed bool
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&processed); err != nil {
		return false, fmt.Errorf("check processed event %d: %w", eventID, err)
	}

	return processed, nil
}

// WithClock overrides the timestamp source. Intended for tests.
func (r *LedgerRepository) WithClock(now func() time.Time) *LedgerRepository {
	r.now = now

	return r
}
