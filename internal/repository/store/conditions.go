package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
)

// ConditionsRepository is the read-only view over the sensor pipeline's
// filter-activation records and the operator's standing decision.
type ConditionsRepository struct {
	// db is the shared database handle.
	db *sql.DB
}

// NewConditionsRepository creates a repository over the provided handle.
func NewConditionsRepository(db *sql.DB) *ConditionsRepository {
	return &ConditionsRepository{
		db: db,
	}
}

// LatestCondition returns the most recent filter-activation condition,
// or nil when the table is empty.
func (r *ConditionsRepository) LatestCondition(ctx context.Context) (*filter.ConditionEvent, error) {
	const query = `SELECT event_id, state FROM conditions ORDER BY event_id DESC LIMIT 1`

	var (
		eventID int64
		state   string
	)

	err := r.db.QueryRowContext(ctx, query).Scan(&eventID, &state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("query latest condition: %w", err)
	}

	return &filter.ConditionEvent{
		EventID: eventID,
		State:   filter.State(state),
	}, nil
}

// LatestDecision returns the operator's most recent standing instruction,
// defaulting to OFF when no decision has ever been recorded.
func (r *ConditionsRepository) LatestDecision(ctx context.Context) (filter.State, error) {
	const query = `SELECT state FROM operator_decisions ORDER BY decision_id DESC LIMIT 1`

	var state string

	err := r.db.QueryRowContext(ctx, query).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return filter.StateOff, nil
		}

		return filter.StateOff, fmt.Errorf("query latest decision: %w", err)
	}

	return filter.State(state), nil
}
