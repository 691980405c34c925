package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
	"github.com/sapphires-iaq/filterwatch/internal/orchestrator"
	"github.com/sapphires-iaq/filterwatch/internal/repository/session"
)

// staticConditions serves one fixed condition event.
type staticConditions struct {
	latest   *filter.ConditionEvent
	decision filter.State
}

func (s *staticConditions) LatestCondition(_ context.Context) (*filter.ConditionEvent, error) {
	return s.latest, nil
}

func (s *staticConditions) LatestDecision(_ context.Context) (filter.State, error) {
	return s.decision, nil
}

// memoryLedger keeps action rows in memory.
type memoryLedger struct {
	decisions []filter.State
	actions   map[int64][]filter.Action
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{actions: make(map[int64][]filter.Action)}
}

func (m *memoryLedger) AppendDecision(_ context.Context, state filter.State) error {
	m.decisions = append(m.decisions, state)
	return nil
}

func (m *memoryLedger) AppendAction(_ context.Context, eventID int64, action filter.Action) error {
	m.actions[eventID] = append(m.actions[eventID], action)
	return nil
}

func (m *memoryLedger) IsProcessed(_ context.Context, eventID int64) (bool, error) {
	return len(m.actions[eventID]) > 0, nil
}

// emptyReminders never has anything due.
type emptyReminders struct{}

func (emptyReminders) Schedule(_ context.Context, _ int64, _ time.Duration, _ string) error {
	return nil
}

func (emptyReminders) Due(_ context.Context) (*filter.Reminder, error) {
	return nil, nil
}

func (emptyReminders) Cancel(_ context.Context, _ int64) error {
	return nil
}

// memorySessions is an in-memory session repository.
type memorySessions struct {
	stored  *filter.Session
	loadErr error
	saveErr error
	saves   int
}

func (m *memorySessions) Load(_ context.Context) (*filter.Session, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}

	return m.stored.Clone(), nil
}

func (m *memorySessions) Save(_ context.Context, session *filter.Session) error {
	m.saves++

	if m.saveErr != nil {
		return m.saveErr
	}

	m.stored = session.Clone()

	return nil
}

// newTestOrchestrator wires an orchestrator with an active ON condition.
func newTestOrchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(
		&staticConditions{latest: &filter.ConditionEvent{EventID: 4, State: filter.StateOn}},
		newMemoryLedger(),
		emptyReminders{},
	)
}

// TestNewService_RestoresSession verifies the persisted session is restored
// and reflected in the initial view.
func TestNewService_RestoresSession(t *testing.T) {
	t.Parallel()

	sessions := &memorySessions{stored: &filter.Session{DisclaimerOpen: true}}

	svc, err := newService(context.Background(), newTestOrchestrator(), sessions)
	require.NoError(t, err)

	view := svc.View(context.Background())
	require.True(t, view.DisclaimerOpen)
	require.False(t, view.MainModalOpen)
	require.Equal(t, "Monitoring filter state...", view.StatusText)
}

// TestNewService_MissingSessionFile verifies a missing session file starts
// with all dialogs closed, while any other load failure is fatal.
func TestNewService_MissingSessionFile(t *testing.T) {
	t.Parallel()

	sessions := &memorySessions{loadErr: session.ErrNotFound}

	svc, err := newService(context.Background(), newTestOrchestrator(), sessions)
	require.NoError(t, err)

	view := svc.View(context.Background())
	require.False(t, view.MainModalOpen)
	require.False(t, view.DisclaimerOpen)
	require.False(t, view.CautionOpen)

	sessions = &memorySessions{loadErr: errors.New("unexpected end of JSON input")}

	_, err = newService(context.Background(), newTestOrchestrator(), sessions)
	require.Error(t, err)
}

// TestTickPersistsSession verifies a tick that opens the modal persists the
// new session, and a quiet tick does not write.
func TestTickPersistsSession(t *testing.T) {
	t.Parallel()

	sessions := &memorySessions{stored: &filter.Session{}}
	svc, err := newService(context.Background(), newTestOrchestrator(), sessions)
	require.NoError(t, err)

	ctx := context.Background()

	svc.Tick(ctx)
	require.Equal(t, 1, sessions.saves)
	require.True(t, sessions.stored.ModalOpen)
	require.True(t, svc.View(ctx).MainModalOpen)

	// The modal is already open; further ticks change nothing.
	svc.Tick(ctx)
	require.Equal(t, 1, sessions.saves)
}

// TestApplyAdvancesAndPersists verifies operator triggers advance the
// machine and each transition is saved.
func TestApplyAdvancesAndPersists(t *testing.T) {
	t.Parallel()

	sessions := &memorySessions{stored: &filter.Session{ModalOpen: true}}
	svc, err := newService(context.Background(), newTestOrchestrator(), sessions)
	require.NoError(t, err)

	ctx := context.Background()

	view := svc.Apply(ctx, filter.TriggerDecline)
	require.True(t, view.DisclaimerOpen)
	require.True(t, sessions.stored.DisclaimerOpen)

	view = svc.Apply(ctx, filter.TriggerDisclaimerConfirm)
	require.True(t, view.CautionOpen)

	view = svc.Apply(ctx, filter.TriggerCautionAck)
	require.False(t, view.CautionOpen)
	require.Equal(t, 3, sessions.saves)

	// An invalid trigger is a no-op and writes nothing.
	_ = svc.Apply(ctx, filter.TriggerApprove)
	require.Equal(t, 3, sessions.saves)
}

// TestApplySaveFailureKeepsTransition verifies a failed session write does
// not block the transition.
func TestApplySaveFailureKeepsTransition(t *testing.T) {
	t.Parallel()

	sessions := &memorySessions{stored: &filter.Session{ModalOpen: true}, saveErr: errors.New("disk full")}
	svc, err := newService(context.Background(), newTestOrchestrator(), sessions)
	require.NoError(t, err)

	view := svc.Apply(context.Background(), filter.TriggerApprove)
	require.False(t, view.MainModalOpen)
	require.Equal(t, "Fan enabled by user choice.", view.StatusText)
}

// TestFanOn verifies the fan status is delegated to the stores.
func TestFanOn(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New(
		&staticConditions{
			latest:   &filter.ConditionEvent{EventID: 4, State: filter.StateOn},
			decision: filter.StateOn,
		},
		newMemoryLedger(),
		emptyReminders{},
	)

	svc, err := newService(context.Background(), orch, &memorySessions{stored: &filter.Session{}})
	require.NoError(t, err)
	require.True(t, svc.FanOn(context.Background()))
}
