package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
	"github.com/sapphires-iaq/filterwatch/internal/logger"
	"github.com/sapphires-iaq/filterwatch/internal/orchestrator"
	"github.com/sapphires-iaq/filterwatch/internal/repository/session"
)

// service serializes every evaluation of the state machine, keeps the
// current session and view in memory, and persists the session after each
// transition. It is unexported to keep the transport decoupled from the
// implementation.
type service struct {
	// orch evaluates triggers against the stores.
	orch *orchestrator.Orchestrator
	// sessions persists dialog flags across restarts.
	sessions session.Repository
	// current is the live session state.
	current *filter.Session
	// view is the last evaluated presentation tuple.
	view filter.View
	// mu serializes evaluations; ticks and operator actions never overlap.
	mu sync.Mutex
}

// newService restores the persisted session and returns a ready service.
// A missing session file starts the service with all dialogs closed.
func newService(ctx context.Context, orch *orchestrator.Orchestrator, sessions session.Repository) (*service, error) {
	s := &service{
		orch:     orch,
		sessions: sessions,
		current:  &filter.Session{},
	}

	if sessions != nil {
		restored, err := sessions.Load(ctx)
		switch {
		case err == nil:
			if restored != nil {
				s.current = restored
			}
		case errors.Is(err, session.ErrNotFound):
			// First start, keep the closed-dialogs default.
		default:
			return nil, fmt.Errorf("load session: %w", err)
		}
	}

	s.view = filter.View{
		MainModalOpen:  s.current.ModalOpen,
		DisclaimerOpen: s.current.DisclaimerOpen,
		CautionOpen:    s.current.CautionOpen,
		StatusText:     "Monitoring filter state...",
	}

	return s, nil
}

// Tick runs one periodic evaluation.
func (s *service) Tick(ctx context.Context) {
	s.evaluate(ctx, filter.TriggerTick)
}

// Apply feeds one operator trigger through the state machine and returns
// the resulting view.
func (s *service) Apply(ctx context.Context, trigger filter.Trigger) filter.View {
	return s.evaluate(ctx, trigger)
}

// View returns the last evaluated view without advancing the state machine.
func (s *service) View(_ context.Context) filter.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view
}

// FanOn reports whether the fan is effectively running.
func (s *service) FanOn(ctx context.Context) bool {
	return s.orch.FanOn(ctx)
}

// evaluate runs one serialized transition and persists the session when its
// flags changed. A failed save is logged, not propagated: the in-memory
// session stays authoritative until the next successful write.
func (s *service) evaluate(ctx context.Context, trigger filter.Trigger) filter.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, view := s.orch.Evaluate(ctx, trigger, s.current)

	if s.sessions != nil && *next != *s.current {
		if err := s.sessions.Save(ctx, next); err != nil {
			logger.ErrorKV(ctx, "Session save failed", "error", err)
		}
	}

	s.current = next
	s.view = view

	return view
}
