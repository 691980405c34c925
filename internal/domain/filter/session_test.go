package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSessionClone verifies that Clone returns a copy and handles nil safely.
func TestSessionClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Session)(nil).Clone())

	s := &Session{ModalOpen: true}
	c := s.Clone()

	require.Equal(t, s, c)
	require.NotSame(t, s, c)
}

// TestSessionPhase checks phase derivation, including precedence when
// several flags are set at once.
func TestSessionPhase(t *testing.T) {
	t.Parallel()

	require.Equal(t, PhaseIdle, (&Session{}).Phase())
	require.Equal(t, PhasePrompting, (&Session{ModalOpen: true}).Phase())
	require.Equal(t, PhaseDisclaiming, (&Session{DisclaimerOpen: true}).Phase())
	require.Equal(t, PhaseCautioning, (&Session{CautionOpen: true}).Phase())

	// The most advanced dialog wins on corrupted state.
	corrupted := &Session{ModalOpen: true, CautionOpen: true}
	require.Equal(t, PhaseCautioning, corrupted.Phase())
}
