package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestTimeRoundtrip ensures FormatTime output parses back to the same second.
func TestTimeRoundtrip(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 7, 9, 5, 2, 0, time.UTC)
	s := FormatTime(ts)
	require.Equal(t, "2026-03-07 09:05:02", s)

	parsed, err := ParseTime(s)
	require.NoError(t, err)
	require.True(t, ts.Equal(parsed))
}

// TestTimeOrdering verifies lexicographic order of formatted timestamps
// matches chronological order, which the due-reminder query depends on.
func TestTimeOrdering(t *testing.T) {
	t.Parallel()

	earlier := time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC)
	later := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	require.Less(t, FormatTime(earlier), FormatTime(later))
}

// TestParseTrigger checks accepted trigger names and rejection of unknown input.
func TestParseTrigger(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"tick", "approve", "decline", "defer-20", "defer-60",
		"disclaimer-confirm", "disclaimer-cancel", "caution-acknowledge",
	} {
		got, ok := ParseTrigger(name)
		require.True(t, ok, name)
		require.Equal(t, Trigger(name), got)
	}

	_, ok := ParseTrigger("snooze")
	require.False(t, ok)
}
