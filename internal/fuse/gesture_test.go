package fuse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGesture(t *testing.T) {
	require.Equal(t, Bold, ParseGesture("BOLD"))
	require.Equal(t, CapsLock, ParseGesture("CAPS_LOCK"))
	require.Equal(t, NoGesture, ParseGesture("something_else"))
}

func TestGestureString(t *testing.T) {
	require.Equal(t, "ITALICS", Italics.String())
	require.Equal(t, "NO_GESTURE", NoGesture.String())
}

func TestPaired(t *testing.T) {
	for _, g := range []Gesture{Bold, Italics, Underlined, CapsLock} {
		require.True(t, g.Paired(), "%s should be paired", g)
	}
	for _, g := range []Gesture{NoGesture, Comma, FullStop, ExclamationMark, NewLine} {
		require.False(t, g.Paired(), "%s should not be paired", g)
	}
}
