package shared

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(24)
	require.NoError(t, err)
	require.Len(t, a, 24)

	b, err := RandomBytes(24)
	require.NoError(t, err)
	if string(a) == string(b) {
		t.Logf("warning: two RandomBytes(24) results are identical; extremely unlikely")
	}
}

func TestRandomHex(t *testing.T) {
	s, err := RandomHex(16)
	require.NoError(t, err)
	require.Len(t, s, 32)
	_, err = hex.DecodeString(s)
	require.NoError(t, err)

	s, err = RandomHex(0)
	require.NoError(t, err)
	require.Empty(t, s)
}

func TestWipe(t *testing.T) {
	buf := []byte{1, 2, 3}
	Wipe(buf)
	require.Equal(t, []byte{0, 0, 0}, buf)
	Wipe(nil)
}
