package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip_Int(t *testing.T) {
	s, err := Encode(20)
	require.NoError(t, err)
	require.Equal(t, "20", s)

	v, err := Decode[int](s)
	require.NoError(t, err)
	require.Equal(t, 20, v)
}

func TestEncodeDecode_RoundTrip_String(t *testing.T) {
	s, err := Encode("start-value")
	require.NoError(t, err)
	require.Equal(t, `"start-value"`, s)

	v, err := Decode[string](s)
	require.NoError(t, err)
	require.Equal(t, "start-value", v)
}

type point struct {
	X, Y int
}

func TestEncodeDecode_RoundTrip_Struct(t *testing.T) {
	p := point{X: 1, Y: 2}
	s, err := Encode(p)
	require.NoError(t, err)

	v, err := Decode[point](s)
	require.NoError(t, err)
	require.Equal(t, p, v)
}

func TestEncode_SingleCallSite_NoDoubleEncoding(t *testing.T) {
	// Encoding an already-encoded value wraps it again (20 -> "20"): this
	// pins why every call site must encode exactly once, which is what keeps
	// shadow:"20" and shadow:20 from both appearing.
	once, err := Encode(20)
	require.NoError(t, err)

	twice, err := Encode(once)
	require.NoError(t, err)

	require.NotEqual(t, once, twice, "encoding a string re-quotes it, which is exactly why callers must encode exactly once")
}
