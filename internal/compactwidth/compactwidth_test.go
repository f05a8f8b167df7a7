package compactwidth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTrip covers scenario S1 from spec.md §8: encode
// {1, 255, 256, 65535, 65536, 2^32-1, 2^32, 2^63-1} and check the decoded
// widths are {1,1,2,2,4,4,8,8} with every value recovered identically.
func TestRoundTrip(t *testing.T) {
	cases := []struct {
		value uint64
		width Width
	}{
		{1, Width1},
		{255, Width1},
		{256, Width2},
		{65535, Width2},
		{65536, Width4},
		{1<<32 - 1, Width4},
		{1 << 32, Width8},
		{1<<63 - 1, Width8},
	}

	for _, tc := range cases {
		w := Of(tc.value)
		assert.Equal(t, tc.width, w, "width for %d", tc.value)

		encoded := Encode(nil, tc.value)
		assert.Len(t, encoded, int(w))

		decoded, err := Decode(encoded, w)
		require.NoError(t, err)
		assert.Equal(t, tc.value, decoded)

		assert.Equal(t, w, FromEndOfByte(w.Tag()))
	}
}

func TestEncodeWidth_RejectsTooNarrowWidth(t *testing.T) {
	_, err := EncodeWidth(nil, 1<<20, Width1)
	assert.Error(t, err)
}

func TestDecode_ErrorsOnShortInput(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02}, Width4)
	assert.Error(t, err)
}

func TestTag_RoundTripsThroughFromEndOfByte(t *testing.T) {
	for _, w := range []Width{Width1, Width2, Width4, Width8} {
		tag := w.Tag()
		assert.Equal(t, w, FromEndOfByte(tag))
	}
}
