package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDoublesDLE(t *testing.T) {
	payload := []byte{0x41, 0x10, 0x42, 0x10, 0x10, 0x43}
	got := Encode(payload, true)

	want := []byte{0x41, 0x10, 0x10, 0x42, 0x10, 0x10, 0x10, 0x10, 0x43, 0x10, 0x03}
	want = append(want, bcc(want))

	assert.Equal(t, want, got)
}

func TestEncodeDecodeRoundTripWithBCC(t *testing.T) {
	payload := []byte{0x41, 0x10, 0x42, 0x10, 0x10, 0x43}
	encoded := Encode(payload, true)

	decoded, err := Decode(encoded, true)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestEncodeDecodeRoundTripWithoutBCC(t *testing.T) {
	payload := []byte{0x00, 0xFF, 0x10, 0x02, 0x03}
	encoded := Encode(payload, false)

	decoded, err := Decode(encoded, false)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestEncodeDecodeEverySingleByte(t *testing.T) {
	for b := 0; b < 256; b++ {
		payload := []byte{byte(b)}
		decoded, err := Decode(Encode(payload, true), true)
		require.NoError(t, err)
		assert.Equal(t, payload, decoded)
	}
}

func TestDecodeRejectsBCCMismatch(t *testing.T) {
	payload := []byte{0x41, 0x42, 0x43}
	encoded := Encode(payload, true)
	encoded[len(encoded)-1] ^= 0x01 // flip a bit in the BCC

	_, err := Decode(encoded, true)
	assert.ErrorIs(t, err, ErrBCCMismatch)
}

func TestDecodeRejectsMissingTrailer(t *testing.T) {
	_, err := Decode([]byte{0x41, 0x42, 0x43}, false)
	assert.ErrorIs(t, err, ErrNoTrailer)
}

func TestDecodeRejectsShortStream(t *testing.T) {
	_, err := Decode([]byte{0x01}, true)
	assert.ErrorIs(t, err, ErrMissingBCC)
}

func TestBCCCoversDoubledDLEAndTrailer(t *testing.T) {
	// BCC must include each doubled DLE twice, and the trailing DLE ETX.
	stream := []byte{0x10, 0x10, 0x10, 0x03}
	assert.EqualValues(t, 0x10^0x10^0x10^0x03, bcc(stream))
}
