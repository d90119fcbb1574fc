// Package frame implements the 3964R / 3964 wire framing codec: DLE
// doubling, the DLE ETX trailer and the optional XOR block check
// character. It has no notion of state, timing or retries — those live
// in the state machine that drives the transport.
package frame

import "errors"

// Control bytes, per DIN 66003 (3964R uses the 7-bit set, transmitted
// as 8-bit code).
const (
	STX byte = 0x02
	ETX byte = 0x03
	DLE byte = 0x10
	NAK byte = 0x15
)

var (
	ErrShortStream = errors.New("frame: stream too short to contain a trailer")
	ErrNoTrailer   = errors.New("frame: stream does not end in DLE ETX")
	ErrBCCMismatch = errors.New("frame: block check character mismatch")
	ErrMissingBCC  = errors.New("frame: stream shorter than 2 bytes, cannot hold a BCC")
)

// Encode escapes payload for the wire: every DLE is doubled, the frame
// is terminated with DLE ETX, and — when withBCC is set — a trailing
// XOR block check character is appended over everything written so far.
func Encode(payload []byte, withBCC bool) []byte {
	out := make([]byte, 0, len(payload)+4)
	for _, b := range payload {
		out = append(out, b)
		if b == DLE {
			out = append(out, DLE)
		}
	}
	out = append(out, DLE, ETX)
	if withBCC {
		out = append(out, bcc(out))
	}
	return out
}

// Decode validates and strips a fully-collected frame, returning the
// original payload. withBCC must match the mode the frame was encoded
// with.
func Decode(raw []byte, withBCC bool) ([]byte, error) {
	stream := raw
	if withBCC {
		if len(stream) < 2 {
			return nil, ErrMissingBCC
		}
		received := stream[len(stream)-1]
		stream = stream[:len(stream)-1]
		if bcc(stream) != received {
			return nil, ErrBCCMismatch
		}
	}
	if len(stream) < 2 {
		return nil, ErrShortStream
	}
	if stream[len(stream)-2] != DLE || stream[len(stream)-1] != ETX {
		return nil, ErrNoTrailer
	}
	stream = stream[:len(stream)-2]

	payload := make([]byte, 0, len(stream))
	for i := 0; i < len(stream); i++ {
		payload = append(payload, stream[i])
		if stream[i] == DLE {
			i++ // skip the doubled partner; a lone DLE at the end of the stream is kept and ends the loop
		}
	}
	return payload, nil
}

// bcc is the XOR block check character over buffer.
func bcc(buffer []byte) byte {
	var b byte
	for _, c := range buffer {
		b ^= c
	}
	return b
}
