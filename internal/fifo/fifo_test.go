package fifo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadRoundTrip(t *testing.T) {
	b := NewBuffer(8)
	for _, c := range []byte("hello") {
		assert.True(t, b.WriteByte(c))
	}
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, []byte("hello"), b.Bytes())
}

func TestWriteByteReportsFullWithoutOverwriting(t *testing.T) {
	b := NewBuffer(2)
	assert.True(t, b.WriteByte('a'))
	assert.True(t, b.WriteByte('b'))
	assert.False(t, b.WriteByte('c'))
	assert.Equal(t, []byte("ab"), b.Bytes())
}

func TestResetEmptiesBuffer(t *testing.T) {
	b := NewBuffer(4)
	b.WriteByte('x')
	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 4, b.Space())
}

func TestSpaceShrinksAsBufferFills(t *testing.T) {
	b := NewBuffer(4)
	assert.Equal(t, 4, b.Space())
	b.WriteByte('a')
	assert.Equal(t, 3, b.Space())
}
