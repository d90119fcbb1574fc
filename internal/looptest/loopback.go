// Package looptest provides an in-memory SerialPort double for
// driving the state machine in tests without a real serial line: a
// mutex-guarded byte queue that a test can Feed and that satisfies the
// production transport interface.
package looptest

import (
	"sync"

	"go3964r"
)

// Port is an in-memory, single-direction-per-instance byte channel.
// Pair two Ports with Link to simulate both ends of a serial line, or
// use Feed directly to hand a test-authored byte sequence to a Driver
// under test.
type Port struct {
	mu      sync.Mutex
	inbound []byte

	writes    [][]byte
	writeFunc func([]byte)
}

// New returns an empty Port.
func New() *Port {
	return &Port{}
}

// Link wires a and b so that bytes written to one appear as inbound
// bytes on the other, simulating a point-to-point serial line between
// two Drivers under test.
func Link(a, b *Port) {
	a.writeFunc = b.feed
	b.writeFunc = a.feed
}

// Feed appends bytes to this Port's inbound queue, as if a peer had
// transmitted them.
func (p *Port) Feed(b []byte) {
	p.feed(b)
}

func (p *Port) feed(b []byte) {
	p.mu.Lock()
	p.inbound = append(p.inbound, b...)
	p.mu.Unlock()
}

// Available implements go3964r.SerialPort.
func (p *Port) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inbound) > 0
}

// ReadByte implements go3964r.SerialPort.
func (p *Port) ReadByte() (byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.inbound) == 0 {
		return 0, false
	}
	b := p.inbound[0]
	p.inbound = p.inbound[1:]
	return b, true
}

// Write implements go3964r.SerialPort. Every call is recorded so
// tests can assert on exactly what was sent; when linked, the bytes
// are also delivered to the paired Port.
func (p *Port) Write(b []byte) (int, error) {
	p.mu.Lock()
	cp := append([]byte(nil), b...)
	p.writes = append(p.writes, cp)
	fn := p.writeFunc
	p.mu.Unlock()
	if fn != nil {
		fn(cp)
	}
	return len(b), nil
}

// Flush implements go3964r.SerialPort. The loopback has no separate
// buffering to discard beyond the inbound queue, which FlushInput and
// FlushBoth clear.
func (p *Port) Flush(direction go3964r.FlushDirection) error {
	if direction == go3964r.FlushInput || direction == go3964r.FlushBoth {
		p.mu.Lock()
		p.inbound = nil
		p.mu.Unlock()
	}
	return nil
}

// Writes returns every byte slice written so far, in order.
func (p *Port) Writes() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.writes))
	copy(out, p.writes)
	return out
}

// WrittenBytes flattens Writes into a single contiguous byte slice.
func (p *Port) WrittenBytes() []byte {
	var out []byte
	for _, w := range p.Writes() {
		out = append(out, w...)
	}
	return out
}
