// Package go3964r implements a driver for the 3964R (and checksum-less
// 3964) point-to-point asynchronous serial link protocol: framing,
// timed retries, and priority-based arbitration of simultaneous sends
// between two peers on an RS-232 line.
package go3964r

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go3964r/internal/fifo"
	"go3964r/internal/frame"
	"go3964r/internal/queue"
	"go3964r/internal/timing"
)

// Control bytes, aliased from internal/frame so state.go reads
// naturally against the protocol's own names.
const (
	stx = frame.STX
	etx = frame.ETX
	dle = frame.DLE
	nak = frame.NAK
)

// defaultReceiveBufferSize bounds the inbound accumulation buffer.
// Overflow is treated as a NAK-path condition per the driver's
// resource model: telegrams are not expected to approach this size in
// practice, and peers that send one are misbehaving.
const defaultReceiveBufferSize = 4096

// Driver is a single-threaded cooperative state machine: a host
// repeatedly calls Tick, and all state transitions, byte I/O and
// upcalls happen inside it. The only cross-thread surface is Submit,
// which is safe to call from any goroutine.
type Driver struct {
	serial  SerialPort
	config  Config
	upcalls Upcalls
	log     *logrus.Entry

	queue   *queue.Queue
	timing  *timing.Controller
	recvBuf *fifo.Buffer

	state state

	sendBuf []byte

	sendErr    int
	connectErr int
	sendAtTime timing.Schedule

	dleSeen bool
	bccNext bool

	awaitingReceiveAck bool
	receiveAckAt       timing.Schedule
	awaitingIdleAck    bool
	idleAckAt          timing.Schedule

	mu      sync.Mutex
	lastErr error
}

// NewDriver constructs a Driver over serial with the given
// configuration and upcalls. Per the protocol's connection reset
// procedure, construction flushes both directions and emits one NAK
// to force the peer into a known state. A nil upcalls is replaced
// with NoopUpcalls.
func NewDriver(serial SerialPort, config Config, upcalls Upcalls) *Driver {
	if upcalls == nil {
		upcalls = NoopUpcalls{}
	}
	d := &Driver{
		serial:  serial,
		config:  config,
		upcalls: upcalls,
		log:     logrus.WithField("component", "3964r"),
		queue:   queue.New(),
		timing:  timing.NewController(),
		recvBuf: fifo.NewBuffer(defaultReceiveBufferSize),
		state:   stateIdle,
	}
	d.serial.Flush(FlushBoth)
	d.writeByte(nak)
	return d
}

// SetMode overrides the priority and checksum mode. Valid only before
// the driver has started ticking; changing it mid-stream would tear a
// telegram's framing assumptions out from under an in-flight transfer.
func (d *Driver) SetMode(priority Priority, mode Mode) {
	d.config.Priority = priority
	d.config.Mode = mode
}

// Submit enqueues an outbound telegram. Safe to call from any
// goroutine; the driver itself never calls Submit. An empty payload is
// rejected rather than enqueued, since an empty send buffer would be
// indistinguishable from "no send in progress" once dequeued.
func (d *Driver) Submit(payload []byte) {
	if len(payload) == 0 {
		d.setLastErr(ErrIllegalArgument)
		d.log.Warn(ErrIllegalArgument.Error())
		return
	}
	d.queue.Submit(payload)
}

// Tick advances the state machine by one step, using the current
// time. It should be called frequently — every few milliseconds — by
// the host's single driving thread.
func (d *Driver) Tick() {
	d.tickAt(time.Now())
}

// SetSendDelay imposes a cooldown before the next send attempt is
// eligible, e.g. after an application-level condition unrelated to
// the wire protocol. It does not affect an already in-flight
// telegram's state.
func (d *Driver) SetSendDelay(delay time.Duration) {
	d.sendAtTime = timing.At(time.Now(), delay)
}

// LastError reports the most recent recovered protocol error, for
// diagnostics. It is not cleared on success and carries no causal
// relationship to the current state; it exists purely for
// introspection, since Tick itself has no error return.
func (d *Driver) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// State reports the current protocol state (S0 through S5), for
// diagnostics and tests.
func (d *Driver) State() string {
	return d.state.String()
}

func (d *Driver) setLastErr(err error) {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
}

func (d *Driver) readByte() (byte, bool) {
	b, ok := d.serial.ReadByte()
	if ok {
		d.log.WithField("byte", b).WithField("direction", "rx").Debug("byte received")
	}
	return b, ok
}

func (d *Driver) writeByte(b byte) {
	d.writeBytes([]byte{b})
}

func (d *Driver) writeBytes(p []byte) {
	if _, err := d.serial.Write(p); err != nil {
		d.log.WithError(err).Warn("write failed")
		return
	}
	for _, b := range p {
		d.log.WithField("byte", b).WithField("direction", "tx").Debug("byte sent")
	}
}

func (d *Driver) traceFrame(payload []byte, direction string) {
	d.log.WithField("bytes", len(payload)).WithField("direction", direction).Debug("frame")
}

func (d *Driver) encodeSendBuf() []byte {
	return frame.Encode(d.sendBuf, d.config.Mode == WithBCC)
}

func (d *Driver) decodeFrame(raw []byte) ([]byte, error) {
	return frame.Decode(raw, d.config.Mode == WithBCC)
}
