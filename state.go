package go3964r

import (
	"time"

	"go3964r/internal/timing"
)

// state is one of the protocol's six named states, S0 through S5.
// Dispatch is an exhaustive tagged switch inside Tick, not a
// dictionary of bound step handlers.
type state int

const (
	stateIdle               state = iota // S0
	stateAwaitConflictDLE                // S1
	stateAwaitBlockAckDLE                // S2
	stateAwaitInitResponse               // S3
	stateSendReadyAck                    // S4
	stateReceive                         // S5
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "S0"
	case stateAwaitConflictDLE:
		return "S1"
	case stateAwaitBlockAckDLE:
		return "S2"
	case stateAwaitInitResponse:
		return "S3"
	case stateSendReadyAck:
		return "S4"
	case stateReceive:
		return "S5"
	default:
		return "unknown"
	}
}

// tickAt advances the state machine by one step as of now. It never
// blocks: every wait (QVZ, ZVZ, the two SLP pauses) is expressed as a
// comparison against a recorded deadline, never a sleep.
func (d *Driver) tickAt(now time.Time) {
	if d.awaitingReceiveAck {
		if !d.receiveAckAt.Ready(now) {
			return
		}
		d.awaitingReceiveAck = false
		d.enterS4(now)
		return
	}
	if d.awaitingIdleAck {
		if !d.idleAckAt.Ready(now) {
			return
		}
		d.awaitingIdleAck = false
		d.writeByte(dle)
		d.enterState(stateIdle, now)
		return
	}

	switch d.state {
	case stateIdle:
		d.stepIdle(now)
	case stateAwaitConflictDLE:
		d.stepAwaitConflictDLE(now)
	case stateAwaitBlockAckDLE:
		d.stepAwaitBlockAckDLE(now)
	case stateAwaitInitResponse:
		d.stepAwaitInitResponse(now)
	case stateSendReadyAck:
		d.stepSendReadyAck(now)
	case stateReceive:
		d.stepReceive(now)
	}
}

// enterState switches to s and resets the step-entry clock. It does
// not run any state's entry action; callers that need one (S4, the
// deferred post-conflict/post-receive acks) run it themselves before
// or as part of the switch.
func (d *Driver) enterState(s state, now time.Time) {
	prev := d.state
	d.state = s
	d.timing.Enter(now)
	if prev != s {
		d.log.WithField("from", prev).WithField("to", s).Debug("state transition")
	}
}

// deferReceiveAck schedules entry into S4 after SLP, used when we
// receive a peer's STX while idle (plain receive, or yielding a
// conflict at LOW priority from S0). The state stays S0 in the
// interim; tickAt short-circuits the dispatch until the deadline.
func (d *Driver) deferReceiveAck(now time.Time) {
	d.awaitingReceiveAck = true
	d.receiveAckAt = timing.At(now, d.config.SLP)
}

// deferIdleAck schedules the post-receive-success DLE ack and the
// return to S0 after SLP.
func (d *Driver) deferIdleAck(now time.Time) {
	d.awaitingIdleAck = true
	d.idleAckAt = timing.At(now, d.config.SLP)
}

// nakPath is the universal error exit: flush both directions, write
// three NAK bytes, and return to S0.
func (d *Driver) nakPath(now time.Time) {
	d.serial.Flush(FlushOutput)
	d.serial.Flush(FlushInput)
	d.writeBytes([]byte{nak, nak, nak})
	d.enterState(stateIdle, now)
}

// stepIdle is S0: idle / arbitration.
func (d *Driver) stepIdle(now time.Time) {
	if d.timing.ConsumeNewStep() {
		if d.sendBuf != nil && (d.sendErr >= d.config.MaxSend || d.connectErr >= d.config.MaxConnect) {
			failed := d.sendBuf
			d.sendBuf = nil
			d.sendErr = 0
			d.connectErr = 0
			d.setLastErr(ErrRetriesExhausted)
			d.log.Warn(ErrRetriesExhausted.Error())
			d.upcalls.OnWriteFail(failed)
		}
	}

	if d.sendBuf == nil {
		if payload, ok := d.queue.Take(); ok {
			d.sendBuf = payload
		}
	}
	sendEnabled := d.sendBuf != nil && d.sendAtTime.Ready(now)

	if b, ok := d.readByte(); ok {
		if b != stx {
			d.setLastErr(ErrUnexpectedByte)
			d.log.WithField("byte", b).Warn(ErrUnexpectedByte.Error())
			d.nakPath(now)
			return
		}
		if d.config.Priority == Low || !sendEnabled {
			d.deferReceiveAck(now)
			return
		}
		d.serial.Flush(FlushOutput)
		d.writeByte(stx)
		d.enterState(stateAwaitConflictDLE, now)
		return
	}

	if sendEnabled {
		d.serial.Flush(FlushBoth)
		d.writeByte(stx)
		d.enterState(stateAwaitInitResponse, now)
	}
}

// stepAwaitConflictDLE is S1: awaiting the peer's DLE after we
// insisted on sending into a conflict.
func (d *Driver) stepAwaitConflictDLE(now time.Time) {
	if d.timing.Elapsed(now) > d.config.QVZ {
		d.connectErr++
		d.sendAtTime = timing.At(now, d.config.CWZ)
		d.setLastErr(ErrConnectTimeout)
		d.nakPath(now)
		return
	}
	b, ok := d.readByte()
	if !ok {
		return
	}
	if b == dle {
		d.traceFrame(d.sendBuf, "tx")
		d.writeBytes(d.encodeSendBuf())
		d.enterState(stateAwaitBlockAckDLE, now)
		return
	}
	d.connectErr++
	d.sendAtTime = timing.At(now, d.config.CWZ)
	d.setLastErr(ErrConnectWrongByte)
	d.nakPath(now)
}

// stepAwaitBlockAckDLE is S2: awaiting the peer's DLE ack for our
// just-sent data block.
func (d *Driver) stepAwaitBlockAckDLE(now time.Time) {
	if d.timing.Elapsed(now) > d.config.QVZ {
		d.sendErr++
		d.sendAtTime = timing.At(now, d.config.BWZ)
		d.setLastErr(ErrBlockAckTimeout)
		d.nakPath(now)
		return
	}
	b, ok := d.readByte()
	if !ok {
		return
	}
	if b == dle {
		payload := d.sendBuf
		d.sendBuf = nil
		d.sendErr = 0
		d.connectErr = 0
		d.sendAtTime = timing.At(now, d.config.SPZ)
		d.enterState(stateIdle, now)
		d.upcalls.OnWriteSuccess(payload)
		return
	}
	d.sendErr++
	d.sendAtTime = timing.At(now, d.config.BWZ)
	d.setLastErr(ErrBlockAckWrongByte)
	d.nakPath(now)
}

// stepAwaitInitResponse is S3: awaiting the peer's response to the
// STX we sent to initiate a send.
func (d *Driver) stepAwaitInitResponse(now time.Time) {
	if d.timing.Elapsed(now) > d.config.QVZ {
		d.sendErr++
		d.sendAtTime = timing.At(now, d.config.CWZ)
		d.setLastErr(ErrConnectTimeout)
		d.nakPath(now)
		return
	}
	b, ok := d.readByte()
	if !ok {
		return
	}
	switch {
	case b == dle:
		d.traceFrame(d.sendBuf, "tx")
		d.writeBytes(d.encodeSendBuf())
		d.enterState(stateAwaitBlockAckDLE, now)
	case b == stx:
		if d.config.Priority == Low {
			d.enterS4(now)
			return
		}
		d.connectErr++
		d.sendAtTime = timing.At(now, 0)
		d.setLastErr(ErrPriorityDeadlock)
		d.nakPath(now)
	default:
		d.connectErr++
		d.sendAtTime = timing.At(now, d.config.CWZ)
		d.setLastErr(ErrConnectWrongByte)
		d.nakPath(now)
	}
}

// enterS4 runs S4's entry action (flush both directions, write one
// DLE) and switches to it. Called either directly (S3 LOW-priority
// yield) or after the deferred SLP pause (plain receive / S0
// conflict yield).
func (d *Driver) enterS4(now time.Time) {
	d.serial.Flush(FlushBoth)
	d.writeByte(dle)
	d.enterState(stateSendReadyAck, now)
}

// stepSendReadyAck is S4: we have signalled ready-to-receive and are
// waiting for the peer's first data byte.
func (d *Driver) stepSendReadyAck(now time.Time) {
	if d.serial.Available() {
		d.enterReceive(now)
		d.stepReceive(now)
		return
	}
	if d.timing.Elapsed(now) > d.config.ZVZ {
		d.setLastErr(ErrInterCharTimeout)
		d.nakPath(now)
	}
}

// enterReceive runs S5's entry action.
func (d *Driver) enterReceive(now time.Time) {
	d.dleSeen = false
	d.bccNext = false
	d.recvBuf.Reset()
	d.enterState(stateReceive, now)
}

// stepReceive is S5: consuming the incoming data stream.
func (d *Driver) stepReceive(now time.Time) {
	for {
		b, ok := d.readByte()
		if !ok {
			break
		}
		d.timing.Enter(now) // ZVZ restarts on every received byte

		if !d.recvBuf.WriteByte(b) {
			d.setLastErr(ErrFrameInvalid)
			d.log.Warn("receive buffer overflow")
			d.nakPath(now)
			return
		}

		switch {
		case d.bccNext:
			d.finishReceive(now)
			return
		case b == dle:
			d.dleSeen = !d.dleSeen
		case b == etx && d.dleSeen:
			if d.config.Mode == WithBCC {
				d.bccNext = true
			} else {
				d.finishReceive(now)
				return
			}
		default:
			d.dleSeen = false
			d.bccNext = false
		}
	}
	if d.timing.Elapsed(now) > d.config.ZVZ {
		d.setLastErr(ErrInterCharTimeout)
		d.nakPath(now)
	}
}

// finishReceive decodes the accumulated frame and, on success,
// delivers it and schedules the post-receive ack; on failure it takes
// the NAK-path.
func (d *Driver) finishReceive(now time.Time) {
	payload, err := d.decodeFrame(d.recvBuf.Bytes())
	if err != nil {
		d.setLastErr(ErrFrameInvalid)
		d.log.WithError(err).Warn(ErrFrameInvalid.Error())
		d.nakPath(now)
		return
	}
	d.traceFrame(payload, "rx")
	d.serial.Flush(FlushBoth)
	d.deferIdleAck(now)
	d.upcalls.OnReadSuccess(payload)
}
