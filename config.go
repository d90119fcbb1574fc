package go3964r

import "time"

// Priority decides who yields when both peers emit STX at the same
// moment (an initialization conflict, see Config.Priority and state
// S3/S0 in the state machine).
type Priority int

const (
	// Low yields to the peer on an initialization conflict, becoming
	// the receiver.
	Low Priority = iota
	// High insists on sending and forces the conflict path.
	High
)

func (p Priority) String() string {
	if p == High {
		return "HIGH"
	}
	return "LOW"
}

// Mode selects whether frames carry a trailing XOR block check
// character. 3964R (WithBCC) checksums every frame; the 3964 variant
// (WithoutBCC) relies on the transport alone.
type Mode int

const (
	WithBCC Mode = iota
	WithoutBCC
)

func (m Mode) String() string {
	if m == WithoutBCC {
		return "WITHOUT_BCC"
	}
	return "WITH_BCC"
}

// Config bundles everything the protocol makes configurable: the
// priority and checksum mode, the protocol's named timeouts plus the
// conflict-yield delay, and the two retry caps. The zero Config is
// not meaningful; start from Default() and override fields.
type Config struct {
	Priority Priority
	Mode     Mode

	// QVZ is how long the driver waits for an acknowledging DLE
	// before treating a connect or block-ack attempt as failed.
	QVZ time.Duration
	// ZVZ is the inter-character timeout while receiving; it
	// restarts on every byte received during S5.
	ZVZ time.Duration
	// BWZ is the cooldown applied to SendAtTime after a block-ack
	// failure, before the next send attempt is eligible.
	BWZ time.Duration
	// CWZ is the cooldown applied to SendAtTime after a connect
	// failure.
	CWZ time.Duration
	// SPZ is the cooldown applied to SendAtTime after a successful
	// send; it does not gate receiving.
	SPZ time.Duration
	// SLP is the short pause before acking a peer's STX (conflict
	// yield) or a peer's frame (post-receive DLE). Must be strictly
	// less than the peer's own QVZ or the peer will time out waiting
	// for it.
	SLP time.Duration

	// MaxSend caps data-block re-sends before a telegram is
	// abandoned via OnWriteFail.
	MaxSend int
	// MaxConnect caps connection attempts before the same.
	MaxConnect int
}

// Default returns the 3964R-standard configuration: WITH_BCC, LOW
// priority, and the timing/retry defaults named in the protocol
// documentation.
func Default() Config {
	return Config{
		Priority:   Low,
		Mode:       WithBCC,
		QVZ:        2 * time.Second,
		ZVZ:        220 * time.Millisecond,
		BWZ:        4 * time.Second,
		CWZ:        3 * time.Second,
		SPZ:        500 * time.Millisecond,
		SLP:        100 * time.Millisecond,
		MaxSend:    6,
		MaxConnect: 6,
	}
}
