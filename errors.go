package go3964r

// DriverError is a small int-backed error type: a handful of named
// causes with a lookup-table Error() string, rather than ad hoc
// fmt.Errorf text.
type DriverError int8

const (
	ErrNone              DriverError = 0
	ErrIllegalArgument   DriverError = -1
	ErrUnexpectedByte    DriverError = -2
	ErrConnectTimeout    DriverError = -3
	ErrConnectWrongByte  DriverError = -4
	ErrBlockAckTimeout   DriverError = -5
	ErrBlockAckWrongByte DriverError = -6
	ErrPriorityDeadlock  DriverError = -7
	ErrInterCharTimeout  DriverError = -8
	ErrFrameInvalid      DriverError = -9
	ErrRetriesExhausted  DriverError = -10
)

var driverErrorText = map[DriverError]string{
	ErrNone:              "no error",
	ErrIllegalArgument:   "illegal argument",
	ErrUnexpectedByte:    "unexpected byte while idle, expected STX",
	ErrConnectTimeout:    "no response to connect STX within QVZ",
	ErrConnectWrongByte:  "peer responded to connect STX with a byte other than DLE",
	ErrBlockAckTimeout:   "no block acknowledgement within QVZ",
	ErrBlockAckWrongByte: "peer acknowledged block with a byte other than DLE",
	ErrPriorityDeadlock:  "both peers attempted to send with HIGH priority",
	ErrInterCharTimeout:  "no byte received within ZVZ while receiving",
	ErrFrameInvalid:      "received frame failed to decode or its BCC did not match",
	ErrRetriesExhausted:  "retry cap reached, telegram abandoned",
}

func (e DriverError) Error() string {
	if s, ok := driverErrorText[e]; ok {
		return s
	}
	return "unknown driver error"
}
