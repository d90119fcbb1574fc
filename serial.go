package go3964r

import "fmt"

// FlushDirection selects which direction of a SerialPort to discard
// buffered bytes from.
type FlushDirection int

const (
	FlushInput FlushDirection = iota
	FlushOutput
	FlushBoth
)

// SerialPort is the external collaborator that owns the physical (or
// virtual) byte channel to the peer. The driver never blocks on it:
// ReadByte must be non-blocking and report false when nothing is
// available yet.
type SerialPort interface {
	// Available reports whether a byte is ready to read, without
	// consuming it. Used by S4 to detect the peer's first data byte
	// and hand it to S5 unconsumed.
	Available() bool
	// ReadByte returns the next available byte and true, or false if
	// none is currently available.
	ReadByte() (byte, bool)
	// Write sends p in full, or returns an error.
	Write(p []byte) (int, error)
	// Flush discards buffered bytes in the given direction.
	Flush(direction FlushDirection) error
}

// Transport is a named constructor for a SerialPort, registered so
// alternate transports (a loopback test double, a TCP-tunneled serial
// bridge) can be selected by name without the core package importing
// them directly.
type Transport func(address string) (SerialPort, error)

var transports = map[string]Transport{}

// RegisterTransport makes a Transport available under name. It panics
// on a duplicate name, since duplicate registration only happens as a
// result of a programming error at init time.
func RegisterTransport(name string, t Transport) {
	if _, exists := transports[name]; exists {
		panic(fmt.Sprintf("go3964r: transport %q already registered", name))
	}
	transports[name] = t
}

// OpenTransport looks up a Transport registered under name and calls
// it with address.
func OpenTransport(name, address string) (SerialPort, error) {
	t, ok := transports[name]
	if !ok {
		return nil, fmt.Errorf("go3964r: no transport registered under %q", name)
	}
	return t(address)
}
