package looptest

import "go3964r"

// init registers this package's Port under the "loopback" transport
// name, so callers can obtain one through go3964r.OpenTransport
// without importing this package directly.
func init() {
	go3964r.RegisterTransport("loopback", func(address string) (go3964r.SerialPort, error) {
		return New(), nil
	})
}
