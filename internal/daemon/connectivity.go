package daemon

import (
	"context"
	"net"
	"time"
)

// ConnectivityProbe returns a check that dials the configured host:port
// to decide whether the network is reachable before admitting deferred
// sync requests.
func ConnectivityProbe(address string, timeout time.Duration) func(ctx context.Context) bool {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	dialer := &net.Dialer{Timeout: timeout}
	return func(ctx context.Context) bool {
		if address == "" {
			return true
		}
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}
}
