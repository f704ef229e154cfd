package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// DefaultPingTimeout bounds a reachability check when ctx carries no deadline
const DefaultPingTimeout = 1500 * time.Millisecond

var schemePorts = map[string]string{
	"http":  "80",
	"ws":    "80",
	"https": "443",
	"wss":   "443",
}

// PingHost opens and closes a TCP connection to host:port
func PingHost(ctx context.Context, host, port string) error {
	if host == "" || port == "" {
		return errors.New("host and port are required")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPingTimeout)
		defer cancel()
	}

	address := net.JoinHostPort(host, port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingURL checks TCP reachability of the host in serviceURL. Without an
// explicit port the scheme's well-known port is used.
func PingURL(ctx context.Context, serviceURL string) error {
	parsed, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	port := parsed.Port()
	if port == "" {
		var ok bool
		if port, ok = schemePorts[parsed.Scheme]; !ok {
			return fmt.Errorf("no port in %q and unknown scheme %q", serviceURL, parsed.Scheme)
		}
	}

	return PingHost(ctx, parsed.Hostname(), port)
}
