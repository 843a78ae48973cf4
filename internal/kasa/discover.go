package kasa

import (
	"context"
	"fmt"
	"net"
	"time"
)

// discoveryProbeInterval is how often the discovery probe is re-broadcast
// while waiting for an answer. Kasa firmware occasionally drops the first
// datagram, so a single probe is unreliable.
const discoveryProbeInterval = time.Second

// discoveryReadBuffer sizes the UDP receive buffer. Discovery replies are
// full sysinfo documents, comfortably under 4 KiB even on an HS300.
const discoveryReadBuffer = 4096

// Discover locates a Kasa power strip by UDP broadcast and connects to it.
//
// It broadcasts an encrypted get_sysinfo probe to cfg.DiscoveryAddress and
// waits up to cfg.DiscoveryTimeout for replies. Single-outlet devices are
// ignored; the first reply reporting child outlets wins and is handed to
// Connect for the normal handshake.
//
// Parameters:
//   - ctx: Context for cancellation
//   - cfg: Communication settings (zero values use defaults)
//
// Returns:
//   - *Client: Connected handle to the discovered strip
//   - error: ErrNoDeviceFound if nothing suitable answers in time
func Discover(ctx context.Context, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	target, err := net.ResolveUDPAddr("udp4", cfg.DiscoveryAddress)
	if err != nil {
		return nil, fmt.Errorf("resolve discovery address: %w", err)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("open discovery socket: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(cfg.DiscoveryTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set discovery deadline: %w", err)
	}

	// Discovery datagrams use the cipher without the TCP length prefix.
	probe := Encrypt([]byte(sysinfoRequest))

	if _, err := conn.WriteToUDP(probe, target); err != nil {
		return nil, fmt.Errorf("send discovery probe: %w", err)
	}
	nextProbe := time.Now().Add(discoveryProbeInterval)

	buf := make([]byte, discoveryReadBuffer)
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrNoDeviceFound, ctx.Err())
		default:
		}

		// Re-broadcast periodically while listening.
		if time.Now().After(nextProbe) {
			if _, err := conn.WriteToUDP(probe, target); err != nil {
				return nil, fmt.Errorf("send discovery probe: %w", err)
			}
			nextProbe = time.Now().Add(discoveryProbeInterval)
		}

		if err := conn.SetReadDeadline(minTime(time.Now().Add(discoveryProbeInterval), deadline)); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}

		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("%w: no reply within %s", ErrNoDeviceFound, cfg.DiscoveryTimeout)
			}
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue // probe window elapsed, re-broadcast
			}
			return nil, fmt.Errorf("read discovery reply: %w", err)
		}

		resp, err := parseResponse(Decrypt(buf[:n]))
		if err != nil || resp.System.Sysinfo == nil {
			continue // not a Kasa reply, keep listening
		}
		if len(resp.System.Sysinfo.Children) == 0 {
			continue // single-outlet device, not a strip
		}

		return Connect(ctx, from.IP.String(), cfg)
	}
}

// minTime returns the earlier of two times.
func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
