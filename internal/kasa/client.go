package kasa

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"
)

// Default timeouts for device communication.
const (
	// defaultConnectTimeout is the maximum time to wait for a TCP dial.
	defaultConnectTimeout = 5 * time.Second

	// defaultCommandTimeout bounds a full command round-trip
	// (dial + send + receive).
	defaultCommandTimeout = 10 * time.Second

	// defaultDiscoveryTimeout bounds broadcast discovery.
	defaultDiscoveryTimeout = 5 * time.Second

	// defaultPort is the TCP/UDP port Kasa devices listen on.
	defaultPort = 9999
)

// Config holds device communication settings.
type Config struct {
	// Port is the TCP/UDP port the device listens on. Default: 9999.
	Port int

	// ConnectTimeout is the maximum time to wait for a TCP dial.
	// Default: 5 seconds.
	ConnectTimeout time.Duration

	// CommandTimeout bounds a full command round-trip. Default: 10 seconds.
	CommandTimeout time.Duration

	// DiscoveryTimeout bounds broadcast discovery. Default: 5 seconds.
	DiscoveryTimeout time.Duration

	// DiscoveryAddress is the UDP address discovery probes are sent to.
	// Default: the limited broadcast address on Port.
	DiscoveryAddress string
}

// withDefaults returns a copy of cfg with zero values replaced by defaults.
func (cfg Config) withDefaults() Config {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = defaultCommandTimeout
	}
	if cfg.DiscoveryTimeout == 0 {
		cfg.DiscoveryTimeout = defaultDiscoveryTimeout
	}
	if cfg.DiscoveryAddress == "" {
		cfg.DiscoveryAddress = net.JoinHostPort("255.255.255.255", strconv.Itoa(cfg.Port))
	}
	return cfg
}

// OutletState is the live state of a single outlet.
type OutletState struct {
	// Index is the zero-based outlet position on the strip.
	Index int

	// Alias is the user-assigned outlet name.
	Alias string

	// On reports whether the outlet relay is closed.
	On bool
}

// Snapshot is a point-in-time view of the whole strip, produced by one
// get_sysinfo round-trip.
type Snapshot struct {
	Alias           string
	Model           string
	DeviceID        string
	SoftwareVersion string
	Outlets         []OutletState
}

// Strip is the capability boundary to a multi-outlet power device.
//
// api.Server depends on this interface rather than on *Client so tests can
// substitute a deterministic fake.
type Strip interface {
	// Snapshot performs one device query and returns the full strip state.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Outlet performs one device query and returns the state of a single
	// outlet. Indices outside [0, OutletCount) return ErrOutletNotFound.
	Outlet(ctx context.Context, id int) (OutletState, error)

	// SetOutlet switches one outlet on or off, blocking until the device
	// acknowledges. It does not retry on failure.
	SetOutlet(ctx context.Context, id int, on bool) error

	// OutletCount returns the number of outlets, fixed at connect time.
	OutletCount() int

	// Address returns the device network address.
	Address() string

	// Close releases the handle.
	Close() error
}

// Ensure Client implements Strip.
var _ Strip = (*Client)(nil)

// Logger interface for optional logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Client is a handle to one Kasa power strip.
//
// The device firmware closes the TCP socket after every reply, so each
// command is a fresh dial→send→receive round-trip. The firmware also
// misbehaves under concurrent connections, so all round-trips are
// serialized through a single mutex: at most one in-flight device
// operation exists process-wide, regardless of concurrent request volume.
//
// Thread Safety:
//   - All methods are safe for concurrent use; callers queue on the
//     command mutex for the duration of one round-trip.
type Client struct {
	addr string // host:port
	cfg  Config

	// Identity captured from the connect-time sysinfo. The outlet count
	// and child command ids are fixed for the Client's lifetime.
	deviceID string
	childIDs []string

	// mu serializes command round-trips on the wire.
	mu sync.Mutex

	logger   Logger
	loggerMu sync.RWMutex
}

// Connect establishes a handle to the strip at the given address.
//
// It performs an initial get_sysinfo round-trip as a handshake; the reply
// fixes the outlet count and per-outlet command identifiers for the life
// of the handle.
//
// Parameters:
//   - ctx: Context for cancellation of the handshake
//   - address: Device IP address or host (port taken from cfg)
//   - cfg: Communication settings (zero values use defaults)
//
// Returns:
//   - *Client: Connected handle ready for use
//   - error: ErrConnectionFailed if the device is unreachable or the
//     handshake fails, ErrNotAStrip if it reports no child outlets
func Connect(ctx context.Context, address string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	c := &Client{
		addr: net.JoinHostPort(address, strconv.Itoa(cfg.Port)),
		cfg:  cfg,
	}

	info, err := c.querySysinfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if len(info.Children) == 0 {
		return nil, fmt.Errorf("%w: %s at %s", ErrNotAStrip, info.Model, address)
	}

	c.deviceID = info.DeviceID
	c.childIDs = make([]string, len(info.Children))
	for i, child := range info.Children {
		c.childIDs[i] = childDeviceID(info.DeviceID, child)
	}

	return c, nil
}

// Snapshot performs one get_sysinfo round-trip and returns the full
// strip state. There is no caching: every call hits the device.
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	info, err := c.querySysinfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	snap := &Snapshot{
		Alias:           info.Alias,
		Model:           info.Model,
		DeviceID:        info.DeviceID,
		SoftwareVersion: info.SWVersion,
		Outlets:         make([]OutletState, len(info.Children)),
	}
	for i, child := range info.Children {
		snap.Outlets[i] = OutletState{
			Index: i,
			Alias: child.Alias,
			On:    child.State != 0,
		}
	}

	return snap, nil
}

// Outlet returns the live state of one outlet. Each call re-queries the
// device; the returned state reflects the reply, never a cache.
func (c *Client) Outlet(ctx context.Context, id int) (OutletState, error) {
	if id < 0 || id >= len(c.childIDs) {
		return OutletState{}, fmt.Errorf("%w: index %d", ErrOutletNotFound, id)
	}

	snap, err := c.Snapshot(ctx)
	if err != nil {
		return OutletState{}, err
	}
	if id >= len(snap.Outlets) {
		return OutletState{}, fmt.Errorf("%w: device reported %d outlets, want index %d",
			ErrInvalidResponse, len(snap.Outlets), id)
	}

	return snap.Outlets[id], nil
}

// SetOutlet switches a single outlet, blocking until the device
// acknowledges success or reports failure. No internal retry: a failure
// propagates to the caller, which owns any retry policy.
func (c *Client) SetOutlet(ctx context.Context, id int, on bool) error {
	if id < 0 || id >= len(c.childIDs) {
		return fmt.Errorf("%w: index %d", ErrOutletNotFound, id)
	}

	req, err := setRelayRequest([]string{c.childIDs[id]}, on)
	if err != nil {
		return err
	}

	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	result := resp.System.SetRelay
	if result == nil {
		return fmt.Errorf("%w: missing set_relay_state acknowledgement", ErrInvalidResponse)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("%w: err_code %d %s", ErrCommandFailed, result.ErrCode, result.ErrMsg)
	}

	c.logDebug("outlet switched", "outlet", id, "on", on)
	return nil
}

// OutletCount returns the number of outlets fixed at connect time.
func (c *Client) OutletCount() int {
	return len(c.childIDs)
}

// Address returns the device address the handle was connected to.
func (c *Client) Address() string {
	return c.addr
}

// Close releases the handle. The protocol has no session to tear down
// (every command dials its own connection), so this only exists to
// satisfy the Strip contract.
func (c *Client) Close() error {
	return nil
}

// SetLogger sets the logger for this client.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

// querySysinfo performs one get_sysinfo round-trip and validates the reply.
func (c *Client) querySysinfo(ctx context.Context) (*SysInfo, error) {
	resp, err := c.roundTrip(ctx, []byte(sysinfoRequest))
	if err != nil {
		return nil, err
	}

	info := resp.System.Sysinfo
	if info == nil {
		return nil, fmt.Errorf("%w: missing get_sysinfo body", ErrInvalidResponse)
	}
	if info.ErrCode != 0 {
		return nil, fmt.Errorf("%w: err_code %d", ErrCommandFailed, info.ErrCode)
	}

	return info, nil
}

// roundTrip sends one command and reads its reply over a fresh TCP
// connection, holding the command mutex for the whole exchange.
func (c *Client) roundTrip(ctx context.Context, plain []byte) (*deviceResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.cfg.CommandTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var dialer net.Dialer
	dialer.Timeout = c.cfg.ConnectTimeout
	conn, err := dialer.DialContext(dialCtx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if _, err := conn.Write(EncodeFrame(plain)); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	reply, err := ReadFrame(conn)
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}

	return parseResponse(reply)
}

// logDebug logs a debug message if a logger is set.
func (c *Client) logDebug(msg string, keysAndValues ...any) {
	c.loggerMu.RLock()
	logger := c.logger
	c.loggerMu.RUnlock()

	if logger != nil {
		logger.Debug(msg, keysAndValues...)
	}
}
