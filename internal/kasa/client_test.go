package kasa

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeStripDevice emulates an HS300 on loopback: one TCP listener speaking
// the framed cipher protocol (connection closed after each reply, like the
// real firmware) and an optional UDP responder for discovery.
type fakeStripDevice struct {
	t  *testing.T
	ln net.Listener

	mu       sync.Mutex
	alias    string
	model    string
	deviceID string
	states   []bool
	aliases  []string
	relayErr int // err_code returned for set_relay_state
	queries  int // completed get_sysinfo round-trips
	mutates  int // completed set_relay_state round-trips
}

func newFakeStripDevice(t *testing.T, outlets int) *fakeStripDevice {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	d := &fakeStripDevice{
		t:        t,
		ln:       ln,
		alias:    "Bench Strip",
		model:    "HS300(US)",
		deviceID: "8006A1B2C3D4E5F6",
		states:   make([]bool, outlets),
		aliases:  make([]string, outlets),
	}
	for i := range d.aliases {
		d.aliases[i] = "Plug " + strconv.Itoa(i)
	}

	go d.acceptLoop()
	t.Cleanup(func() { ln.Close() })

	return d
}

// addr returns the loopback IP; port returns the listening TCP port.
func (d *fakeStripDevice) addr() string { return "127.0.0.1" }

func (d *fakeStripDevice) port() int {
	return d.ln.Addr().(*net.TCPAddr).Port
}

func (d *fakeStripDevice) config() Config {
	return Config{
		Port:           d.port(),
		ConnectTimeout: time.Second,
		CommandTimeout: 2 * time.Second,
	}
}

func (d *fakeStripDevice) acceptLoop() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		go d.handle(conn)
	}
}

func (d *fakeStripDevice) handle(conn net.Conn) {
	defer conn.Close()

	plain, err := ReadFrame(conn)
	if err != nil {
		return
	}

	var req struct {
		Context struct {
			ChildIDs []string `json:"child_ids"`
		} `json:"context"`
		System struct {
			GetSysinfo *struct{} `json:"get_sysinfo"`
			SetRelay   *struct {
				State int `json:"state"`
			} `json:"set_relay_state"`
		} `json:"system"`
	}
	if err := json.Unmarshal(plain, &req); err != nil {
		return
	}

	var reply []byte
	switch {
	case req.System.SetRelay != nil:
		reply = d.handleSetRelay(req.Context.ChildIDs, req.System.SetRelay.State != 0)
	case req.System.GetSysinfo != nil:
		reply = d.handleSysinfo()
	default:
		return
	}

	conn.Write(EncodeFrame(reply)) //nolint:errcheck // fake device, best effort
}

func (d *fakeStripDevice) handleSysinfo() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.queries++

	children := make([]map[string]any, len(d.states))
	for i, on := range d.states {
		state := 0
		if on {
			state = 1
		}
		// Real firmware reports the short two-digit suffix here.
		children[i] = map[string]any{
			"id":    "0" + strconv.Itoa(i),
			"state": state,
			"alias": d.aliases[i],
		}
	}

	doc := map[string]any{
		"system": map[string]any{
			"get_sysinfo": map[string]any{
				"sw_ver":    "1.0.6",
				"model":     d.model,
				"deviceId":  d.deviceID,
				"alias":     d.alias,
				"child_num": len(d.states),
				"children":  children,
				"err_code":  0,
			},
		},
	}

	data, _ := json.Marshal(doc)
	return data
}

func (d *fakeStripDevice) handleSetRelay(childIDs []string, on bool) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mutates++

	if d.relayErr == 0 {
		for _, id := range childIDs {
			// Child ids arrive as deviceID + two-digit suffix.
			if len(id) < 2 {
				continue
			}
			idx, err := strconv.Atoi(id[len(id)-2:])
			if err == nil && idx >= 0 && idx < len(d.states) {
				d.states[idx] = on
			}
		}
	}

	doc := map[string]any{
		"system": map[string]any{
			"set_relay_state": map[string]any{
				"err_code": d.relayErr,
			},
		},
	}

	data, _ := json.Marshal(doc)
	return data
}

func (d *fakeStripDevice) stats() (queries, mutates int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queries, d.mutates
}

// ─── Connect ───────────────────────────────────────────────────────

func TestConnect(t *testing.T) {
	dev := newFakeStripDevice(t, 6)

	client, err := Connect(context.Background(), dev.addr(), dev.config())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if got := client.OutletCount(); got != 6 {
		t.Errorf("OutletCount() = %d, want 6", got)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	// Port from a just-closed listener: nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = Connect(context.Background(), "127.0.0.1", Config{
		Port:           port,
		ConnectTimeout: 500 * time.Millisecond,
		CommandTimeout: 500 * time.Millisecond,
	})
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestConnect_SinglePlugRejected(t *testing.T) {
	dev := newFakeStripDevice(t, 0) // sysinfo with no children

	_, err := Connect(context.Background(), dev.addr(), dev.config())
	if !errors.Is(err, ErrNotAStrip) {
		t.Errorf("Connect() error = %v, want ErrNotAStrip", err)
	}
}

// ─── Query ─────────────────────────────────────────────────────────

func TestSnapshot(t *testing.T) {
	dev := newFakeStripDevice(t, 3)
	dev.states[1] = true

	client, err := Connect(context.Background(), dev.addr(), dev.config())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	snap, err := client.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if snap.Model != "HS300(US)" {
		t.Errorf("Model = %q, want HS300(US)", snap.Model)
	}
	if len(snap.Outlets) != 3 {
		t.Fatalf("len(Outlets) = %d, want 3", len(snap.Outlets))
	}
	if snap.Outlets[0].On || !snap.Outlets[1].On || snap.Outlets[2].On {
		t.Errorf("outlet states = %v/%v/%v, want off/on/off",
			snap.Outlets[0].On, snap.Outlets[1].On, snap.Outlets[2].On)
	}
	if snap.Outlets[2].Index != 2 {
		t.Errorf("Outlets[2].Index = %d, want 2", snap.Outlets[2].Index)
	}
}

func TestOutlet_RequeriesDevice(t *testing.T) {
	dev := newFakeStripDevice(t, 2)

	client, err := Connect(context.Background(), dev.addr(), dev.config())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	connectQueries, _ := dev.stats()

	for i := 0; i < 3; i++ {
		if _, err := client.Outlet(context.Background(), 0); err != nil {
			t.Fatalf("Outlet() error = %v", err)
		}
	}

	queries, _ := dev.stats()
	if got := queries - connectQueries; got != 3 {
		t.Errorf("device queries after 3 reads = %d, want 3 (no caching)", got)
	}
}

func TestOutlet_OutOfRange(t *testing.T) {
	dev := newFakeStripDevice(t, 2)

	client, err := Connect(context.Background(), dev.addr(), dev.config())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	for _, id := range []int{-1, 2, 99} {
		if _, err := client.Outlet(context.Background(), id); !errors.Is(err, ErrOutletNotFound) {
			t.Errorf("Outlet(%d) error = %v, want ErrOutletNotFound", id, err)
		}
	}
}

func TestQuery_DeviceGone(t *testing.T) {
	dev := newFakeStripDevice(t, 2)

	cfg := dev.config()
	cfg.ConnectTimeout = 300 * time.Millisecond
	cfg.CommandTimeout = 300 * time.Millisecond
	client, err := Connect(context.Background(), dev.addr(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	dev.ln.Close() // device drops off the network

	if _, err := client.Snapshot(context.Background()); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Snapshot() error = %v, want ErrDeviceUnavailable", err)
	}
	if err := client.SetOutlet(context.Background(), 0, true); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("SetOutlet() error = %v, want ErrDeviceUnavailable", err)
	}
}

// ─── Mutation ──────────────────────────────────────────────────────

func TestSetOutlet(t *testing.T) {
	dev := newFakeStripDevice(t, 6)

	client, err := Connect(context.Background(), dev.addr(), dev.config())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := client.SetOutlet(context.Background(), 4, true); err != nil {
		t.Fatalf("SetOutlet(4, on) error = %v", err)
	}

	st, err := client.Outlet(context.Background(), 4)
	if err != nil {
		t.Fatalf("Outlet(4) error = %v", err)
	}
	if !st.On {
		t.Error("outlet 4 not on after SetOutlet")
	}

	// Neighbouring outlets untouched
	st, err = client.Outlet(context.Background(), 3)
	if err != nil {
		t.Fatalf("Outlet(3) error = %v", err)
	}
	if st.On {
		t.Error("outlet 3 switched by command scoped to outlet 4")
	}
}

func TestSetOutlet_DeviceRejects(t *testing.T) {
	dev := newFakeStripDevice(t, 2)

	client, err := Connect(context.Background(), dev.addr(), dev.config())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	dev.mu.Lock()
	dev.relayErr = -3
	dev.mu.Unlock()

	if err := client.SetOutlet(context.Background(), 0, true); !errors.Is(err, ErrCommandFailed) {
		t.Errorf("SetOutlet() error = %v, want ErrCommandFailed", err)
	}
}

func TestSetOutlet_OutOfRange(t *testing.T) {
	dev := newFakeStripDevice(t, 2)

	client, err := Connect(context.Background(), dev.addr(), dev.config())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	_, baseline := dev.stats()

	if err := client.SetOutlet(context.Background(), 7, true); !errors.Is(err, ErrOutletNotFound) {
		t.Errorf("SetOutlet(7) error = %v, want ErrOutletNotFound", err)
	}

	if _, mutates := dev.stats(); mutates != baseline {
		t.Error("out-of-range SetOutlet reached the device")
	}
}

func TestSetOutlet_SerializedOnTheWire(t *testing.T) {
	dev := newFakeStripDevice(t, 6)

	client, err := Connect(context.Background(), dev.addr(), dev.config())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	// Hammer the handle from many goroutines; the command mutex must keep
	// every round-trip intact (the fake closes each connection after one
	// reply, so interleaved writes would surface as errors).
	var wg sync.WaitGroup
	errs := make(chan error, 24)
	for i := 0; i < 24; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- client.SetOutlet(context.Background(), n%6, n%2 == 0)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent SetOutlet error = %v", err)
		}
	}

	if _, mutates := dev.stats(); mutates != 24 {
		t.Errorf("device saw %d mutations, want 24", mutates)
	}
}

// ─── Discovery ─────────────────────────────────────────────────────

// startDiscoveryResponder answers UDP discovery probes on loopback with the
// fake device's sysinfo, mimicking real strips on the LAN.
func startDiscoveryResponder(t *testing.T, dev *fakeStripDevice) string {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 4096)
		for {
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			plain := Decrypt(buf[:n])
			var req map[string]any
			if json.Unmarshal(plain, &req) != nil {
				continue
			}
			conn.WriteToUDP(Encrypt(dev.handleSysinfo()), from) //nolint:errcheck // fake device
		}
	}()

	return conn.LocalAddr().String()
}

func TestDiscover(t *testing.T) {
	dev := newFakeStripDevice(t, 6)

	cfg := dev.config()
	cfg.DiscoveryAddress = startDiscoveryResponder(t, dev)
	cfg.DiscoveryTimeout = 2 * time.Second

	client, err := Discover(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	defer client.Close()

	if got := client.OutletCount(); got != 6 {
		t.Errorf("OutletCount() = %d, want 6", got)
	}
}

func TestDiscover_Timeout(t *testing.T) {
	// A silent UDP socket: probes land, nothing answers.
	silent, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	defer silent.Close()

	_, err = Discover(context.Background(), Config{
		DiscoveryAddress: silent.LocalAddr().String(),
		DiscoveryTimeout: 500 * time.Millisecond,
	})
	if !errors.Is(err, ErrNoDeviceFound) {
		t.Errorf("Discover() error = %v, want ErrNoDeviceFound", err)
	}
}
