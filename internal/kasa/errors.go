package kasa

import "errors"

// Domain errors for the kasa package.
var (
	// ErrConnectionFailed is returned when the initial connection to a
	// device fails (unreachable host or handshake failure).
	ErrConnectionFailed = errors.New("kasa: connection to device failed")

	// ErrNoDeviceFound is returned when broadcast discovery finishes
	// without any multi-outlet device answering.
	ErrNoDeviceFound = errors.New("kasa: no power strip found on the network")

	// ErrNotAStrip is returned when the addressed device answers but
	// reports no child outlets.
	ErrNotAStrip = errors.New("kasa: device is not a multi-outlet strip")

	// ErrDeviceUnavailable is returned when a command round-trip fails
	// after the handle was established (transient I/O failure).
	ErrDeviceUnavailable = errors.New("kasa: device unavailable")

	// ErrOutletNotFound is returned for outlet indices outside [0, N).
	ErrOutletNotFound = errors.New("kasa: outlet not found")

	// ErrCommandFailed is returned when the device acknowledges a command
	// with a non-zero error code.
	ErrCommandFailed = errors.New("kasa: device rejected command")

	// ErrInvalidResponse is returned when a device reply cannot be decoded.
	ErrInvalidResponse = errors.New("kasa: invalid device response")
)
