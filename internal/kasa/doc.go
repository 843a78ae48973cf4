// Package kasa implements the device abstraction layer for TP-Link Kasa
// multi-outlet power strips (HS300 family).
//
// This package owns the single live connection to the strip and exposes:
//   - Broadcast discovery (Discover) and direct connection (Connect)
//   - Per-outlet query (Outlet, Snapshot)
//   - Per-outlet mutation (SetOutlet)
//
// # Wire Protocol
//
// Kasa devices speak JSON over TCP port 9999, obfuscated with an autokey
// XOR cipher (initial key 171). TCP frames carry a 4-byte big-endian
// plaintext length prefix; UDP discovery datagrams carry the bare
// ciphertext. The firmware closes the socket after each reply, so every
// command is an independent dial→send→receive round-trip.
//
// # Concurrency Contract
//
// The underlying device is not safe for concurrent command issuance. All
// round-trips are serialized through one mutex inside Client, so at most
// one device operation is in flight at any time; concurrent callers queue
// for the wire rather than racing on it.
//
// # Failure Model
//
// Connection establishment failures (ErrConnectionFailed, ErrNoDeviceFound)
// are fatal to outlet functionality for the process lifetime; the caller
// is expected to construct the handle exactly once at startup. Round-trip
// failures after that surface as ErrDeviceUnavailable and are never
// retried here; retry policy belongs to the caller.
package kasa
