package kasa

import (
	"encoding/binary"
	"fmt"
	"io"
)

// initialKey is the starting key for the Kasa autokey XOR cipher.
const initialKey = 0xAB

// maxFrameSize is the largest reply frame accepted from a device. A full
// HS300 sysinfo document is well under 8 KiB; anything larger indicates a
// corrupted length prefix.
const maxFrameSize = 1 << 16

// Encrypt applies the Kasa autokey XOR cipher to a plaintext payload.
//
// Each output byte is the input byte XORed with the running key; the key
// then becomes the ciphertext byte just produced. The same scheme is used
// for TCP commands (with a length prefix) and UDP discovery (without).
func Encrypt(plain []byte) []byte {
	out := make([]byte, len(plain))
	key := byte(initialKey)
	for i, b := range plain {
		out[i] = b ^ key
		key = out[i]
	}
	return out
}

// Decrypt reverses the autokey XOR cipher. The running key is the previous
// ciphertext byte, so decryption chains on the input rather than the output.
func Decrypt(cipher []byte) []byte {
	out := make([]byte, len(cipher))
	key := byte(initialKey)
	for i, b := range cipher {
		out[i] = b ^ key
		key = b
	}
	return out
}

// EncodeFrame wraps an encrypted payload in the TCP wire framing:
// a 4-byte big-endian plaintext length followed by the ciphertext.
func EncodeFrame(plain []byte) []byte {
	frame := make([]byte, 4+len(plain))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(plain)))
	copy(frame[4:], Encrypt(plain))
	return frame
}

// ReadFrame reads one length-prefixed frame from r and returns the
// decrypted plaintext.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	size := binary.BigEndian.Uint32(header[:])
	if size == 0 || size > maxFrameSize {
		return nil, fmt.Errorf("%w: frame size %d out of range", ErrInvalidResponse, size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}

	return Decrypt(body), nil
}
