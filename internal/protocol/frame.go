package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize caps a single frame at 1 MiB. A peer announcing a larger
// frame is treated as a protocol violation and disconnected.
const MaxFrameSize = 1 << 20

// ErrFrameTooLarge is returned when a frame exceeds MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// SendFrame writes one length-prefixed frame: a 4-byte big-endian length
// followed by the payload bytes. Errors indicate a severed or misbehaving
// connection.
func SendFrame(w io.Writer, data []byte) error {
	if len(data) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("writing frame prefix: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing frame body: %w", err)
	}
	return nil
}

// ReceiveFrame reads one length-prefixed frame. It blocks until a full frame
// is available and never returns a partial one; a short read means the
// connection is gone and surfaces as an error.
func ReceiveFrame(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("reading frame prefix: %w", err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("reading frame body: %w", err)
	}
	return data, nil
}

// SendEnvelope encodes env and writes it as one frame.
func SendEnvelope(w io.Writer, env *Envelope) error {
	data, err := env.Encode()
	if err != nil {
		return err
	}
	return SendFrame(w, data)
}

// ReceiveEnvelope reads one frame and decodes it as an envelope.
func ReceiveEnvelope(r io.Reader) (*Envelope, error) {
	data, err := ReceiveFrame(r)
	if err != nil {
		return nil, err
	}
	return DecodeEnvelope(data)
}
