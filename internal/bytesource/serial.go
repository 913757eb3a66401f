// Package bytesource provides the observer's byte-source implementations:
// the core (internal/tap) only depends on the tap.ByteSource interface,
// never on these concrete transports.
package bytesource

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/term"
)

// Serial reads from a local serial port at a fixed baud rate, the
// wired-bus transport the observer is normally deployed against.
type Serial struct {
	fd      *term.Term
	readBuf []byte
}

// OpenSerial opens device at baud (e.g. 38400 for the wired bus, 8N1 is
// pkg/term's RawMode default) and returns a ready-to-read Serial source.
func OpenSerial(device string, baud int) (*Serial, error) {
	fd, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("bytesource: open serial %s: %w", device, err)
	}
	if err := fd.SetSpeed(baud); err != nil {
		fd.Close()
		return nil, fmt.Errorf("bytesource: set speed %d on %s: %w", baud, device, err)
	}
	return &Serial{fd: fd, readBuf: make([]byte, 4096)}, nil
}

// Next implements tap.ByteSource. The read itself is not cancellable
// (pkg/term has no deadline API); ctx is checked before issuing it so a
// canceled pipeline doesn't start a new blocking read.
func (s *Serial) Next(ctx context.Context) (time.Time, []byte, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, nil, ctx.Err()
	default:
	}

	n, err := s.fd.Read(s.readBuf)
	arrival := time.Now()
	if err != nil {
		return arrival, nil, err
	}
	chunk := make([]byte, n)
	copy(chunk, s.readBuf[:n])
	return arrival, chunk, nil
}

// Close releases the underlying serial port.
func (s *Serial) Close() error {
	return s.fd.Close()
}
