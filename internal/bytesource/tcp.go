package bytesource

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/time/rate"
)

// TCP bridges a remote bus exposed over a TCP connection (a gateway
// controller fronted by a serial-to-network adapter). On a read error it
// reconnects automatically, pacing attempts with a token-bucket limiter
// rather than a fixed sleep so a flapping link doesn't spin.
type TCP struct {
	addr    string
	conn    net.Conn
	limiter *rate.Limiter
	readBuf []byte
}

// DialTCP connects to addr and returns a ready-to-read TCP source.
// Reconnects after the initial connection are paced by limiter; pass nil
// for a sensible default of one attempt per second, burst one.
func DialTCP(ctx context.Context, addr string, limiter *rate.Limiter) (*TCP, error) {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	t := &TCP{addr: addr, limiter: limiter, readBuf: make([]byte, 4096)}
	if err := t.connect(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TCP) connect(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("bytesource: dial %s: %w", t.addr, err)
	}
	t.conn = conn
	return nil
}

// Next implements tap.ByteSource. A read error triggers a reconnect,
// rate-limited, before the next read is attempted; ctx cancellation during
// the backoff wait aborts the reconnect attempt.
func (t *TCP) Next(ctx context.Context) (time.Time, []byte, error) {
	for {
		n, err := t.conn.Read(t.readBuf)
		arrival := time.Now()
		if err == nil {
			chunk := make([]byte, n)
			copy(chunk, t.readBuf[:n])
			return arrival, chunk, nil
		}

		t.conn.Close()
		if werr := t.limiter.Wait(ctx); werr != nil {
			return arrival, nil, werr
		}
		if cerr := t.connect(ctx); cerr != nil {
			continue
		}
	}
}

// Close releases the underlying TCP connection.
func (t *TCP) Close() error {
	return t.conn.Close()
}
