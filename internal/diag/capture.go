package diag

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/bitmill/pvtap/internal/tap"
)

// CaptureWriter persists the raw-byte diagnostic tap as a zstd-compressed
// stream to the writer it wraps (it does no file rotation of its own), one
// "<timestamp> <direction> <hex>\n" line per delimited raw frame that the
// pipeline's RawTap passes it. Enabling it is purely additive; it never
// feeds back into decoding.
type CaptureWriter struct {
	enc *zstd.Encoder
}

// NewCaptureWriter wraps w with a streaming zstd encoder.
func NewCaptureWriter(w io.Writer) (*CaptureWriter, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("diag: open capture writer: %w", err)
	}
	return &CaptureWriter{enc: enc}, nil
}

// Tap mirrors one delimited, still-escaped raw frame to the capture
// stream, for use as a tap.Pipeline.RawTap.
func (c *CaptureWriter) Tap(dir tap.Direction, chunk []byte) {
	fmt.Fprintf(c.enc, "%s %s %x\n", time.Now().Format(time.RFC3339Nano), dir, chunk)
}

// Close flushes and closes the underlying zstd stream.
func (c *CaptureWriter) Close() error {
	return c.enc.Close()
}
