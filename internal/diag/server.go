package diag

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmill/pvtap/internal/tap"
)

const ringCapacity = 256

// Server is a read-only HTTP diagnostics surface: health, Prometheus
// metrics, and ring-buffer snapshots of the raw byte, frame, and PV packet
// stages. Enabling it never alters event emission.
type Server struct {
	sessionID uuid.UUID
	startedAt time.Time

	raw       *ring
	frames    *ring
	pvpackets *ring

	router chi.Router
}

// NewServer returns a diagnostics server wired to the given Prometheus
// registry's metrics handler. Attach its taps to a tap.Pipeline with
// RawTap/FrameTap/SetPVPacketTap before running the pipeline.
func NewServer(reg *prometheus.Registry) *Server {
	s := &Server{
		sessionID: uuid.New(),
		startedAt: time.Now(),
		raw:       newRing(ringCapacity),
		frames:    newRing(ringCapacity),
		pvpackets: newRing(ringCapacity),
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/diag/raw", s.handleSnapshot(s.raw))
	r.Get("/diag/frames", s.handleSnapshot(s.frames))
	r.Get("/diag/pvpackets", s.handleSnapshot(s.pvpackets))
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RawTap mirrors one delimited, still-escaped raw frame into the raw-byte
// ring buffer, for use as a tap.Pipeline.RawTap.
func (s *Server) RawTap(dir tap.Direction, chunk []byte) {
	s.raw.push(fmt.Sprintf("%s %s %s", time.Now().Format(time.RFC3339Nano), dir, hex.EncodeToString(chunk)))
}

// FrameTap mirrors one decoded frame into the frame ring buffer, for use as
// a tap.Pipeline.FrameTap.
func (s *Server) FrameTap(f *tap.Frame) {
	s.frames.push(fmt.Sprintf("%s %s addr=0x%04X kind=0x%04X payload=%s bytes",
		time.Now().Format(time.RFC3339Nano), f.Direction, f.Address, f.Kind, humanize.Bytes(uint64(len(f.Payload)))))
}

// PVPacketTap mirrors one extracted PV packet into the pvpacket ring
// buffer, for use as a tap.SessionTracker.PVPacketTap (via
// tap.Pipeline.SetPVPacketTap).
func (s *Server) PVPacketTap(gw tap.GatewayID, pkt tap.PVPacket) {
	s.pvpackets.push(fmt.Sprintf("%s gateway=%s node=%s type=0x%02X data=%s bytes",
		time.Now().Format(time.RFC3339Nano), gw, pkt.Header.PvNodeID, pkt.Header.Type, humanize.Bytes(uint64(len(pkt.Data)))))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok session=%s uptime=%s\n", s.sessionID, humanize.RelTime(s.startedAt, time.Now(), "", ""))
}

func (s *Server) handleSnapshot(ring *ring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Session-ID", s.sessionID.String())
		for _, line := range ring.snapshot() {
			fmt.Fprintln(w, line)
		}
	}
}
