// Package diag exposes Prometheus counters and a read-only diagnostics
// HTTP server for the observer process.
package diag

import (
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bitmill/pvtap/internal/tap"
)

// Counters implements tap.ErrorSink, counting observed errors by taxonomy
// class (the concrete Go type name) as a Prometheus counter vector, and
// separately tracks frame/event throughput.
type Counters struct {
	errors   *prometheus.CounterVec
	frames   prometheus.Counter
	events   *prometheus.CounterVec
	rawBytes prometheus.Counter
}

// NewCounters registers the observer's metrics against reg. Pass
// prometheus.DefaultRegisterer for the global registry.
func NewCounters(reg prometheus.Registerer) *Counters {
	factory := promauto.With(reg)
	return &Counters{
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pvtap",
			Name:      "decode_errors_total",
			Help:      "Recoverable decode errors observed, by taxonomy class.",
		}, []string{"class"}),
		frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pvtap",
			Name:      "frames_decoded_total",
			Help:      "Gateway frames successfully decoded off the wire.",
		}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pvtap",
			Name:      "events_emitted_total",
			Help:      "Session events emitted to sinks, by event kind.",
		}, []string{"kind"}),
		rawBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pvtap",
			Name:      "raw_bytes_total",
			Help:      "Raw bytes read from the byte source.",
		}),
	}
}

// ObserveError implements tap.ErrorSink.
func (c *Counters) ObserveError(err error) {
	if err == nil {
		return
	}
	c.errors.WithLabelValues(errorClass(err)).Inc()
}

// ObserveFrame records one successfully decoded gateway frame.
func (c *Counters) ObserveFrame() {
	c.frames.Inc()
}

// ObserveEvent records one emitted session event, tagged by its Go type
// name (e.g. "PowerReportEvent").
func (c *Counters) ObserveEvent(e tap.Event) {
	c.events.WithLabelValues(reflect.TypeOf(e).Name()).Inc()
}

// ObserveRawBytes records n raw bytes read from the byte source.
func (c *Counters) ObserveRawBytes(n int) {
	c.rawBytes.Add(float64(n))
}

func errorClass(err error) string {
	t := reflect.TypeOf(err)
	if t == nil {
		return "unknown"
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
