// Command pvtap-observer passively taps a PV gateway's wired or wireless
// bus and emits decoded session events as line-delimited JSON.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"github.com/bitmill/pvtap/internal/bytesource"
	"github.com/bitmill/pvtap/internal/config"
	"github.com/bitmill/pvtap/internal/diag"
	"github.com/bitmill/pvtap/internal/logging"
	"github.com/bitmill/pvtap/internal/sink"
	"github.com/bitmill/pvtap/internal/store"
	"github.com/bitmill/pvtap/internal/tap"
)

func main() {
	var configFile = pflag.StringP("config-file", "c", "", "YAML configuration file.")
	var serialDevice = pflag.StringP("serial-device", "s", "", "Serial device to read the bus from (e.g. /dev/ttyUSB0). Overrides config.")
	var serialBaud = pflag.IntP("serial-baud", "b", 0, "Serial baud rate. 0 keeps the config/default value.")
	var tcpAddress = pflag.StringP("tcp-address", "t", "", "TCP address of a network byte source (host:port). Overrides config.")
	var outputPath = pflag.StringP("output", "o", "", "Output path for decoded events, line-delimited JSON. \"-\" for stdout. Overrides config.")
	var diagAddress = pflag.StringP("diag-address", "d", "", "Diagnostics HTTP server address; setting it enables the server. Empty keeps the config value.")
	var storePath = pflag.StringP("store", "", "", "SQLite path for node-table persistence. Empty keeps the config value.")
	var verbose = pflag.BoolP("verbose", "v", false, "Debug-level logging.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pvtap-observer - passive PV gateway bus decoder and session tracker.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pvtap-observer [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *serialDevice != "" {
		cfg.Serial.Device = *serialDevice
	}
	if *serialBaud != 0 {
		cfg.Serial.Baud = *serialBaud
	}
	if *tcpAddress != "" {
		cfg.TCP.Address = *tcpAddress
	}
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}
	if *diagAddress != "" {
		cfg.Diag.Enabled = true
		cfg.Diag.Address = *diagAddress
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}

	if *verbose {
		logging.SetLevel(log.DebugLevel)
	}
	logger := logging.For(logging.Pipeline)

	sessionID := uuid.New()
	logger.Info("starting", "session", sessionID)

	var st *store.Store
	if cfg.Store.Path != "" {
		opened, err := store.Open(cfg.Store.Path)
		if err != nil {
			logger.Fatal("failed to open node-table store", "err", err)
		}
		st = opened
		defer st.Close()
	}

	events, closeEvents, err := buildEventSink(cfg, st)
	if err != nil {
		logger.Fatal("failed to build event sink", "err", err)
	}
	defer closeEvents()

	errSink := tap.ErrorSinkFunc(func(err error) {
		logging.For(logging.Session).Warn("decode error", "err", err)
	})

	var counters *diag.Counters
	var diagServer *diag.Server
	if cfg.Diag.Enabled {
		reg := prometheus.NewRegistry()
		counters = diag.NewCounters(reg)
		diagServer = diag.NewServer(reg)
		errSink = tap.ErrorSinkFunc(func(err error) {
			logging.For(logging.Session).Warn("decode error", "err", err)
			counters.ObserveError(err)
		})
	}

	pipeline := tap.NewPipeline(errSink, events)

	if st != nil {
		bindings, err := st.LoadBindings()
		if err != nil {
			logger.Warn("failed to load persisted node bindings", "err", err)
		}
		for _, b := range bindings {
			addr, err := tap.ParsePVLongAddress(b.LongAddress)
			if err != nil {
				logger.Warn("skipping malformed persisted node binding", "err", err)
				continue
			}
			pipeline.SeedNodeBinding(b.Gateway, b.Node, addr)
		}
		logger.Info("seeded node bindings from store", "count", len(bindings))
	}

	if diagServer != nil {
		pipeline.RawTap = diagServer.RawTap
		pipeline.FrameTap = func(f *tap.Frame) {
			diagServer.FrameTap(f)
			counters.ObserveFrame()
		}
		pipeline.SetPVPacketTap(diagServer.PVPacketTap)

		go func() {
			logger.Info("diagnostics server listening", "address", cfg.Diag.Address)
			if err := startDiagServer(cfg.Diag.Address, diagServer); err != nil {
				logger.Error("diagnostics server stopped", "err", err)
			}
		}()
	}

	src, closeSrc, err := buildByteSource(cfg)
	if err != nil {
		logger.Fatal("failed to open byte source", "err", err)
	}
	defer closeSrc()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := pipeline.Run(ctx, src); err != nil {
		logger.Error("pipeline stopped", "err", err)
	}
	logger.Info("stopping", "session", sessionID)
}

func startDiagServer(address string, s *diag.Server) error {
	return http.ListenAndServe(address, s)
}

func buildByteSource(cfg config.Config) (tap.ByteSource, func(), error) {
	switch {
	case cfg.Serial.Device != "":
		s, err := bytesource.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			return nil, func() {}, err
		}
		return s, func() { s.Close() }, nil

	case cfg.TCP.Address != "":
		limiter := rate.NewLimiter(rate.Every(time.Second), 1)
		c, err := bytesource.DialTCP(context.Background(), cfg.TCP.Address, limiter)
		if err != nil {
			return nil, func() {}, err
		}
		return c, func() { c.Close() }, nil

	default:
		return nil, func() {}, fmt.Errorf("no byte source configured: set serial.device or tcp.address")
	}
}

func buildEventSink(cfg config.Config, st *store.Store) (tap.EventSink, func(), error) {
	var out = os.Stdout
	closeFn := func() {}
	if cfg.Output.Path != "" && cfg.Output.Path != "-" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open output: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	sinks := []tap.EventSink{sink.NewJSONLSink(out)}
	if st != nil {
		sinks = append(sinks, bindingPersister{store: st})
	}

	return sink.NewMultiSink(sinks...), closeFn, nil
}

// bindingPersister writes every node-table binding back to the store as
// soon as it's learned (from a node-table response, the protocol's own
// source of truth for node identity), not as it happens to surface later
// via an enriched power report.
type bindingPersister struct {
	store *store.Store
}

func (b bindingPersister) Emit(e tap.Event) {
	nt, ok := e.(tap.NodeTableEvent)
	if !ok {
		return
	}
	for _, entry := range nt.Entries {
		if err := b.store.SaveBinding(nt.Gateway, entry.PvNodeID, entry.LongAddress); err != nil {
			logging.For(logging.Store).Warn("failed to persist node binding", "err", err)
		}
	}
}
