// Command pvtap-replay decodes a previously captured raw-byte diagnostic
// log (as written by internal/diag's zstd capture writer) offline, without
// a live bus, emitting the same decoded event stream as pvtap-observer.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"

	"github.com/bitmill/pvtap/internal/logging"
	"github.com/bitmill/pvtap/internal/sink"
	"github.com/bitmill/pvtap/internal/tap"
)

func main() {
	var inputPath = pflag.StringP("input", "i", "", "Captured raw-byte log, zstd-compressed (required).")
	var outputPath = pflag.StringP("output", "o", "-", "Output path for decoded events, line-delimited JSON. \"-\" for stdout.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pvtap-replay - offline decode of a captured raw-byte diagnostic log.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pvtap-replay -i capture.zst [-o events.jsonl]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help || *inputPath == "" {
		pflag.Usage()
		if *inputPath == "" {
			os.Exit(1)
		}
		os.Exit(0)
	}

	logger := logging.For(logging.Pipeline)

	f, err := os.Open(*inputPath)
	if err != nil {
		logger.Fatal("failed to open capture", "err", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		logger.Fatal("failed to open zstd stream", "err", err)
	}
	defer dec.Close()

	out := os.Stdout
	if *outputPath != "" && *outputPath != "-" {
		created, err := os.Create(*outputPath)
		if err != nil {
			logger.Fatal("failed to open output", "err", err)
		}
		defer created.Close()
		out = created
	}

	errSink := tap.ErrorSinkFunc(func(err error) {
		logger.Warn("decode error", "err", err)
	})
	events := sink.NewJSONLSink(out)
	tracker := tap.NewSessionTracker(errSink, events)

	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var decodedCount, errorCount int
	for scanner.Scan() {
		raw, arrival, err := parseLine(scanner.Text())
		if err != nil {
			logger.Warn("skipping malformed capture line", "err", err)
			errorCount++
			continue
		}

		frame, err := tap.DecodeFrame(raw)
		if err != nil {
			errSink.ObserveError(err)
			errorCount++
			continue
		}
		tracker.HandleFrame(frame, arrival)
		decodedCount++
	}
	if err := scanner.Err(); err != nil {
		logger.Fatal("failed reading capture", "err", err)
	}

	logger.Info("replay complete", "frames", decodedCount, "errors", errorCount)
}

// parseLine reverses internal/diag's CaptureWriter line format:
// "<RFC3339Nano timestamp> <direction> <hex bytes>".
func parseLine(line string) (tap.RawFrame, time.Time, error) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) != 3 {
		return tap.RawFrame{}, time.Time{}, fmt.Errorf("replay: malformed capture line: %q", line)
	}

	arrival, err := time.Parse(time.RFC3339Nano, fields[0])
	if err != nil {
		return tap.RawFrame{}, time.Time{}, fmt.Errorf("replay: bad timestamp %q: %w", fields[0], err)
	}

	dir := parseDirection(fields[1])

	data, err := hex.DecodeString(fields[2])
	if err != nil {
		return tap.RawFrame{}, time.Time{}, fmt.Errorf("replay: bad hex payload: %w", err)
	}

	return tap.RawFrame{Direction: dir, Bytes: data}, arrival, nil
}

func parseDirection(s string) tap.Direction {
	switch s {
	case "to_gateway":
		return tap.DirectionToGateway
	case "from_gateway":
		return tap.DirectionFromGateway
	default:
		return tap.DirectionUnknown
	}
}
