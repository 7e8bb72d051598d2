// Package telemetry records per-frame timings of a render run as CSV,
// Prometheus metrics and a summary.
package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

// FrameRecord is one row of the frame timing CSV.
type FrameRecord struct {
	RunID   string  `csv:"run_id"`
	Backend string  `csv:"backend"`
	Frame   int     `csv:"frame"`
	Paused  bool    `csv:"paused"`
	Millis  float64 `csv:"frame_ms"`
}

// Recorder collects frame durations for one run. The CSV writer and the
// metrics are both optional.
//
// Recorder is NOT safe for concurrent use.
type Recorder struct {
	runID   uuid.UUID
	backend string
	out     io.Writer
	metrics *Metrics

	headerWritten bool
	samples       []float64
}

// NewRecorder creates a Recorder with a fresh run id. out and m may be nil.
func NewRecorder(backend string, out io.Writer, m *Metrics) *Recorder {
	return &Recorder{
		runID:   uuid.New(),
		backend: backend,
		out:     out,
		metrics: m,
	}
}

// RunID returns the id stamped into every record.
func (r *Recorder) RunID() uuid.UUID { return r.runID }

// Record stores the duration of one frame.
func (r *Recorder) Record(frame int, paused bool, d time.Duration) error {
	ms := float64(d) / float64(time.Millisecond)
	r.samples = append(r.samples, ms)
	r.metrics.Observe(r.backend, d)

	if r.out == nil {
		return nil
	}
	records := []FrameRecord{{
		RunID:   r.runID.String(),
		Backend: r.backend,
		Frame:   frame,
		Paused:  paused,
		Millis:  ms,
	}}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.out); err != nil {
			return fmt.Errorf("telemetry: write frame: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
		return fmt.Errorf("telemetry: write frame: %w", err)
	}
	return nil
}

// Samples returns the recorded frame times in milliseconds.
func (r *Recorder) Samples() []float64 { return r.samples }

// Summary summarizes the recorded frame times.
func (r *Recorder) Summary() Summary { return Summarize(r.samples) }

// ReadRecords parses a CSV written by a Recorder.
func ReadRecords(in io.Reader) ([]FrameRecord, error) {
	var records []FrameRecord
	if err := gocsv.Unmarshal(in, &records); err != nil {
		return nil, fmt.Errorf("telemetry: read frames: %w", err)
	}
	return records, nil
}
