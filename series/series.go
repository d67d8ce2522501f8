// Package series holds the epoch-level accelerometer time series that every
// analyzer consumes. A Series is built once per input file and read-only
// afterwards.
package series

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrEmpty is returned when a series with zero samples reaches any consumer.
var ErrEmpty = errors.New("epoch series is empty")

// Sample is one fixed-interval observation: acceleration magnitude in
// milligravity plus an upstream imputation flag.
type Sample struct {
	Magnitude float64 `json:"magnitude_mg"`
	Imputed   bool    `json:"imputed"`
}

// Series is an ordered, uniformly sampled sequence of epochs. ExpectedCount
// is derived from the declared recording span; a mismatch with the actual
// sample count is a data-quality signal, not an error.
type Series struct {
	ParticipantID string        `json:"participant_id"`
	Start         time.Time     `json:"start_time"`
	Interval      time.Duration `json:"sample_interval"`
	ExpectedCount int           `json:"expected_samples"`
	Samples       []Sample      `json:"-"`
}

// New validates the basic invariants and builds a Series. The sample slice is
// retained, not copied; callers must not mutate it afterwards.
func New(participantID string, start time.Time, interval time.Duration, samples []Sample) (*Series, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %s", interval)
	}
	if len(samples) == 0 {
		return nil, ErrEmpty
	}
	for i, s := range samples {
		if math.IsNaN(s.Magnitude) || math.IsInf(s.Magnitude, 0) {
			return nil, fmt.Errorf("sample %d has non-finite magnitude", i)
		}
		if s.Magnitude < 0 {
			return nil, fmt.Errorf("sample %d has negative magnitude %.3f mg", i, s.Magnitude)
		}
	}
	return &Series{
		ParticipantID: participantID,
		Start:         start,
		Interval:      interval,
		ExpectedCount: len(samples),
		Samples:       samples,
	}, nil
}

// Len returns the number of epochs.
func (s *Series) Len() int {
	return len(s.Samples)
}

// Timestamp returns the start time of epoch i.
func (s *Series) Timestamp(i int) time.Time {
	return s.Start.Add(time.Duration(i) * s.Interval)
}

// End returns the exclusive end of the recording (start of the epoch after
// the last sample).
func (s *Series) End() time.Time {
	return s.Timestamp(len(s.Samples))
}

// Duration returns the covered recording span.
func (s *Series) Duration() time.Duration {
	return time.Duration(len(s.Samples)) * s.Interval
}

// Epochs converts a duration into a whole number of epochs, never below one.
func (s *Series) Epochs(d time.Duration) int {
	n := int(d / s.Interval)
	if n < 1 {
		n = 1
	}
	return n
}

// Minutes converts an epoch count into minutes of recording time.
func (s *Series) Minutes(epochs int) float64 {
	return float64(epochs) * s.Interval.Seconds() / 60.0
}

// ImputedCount returns how many samples carry the imputation flag.
func (s *Series) ImputedCount() int {
	n := 0
	for _, smp := range s.Samples {
		if smp.Imputed {
			n++
		}
	}
	return n
}
