package actinotes

import (
	"fmt"
	"math"
	"time"

	"acti-analyzer/series"
)

// NonWearSegment is a maximal run of epochs classified as not worn.
// EndIndex is inclusive.
type NonWearSegment struct {
	StartIndex int           `json:"start_index"`
	EndIndex   int           `json:"end_index"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	Duration   time.Duration `json:"-"`
	DurationH  float64       `json:"duration_hours"`
}

// WearResult carries the per-epoch wear mask plus its segment summary.
type WearResult struct {
	Mask          []bool           `json:"-"`
	Segments      []NonWearSegment `json:"non_wear_segments"`
	WornEpochs    int              `json:"worn_epochs"`
	TotalEpochs   int              `json:"total_epochs"`
	CompliancePct float64          `json:"compliance_pct"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// DetectWear classifies every epoch as worn or not worn using the standard
// deviation of magnitude over a trailing window. An epoch is worn when the
// trailing std meets the threshold; stretches of near-constant signal read
// as the device lying still. Interior non-wear runs shorter than the minimum
// non-wear duration are re-labelled as worn; runs touching either boundary
// are kept regardless of length.
func DetectWear(s *series.Series, cfg Config) *WearResult {
	n := s.Len()
	res := &WearResult{
		Mask:        make([]bool, n),
		TotalEpochs: n,
	}
	window := s.Epochs(cfg.WearWindow)
	if n < window {
		for i := range res.Mask {
			res.Mask[i] = true
		}
		res.WornEpochs = n
		res.CompliancePct = 100
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"recording shorter than wear window (%d epochs < %d), wear detection skipped", n, window))
		return res
	}

	// Trailing rolling std with sample variance (ddof=1). The window at
	// epoch i spans [i-window+1, i], truncated at the start of the series.
	// A single-epoch window has no defined std and is treated as zero.
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		m := s.Samples[i].Magnitude
		sum += m
		sumSq += m * m
		count := i + 1
		if count > window {
			old := s.Samples[i-window].Magnitude
			sum -= old
			sumSq -= old * old
			count = window
		}
		if count < 2 {
			continue
		}
		mean := sum / float64(count)
		variance := (sumSq - float64(count)*mean*mean) / float64(count-1)
		if variance < 0 {
			variance = 0
		}
		res.Mask[i] = math.Sqrt(variance) >= cfg.WearStdThresholdMG
	}

	minRun := s.Epochs(cfg.MinNonWearDuration)
	reclassifyShortGaps(res.Mask, minRun)

	for i := 0; i < n; {
		if res.Mask[i] {
			res.WornEpochs++
			i++
			continue
		}
		j := i
		for j < n && !res.Mask[j] {
			j++
		}
		seg := NonWearSegment{
			StartIndex: i,
			EndIndex:   j - 1,
			Start:      s.Timestamp(i),
			End:        s.Timestamp(j - 1).Add(s.Interval),
			Duration:   time.Duration(j-i) * s.Interval,
		}
		seg.DurationH = seg.Duration.Hours()
		res.Segments = append(res.Segments, seg)
		i = j
	}
	if res.TotalEpochs > 0 {
		res.CompliancePct = float64(res.WornEpochs) / float64(res.TotalEpochs) * 100
	}
	return res
}

// reclassifyShortGaps flips interior non-wear runs shorter than minRun back
// to worn. Runs touching the first or last epoch are left alone.
func reclassifyShortGaps(mask []bool, minRun int) {
	n := len(mask)
	for i := 0; i < n; {
		if mask[i] {
			i++
			continue
		}
		j := i
		for j < n && !mask[j] {
			j++
		}
		if i > 0 && j < n && j-i < minRun {
			for k := i; k < j; k++ {
				mask[k] = true
			}
		}
		i = j
	}
}
