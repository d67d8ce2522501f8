package actinotes

import (
	"fmt"
	"time"

	"acti-analyzer/series"
)

// Analysis contains every derived metric for one accelerometer recording.
type Analysis struct {
	FilePath      string    `json:"file_path,omitempty"`
	ParticipantID string    `json:"participant_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`

	EpochSeconds  float64 `json:"epoch_seconds"`
	TotalEpochs   int     `json:"total_epochs"`
	DurationHours float64 `json:"duration_hours"`

	Wear     *WearResult     `json:"wear"`
	Quality  *QualityReport  `json:"quality"`
	Activity *ActivityResult `json:"activity"`
	Sleep    *SleepResult    `json:"sleep"`
	Daily    []DailySummary  `json:"daily"`

	Warnings []string `json:"warnings,omitempty"`
	Notes    string   `json:"notes"`
}

// Analyze runs the full pipeline over an epoch series: wear detection,
// activity classification, quality scoring, sleep detection, and the daily
// rollup, finishing with the narrative summary.
func Analyze(s *series.Series, cfg Config) (*Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if s == nil || s.Len() == 0 {
		return nil, series.ErrEmpty
	}

	wear := DetectWear(s, cfg)
	activity := ClassifyActivity(s, wear, cfg)
	quality := ScoreQuality(s, wear, activity.Hourly, cfg)
	sleep := DetectSleep(s, wear, cfg)
	daily := SummarizeDays(s, wear, activity, sleep)

	a := &Analysis{
		ParticipantID: s.ParticipantID,
		StartTime:     s.Start,
		EndTime:       s.End(),
		EpochSeconds:  s.Interval.Seconds(),
		TotalEpochs:   s.Len(),
		DurationHours: s.Duration().Hours(),
		Wear:          wear,
		Quality:       quality,
		Activity:      activity,
		Sleep:         sleep,
		Daily:         daily,
		Warnings:      wear.Warnings,
	}
	a.Notes = BuildParticipantNotes(a)
	return a, nil
}

// AnalyzeFile loads an epoch CSV and analyzes it.
func AnalyzeFile(path string, cfg Config) (*Analysis, error) {
	s, err := series.LoadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Analyze(s, cfg)
	if err != nil {
		return nil, err
	}
	a.FilePath = path
	return a, nil
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
