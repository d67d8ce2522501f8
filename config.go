package actinotes

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Weights controls the quality composite. Values must sum to 1.
type Weights struct {
	Completeness       float64 `yaml:"completeness" json:"completeness"`
	WearCompliance     float64 `yaml:"wear_compliance" json:"wear_compliance"`
	Integrity          float64 `yaml:"integrity" json:"integrity"`
	PatternConsistency float64 `yaml:"pattern_consistency" json:"pattern_consistency"`
}

// Config is the immutable run-scoped threshold set consumed by every
// analyzer. Build it with DefaultConfig, optionally override from YAML, and
// validate before use; out-of-range values are rejected, never clamped.
type Config struct {
	// Wear detection.
	WearWindow         time.Duration `yaml:"wear_window"`
	WearStdThresholdMG float64       `yaml:"wear_std_threshold_mg"`
	MinNonWearDuration time.Duration `yaml:"min_non_wear_duration"`

	// Activity cut-points in mg. Sedentary is everything below LightMinMG.
	LightMinMG    float64 `yaml:"light_min_mg"`
	ModerateMinMG float64 `yaml:"moderate_min_mg"`
	VigorousMinMG float64 `yaml:"vigorous_min_mg"`

	// Bout detection.
	MinBoutDuration           time.Duration `yaml:"min_bout_duration"`
	BoutInterruptionTolerance time.Duration `yaml:"bout_interruption_tolerance"`
	WeeklyMVPATargetMinutes   float64       `yaml:"weekly_mvpa_target_minutes"`
	StepsPerMVPAMinute        float64       `yaml:"steps_per_mvpa_minute"`

	// Sleep detection.
	SleepInactiveThresholdMG float64       `yaml:"sleep_inactive_threshold_mg"`
	MinRestDuration          time.Duration `yaml:"min_rest_duration"`
	SleepMergeGap            time.Duration `yaml:"sleep_merge_gap"`
	SleepWindowStartHour     int           `yaml:"sleep_window_start_hour"`
	SleepWindowEndHour       int           `yaml:"sleep_window_end_hour"`
	MinSleepDuration         time.Duration `yaml:"min_sleep_duration"`
	MaxSleepDuration         time.Duration `yaml:"max_sleep_duration"`
	AwakeningThresholdMG     float64       `yaml:"awakening_threshold_mg"`

	// Quality scoring.
	OutlierCeilingMG      float64 `yaml:"outlier_ceiling_mg"`
	OutlierSDLimit        float64 `yaml:"outlier_sd_limit"`
	OutlierWarnPct        float64 `yaml:"outlier_warn_pct"`
	DayNightContrastRatio float64 `yaml:"day_night_contrast_ratio"`
	DayStartHour          int     `yaml:"day_start_hour"`
	DayEndHour            int     `yaml:"day_end_hour"`
	NightStartHour        int     `yaml:"night_start_hour"`
	NightEndHour          int     `yaml:"night_end_hour"`
	QualityWeights        Weights `yaml:"quality_weights"`
	MinUsableScore        float64 `yaml:"min_usable_score"`
	MinCompliancePct      float64 `yaml:"min_compliance_pct"`
}

// DefaultConfig returns the standard research thresholds.
func DefaultConfig() Config {
	return Config{
		WearWindow:         30 * time.Minute,
		WearStdThresholdMG: 1.0,
		MinNonWearDuration: 30 * time.Minute,

		LightMinMG:    5,
		ModerateMinMG: 40,
		VigorousMinMG: 100,

		MinBoutDuration:           10 * time.Minute,
		BoutInterruptionTolerance: 2 * time.Minute,
		WeeklyMVPATargetMinutes:   150,
		StepsPerMVPAMinute:        100,

		SleepInactiveThresholdMG: 10,
		MinRestDuration:          60 * time.Minute,
		SleepMergeGap:            15 * time.Minute,
		SleepWindowStartHour:     18,
		SleepWindowEndHour:       12,
		MinSleepDuration:         3 * time.Hour,
		MaxSleepDuration:         12 * time.Hour,
		AwakeningThresholdMG:     50,

		OutlierCeilingMG:      1000,
		OutlierSDLimit:        5,
		OutlierWarnPct:        10,
		DayNightContrastRatio: 1.5,
		DayStartHour:          9,
		DayEndHour:            21,
		NightStartHour:        0,
		NightEndHour:          6,
		QualityWeights: Weights{
			Completeness:       0.25,
			WearCompliance:     0.30,
			Integrity:          0.25,
			PatternConsistency: 0.20,
		},
		MinUsableScore:   60,
		MinCompliancePct: 70,
	}
}

// LoadConfig overlays a YAML file on top of the defaults and validates the
// result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects out-of-range thresholds at configuration-build time.
func (c Config) Validate() error {
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"wear_window", c.WearWindow},
		{"min_non_wear_duration", c.MinNonWearDuration},
		{"min_bout_duration", c.MinBoutDuration},
		{"min_rest_duration", c.MinRestDuration},
		{"min_sleep_duration", c.MinSleepDuration},
		{"max_sleep_duration", c.MaxSleepDuration},
	} {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	if c.BoutInterruptionTolerance < 0 {
		return fmt.Errorf("bout_interruption_tolerance must not be negative, got %s", c.BoutInterruptionTolerance)
	}
	if c.SleepMergeGap < 0 {
		return fmt.Errorf("sleep_merge_gap must not be negative, got %s", c.SleepMergeGap)
	}
	if c.WearStdThresholdMG <= 0 {
		return fmt.Errorf("wear_std_threshold_mg must be positive, got %.3f", c.WearStdThresholdMG)
	}
	if !(c.LightMinMG > 0 && c.ModerateMinMG > c.LightMinMG && c.VigorousMinMG > c.ModerateMinMG) {
		return fmt.Errorf("activity cut-points must be ascending and positive: %.1f/%.1f/%.1f",
			c.LightMinMG, c.ModerateMinMG, c.VigorousMinMG)
	}
	if c.SleepInactiveThresholdMG <= 0 {
		return fmt.Errorf("sleep_inactive_threshold_mg must be positive, got %.3f", c.SleepInactiveThresholdMG)
	}
	if c.MaxSleepDuration <= c.MinSleepDuration {
		return fmt.Errorf("max_sleep_duration %s must exceed min_sleep_duration %s",
			c.MaxSleepDuration, c.MinSleepDuration)
	}
	for _, h := range []struct {
		name  string
		value int
	}{
		{"sleep_window_start_hour", c.SleepWindowStartHour},
		{"sleep_window_end_hour", c.SleepWindowEndHour},
		{"day_start_hour", c.DayStartHour},
		{"day_end_hour", c.DayEndHour},
		{"night_start_hour", c.NightStartHour},
		{"night_end_hour", c.NightEndHour},
	} {
		if h.value < 0 || h.value > 24 {
			return fmt.Errorf("%s must be within 0..24, got %d", h.name, h.value)
		}
	}
	if c.SleepWindowStartHour <= c.SleepWindowEndHour {
		return fmt.Errorf("sleep window must wrap midnight: start hour %d must exceed end hour %d",
			c.SleepWindowStartHour, c.SleepWindowEndHour)
	}
	if c.DayEndHour <= c.DayStartHour {
		return fmt.Errorf("day hours must satisfy start < end, got %d..%d", c.DayStartHour, c.DayEndHour)
	}
	if c.NightEndHour <= c.NightStartHour {
		return fmt.Errorf("night hours must satisfy start < end, got %d..%d", c.NightStartHour, c.NightEndHour)
	}
	if c.OutlierCeilingMG <= 0 || c.OutlierSDLimit <= 0 {
		return fmt.Errorf("outlier bounds must be positive")
	}
	if c.DayNightContrastRatio <= 0 {
		return fmt.Errorf("day_night_contrast_ratio must be positive, got %.2f", c.DayNightContrastRatio)
	}
	if c.StepsPerMVPAMinute < 0 || c.WeeklyMVPATargetMinutes <= 0 {
		return fmt.Errorf("step and MVPA targets must be positive")
	}
	w := c.QualityWeights
	if w.Completeness < 0 || w.WearCompliance < 0 || w.Integrity < 0 || w.PatternConsistency < 0 {
		return fmt.Errorf("quality weights must not be negative")
	}
	sum := w.Completeness + w.WearCompliance + w.Integrity + w.PatternConsistency
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("quality weights must sum to 1, got %.3f", sum)
	}
	if c.MinUsableScore < 0 || c.MinUsableScore > 100 || c.MinCompliancePct < 0 || c.MinCompliancePct > 100 {
		return fmt.Errorf("usability thresholds must be within 0..100")
	}
	return nil
}
