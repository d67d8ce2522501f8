package actinotes

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"zero wear window":     func(c *Config) { c.WearWindow = 0 },
		"negative threshold":   func(c *Config) { c.WearStdThresholdMG = -1 },
		"unordered cut-points": func(c *Config) { c.ModerateMinMG = c.VigorousMinMG + 10 },
		"negative tolerance":   func(c *Config) { c.BoutInterruptionTolerance = -time.Minute },
		"max below min sleep":  func(c *Config) { c.MaxSleepDuration = c.MinSleepDuration - time.Hour },
		"hour out of range":    func(c *Config) { c.SleepWindowStartHour = 25 },
		"non-wrapping sleep window": func(c *Config) {
			c.SleepWindowStartHour = 8
			c.SleepWindowEndHour = 10
		},
		"inverted day hours":    func(c *Config) { c.DayEndHour = c.DayStartHour },
		"weights not summing":   func(c *Config) { c.QualityWeights.Integrity = 0.9 },
		"usable score too high": func(c *Config) { c.MinUsableScore = 150 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := "wear_std_threshold_mg: 2.5\nmoderate_min_mg: 45\nquality_weights:\n  completeness: 0.25\n  wear_compliance: 0.30\n  integrity: 0.25\n  pattern_consistency: 0.20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.WearStdThresholdMG)
	assert.Equal(t, 45.0, cfg.ModerateMinMG)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30*time.Minute, cfg.WearWindow)
	assert.Equal(t, 100.0, cfg.VigorousMinMG)
}

func TestLoadConfigRejectsInvalidOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vigorous_min_mg: 1\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
