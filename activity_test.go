package actinotes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acti-analyzer/series"
)

func analyzeActivity(t *testing.T, samples []series.Sample) (*series.Series, *ActivityResult) {
	t.Helper()
	s := newTestSeries(t, testStart, time.Minute, samples)
	cfg := DefaultConfig()
	wear := DetectWear(s, cfg)
	return s, ClassifyActivity(s, wear, cfg)
}

func TestClassifyActivityCutPoints(t *testing.T) {
	samples := jittered(2*60, 2, 6)                     // sedentary/light boundary
	samples = append(samples, jittered(60, 12, 18)...)  // light
	samples = append(samples, jittered(60, 50, 70)...)  // moderate
	samples = append(samples, jittered(60, 150, 250)...) // vigorous
	_, res := analyzeActivity(t, samples)

	assert.Greater(t, res.SedentaryMinutes, 0.0)
	assert.Greater(t, res.LightMinutes, 0.0)
	assert.Greater(t, res.ModerateMinutes, 0.0)
	assert.Greater(t, res.VigorousMinutes, 0.0)
	assert.InDelta(t, res.ModerateMinutes+res.VigorousMinutes, res.MVPAMinutes, 1e-9)

	sum := res.SedentaryPct + res.LightPct + res.ModeratePct + res.VigorousPct
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestClassifyActivityVigorousBout(t *testing.T) {
	samples := jittered(60, 150, 250)
	s, res := analyzeActivity(t, samples)

	require.Len(t, res.Bouts, 1)
	b := res.Bouts[0]
	// Epoch zero is never worn, so the bout opens one epoch in.
	assert.Equal(t, 1, b.StartIndex)
	assert.Equal(t, s.Len()-1, b.EndIndex)
	assert.Equal(t, "vigorous", b.Intensity)
	assert.False(t, b.Interrupted)
	assert.InDelta(t, 59.0, b.Minutes, 1e-9)
	assert.InDelta(t, 59.0, res.AvgBoutMinutes, 1e-9)
}

func TestClassifyActivityBoutBridgesShortInterruption(t *testing.T) {
	samples := jittered(15, 150, 250)
	samples = append(samples, jittered(2, 12, 18)...) // within tolerance
	samples = append(samples, jittered(10, 150, 250)...)
	samples = append(samples, jittered(40, 2, 6)...)
	_, res := analyzeActivity(t, samples)

	require.Len(t, res.Bouts, 1)
	b := res.Bouts[0]
	assert.True(t, b.Interrupted)
	assert.Equal(t, 1, b.StartIndex)
	assert.Equal(t, 26, b.EndIndex)
	assert.Equal(t, "vigorous", b.Intensity)
}

func TestDetectBoutsBridgesUnwornDip(t *testing.T) {
	// A one-epoch sensor dropout mid-bout stays within the interruption
	// tolerance and must not split the bout.
	samples := jittered(30, 150, 250)
	s := newTestSeries(t, testStart, time.Minute, samples)
	cfg := DefaultConfig()

	labels := make([]Intensity, s.Len())
	for i := range labels {
		labels[i] = Vigorous
	}
	labels[15] = Unworn

	bouts := detectBouts(s, labels, cfg)
	require.Len(t, bouts, 1)
	b := bouts[0]
	assert.Equal(t, 0, b.StartIndex)
	assert.Equal(t, s.Len()-1, b.EndIndex)
	assert.True(t, b.Interrupted)
	assert.InDelta(t, 30.0, b.Minutes, 1e-9)
}

func TestClassifyActivityDiscardsShortBouts(t *testing.T) {
	samples := jittered(40, 2, 6)
	samples = append(samples, jittered(5, 150, 250)...)
	samples = append(samples, jittered(40, 2, 6)...)
	_, res := analyzeActivity(t, samples)

	assert.Empty(t, res.Bouts)
	assert.Equal(t, 0.0, res.BoutMVPAMinutes)
}

func TestClassifyActivityStepsAndGuideline(t *testing.T) {
	samples := jittered(60, 150, 250)
	_, res := analyzeActivity(t, samples)

	cfg := DefaultConfig()
	assert.Equal(t, int(res.MVPAMinutes*cfg.StepsPerMVPAMinute), res.EstimatedSteps)
	// 59 bout minutes against a one-hour recording far exceeds the
	// pro-rated weekly target.
	assert.True(t, res.MeetsMVPAGuideline)
}

func TestHourlyProfilePeakAndLowest(t *testing.T) {
	// Hour 12: vigorous. Hour 13: sedentary-to-light.
	samples := jittered(60, 150, 250)
	samples = append(samples, jittered(60, 2, 6)...)
	_, res := analyzeActivity(t, samples)

	require.Len(t, res.Hourly, 24)
	assert.Equal(t, 12, res.PeakHour)
	assert.Equal(t, 13, res.LowestHour)
	assert.Greater(t, res.Hourly[12].MVPAPct, 99.0)
	assert.Greater(t, res.Hourly[13].SedentaryPct, 0.0)
}
