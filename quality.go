package actinotes

import (
	"fmt"
	"math"

	"acti-analyzer/series"
)

// QualityReport grades a recording for downstream use. Scores are 0..100.
type QualityReport struct {
	Completeness       float64 `json:"completeness"`
	WearCompliance     float64 `json:"wear_compliance"`
	Integrity          float64 `json:"integrity"`
	PatternConsistency float64 `json:"pattern_consistency"`

	Composite float64 `json:"composite"`
	Grade     string  `json:"grade"`
	Usable    bool    `json:"usable"`

	ImputedPct      float64  `json:"imputed_pct"`
	OutlierPct      float64  `json:"outlier_pct"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// ScoreQuality computes the four sub-scores, the weighted composite, the
// letter grade, and the usability verdict.
func ScoreQuality(s *series.Series, wear *WearResult, hourly []HourlySummary, cfg Config) *QualityReport {
	rep := &QualityReport{}
	n := s.Len()

	rep.Completeness = 100
	if s.ExpectedCount > 0 {
		rep.Completeness = math.Min(100, float64(n)/float64(s.ExpectedCount)*100)
	}
	rep.WearCompliance = wear.CompliancePct

	if n > 0 {
		rep.ImputedPct = float64(s.ImputedCount()) / float64(n) * 100
	}
	rep.OutlierPct = outlierPct(s, wear.Mask, cfg)
	rep.Integrity = clamp(100-math.Min(30, rep.ImputedPct)-math.Min(50, rep.OutlierPct*5), 0, 100)

	rep.PatternConsistency = patternConsistency(hourly, cfg)

	rep.Composite = compositeScore(rep.Completeness, rep.WearCompliance,
		rep.Integrity, rep.PatternConsistency, cfg.QualityWeights)
	rep.Grade = grade(rep.Composite)
	rep.Usable = rep.Composite >= cfg.MinUsableScore && rep.WearCompliance >= cfg.MinCompliancePct

	rep.Recommendations = recommendations(rep, cfg)
	return rep
}

func compositeScore(completeness, compliance, integrity, pattern float64, w Weights) float64 {
	return completeness*w.Completeness +
		compliance*w.WearCompliance +
		integrity*w.Integrity +
		pattern*w.PatternConsistency
}

func grade(composite float64) string {
	switch {
	case composite >= 90:
		return "A"
	case composite >= 80:
		return "B"
	case composite >= 70:
		return "C"
	case composite >= 60:
		return "D"
	default:
		return "F"
	}
}

// outlierPct counts worn epochs whose magnitude is physically implausible,
// either above the hard ceiling or far outside the worn distribution.
func outlierPct(s *series.Series, mask []bool, cfg Config) float64 {
	var sum float64
	worn := 0
	for i := 0; i < s.Len(); i++ {
		if mask[i] {
			sum += s.Samples[i].Magnitude
			worn++
		}
	}
	if worn == 0 {
		return 0
	}
	mean := sum / float64(worn)
	var sq float64
	for i := 0; i < s.Len(); i++ {
		if mask[i] {
			d := s.Samples[i].Magnitude - mean
			sq += d * d
		}
	}
	std := math.Sqrt(sq / float64(worn))

	outliers := 0
	for i := 0; i < s.Len(); i++ {
		if !mask[i] {
			continue
		}
		m := s.Samples[i].Magnitude
		if m > cfg.OutlierCeilingMG {
			outliers++
			continue
		}
		if std > 0 && math.Abs(m-mean)/std > cfg.OutlierSDLimit {
			outliers++
		}
	}
	return float64(outliers) / float64(worn) * 100
}

// patternConsistency compares daytime and nighttime activity levels. A
// recording with no day/night contrast looks like a device left on a shelf.
func patternConsistency(hourly []HourlySummary, cfg Config) float64 {
	dayMean, dayOK := bucketMean(hourly, cfg.DayStartHour, cfg.DayEndHour)
	nightMean, nightOK := bucketMean(hourly, cfg.NightStartHour, cfg.NightEndHour)
	if !dayOK || !nightOK {
		return 50
	}
	if nightMean <= 0 {
		return 100
	}
	ratio := dayMean / nightMean
	if ratio >= cfg.DayNightContrastRatio {
		return 100
	}
	return ratio / cfg.DayNightContrastRatio * 100
}

// bucketMean is the worn-epoch-weighted mean magnitude over [startHour,
// endHour). The second return is false when no worn epochs fall in the
// bucket.
func bucketMean(hourly []HourlySummary, startHour, endHour int) (float64, bool) {
	var weighted float64
	worn := 0
	for _, row := range hourly {
		if row.Hour < startHour || row.Hour >= endHour || row.WornEpochs == 0 {
			continue
		}
		weighted += row.MeanMG * float64(row.WornEpochs)
		worn += row.WornEpochs
	}
	if worn == 0 {
		return 0, false
	}
	return weighted / float64(worn), true
}

func recommendations(rep *QualityReport, cfg Config) []string {
	var recs []string
	if rep.WearCompliance < cfg.MinCompliancePct {
		recs = append(recs, fmt.Sprintf(
			"wear compliance %.1f%% is below the %.0f%% target; remind the participant to keep the device on",
			rep.WearCompliance, cfg.MinCompliancePct))
	}
	if rep.Completeness < 90 {
		recs = append(recs, fmt.Sprintf(
			"recording covers %.1f%% of the expected span; consider extending the collection window",
			rep.Completeness))
	}
	if rep.OutlierPct > cfg.OutlierWarnPct {
		recs = append(recs, fmt.Sprintf(
			"%.1f%% of worn epochs are outliers; check the device for sensor faults",
			rep.OutlierPct))
	}
	if rep.ImputedPct > 10 {
		recs = append(recs, fmt.Sprintf(
			"%.1f%% of epochs are imputed; treat derived metrics with caution", rep.ImputedPct))
	}
	if !rep.Usable {
		recs = append(recs, "quality below the usability threshold; exclude from primary analyses")
	}
	return recs
}
