package actinotes

import (
	"acti-analyzer/series"
)

// DailySummary aggregates one calendar date of a recording. Partial first
// and last days are reported as-is.
type DailySummary struct {
	Date          string  `json:"date"`
	Samples       int     `json:"samples"`
	WornEpochs    int     `json:"worn_epochs"`
	ImputedEpochs int     `json:"imputed_epochs"`
	WearHours     float64 `json:"wear_hours"`
	WearPct       float64 `json:"wear_pct"`

	MeanMG float64 `json:"mean_mg"`
	MaxMG  float64 `json:"max_mg"`

	SedentaryMinutes float64 `json:"sedentary_minutes"`
	LightMinutes     float64 `json:"light_minutes"`
	ModerateMinutes  float64 `json:"moderate_minutes"`
	VigorousMinutes  float64 `json:"vigorous_minutes"`
	MVPAMinutes      float64 `json:"mvpa_minutes"`
	SleepMinutes     float64 `json:"sleep_minutes"`
}

// SummarizeDays folds the epoch stream into one row per calendar date.
// Mean and max magnitude cover worn epochs only.
func SummarizeDays(s *series.Series, wear *WearResult, act *ActivityResult, sleep *SleepResult) []DailySummary {
	inSleep := make([]bool, s.Len())
	for _, p := range sleep.Periods {
		for i := p.StartIndex; i <= p.EndIndex; i++ {
			inSleep[i] = true
		}
	}

	var days []DailySummary
	var cur *DailySummary
	var magSum float64
	epochMinutes := s.Interval.Minutes()

	flush := func() {
		if cur == nil {
			return
		}
		if cur.WornEpochs > 0 {
			cur.MeanMG = magSum / float64(cur.WornEpochs)
		}
		if cur.Samples > 0 {
			cur.WearPct = float64(cur.WornEpochs) / float64(cur.Samples) * 100
		}
		cur.WearHours = float64(cur.WornEpochs) * epochMinutes / 60
		days = append(days, *cur)
		cur, magSum = nil, 0
	}

	for i := 0; i < s.Len(); i++ {
		date := s.Timestamp(i).Format("2006-01-02")
		if cur == nil || cur.Date != date {
			flush()
			cur = &DailySummary{Date: date}
		}
		cur.Samples++
		if s.Samples[i].Imputed {
			cur.ImputedEpochs++
		}
		if inSleep[i] {
			cur.SleepMinutes += epochMinutes
		}
		if !wear.Mask[i] {
			continue
		}
		cur.WornEpochs++
		m := s.Samples[i].Magnitude
		magSum += m
		if m > cur.MaxMG {
			cur.MaxMG = m
		}
		switch act.Labels[i] {
		case Sedentary:
			cur.SedentaryMinutes += epochMinutes
		case Light:
			cur.LightMinutes += epochMinutes
		case Moderate:
			cur.ModerateMinutes += epochMinutes
			cur.MVPAMinutes += epochMinutes
		case Vigorous:
			cur.VigorousMinutes += epochMinutes
			cur.MVPAMinutes += epochMinutes
		}
	}
	flush()
	return days
}
