package actinotes

import (
	"time"

	"acti-analyzer/series"
)

// Intensity is a per-epoch activity class.
type Intensity int

const (
	Unworn Intensity = iota
	Sedentary
	Light
	Moderate
	Vigorous
)

func (in Intensity) String() string {
	switch in {
	case Sedentary:
		return "sedentary"
	case Light:
		return "light"
	case Moderate:
		return "moderate"
	case Vigorous:
		return "vigorous"
	default:
		return "unworn"
	}
}

// Bout is a sustained stretch of moderate-or-above activity. EndIndex is
// inclusive and always lands on an MVPA epoch.
type Bout struct {
	StartIndex  int           `json:"start_index"`
	EndIndex    int           `json:"end_index"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Duration    time.Duration `json:"-"`
	Minutes     float64       `json:"minutes"`
	MeanMG      float64       `json:"mean_mg"`
	Intensity   string        `json:"intensity"`
	Interrupted bool          `json:"interrupted"`
}

// HourlySummary aggregates worn epochs sharing an hour of day across the
// whole recording.
type HourlySummary struct {
	Hour            int     `json:"hour"`
	WornEpochs      int     `json:"worn_epochs"`
	MeanMG          float64 `json:"mean_mg"`
	MaxMG           float64 `json:"max_mg"`
	SedentaryPct    float64 `json:"sedentary_pct"`
	LightPct        float64 `json:"light_pct"`
	MVPAPct         float64 `json:"mvpa_pct"`
	SedentaryBreaks int     `json:"sedentary_breaks"`
}

// ActivityResult is the full classification output for one recording.
type ActivityResult struct {
	Labels []Intensity `json:"-"`

	SedentaryMinutes float64 `json:"sedentary_minutes"`
	LightMinutes     float64 `json:"light_minutes"`
	ModerateMinutes  float64 `json:"moderate_minutes"`
	VigorousMinutes  float64 `json:"vigorous_minutes"`
	MVPAMinutes      float64 `json:"mvpa_minutes"`

	SedentaryPct float64 `json:"sedentary_pct"`
	LightPct     float64 `json:"light_pct"`
	ModeratePct  float64 `json:"moderate_pct"`
	VigorousPct  float64 `json:"vigorous_pct"`

	Bouts              []Bout  `json:"bouts"`
	BoutMVPAMinutes    float64 `json:"bout_mvpa_minutes"`
	AvgBoutMinutes     float64 `json:"avg_bout_minutes"`
	MeetsMVPAGuideline bool    `json:"meets_mvpa_guideline"`
	EstimatedSteps     int     `json:"estimated_steps"`

	Hourly     []HourlySummary `json:"hourly"`
	PeakHour   int             `json:"peak_hour"`
	LowestHour int             `json:"lowest_hour"`
}

// ClassifyActivity labels every epoch against the cut-points and derives
// volume totals, sustained bouts, and the hour-of-day profile. Non-worn
// epochs are labelled Unworn and excluded from every percentage.
func ClassifyActivity(s *series.Series, wear *WearResult, cfg Config) *ActivityResult {
	n := s.Len()
	res := &ActivityResult{Labels: make([]Intensity, n)}

	var sedentary, light, moderate, vigorous int
	for i := 0; i < n; i++ {
		if !wear.Mask[i] {
			res.Labels[i] = Unworn
			continue
		}
		m := s.Samples[i].Magnitude
		switch {
		case m >= cfg.VigorousMinMG:
			res.Labels[i] = Vigorous
			vigorous++
		case m >= cfg.ModerateMinMG:
			res.Labels[i] = Moderate
			moderate++
		case m >= cfg.LightMinMG:
			res.Labels[i] = Light
			light++
		default:
			res.Labels[i] = Sedentary
			sedentary++
		}
	}

	res.SedentaryMinutes = s.Minutes(sedentary)
	res.LightMinutes = s.Minutes(light)
	res.ModerateMinutes = s.Minutes(moderate)
	res.VigorousMinutes = s.Minutes(vigorous)
	res.MVPAMinutes = res.ModerateMinutes + res.VigorousMinutes

	worn := sedentary + light + moderate + vigorous
	if worn > 0 {
		res.SedentaryPct = float64(sedentary) / float64(worn) * 100
		res.LightPct = float64(light) / float64(worn) * 100
		res.ModeratePct = float64(moderate) / float64(worn) * 100
		res.VigorousPct = float64(vigorous) / float64(worn) * 100
	}

	res.Bouts = detectBouts(s, res.Labels, cfg)
	for _, b := range res.Bouts {
		res.BoutMVPAMinutes += b.Minutes
	}
	if len(res.Bouts) > 0 {
		res.AvgBoutMinutes = res.BoutMVPAMinutes / float64(len(res.Bouts))
	}

	days := s.Duration().Hours() / 24
	if days > 0 {
		target := cfg.WeeklyMVPATargetMinutes * days / 7
		res.MeetsMVPAGuideline = res.BoutMVPAMinutes >= target
	}
	res.EstimatedSteps = int(res.MVPAMinutes * cfg.StepsPerMVPAMinute)

	res.Hourly = hourlyProfile(s, wear.Mask, res.Labels)
	res.PeakHour, res.LowestHour = peakAndLowestHours(res.Hourly)
	return res
}

// detectBouts scans for runs of MVPA epochs, tolerating sub-threshold
// interruptions up to the configured tolerance. Unworn epochs count as
// interruptions too, so a brief sensor dropout inside a bout does not split
// it. A bout closes at the last MVPA epoch before a too-long interruption or
// the end of the series.
func detectBouts(s *series.Series, labels []Intensity, cfg Config) []Bout {
	minEpochs := s.Epochs(cfg.MinBoutDuration)
	tolerance := int(cfg.BoutInterruptionTolerance / s.Interval)

	var bouts []Bout
	start, lastMVPA, gap := -1, -1, 0
	interrupted := false

	closeBout := func() {
		if start < 0 {
			return
		}
		if lastMVPA-start+1 >= minEpochs {
			bouts = append(bouts, newBout(s, labels, start, lastMVPA, interrupted, cfg))
		}
		start, lastMVPA, gap, interrupted = -1, -1, 0, false
	}

	for i, label := range labels {
		mvpa := label == Moderate || label == Vigorous
		switch {
		case mvpa:
			if start < 0 {
				start = i
			} else if gap > 0 {
				interrupted = true
			}
			lastMVPA = i
			gap = 0
		case start >= 0:
			// Any dip counts toward the interruption budget, unworn
			// epochs included.
			gap++
			if gap > tolerance {
				closeBout()
			}
		}
	}
	closeBout()
	return bouts
}

func newBout(s *series.Series, labels []Intensity, start, end int, interrupted bool, cfg Config) Bout {
	var sum float64
	for i := start; i <= end; i++ {
		sum += s.Samples[i].Magnitude
	}
	mean := sum / float64(end-start+1)
	b := Bout{
		StartIndex:  start,
		EndIndex:    end,
		Start:       s.Timestamp(start),
		End:         s.Timestamp(end).Add(s.Interval),
		Duration:    time.Duration(end-start+1) * s.Interval,
		MeanMG:      mean,
		Intensity:   "moderate",
		Interrupted: interrupted,
	}
	b.Minutes = b.Duration.Minutes()
	if mean >= cfg.VigorousMinMG {
		b.Intensity = "vigorous"
	}
	return b
}

func hourlyProfile(s *series.Series, mask []bool, labels []Intensity) []HourlySummary {
	rows := make([]HourlySummary, 24)
	sums := make([]float64, 24)
	sed := make([]int, 24)
	lig := make([]int, 24)
	mvpa := make([]int, 24)
	for h := range rows {
		rows[h].Hour = h
	}

	prevSedentary := make([]bool, 24)
	for i := 0; i < s.Len(); i++ {
		if !mask[i] {
			continue
		}
		h := s.Timestamp(i).Hour()
		m := s.Samples[i].Magnitude
		rows[h].WornEpochs++
		sums[h] += m
		if m > rows[h].MaxMG {
			rows[h].MaxMG = m
		}
		switch labels[i] {
		case Sedentary:
			sed[h]++
		case Light:
			lig[h]++
		case Moderate, Vigorous:
			mvpa[h]++
		}
		isSed := labels[i] == Sedentary
		if prevSedentary[h] && !isSed {
			rows[h].SedentaryBreaks++
		}
		prevSedentary[h] = isSed
	}

	for h := range rows {
		if rows[h].WornEpochs == 0 {
			continue
		}
		worn := float64(rows[h].WornEpochs)
		rows[h].MeanMG = sums[h] / worn
		rows[h].SedentaryPct = float64(sed[h]) / worn * 100
		rows[h].LightPct = float64(lig[h]) / worn * 100
		rows[h].MVPAPct = float64(mvpa[h]) / worn * 100
	}
	return rows
}

func peakAndLowestHours(rows []HourlySummary) (peak, lowest int) {
	peak, lowest = -1, -1
	for _, r := range rows {
		if r.WornEpochs == 0 {
			continue
		}
		if peak < 0 || r.MeanMG > rows[peak].MeanMG {
			peak = r.Hour
		}
		if lowest < 0 || r.MeanMG < rows[lowest].MeanMG {
			lowest = r.Hour
		}
	}
	return peak, lowest
}
