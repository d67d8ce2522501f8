package actinotes

import (
	"math"
	"sort"
	"time"

	"acti-analyzer/series"
)

// SleepPeriod is one detected episode of rest. EndIndex is inclusive.
type SleepPeriod struct {
	StartIndex    int           `json:"start_index"`
	EndIndex      int           `json:"end_index"`
	Onset         time.Time     `json:"onset"`
	Wake          time.Time     `json:"wake"`
	Duration      time.Duration `json:"-"`
	Hours         float64       `json:"hours"`
	EfficiencyPct float64       `json:"efficiency_pct"`
	Awakenings    int           `json:"awakenings"`
	IsMain        bool          `json:"is_main"`
}

// SleepResult summarises all detected sleep across a recording.
type SleepResult struct {
	Periods []SleepPeriod `json:"periods"`

	MainSleepCount   int     `json:"main_sleep_count"`
	NapCount         int     `json:"nap_count"`
	MeanMainHours    float64 `json:"mean_main_hours"`
	MeanEfficiency   float64 `json:"mean_efficiency_pct"`
	OnsetStdHours    float64 `json:"onset_std_hours"`
	WakeStdHours     float64 `json:"wake_std_hours"`
	RegularityIndex  float64 `json:"regularity_index"`
	InsufficientData bool    `json:"insufficient_data"`
}

// DetectSleep finds rest episodes from sustained low-magnitude worn epochs,
// merges episodes separated by short gaps, and elects one main sleep per
// night window. The night window runs from the configured evening hour into
// the following midday; a candidate belongs to the window keyed by the date
// its onset falls on, shifted back a day when the onset lands after
// midnight.
func DetectSleep(s *series.Series, wear *WearResult, cfg Config) *SleepResult {
	res := &SleepResult{}
	n := s.Len()

	rest := make([]bool, n)
	for i := 0; i < n; i++ {
		rest[i] = wear.Mask[i] && s.Samples[i].Magnitude < cfg.SleepInactiveThresholdMG
	}

	minRest := s.Epochs(cfg.MinRestDuration)
	runs := restRuns(rest, minRest)
	runs = mergeRuns(runs, int(cfg.SleepMergeGap/s.Interval))

	maxEpochs := s.Epochs(cfg.MaxSleepDuration)
	minMain := s.Epochs(cfg.MinSleepDuration)

	type candidate struct {
		period   SleepPeriod
		inWindow bool
		nightKey string
	}
	var candidates []candidate
	for _, r := range runs {
		length := r[1] - r[0] + 1
		if length > maxEpochs {
			continue
		}
		p := scorePeriod(s, rest, r[0], r[1], cfg)
		onset := p.Onset
		h := onset.Hour()
		// The sleep window wraps midnight (Validate enforces start > end).
		inWindow := h >= cfg.SleepWindowStartHour || h < cfg.SleepWindowEndHour
		key := onset.Format("2006-01-02")
		if h < cfg.SleepWindowStartHour {
			key = onset.AddDate(0, 0, -1).Format("2006-01-02")
		}
		candidates = append(candidates, candidate{period: p, inWindow: inWindow, nightKey: key})
	}

	// Elect the longest in-window candidate of plausible main-sleep length
	// per night. Ties go to the earlier onset.
	mainByNight := make(map[string]int)
	for i, c := range candidates {
		if !c.inWindow {
			continue
		}
		length := c.period.EndIndex - c.period.StartIndex + 1
		if length < minMain {
			continue
		}
		cur, ok := mainByNight[c.nightKey]
		if !ok {
			mainByNight[c.nightKey] = i
			continue
		}
		curLen := candidates[cur].period.EndIndex - candidates[cur].period.StartIndex + 1
		if length > curLen || (length == curLen && c.period.Onset.Before(candidates[cur].period.Onset)) {
			mainByNight[c.nightKey] = i
		}
	}
	mains := make(map[int]bool, len(mainByNight))
	for _, i := range mainByNight {
		mains[i] = true
	}

	var onsets, wakes []time.Time
	var mainHourSum, effSum float64
	for i, c := range candidates {
		p := c.period
		p.IsMain = mains[i]
		if p.IsMain {
			res.MainSleepCount++
			mainHourSum += p.Hours
			onsets = append(onsets, p.Onset)
			wakes = append(wakes, p.Wake)
		} else {
			res.NapCount++
		}
		effSum += p.EfficiencyPct
		res.Periods = append(res.Periods, p)
	}
	sort.Slice(res.Periods, func(a, b int) bool {
		return res.Periods[a].StartIndex < res.Periods[b].StartIndex
	})

	if res.MainSleepCount > 0 {
		res.MeanMainHours = mainHourSum / float64(res.MainSleepCount)
	}
	if len(res.Periods) > 0 {
		res.MeanEfficiency = effSum / float64(len(res.Periods))
	}
	if res.MainSleepCount >= 2 {
		res.RegularityIndex, res.OnsetStdHours, res.WakeStdHours = regularityIndex(onsets, wakes)
	} else {
		res.InsufficientData = true
	}
	return res
}

// restRuns returns maximal rest runs meeting the minimum length, as
// inclusive [start, end] index pairs.
func restRuns(rest []bool, minLen int) [][2]int {
	var runs [][2]int
	n := len(rest)
	for i := 0; i < n; {
		if !rest[i] {
			i++
			continue
		}
		j := i
		for j < n && rest[j] {
			j++
		}
		if j-i >= minLen {
			runs = append(runs, [2]int{i, j - 1})
		}
		i = j
	}
	return runs
}

// mergeRuns joins consecutive runs whose gap is at most maxGap epochs.
// The merged run includes the gap.
func mergeRuns(runs [][2]int, maxGap int) [][2]int {
	if len(runs) < 2 {
		return runs
	}
	merged := [][2]int{runs[0]}
	for _, r := range runs[1:] {
		last := &merged[len(merged)-1]
		if r[0]-last[1]-1 <= maxGap {
			last[1] = r[1]
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

// scorePeriod computes efficiency and awakening counts for an episode.
// Efficiency is the share of epochs inside the episode that stay below the
// rest threshold. An awakening is an interior run above the awakening
// threshold lasting at least one minute.
func scorePeriod(s *series.Series, rest []bool, start, end int, cfg Config) SleepPeriod {
	total := end - start + 1
	low := 0
	for i := start; i <= end; i++ {
		if rest[i] {
			low++
		}
	}

	awakeningMin := s.Epochs(time.Minute)
	awakenings := 0
	run := 0
	for i := start; i <= end; i++ {
		if s.Samples[i].Magnitude > cfg.AwakeningThresholdMG {
			run++
			continue
		}
		if run >= awakeningMin {
			awakenings++
		}
		run = 0
	}
	if run >= awakeningMin {
		awakenings++
	}

	p := SleepPeriod{
		StartIndex:    start,
		EndIndex:      end,
		Onset:         s.Timestamp(start),
		Wake:          s.Timestamp(end).Add(s.Interval),
		Duration:      time.Duration(total) * s.Interval,
		EfficiencyPct: float64(low) / float64(total) * 100,
		Awakenings:    awakenings,
	}
	p.Hours = p.Duration.Hours()
	return p
}

// regularityIndex scores night-to-night timing consistency on a 0..100
// scale from the variability of onset and wake clock times, alongside the
// raw clock-time standard deviations in hours. Onset hours are wrapped so
// that times after midnight sit near the previous evening.
func regularityIndex(onsets, wakes []time.Time) (index, onsetStd, wakeStd float64) {
	onsetHours := make([]float64, len(onsets))
	wakeHours := make([]float64, len(wakes))
	for i, t := range onsets {
		h := clockHours(t)
		if h > 12 {
			h -= 24
		}
		onsetHours[i] = h
	}
	for i, t := range wakes {
		wakeHours[i] = clockHours(t)
	}

	onsetStd = popStddev(onsetHours)
	wakeStd = popStddev(wakeHours)
	cv := (coefVariation(onsetHours) + coefVariation(wakeHours)) / 2
	return clamp(100-cv*100, 0, 100), onsetStd, wakeStd
}

func clockHours(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

func popStddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// coefVariation is the population standard deviation over the absolute
// mean, or zero when the mean vanishes.
func coefVariation(values []float64) float64 {
	mean := average(values)
	if mean == 0 {
		return 0
	}
	return popStddev(values) / math.Abs(mean)
}
