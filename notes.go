package actinotes

import (
	"fmt"
	"strings"
)

// BuildParticipantNotes turns derived metrics into a readable summary for a
// study coordinator.
func BuildParticipantNotes(a *Analysis) string {
	if a == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Participant: %s\n", a.ParticipantID)
	fmt.Fprintf(
		&b,
		"Recording: %s to %s (%.1f h at %.0f s epochs)\n",
		a.StartTime.Format("2006-01-02 15:04:05"),
		a.EndTime.Format("2006-01-02 15:04:05"),
		a.DurationHours,
		a.EpochSeconds,
	)
	fmt.Fprintf(
		&b,
		"Quality %s (%.1f/100) | wear %.1f%% | %s\n",
		a.Quality.Grade,
		a.Quality.Composite,
		a.Wear.CompliancePct,
		usabilityLabel(a.Quality.Usable),
	)

	b.WriteString("\nActivity\n")
	fmt.Fprintf(
		&b,
		"- Sedentary %.0f min (%.1f%%) | light %.0f min | MVPA %.0f min | ~%d steps\n",
		a.Activity.SedentaryMinutes,
		a.Activity.SedentaryPct,
		a.Activity.LightMinutes,
		a.Activity.MVPAMinutes,
		a.Activity.EstimatedSteps,
	)
	if len(a.Activity.Bouts) > 0 {
		fmt.Fprintf(
			&b,
			"- %d sustained MVPA bouts totalling %.0f min; %s\n",
			len(a.Activity.Bouts),
			a.Activity.BoutMVPAMinutes,
			guidelineLabel(a.Activity.MeetsMVPAGuideline),
		)
	} else {
		b.WriteString("- No sustained MVPA bouts detected.\n")
	}
	if a.Activity.PeakHour >= 0 {
		fmt.Fprintf(
			&b,
			"- Most active around %02d:00, least active around %02d:00.\n",
			a.Activity.PeakHour,
			a.Activity.LowestHour,
		)
	}

	b.WriteString("\nSleep\n")
	if a.Sleep.MainSleepCount > 0 {
		fmt.Fprintf(
			&b,
			"- %d main sleep periods averaging %.1f h, %d naps | efficiency %.1f%%\n",
			a.Sleep.MainSleepCount,
			a.Sleep.MeanMainHours,
			a.Sleep.NapCount,
			a.Sleep.MeanEfficiency,
		)
		if a.Sleep.InsufficientData {
			b.WriteString("- Sleep regularity: insufficient nights to score.\n")
		} else {
			fmt.Fprintf(&b, "- Sleep regularity index: %.1f/100 (%s)\n",
				a.Sleep.RegularityIndex, regularityLabel(a.Sleep.RegularityIndex))
		}
	} else {
		b.WriteString("- No main sleep periods detected.\n")
	}

	if len(a.Quality.Recommendations) > 0 {
		b.WriteString("\nRecommendations\n")
		for _, rec := range a.Quality.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	return strings.TrimSpace(b.String())
}

func usabilityLabel(usable bool) string {
	if usable {
		return "usable for analysis"
	}
	return "NOT usable for analysis"
}

func guidelineLabel(meets bool) string {
	if meets {
		return "on track for the weekly MVPA guideline"
	}
	return "below the weekly MVPA guideline pace"
}

func regularityLabel(idx float64) string {
	switch {
	case idx >= 85:
		return "very consistent"
	case idx >= 70:
		return "reasonably consistent"
	case idx >= 50:
		return "somewhat irregular"
	default:
		return "highly irregular"
	}
}
