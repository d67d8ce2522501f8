package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	actinotes "acti-analyzer"
	"acti-analyzer/report"
	"acti-analyzer/series"
)

// Run executes the full acti_analyze pipeline for one epoch CSV and writes
// all artifacts.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.CSVPath) == "" {
		return nil, fmt.Errorf("csv path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cfg := actinotes.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := actinotes.LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	s, err := series.LoadFile(opts.CSVPath)
	if err != nil {
		return nil, err
	}
	log.Info("loaded epoch series",
		zap.String("file", opts.CSVPath),
		zap.String("participant", s.ParticipantID),
		zap.Int("epochs", s.Len()),
		zap.Float64("hours", s.Duration().Hours()),
	)

	a, err := actinotes.Analyze(s, cfg)
	if err != nil {
		return nil, err
	}
	a.FilePath = opts.CSVPath
	for _, w := range a.Warnings {
		log.Warn(w, zap.String("participant", a.ParticipantID))
	}
	log.Info("analysis complete",
		zap.String("participant", a.ParticipantID),
		zap.String("grade", a.Quality.Grade),
		zap.Float64("composite", a.Quality.Composite),
		zap.Float64("compliance_pct", a.Wear.CompliancePct),
		zap.Bool("usable", a.Quality.Usable),
	)

	bundle, err := report.WriteBundle(a, s, opts.CSVPath, opts.OutDir, report.Options{
		Format:    opts.Format,
		Overwrite: opts.Overwrite,
	})
	if err != nil {
		return nil, err
	}
	log.Info("bundle written", zap.String("dir", bundle.OutputDir))

	return &Result{Analysis: a, Bundle: bundle}, nil
}
