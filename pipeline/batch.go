package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunBatch analyzes every *.csv file in a directory with a bounded worker
// pool and writes a cross-participant summary as CSV and XLSX. Individual
// file failures are recorded as outcomes, not returned as errors.
func RunBatch(opts BatchOptions) (*BatchResult, error) {
	if strings.TrimSpace(opts.InputDir) == "" {
		return nil, fmt.Errorf("input directory is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	files, err := filepath.Glob(filepath.Join(opts.InputDir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("scan input directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no csv files found in %s", opts.InputDir)
	}
	sort.Strings(files)

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(files))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			outDir := filepath.Join(opts.OutDir, name)
			res, err := Run(Options{
				CSVPath:    file,
				OutDir:     outDir,
				ConfigPath: opts.ConfigPath,
				Format:     opts.Format,
				Overwrite:  opts.Overwrite,
				Logger:     log.With(zap.String("file", filepath.Base(file))),
			})

			outcome := FileOutcome{File: filepath.Base(file)}
			if err != nil {
				outcome.Error = err.Error()
				log.Error("file failed", zap.String("file", file), zap.Error(err))
			} else {
				a := res.Analysis
				outcome.OK = true
				outcome.ParticipantID = a.ParticipantID
				outcome.Grade = a.Quality.Grade
				outcome.Composite = a.Quality.Composite
				outcome.CompliancePct = a.Wear.CompliancePct
				outcome.MVPAMinutes = a.Activity.MVPAMinutes
				outcome.MeanMainHours = a.Sleep.MeanMainHours
				outcome.Usable = a.Quality.Usable
				outcome.OutputDir = outDir
			}
			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BatchResult{Outcomes: outcomes}
	for _, o := range outcomes {
		if !o.OK {
			result.Failed++
		}
	}

	result.SummaryCSV = filepath.Join(opts.OutDir, "batch_summary.csv")
	if err := writeSummaryCSV(result.SummaryCSV, outcomes); err != nil {
		return nil, fmt.Errorf("write batch_summary.csv: %w", err)
	}
	result.SummaryXLSX = filepath.Join(opts.OutDir, "batch_summary.xlsx")
	if err := writeSummaryXLSX(result.SummaryXLSX, outcomes); err != nil {
		return nil, fmt.Errorf("write batch_summary.xlsx: %w", err)
	}

	log.Info("batch complete",
		zap.Int("files", len(files)),
		zap.Int("failed", result.Failed),
		zap.String("summary", result.SummaryCSV),
	)
	return result, nil
}

var summaryHeader = []string{
	"file", "participant_id", "ok", "error", "grade", "composite",
	"compliance_pct", "mvpa_minutes", "mean_main_sleep_hours", "usable",
}

func writeSummaryCSV(path string, outcomes []FileOutcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}
	for _, o := range outcomes {
		row := []string{
			o.File,
			o.ParticipantID,
			strconv.FormatBool(o.OK),
			o.Error,
			o.Grade,
			strconv.FormatFloat(o.Composite, 'f', 1, 64),
			strconv.FormatFloat(o.CompliancePct, 'f', 1, 64),
			strconv.FormatFloat(o.MVPAMinutes, 'f', 1, 64),
			strconv.FormatFloat(o.MeanMainHours, 'f', 2, 64),
			strconv.FormatBool(o.Usable),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSummaryXLSX(path string, outcomes []FileOutcome) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	for col, name := range summaryHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for rowIdx, o := range outcomes {
		values := []any{
			o.File, o.ParticipantID, o.OK, o.Error, o.Grade, o.Composite,
			o.CompliancePct, o.MVPAMinutes, o.MeanMainHours, o.Usable,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}
