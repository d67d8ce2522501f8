// Package report writes an analysis bundle to disk: JSON summaries, a daily
// CSV, the labelled epoch stream as parquet or CSV, the narrative notes, and
// a manifest describing the source file.
package report

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	actinotes "acti-analyzer"
	"acti-analyzer/series"
)

// FormatVersion identifies the bundle layout.
const FormatVersion = "1.0"

// Options controls bundle layout and overwrite behaviour.
type Options struct {
	Format    string // parquet|csv
	Overwrite bool
}

// Result lists every artifact written.
type Result struct {
	OutputDir    string `json:"output_dir"`
	ManifestPath string `json:"manifest_path"`
	AnalysisPath string `json:"analysis_path"`
	QualityPath  string `json:"quality_path"`
	ActivityPath string `json:"activity_path"`
	SleepPath    string `json:"sleep_path"`
	DailyPath    string `json:"daily_path"`
	EpochsPath   string `json:"epochs_path"`
	NotesPath    string `json:"notes_path"`
}

// Manifest records provenance for a bundle.
type Manifest struct {
	FormatVersion   string    `json:"format_version"`
	GeneratedAt     time.Time `json:"generated_at"`
	SourceFile      string    `json:"source_file"`
	SourceFileName  string    `json:"source_file_name"`
	SourceSHA256    string    `json:"source_sha256"`
	SourceSizeBytes int64     `json:"source_size_bytes"`
	ParticipantID   string    `json:"participant_id"`
	EpochCount      int       `json:"epoch_count"`
	EpochsPath      string    `json:"epochs_path"`
	EpochsFormat    string    `json:"epochs_format"`
}

// WriteBundle writes all artifacts for one analyzed recording. sourcePath
// may be empty when the series did not come from a file; the manifest then
// omits the checksum.
func WriteBundle(a *actinotes.Analysis, s *series.Series, sourcePath, outDir string, opts Options) (*Result, error) {
	if strings.TrimSpace(outDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}
	if err := ensureOutputDir(outDir, opts.Overwrite); err != nil {
		return nil, err
	}

	res := &Result{OutputDir: outDir}

	res.AnalysisPath = filepath.Join(outDir, "analysis.json")
	if err := writeJSON(res.AnalysisPath, a); err != nil {
		return nil, fmt.Errorf("write analysis.json: %w", err)
	}
	res.QualityPath = filepath.Join(outDir, "quality_report.json")
	if err := writeJSON(res.QualityPath, a.Quality); err != nil {
		return nil, fmt.Errorf("write quality_report.json: %w", err)
	}
	res.ActivityPath = filepath.Join(outDir, "activity_summary.json")
	if err := writeJSON(res.ActivityPath, a.Activity); err != nil {
		return nil, fmt.Errorf("write activity_summary.json: %w", err)
	}
	res.SleepPath = filepath.Join(outDir, "sleep_summary.json")
	if err := writeJSON(res.SleepPath, a.Sleep); err != nil {
		return nil, fmt.Errorf("write sleep_summary.json: %w", err)
	}

	res.DailyPath = filepath.Join(outDir, "daily_summary.csv")
	if err := writeDailyCSV(res.DailyPath, a.Daily); err != nil {
		return nil, fmt.Errorf("write daily_summary.csv: %w", err)
	}

	res.EpochsPath = filepath.Join(outDir, "epochs."+format)
	rows := buildEpochRows(a, s)
	switch format {
	case "csv":
		if err := writeEpochsCSV(res.EpochsPath, rows); err != nil {
			return nil, fmt.Errorf("write epochs csv: %w", err)
		}
	case "parquet":
		if err := writeEpochsParquet(res.EpochsPath, rows); err != nil {
			return nil, fmt.Errorf("write epochs parquet: %w", err)
		}
	}

	res.NotesPath = filepath.Join(outDir, "participant_notes.md")
	if err := os.WriteFile(res.NotesPath, []byte(a.Notes+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write participant_notes.md: %w", err)
	}

	manifest := Manifest{
		FormatVersion: FormatVersion,
		GeneratedAt:   time.Now().UTC(),
		ParticipantID: a.ParticipantID,
		EpochCount:    s.Len(),
		EpochsPath:    filepath.Base(res.EpochsPath),
		EpochsFormat:  format,
	}
	if sourcePath != "" {
		manifest.SourceFile = sourcePath
		manifest.SourceFileName = filepath.Base(sourcePath)
		if data, err := os.ReadFile(sourcePath); err == nil {
			sum := sha256.Sum256(data)
			manifest.SourceSHA256 = hex.EncodeToString(sum[:])
			manifest.SourceSizeBytes = int64(len(data))
		}
	}
	res.ManifestPath = filepath.Join(outDir, "manifest.json")
	if err := writeJSON(res.ManifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}
	return res, nil
}

func ensureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s (set overwrite=true to allow)", path)
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDailyCSV(path string, days []actinotes.DailySummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"date", "samples", "worn_epochs", "imputed_epochs", "wear_hours", "wear_pct",
		"mean_mg", "max_mg", "sedentary_min", "light_min", "moderate_min", "vigorous_min",
		"mvpa_min", "sleep_min",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, d := range days {
		row := []string{
			d.Date,
			strconv.Itoa(d.Samples),
			strconv.Itoa(d.WornEpochs),
			strconv.Itoa(d.ImputedEpochs),
			formatFloat(d.WearHours),
			formatFloat(d.WearPct),
			formatFloat(d.MeanMG),
			formatFloat(d.MaxMG),
			formatFloat(d.SedentaryMinutes),
			formatFloat(d.LightMinutes),
			formatFloat(d.ModerateMinutes),
			formatFloat(d.VigorousMinutes),
			formatFloat(d.MVPAMinutes),
			formatFloat(d.SleepMinutes),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
