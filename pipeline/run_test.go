package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeEpochCSV generates a one-day recording at one-minute epochs with
// alternating magnitudes so every window carries variance.
func writeEpochCSV(t *testing.T, dir, name string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("acceleration (mg) - 2025-03-02 00:00:00 - 2025-03-02 23:59:00 - sampleRate = 60 seconds,imputed\n")
	for i := 0; i < 24*60; i++ {
		if i%2 == 0 {
			b.WriteString("12.0,0\n")
		} else {
			b.WriteString("18.0,0\n")
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRunWritesBundle(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeEpochCSV(t, dir, "P100_accel.csv")
	outDir := filepath.Join(dir, "out")

	res, err := Run(Options{
		CSVPath: csvPath,
		OutDir:  outDir,
		Format:  "csv",
	})
	require.NoError(t, err)

	assert.Equal(t, "P100", res.Analysis.ParticipantID)
	assert.Equal(t, 24*60, res.Analysis.TotalEpochs)
	assert.NotEmpty(t, res.Analysis.Notes)

	for _, path := range []string{
		res.Bundle.ManifestPath,
		res.Bundle.AnalysisPath,
		res.Bundle.EpochsPath,
		res.Bundle.DailyPath,
		res.Bundle.NotesPath,
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "missing artifact %s", path)
	}
}

func TestRunRequiresPaths(t *testing.T) {
	_, err := Run(Options{OutDir: "x"})
	assert.Error(t, err)
	_, err = Run(Options{CSVPath: "x"})
	assert.Error(t, err)
}

func TestRunRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeEpochCSV(t, dir, "P100_accel.csv")
	cfgPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("wear_std_threshold_mg: -4\n"), 0o644))

	_, err := Run(Options{
		CSVPath:    csvPath,
		OutDir:     filepath.Join(dir, "out"),
		ConfigPath: cfgPath,
		Format:     "csv",
	})
	assert.Error(t, err)
}

func TestRunBatchSummarizesAllFiles(t *testing.T) {
	inDir := t.TempDir()
	for i := 0; i < 3; i++ {
		writeEpochCSV(t, inDir, fmt.Sprintf("P%03d_accel.csv", i))
	}
	// A malformed file must surface as a failed outcome, not abort the run.
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "broken_accel.csv"), []byte("not a header\n"), 0o644))

	outDir := filepath.Join(t.TempDir(), "out")
	res, err := RunBatch(BatchOptions{
		InputDir: inDir,
		OutDir:   outDir,
		Format:   "csv",
		Workers:  2,
	})
	require.NoError(t, err)

	require.Len(t, res.Outcomes, 4)
	assert.Equal(t, 1, res.Failed)

	okCount := 0
	for _, o := range res.Outcomes {
		if o.OK {
			okCount++
			assert.NotEmpty(t, o.Grade)
			assert.NotEmpty(t, o.OutputDir)
		} else {
			assert.NotEmpty(t, o.Error)
		}
	}
	assert.Equal(t, 3, okCount)

	f, err := os.Open(res.SummaryCSV)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	_, err = os.Stat(res.SummaryXLSX)
	assert.NoError(t, err)
}

func TestRunBatchRequiresInputs(t *testing.T) {
	_, err := RunBatch(BatchOptions{OutDir: "x"})
	assert.Error(t, err)

	empty := t.TempDir()
	_, err = RunBatch(BatchOptions{InputDir: empty, OutDir: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no csv files")
}
