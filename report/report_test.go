package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	actinotes "acti-analyzer"
	"acti-analyzer/series"
)

func analyzedFixture(t *testing.T) (*actinotes.Analysis, *series.Series) {
	t.Helper()
	samples := make([]series.Sample, 24*60)
	for i := range samples {
		if i%2 == 0 {
			samples[i].Magnitude = 12
		} else {
			samples[i].Magnitude = 18
		}
	}
	start := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	s, err := series.New("P777", start, time.Minute, samples)
	require.NoError(t, err)

	a, err := actinotes.Analyze(s, actinotes.DefaultConfig())
	require.NoError(t, err)
	return a, s
}

func TestWriteBundleCSVFormat(t *testing.T) {
	a, s := analyzedFixture(t)
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := WriteBundle(a, s, "", outDir, Options{Format: "csv"})
	require.NoError(t, err)

	for _, path := range []string{
		res.ManifestPath, res.AnalysisPath, res.QualityPath,
		res.ActivityPath, res.SleepPath, res.DailyPath,
		res.EpochsPath, res.NotesPath,
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "missing artifact %s", path)
	}
	assert.Equal(t, filepath.Join(outDir, "epochs.csv"), res.EpochsPath)

	f, err := os.Open(res.EpochsPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, s.Len()+1)
	assert.Equal(t, []string{"timestamp", "epoch_index", "magnitude_mg", "imputed", "worn", "intensity"}, rows[0])
	assert.Equal(t, "light", rows[2][5])

	df, err := os.Open(res.DailyPath)
	require.NoError(t, err)
	defer df.Close()
	daily, err := csv.NewReader(df).ReadAll()
	require.NoError(t, err)
	assert.Len(t, daily, len(a.Daily)+1)
}

func TestWriteBundleManifest(t *testing.T) {
	a, s := analyzedFixture(t)
	srcPath := filepath.Join(t.TempDir(), "P777_accel.csv")
	require.NoError(t, os.WriteFile(srcPath, []byte("fake source\n"), 0o644))
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := WriteBundle(a, s, srcPath, outDir, Options{Format: "csv"})
	require.NoError(t, err)

	data, err := os.ReadFile(res.ManifestPath)
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, FormatVersion, m.FormatVersion)
	assert.Equal(t, "P777", m.ParticipantID)
	assert.Equal(t, s.Len(), m.EpochCount)
	assert.Equal(t, "P777_accel.csv", m.SourceFileName)
	assert.Len(t, m.SourceSHA256, 64)
	assert.Equal(t, int64(12), m.SourceSizeBytes)
	assert.Equal(t, "epochs.csv", m.EpochsPath)
}

func TestWriteBundleRefusesNonEmptyDir(t *testing.T) {
	a, s := analyzedFixture(t)
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "existing.txt"), []byte("x"), 0o644))

	_, err := WriteBundle(a, s, "", outDir, Options{Format: "csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not empty")

	_, err = WriteBundle(a, s, "", outDir, Options{Format: "csv", Overwrite: true})
	assert.NoError(t, err)
}

func TestWriteBundleRejectsUnknownFormat(t *testing.T) {
	a, s := analyzedFixture(t)
	_, err := WriteBundle(a, s, "", t.TempDir(), Options{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
