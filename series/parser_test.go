package series

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEpochFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileParsesHeaderAndRows(t *testing.T) {
	content := "acceleration (mg) - 2015-08-06 10:00:00 - 2015-08-06 10:00:15 - sampleRate = 5 seconds,imputed\n" +
		"2.151,0\n" +
		"1.998,1\n" +
		"37.5,0\n" +
		"0.4,0\n"
	path := writeEpochFile(t, "P123_accel.csv", content)

	s, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "P123", s.ParticipantID)
	assert.Equal(t, time.Date(2015, 8, 6, 10, 0, 0, 0, time.UTC), s.Start)
	assert.Equal(t, 5*time.Second, s.Interval)
	assert.Equal(t, 4, s.ExpectedCount)
	require.Equal(t, 4, s.Len())
	assert.Equal(t, 2.151, s.Samples[0].Magnitude)
	assert.False(t, s.Samples[0].Imputed)
	assert.True(t, s.Samples[1].Imputed)
	assert.Equal(t, 1, s.ImputedCount())
}

func TestLoadFileCountsExpectedFromDeclaredSpan(t *testing.T) {
	// Declared span promises more epochs than the file delivers.
	content := "acceleration (mg) - 2015-08-06 10:00:00 - 2015-08-06 10:01:00 - sampleRate = 5 seconds,imputed\n" +
		"1.0,0\n" +
		"2.0,0\n"
	path := writeEpochFile(t, "P9_accel.csv", content)

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 13, s.ExpectedCount)
	assert.Equal(t, 2, s.Len())
}

func TestLoadFileSkipsBlankLines(t *testing.T) {
	content := "acceleration (mg) - 2015-08-06 10:00:00 - 2015-08-06 10:00:05 - sampleRate = 5 seconds,imputed\n" +
		"1.0,0\n" +
		"\n" +
		"2.0,true\n"
	path := writeEpochFile(t, "P2_accel.csv", content)

	s, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.True(t, s.Samples[1].Imputed)
}

func TestLoadFileRejectsMalformedRows(t *testing.T) {
	header := "acceleration (mg) - 2015-08-06 10:00:00 - 2015-08-06 10:00:05 - sampleRate = 5 seconds,imputed\n"
	for name, row := range map[string]string{
		"bad magnitude": "abc,0\n",
		"bad flag":      "1.0,maybe\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := writeEpochFile(t, "P3_accel.csv", header+row)
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFileRejectsMissingHeaderTimestamps(t *testing.T) {
	path := writeEpochFile(t, "P4_accel.csv", "magnitude,imputed\n1.0,0\n")
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestParticipantID(t *testing.T) {
	assert.Equal(t, "P123", ParticipantID("/data/P123_accel_2015.csv"))
	assert.Equal(t, "sub-01", ParticipantID("sub-01.csv"))
}
