package series

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Input files carry a single metadata header line followed by one
// "magnitude,imputed" row per epoch:
//
//	acceleration (mg) - 2015-08-06 10:00:00 - 2015-08-13 09:59:55 - sampleRate = 5 seconds,imputed
//	2.151,0
//	1.998,1
var (
	headerTimeRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	headerRateRe = regexp.MustCompile(`sampleRate = (\d+) seconds`)
)

const headerTimeLayout = "2006-01-02 15:04:05"

// LoadFile reads one participant CSV and builds the epoch series. The
// participant ID is the filename prefix before the first underscore.
func LoadFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open epoch file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, ErrEmpty
	}
	start, interval, expected, err := parseHeader(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	samples := make([]Sample, 0, expected)
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		sample, err := parseRow(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, sample)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read epoch rows: %w", err)
	}

	s, err := New(ParticipantID(path), start, interval, samples)
	if err != nil {
		return nil, err
	}
	if expected > 0 {
		s.ExpectedCount = expected
	}
	return s, nil
}

// ParticipantID extracts the participant identifier from a file path.
func ParticipantID(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if idx := strings.Index(name, "_"); idx > 0 {
		return name[:idx]
	}
	return name
}

func parseHeader(header string) (start time.Time, interval time.Duration, expected int, err error) {
	times := headerTimeRe.FindStringSubmatch(header)
	if times == nil {
		return time.Time{}, 0, 0, fmt.Errorf("header missing start/end timestamps: %q", header)
	}
	start, err = time.Parse(headerTimeLayout, times[1])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("parse start time: %w", err)
	}
	end, err := time.Parse(headerTimeLayout, times[2])
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("parse end time: %w", err)
	}

	rateSeconds := 5
	if m := headerRateRe.FindStringSubmatch(header); m != nil {
		rateSeconds, err = strconv.Atoi(m[1])
		if err != nil || rateSeconds <= 0 {
			return time.Time{}, 0, 0, fmt.Errorf("invalid sample rate in header: %q", header)
		}
	}
	interval = time.Duration(rateSeconds) * time.Second

	if end.After(start) {
		expected = int(end.Sub(start)/interval) + 1
	}
	return start, interval, expected, nil
}

func parseRow(text string) (Sample, error) {
	mag := text
	imputed := ""
	if idx := strings.IndexByte(text, ','); idx >= 0 {
		mag = strings.TrimSpace(text[:idx])
		imputed = strings.TrimSpace(text[idx+1:])
	}

	value, err := strconv.ParseFloat(mag, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("parse magnitude %q: %w", mag, err)
	}

	flag := false
	switch strings.ToLower(imputed) {
	case "", "0", "false":
	case "1", "true":
		flag = true
	default:
		return Sample{}, fmt.Errorf("parse imputed flag %q", imputed)
	}
	return Sample{Magnitude: value, Imputed: flag}, nil
}
