// Package timecode converts the two timestamp grammars used by the frame
// pipeline into seconds: capture times embedded in frame filenames, and
// clock times found in transcript headings.
package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// frameNameRe matches the capture timestamp embedded in extracted frame
// filenames, e.g. frame_00_01_23_456.jpg. The pattern may appear anywhere
// in the name.
var frameNameRe = regexp.MustCompile(`frame_(\d{2})_(\d{2})_(\d{2})_(\d{3})`)

// ParseFrameName extracts the capture time in seconds from a frame
// filename. Returns nil when the name does not carry the pattern; such
// frames are timestamp-less, not malformed.
func ParseFrameName(name string) *float64 {
	m := frameNameRe.FindStringSubmatch(name)
	if m == nil {
		return nil
	}

	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])

	total := float64(h)*3600 + float64(min)*60 + float64(sec) + float64(ms)/1000.0
	return &total
}

// ParseClock parses a transcript clock time of the form HH:MM:SS,mmm or
// HH:MM:SS.mmm into seconds. The millisecond part is optional and is
// normalized to exactly three digits: longer values are truncated, shorter
// values are right-padded with zeros.
func ParseClock(s string) (float64, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM:SS[.mmm]", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", s, err)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", s, err)
	}

	secParts := strings.SplitN(parts[2], ".", 2)
	sec, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", s, err)
	}

	ms := 0
	if len(secParts) == 2 {
		msStr := secParts[1]
		if len(msStr) > 3 {
			msStr = msStr[:3]
		}
		for len(msStr) < 3 {
			msStr += "0"
		}
		ms, err = strconv.Atoi(msStr)
		if err != nil {
			return 0, fmt.Errorf("invalid milliseconds in %q: %w", s, err)
		}
	}

	return float64(h)*3600 + float64(min)*60 + float64(sec) + float64(ms)/1000.0, nil
}

// FormatSeconds renders seconds as HH:MM:SS,mmm for display.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int64(math.Round(seconds * 1000))
	h := totalMs / 3600000
	min := (totalMs % 3600000) / 60000
	sec := (totalMs % 60000) / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, min, sec, ms)
}
