// Package transcript parses time-segmented transcript documents into an
// ordered list of segments. A segment spans from one timestamp heading to
// the next; the codec-validated time range on each heading drives image
// grouping downstream.
package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/framepick/framepick-agent/internal/timecode"
)

// headingRe detects transcript heading lines of the form
//
//	### Timestamp: **HH:MM:SS,mmm** ~ **HH:MM:SS,mmm**
//
// Trailing text on the line is ignored. The bold-wrapped time strings are
// captured raw and validated separately by the timecode package, so that a
// heading with a malformed time is detected and reported rather than
// silently merged into the surrounding text.
var headingRe = regexp.MustCompile(`(?m)^###\s*Timestamp:\s*\*\*([^*\n]+)\*\*\s*~\s*\*\*([^*\n]+)\*\*.*?$`)

// firstSegmentIncludesPreamble pins the span policy for segment 0: its text
// starts at byte offset 0, so any document preamble and the first heading
// line itself belong to the first segment.
const firstSegmentIncludesPreamble = true

// Segment is one transcript time range with its captured text.
type Segment struct {
	Index     int     `json:"index"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	StartStr  string  `json:"start_str"`
	EndStr    string  `json:"end_str"`
	Text      string  `json:"text"`
	CleanText string  `json:"clean_text"`
}

// SkippedHeading records a heading line that was detected but dropped
// because its time component failed to parse. The segment's text is not
// recoverable; the record makes the drop visible to callers and tests.
type SkippedHeading struct {
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

// Document is the result of parsing one transcript file.
type Document struct {
	Segments []Segment        `json:"segments"`
	Skipped  []SkippedHeading `json:"skipped,omitempty"`
}

// headingSpan locates one detected heading and carries its raw time strings.
type headingSpan struct {
	lineStart int
	lineEnd   int
	startRaw  string
	endRaw    string
}

// Parse splits a transcript document on its timestamp headings. A document
// with no headings becomes a single segment covering the whole trimmed text
// with a zero time range. Segment spans run from each heading's line start
// to the next heading's line start (end of document for the last); segment
// 0 additionally reaches back to byte 0 per firstSegmentIncludesPreamble.
func Parse(content string) Document {
	matches := headingRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return Document{Segments: []Segment{{
			Index: 0,
			Start: 0,
			End:   0,
			Text:  strings.TrimSpace(content),
		}}}
	}

	spans := make([]headingSpan, len(matches))
	for i, m := range matches {
		spans[i] = headingSpan{
			lineStart: m[0],
			lineEnd:   m[1],
			startRaw:  strings.TrimSpace(content[m[2]:m[3]]),
			endRaw:    strings.TrimSpace(content[m[4]:m[5]]),
		}
	}

	var doc Document
	for i, sp := range spans {
		start, err := timecode.ParseClock(sp.startRaw)
		if err != nil {
			doc.Skipped = append(doc.Skipped, SkippedHeading{
				Line:   content[sp.lineStart:sp.lineEnd],
				Reason: fmt.Sprintf("start time: %v", err),
			})
			continue
		}
		end, err := timecode.ParseClock(sp.endRaw)
		if err != nil {
			doc.Skipped = append(doc.Skipped, SkippedHeading{
				Line:   content[sp.lineStart:sp.lineEnd],
				Reason: fmt.Sprintf("end time: %v", err),
			})
			continue
		}

		contentStart := sp.lineStart
		if i == 0 && firstSegmentIncludesPreamble {
			contentStart = 0
		}
		contentEnd := len(content)
		if i+1 < len(spans) {
			contentEnd = spans[i+1].lineStart
		}

		raw := strings.TrimSpace(content[contentStart:contentEnd])
		doc.Segments = append(doc.Segments, Segment{
			Index:     len(doc.Segments),
			Start:     start,
			End:       end,
			StartStr:  sp.startRaw,
			EndStr:    sp.endRaw,
			Text:      raw,
			CleanText: cleanText(raw),
		})
	}

	return doc
}

// cleanText reduces a segment's raw text to a compact preview: collection
// begins after the segment's own timestamp heading line, and blank lines,
// horizontal rules, and Markdown headings are dropped. Survivors are joined
// with single spaces.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string

	started := false
	for _, line := range lines {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "### Timestamp:") {
			started = true
			continue
		}
		if !started {
			continue
		}
		if line == "" || line == "---" || strings.HasPrefix(line, "#") {
			continue
		}

		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, " "))
}
