package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/framepick/framepick-agent/internal/grouping"
	"github.com/framepick/framepick-agent/internal/transcript"
)

// buildMarkdown assembles the export document: segments in parse order,
// each followed by the image links selected under its key, separated by
// horizontal rules, with ungrouped selections in a trailing section. Only
// images that were actually copied are linked.
func buildMarkdown(segments []transcript.Segment, payload Payload, copied map[string]bool) string {
	var b strings.Builder

	for i, seg := range segments {
		if i > 0 {
			b.WriteString("---\n\n")
		}
		b.WriteString(seg.Text)
		b.WriteString("\n\n")
		writeImageLinks(&b, payload[grouping.SegmentKey(i)], copied)
	}

	ungrouped := copiedOnly(payload[grouping.UngroupedKey], copied)
	if len(ungrouped) > 0 {
		if len(segments) > 0 {
			b.WriteString("---\n\n")
		}
		writeImageLinks(&b, ungrouped, copied)
	}

	return b.String()
}

func writeImageLinks(b *strings.Builder, rels []string, copied map[string]bool) {
	for _, rel := range rels {
		if !copied[rel] {
			continue
		}
		link := filepath.Join(imagesDirName, filepath.FromSlash(rel))
		link = strings.ReplaceAll(link, "\\", "/")
		fmt.Fprintf(b, "![%s](%s)\n\n", rel, link)
	}
}

func copiedOnly(rels []string, copied map[string]bool) []string {
	var out []string
	for _, rel := range rels {
		if copied[rel] {
			out = append(out, rel)
		}
	}
	return out
}
