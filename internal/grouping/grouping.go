// Package grouping assigns cataloged images to transcript segments by
// capture time. Assignment is a pure function of its inputs; the grouped
// view is recomputed per request and never stored.
package grouping

import (
	"fmt"

	"github.com/framepick/framepick-agent/internal/catalog"
	"github.com/framepick/framepick-agent/internal/transcript"
)

// UngroupedKey is the bucket that holds every image when no transcript
// segments exist. It also names the trailing section of an export payload.
const UngroupedKey = "ungrouped"

// SegmentKey returns the external bucket key for a segment index.
func SegmentKey(index int) string {
	return fmt.Sprintf("segment_%d", index)
}

// Assign maps every image to exactly one bucket.
//
// With no segments, all images land in the single ungrouped bucket. With
// segments, every segment gets a bucket (empty ones included), and each
// image goes to the first segment in parse order whose inclusive time range
// contains its capture time. Images without a capture time and images
// outside every range go to the last segment's bucket. Overlapping segment
// ranges are tolerated; first match wins.
func Assign(images []catalog.Image, segments []transcript.Segment) map[string][]catalog.Image {
	grouped := make(map[string][]catalog.Image)

	if len(segments) == 0 {
		grouped[UngroupedKey] = append([]catalog.Image{}, images...)
		return grouped
	}

	for i := range segments {
		grouped[SegmentKey(i)] = []catalog.Image{}
	}
	lastKey := SegmentKey(len(segments) - 1)

	for _, img := range images {
		if img.CapturedAt == nil {
			grouped[lastKey] = append(grouped[lastKey], img)
			continue
		}

		assigned := false
		for i, seg := range segments {
			if *img.CapturedAt >= seg.Start && *img.CapturedAt <= seg.End {
				key := SegmentKey(i)
				grouped[key] = append(grouped[key], img)
				assigned = true
				break
			}
		}
		if !assigned {
			grouped[lastKey] = append(grouped[lastKey], img)
		}
	}

	return grouped
}
