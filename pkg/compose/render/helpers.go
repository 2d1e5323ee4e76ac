package render

import (
	"github.com/benjaminschreck/go-compose/pkg/compose/xml"
)

// MergeConsecutiveRuns merges consecutive runs in a paragraph that carry
// equivalent formatting. Adjacent text segments are joined so the paragraph
// keeps the fewest w:r and w:t elements that still render the same.
func MergeConsecutiveRuns(para *xml.Paragraph) {
	if len(para.Runs) <= 1 {
		return
	}
	para.Runs = mergeRunSlice(para.Runs)
}

// mergeRunSlice merges a slice of runs
func mergeRunSlice(runs []xml.Run) []xml.Run {
	merged := make([]xml.Run, 0, len(runs))
	var current *xml.Run

	for i := range runs {
		run := runs[i]
		if current != nil && current.Properties.Equal(run.Properties) {
			current.Content = appendContent(current.Content, run.Content)
			continue
		}
		if current != nil {
			merged = append(merged, *current)
		}
		newRun := xml.Run{Properties: run.Properties}
		newRun.Content = appendContent(nil, run.Content)
		current = &newRun
	}

	if current != nil {
		merged = append(merged, *current)
	}
	return merged
}

// appendContent appends src to dst, joining a trailing text segment of dst
// with a leading text segment of src. Text nodes are copied, never shared.
func appendContent(dst, src []xml.RunContent) []xml.RunContent {
	for _, c := range src {
		text, ok := c.(*xml.Text)
		if !ok {
			dst = append(dst, c)
			continue
		}
		if n := len(dst); n > 0 {
			if prev, ok := dst[n-1].(*xml.Text); ok {
				dst[n-1] = xml.NewText(prev.Content + text.Content)
				continue
			}
		}
		dst = append(dst, xml.NewText(text.Content))
	}
	return dst
}
