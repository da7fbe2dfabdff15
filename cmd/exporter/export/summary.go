package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/openscribe/transcript-exporter/cmd/exporter/transcript"
)

func renderSummary(w io.Writer, segments []transcript.Segment, meta transcript.Metadata) error {
	doc := &transcript.Document{Segments: segments, Metadata: meta}
	stats := transcript.Summarize(doc)

	var b strings.Builder

	b.WriteString("Transcript Summary\n")
	b.WriteString("==================\n\n")

	if meta.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", meta.Summary)
	}

	fmt.Fprintf(&b, "Segments: %d\n", stats.TotalSegments)
	fmt.Fprintf(&b, "Duration: %s\n", clockTS(stats.TotalDuration))
	fmt.Fprintf(&b, "Words: %d\n", stats.Words)
	fmt.Fprintf(&b, "Sentences: %d\n", stats.Sentences)

	if topics := transcript.AllTopics(doc); len(topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(topics, ", "))
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	return nil
}
