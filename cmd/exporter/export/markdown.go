package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openscribe/transcript-exporter/cmd/exporter/transcript"
)

// clockTS formats seconds as mm:ss, or hh:mm:ss past the hour mark.
func clockTS(sec float64) string {
	d := time.Duration(sec*1000) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func renderMarkdown(w io.Writer, segments []transcript.Segment, meta transcript.Metadata) error {
	var b strings.Builder

	b.WriteString("# Transcript\n\n")
	if meta.Summary != "" {
		fmt.Fprintf(&b, "> %s\n\n", meta.Summary)
	}
	if len(meta.Topics) > 0 {
		names := make([]string, 0, len(meta.Topics))
		for _, t := range meta.Topics {
			names = append(names, t.Name)
		}
		fmt.Fprintf(&b, "- Topics: %s\n\n", strings.Join(names, ", "))
	}
	b.WriteString("---\n\n")

	for _, s := range segments {
		fmt.Fprintf(&b, "**[%s - %s]** %s\n\n", clockTS(s.StartTime), clockTS(s.EndTime), strings.TrimSpace(s.Text))

		var bullets []string
		if s.Topic != "" {
			bullets = append(bullets, fmt.Sprintf("- Topic: %s", s.Topic))
		}
		if len(s.Keywords) > 0 {
			bullets = append(bullets, fmt.Sprintf("- Keywords: %s", strings.Join(s.Keywords, ", ")))
		}
		if s.AIAnalysis != "" {
			bullets = append(bullets, fmt.Sprintf("- AI Analysis: %s", s.AIAnalysis))
		}
		if len(bullets) > 0 {
			fmt.Fprintf(&b, "%s\n\n", strings.Join(bullets, "\n"))
		}
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	return nil
}
