package export

import (
	"fmt"
	"io"
	"math"

	"github.com/openscribe/transcript-exporter/cmd/exporter/diarize"
	"github.com/openscribe/transcript-exporter/cmd/exporter/transcript"
)

// srtTS converts seconds into the 00:00:00,000 SRT timestamp format.
func srtTS(seconds float64) string {
	ts := int64(math.Round(seconds * 1000))

	sMs := int64(1000)
	mMs := 60 * sMs
	hMs := 60 * mMs

	h := ts / hMs
	m := (ts - (h * hMs)) / mMs
	s := ((ts - (h * hMs)) - m*mMs) / sMs
	ms := ((ts - (h * hMs)) - m*mMs) - s*sMs

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func renderSRT(w io.Writer, segments []transcript.Segment, labeler *diarize.Labeler) error {
	for i, s := range segments {
		text := s.Text
		if labeler != nil && s.Speaker != nil {
			text = labeler.Label(*s.Speaker) + ": " + text
		}
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n", i+1, srtTS(s.StartTime), srtTS(s.EndTime), text)
		if err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	return nil
}
