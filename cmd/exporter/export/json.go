package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/openscribe/transcript-exporter/cmd/exporter/transcript"
)

// jsonSegment is the legacy-shaped object the JSON target emits, so an
// exported document normalizes back through the legacy path. Field
// order fixes the key order in the output.
type jsonSegment struct {
	SegmentID          int      `json:"segment_id"`
	StartTime          float64  `json:"start_time"`
	EndTime            float64  `json:"end_time"`
	Transcript         string   `json:"transcript"`
	Speaker            *int     `json:"speaker,omitempty"`
	Confidence         *float64 `json:"confidence,omitempty"`
	Topic              string   `json:"topic,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
	AIAnalysis         string   `json:"ai_analysis,omitempty"`
	SoftwareDetected   string   `json:"software_detected,omitempty"`
	SoftwareDetections []string `json:"software_detections,omitempty"`
}

type jsonDocument struct {
	Metadata transcript.Metadata `json:"metadata"`
	Segments []jsonSegment       `json:"segments"`
}

func renderJSON(w io.Writer, segments []transcript.Segment, meta transcript.Metadata) error {
	doc := jsonDocument{
		Metadata: meta,
		Segments: make([]jsonSegment, 0, len(segments)),
	}
	for i, s := range segments {
		doc.Segments = append(doc.Segments, jsonSegment{
			SegmentID:          i + 1,
			StartTime:          s.StartTime,
			EndTime:            s.EndTime,
			Transcript:         s.Text,
			Speaker:            s.Speaker,
			Confidence:         s.Confidence,
			Topic:              s.Topic,
			Keywords:           s.Keywords,
			AIAnalysis:         s.AIAnalysis,
			SoftwareDetected:   s.SoftwareDetected,
			SoftwareDetections: s.SoftwareDetections,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	return nil
}
