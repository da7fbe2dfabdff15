package transcript

// Segment is the canonical transcript unit both source shapes project
// into. Optional fields are pointers so that "absent" survives a trip
// through the JSON exporter.
type Segment struct {
	StartTime  float64  `json:"start_time"`
	EndTime    float64  `json:"end_time"`
	Text       string   `json:"text"`
	Speaker    *int     `json:"speaker,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`

	// Enrichment fields, populated only by the legacy shape.
	Topic              string   `json:"topic,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
	AIAnalysis         string   `json:"ai_analysis,omitempty"`
	SoftwareDetected   string   `json:"software_detected,omitempty"`
	SoftwareDetections []string `json:"software_detections,omitempty"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Topic is a document-level topic with its relevance score. Legacy
// documents carry no scores, so Confidence stays zero there.
type Topic struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Metadata holds document-level data that doesn't belong to any single
// segment.
type Metadata struct {
	Topics  []Topic `json:"topics,omitempty"`
	Summary string  `json:"summary,omitempty"`
}

// Document is one normalized transcript: segments ordered by
// non-decreasing start time, plus document metadata.
type Document struct {
	Segments []Segment
	Metadata Metadata
}
