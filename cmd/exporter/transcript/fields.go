package transcript

import (
	"strconv"
	"strings"
)

// fieldSpec binds a display name to its projection over a segment (or,
// for metadata-backed fields, over the document metadata). The table is
// fixed; which entries currently hold data is a per-document question
// answered by FieldOptions.
type fieldSpec struct {
	name     string
	metadata bool
	extract  func(s Segment, m Metadata) string
}

var fieldTable = []fieldSpec{
	{name: "Segment Transcript", extract: func(s Segment, _ Metadata) string {
		return s.Text
	}},
	{name: "Start Time", extract: func(s Segment, _ Metadata) string {
		return formatSeconds(s.StartTime)
	}},
	{name: "End Time", extract: func(s Segment, _ Metadata) string {
		return formatSeconds(s.EndTime)
	}},
	{name: "Speaker", extract: func(s Segment, _ Metadata) string {
		if s.Speaker == nil {
			return ""
		}
		return strconv.Itoa(*s.Speaker)
	}},
	{name: "Confidence Score", extract: func(s Segment, _ Metadata) string {
		if s.Confidence == nil {
			return ""
		}
		return strconv.FormatFloat(*s.Confidence, 'f', 3, 64)
	}},
	{name: "Topic", extract: func(s Segment, _ Metadata) string {
		return s.Topic
	}},
	{name: "Keywords", extract: func(s Segment, _ Metadata) string {
		return strings.Join(s.Keywords, ", ")
	}},
	{name: "AI Analysis", extract: func(s Segment, _ Metadata) string {
		return s.AIAnalysis
	}},
	{name: "Software Detected", extract: func(s Segment, _ Metadata) string {
		return s.SoftwareDetected
	}},
	{name: "Software Detections", extract: func(s Segment, _ Metadata) string {
		return strings.Join(s.SoftwareDetections, ", ")
	}},
	{name: "Topics", metadata: true, extract: func(_ Segment, m Metadata) string {
		names := make([]string, 0, len(m.Topics))
		for _, t := range m.Topics {
			names = append(names, t.Name)
		}
		return strings.Join(names, ", ")
	}},
	{name: "Summary", metadata: true, extract: func(_ Segment, m Metadata) string {
		return m.Summary
	}},
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// AvailableFields returns the full, format-independent catalog of
// display names.
func AvailableFields() []string {
	names := make([]string, 0, len(fieldTable))
	for _, f := range fieldTable {
		names = append(names, f.name)
	}
	return names
}

// FieldOptions returns the catalog entries whose projection is
// non-empty for at least one segment (or for the document metadata) of
// doc. Always a subset of AvailableFields, recomputed per document.
func FieldOptions(doc *Document) []string {
	var names []string
	for _, f := range fieldTable {
		if fieldHasData(f, doc) {
			names = append(names, f.name)
		}
	}
	return names
}

func fieldHasData(f fieldSpec, doc *Document) bool {
	if f.metadata {
		return f.extract(Segment{}, doc.Metadata) != ""
	}
	for _, s := range doc.Segments {
		if f.extract(s, doc.Metadata) != "" {
			return true
		}
	}
	return false
}

func lookupField(name string) (fieldSpec, bool) {
	for _, f := range fieldTable {
		if f.name == name {
			return f, true
		}
	}
	return fieldSpec{}, false
}
