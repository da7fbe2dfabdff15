package transcript

import "strings"

// ExtractFields projects the selected catalog fields into one row per
// segment. Unknown names and per-row extraction misses leave the cell
// out instead of aborting the batch; metadata-backed fields repeat
// identically on every row.
func ExtractFields(doc *Document, names []string) []map[string]string {
	rows := make([]map[string]string, 0, len(doc.Segments))
	for _, s := range doc.Segments {
		row := map[string]string{}
		for _, name := range names {
			f, ok := lookupField(name)
			if !ok {
				continue
			}
			if v := f.extract(s, doc.Metadata); v != "" {
				row[name] = v
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// FilterByTopic returns the segments whose topic matches exactly
// (case-sensitive), preserving order.
func FilterByTopic(segments []Segment, topic string) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.Topic == topic {
			out = append(out, s)
		}
	}
	return out
}

// FilterBySoftware returns the segments where name equals the detected
// software or is one of the listed detections.
func FilterBySoftware(segments []Segment, name string) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.SoftwareDetected == name {
			out = append(out, s)
			continue
		}
		for _, d := range s.SoftwareDetections {
			if d == name {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Stats aggregates simple counts over a normalized document.
type Stats struct {
	TotalSegments   int
	AvailableFields int
	FieldsWithData  int
	Words           int
	Sentences       int
	Paragraphs      int
	Topics          int
	TotalDuration   float64
}

// Summarize computes document statistics by simple tokenization over
// the concatenated segment text.
func Summarize(doc *Document) Stats {
	st := Stats{
		TotalSegments:   len(doc.Segments),
		AvailableFields: len(fieldTable),
		FieldsWithData:  len(FieldOptions(doc)),
		Topics:          len(AllTopics(doc)),
	}
	for _, s := range doc.Segments {
		st.TotalDuration += s.Duration()
		st.Words += len(strings.Fields(s.Text))
		st.Sentences += countSentences(s.Text)
		if strings.TrimSpace(s.Text) != "" {
			st.Paragraphs++
		}
	}
	return st
}

// countSentences counts terminator runs; unterminated non-empty text
// still counts as one sentence.
func countSentences(text string) int {
	n := 0
	inRun := false
	trailing := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inRun {
				n++
				inRun = true
			}
			trailing = true
		default:
			inRun = false
			if !strings.ContainsRune(" \t\n", r) {
				trailing = false
			}
		}
	}
	if !trailing && strings.TrimSpace(text) != "" {
		n++
	}
	return n
}

// HasAIAnalysis reports whether any segment carries analyst output.
// Raw-shape documents never do.
func HasAIAnalysis(doc *Document) bool {
	for _, s := range doc.Segments {
		if s.AIAnalysis != "" {
			return true
		}
	}
	return false
}

// HasSoftwareDetection reports whether any segment carries a software
// detection.
func HasSoftwareDetection(doc *Document) bool {
	for _, s := range doc.Segments {
		if s.SoftwareDetected != "" {
			return true
		}
	}
	return false
}

// AllTopics returns the deduplicated topic names of the document, in
// order of first appearance: per-segment topics when the legacy shape
// supplied them, the metadata topics block otherwise.
func AllTopics(doc *Document) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range doc.Segments {
		if s.Topic == "" || seen[s.Topic] {
			continue
		}
		seen[s.Topic] = true
		out = append(out, s.Topic)
	}
	if len(out) > 0 {
		return out
	}
	for _, t := range doc.Metadata.Topics {
		if t.Name == "" || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t.Name)
	}
	return out
}
