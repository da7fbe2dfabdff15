package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// rawResponse mirrors the ASR service's native nested response. Only
// the parts the normalizer projects are declared.
type rawResponse struct {
	Results *rawResults `json:"results"`
}

type rawResults struct {
	Channels   []rawChannel   `json:"channels"`
	Utterances []rawUtterance `json:"utterances"`
	Summary    *rawSummary    `json:"summary"`
	Topics     *rawTopics     `json:"topics"`
}

type rawChannel struct {
	Alternatives []rawAlternative `json:"alternatives"`
}

type rawAlternative struct {
	Transcript string    `json:"transcript"`
	Confidence *float64  `json:"confidence"`
	Words      []rawWord `json:"words"`
}

type rawWord struct {
	Word       string   `json:"word"`
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Confidence *float64 `json:"confidence"`
	Speaker    *int     `json:"speaker"`
}

type rawUtterance struct {
	Start      float64   `json:"start"`
	End        float64   `json:"end"`
	Transcript string    `json:"transcript"`
	Confidence *float64  `json:"confidence"`
	Speaker    *int      `json:"speaker"`
	Channel    int       `json:"channel"`
	Words      []rawWord `json:"words"`
}

type rawSummary struct {
	Short string `json:"short"`
}

type rawTopics struct {
	Segments []rawTopicSegment `json:"segments"`
}

type rawTopicSegment struct {
	Text   string          `json:"text"`
	Topics []rawTopicScore `json:"topics"`
}

type rawTopicScore struct {
	Topic           string  `json:"topic"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// legacySegment mirrors one object of the pre-enriched flat shape.
type legacySegment struct {
	SegmentID          *int     `json:"segment_id"`
	StartTime          float64  `json:"start_time"`
	EndTime            float64  `json:"end_time"`
	Transcript         *string  `json:"transcript"`
	Speaker            *int     `json:"speaker"`
	Confidence         *float64 `json:"confidence"`
	Topic              string   `json:"topic"`
	Keywords           []string `json:"keywords"`
	AIAnalysis         string   `json:"ai_analysis"`
	SoftwareDetected   string   `json:"software_detected"`
	SoftwareDetections []string `json:"software_detections"`
	Summary            string   `json:"summary"`
}

// legacyEnvelope is the wrapped legacy form the JSON exporter emits, so
// exported documents normalize back through the legacy path.
type legacyEnvelope struct {
	Metadata *Metadata       `json:"metadata"`
	Segments []legacySegment `json:"segments"`
}

// Load reads and normalizes the transcript file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Normalize(data)
}

// Normalize detects which source shape data uses and projects it into
// the canonical document model. Shape-specific knowledge stays here;
// nothing downstream branches on the source format again.
func Normalize(data []byte) (*Document, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	switch v := probe.(type) {
	case map[string]any:
		if hasRawResults(v) {
			return normalizeRaw(data)
		}
		if segs, ok := v["segments"].([]any); ok && isLegacyList(segs) {
			return normalizeWrappedLegacy(data)
		}
	case []any:
		if isLegacyList(v) {
			return normalizeLegacy(data)
		}
	}

	return nil, ErrUnrecognizedFormat
}

func hasRawResults(top map[string]any) bool {
	results, ok := top["results"].(map[string]any)
	if !ok {
		return false
	}
	_, hasChannels := results["channels"]
	_, hasUtterances := results["utterances"]
	return hasChannels || hasUtterances
}

func isLegacyList(list []any) bool {
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := obj["segment_id"]; !ok {
			return false
		}
		if _, ok := obj["transcript"]; !ok {
			return false
		}
	}
	return true
}

func normalizeRaw(data []byte) (*Document, error) {
	var resp rawResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	doc := &Document{}
	results := resp.Results

	for _, u := range results.Utterances {
		doc.Segments = append(doc.Segments, Segment{
			StartTime:  u.Start,
			EndTime:    u.End,
			Text:       u.Transcript,
			Speaker:    u.Speaker,
			Confidence: u.Confidence,
		})
	}

	// Without utterance-level output the channel alternatives are the
	// next best unit: one segment per channel, timed by its words.
	if len(doc.Segments) == 0 {
		for _, ch := range results.Channels {
			if len(ch.Alternatives) == 0 {
				continue
			}
			alt := ch.Alternatives[0]
			seg := Segment{
				Text:       alt.Transcript,
				Confidence: alt.Confidence,
			}
			if len(alt.Words) > 0 {
				seg.StartTime = alt.Words[0].Start
				seg.EndTime = alt.Words[len(alt.Words)-1].End
				seg.Speaker = alt.Words[0].Speaker
			}
			doc.Segments = append(doc.Segments, seg)
		}
	}

	// Utterance order is start order in practice; keep the invariant
	// even when the service interleaves channels.
	sort.SliceStable(doc.Segments, func(i, j int) bool {
		return doc.Segments[i].StartTime < doc.Segments[j].StartTime
	})

	if results.Summary != nil {
		doc.Metadata.Summary = results.Summary.Short
	}
	if results.Topics != nil {
		doc.Metadata.Topics = collectRawTopics(results.Topics.Segments)
	}

	return doc, nil
}

// collectRawTopics deduplicates topics across the per-span topic
// blocks, keeping first-appearance order and the highest score seen.
func collectRawTopics(spans []rawTopicSegment) []Topic {
	var topics []Topic
	index := map[string]int{}
	for _, span := range spans {
		for _, t := range span.Topics {
			if i, ok := index[t.Topic]; ok {
				if t.ConfidenceScore > topics[i].Confidence {
					topics[i].Confidence = t.ConfidenceScore
				}
				continue
			}
			index[t.Topic] = len(topics)
			topics = append(topics, Topic{Name: t.Topic, Confidence: t.ConfidenceScore})
		}
	}
	return topics
}

func normalizeLegacy(data []byte) (*Document, error) {
	var list []legacySegment
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return projectLegacy(list, nil), nil
}

func normalizeWrappedLegacy(data []byte) (*Document, error) {
	var env legacyEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return projectLegacy(env.Segments, env.Metadata), nil
}

func projectLegacy(list []legacySegment, meta *Metadata) *Document {
	doc := &Document{}

	for _, ls := range list {
		seg := Segment{
			StartTime:          ls.StartTime,
			EndTime:            ls.EndTime,
			Speaker:            ls.Speaker,
			Confidence:         ls.Confidence,
			Topic:              ls.Topic,
			Keywords:           ls.Keywords,
			AIAnalysis:         ls.AIAnalysis,
			SoftwareDetected:   ls.SoftwareDetected,
			SoftwareDetections: ls.SoftwareDetections,
		}
		if ls.Transcript != nil {
			seg.Text = *ls.Transcript
		}
		doc.Segments = append(doc.Segments, seg)

		if doc.Metadata.Summary == "" && ls.Summary != "" {
			doc.Metadata.Summary = ls.Summary
		}
	}

	if meta != nil {
		doc.Metadata = *meta
		return doc
	}

	// Legacy documents have no topics block; the distinct per-segment
	// topics stand in, in order of first appearance.
	seen := map[string]bool{}
	for _, s := range doc.Segments {
		if s.Topic == "" || seen[s.Topic] {
			continue
		}
		seen[s.Topic] = true
		doc.Metadata.Topics = append(doc.Metadata.Topics, Topic{Name: s.Topic})
	}

	return doc
}
