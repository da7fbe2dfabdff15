// Package diarize merges adjacent same-speaker segments under a
// validated configuration and maps speaker identifiers to display
// labels.
package diarize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/openscribe/transcript-exporter/cmd/exporter/transcript"
)

// ErrInvalidConfig marks a speaker configuration that failed
// validation. It is recovered locally by the exporter, never fatal.
var ErrInvalidConfig = errors.New("invalid speaker diarization config")

const (
	DefaultConfidenceThreshold = 0.8
	DefaultLabelFormat         = "Speaker %d"
	DefaultMinSegmentDuration  = 1.0
	DefaultMaxSpeakers         = 10

	// maxMergeGapSec bounds the silence allowed between two
	// same-speaker segments for them to count as consecutive. Longer
	// pauses keep the segments apart even when the speaker matches.
	maxMergeGapSec = 5.0

	// fallbackLabel is used for speakers beyond MaxSpeakers.
	fallbackLabel = "Speaker ?"
)

// SpeakerConfig mirrors the speaker_diarization block of the on-disk
// configuration.
type SpeakerConfig struct {
	Enable                   bool    `yaml:"enable"`
	ConfidenceThreshold      float64 `yaml:"confidence_threshold"`
	LabelFormat              string  `yaml:"label_format"`
	MergeConsecutiveSegments bool    `yaml:"merge_consecutive_segments"`
	MinSegmentDuration       float64 `yaml:"min_segment_duration"`
	MaxSpeakers              int     `yaml:"max_speakers"`
}

func (c *SpeakerConfig) SetDefaults() {
	c.Enable = false
	c.ConfidenceThreshold = DefaultConfidenceThreshold
	c.LabelFormat = DefaultLabelFormat
	c.MergeConsecutiveSegments = true
	c.MinSegmentDuration = DefaultMinSegmentDuration
	c.MaxSpeakers = DefaultMaxSpeakers
}

func (c *SpeakerConfig) IsValid() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence_threshold should be in the range [0, 1]", ErrInvalidConfig)
	}
	if n := countIntPlaceholders(c.LabelFormat); n != 1 {
		return fmt.Errorf("%w: label_format should contain exactly one integer placeholder, got %d", ErrInvalidConfig, n)
	}
	if c.MinSegmentDuration < 0 {
		return fmt.Errorf("%w: min_segment_duration should not be negative", ErrInvalidConfig)
	}
	if c.MaxSpeakers <= 0 {
		return fmt.Errorf("%w: max_speakers should be a positive number", ErrInvalidConfig)
	}
	return nil
}

// countIntPlaceholders counts fmt-style integer verbs in format,
// skipping %% escapes.
func countIntPlaceholders(format string) int {
	count := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i >= len(format) || format[i] == '%' {
			continue
		}
		for i < len(format) && strings.IndexByte("+-# 0123456789.", format[i]) >= 0 {
			i++
		}
		if i < len(format) && strings.IndexByte("dboxX", format[i]) >= 0 {
			count++
		}
	}
	return count
}

// Merge joins adjacent segments that share a speaker. It is a pure
// function over its inputs; the caller's slice is never modified.
//
// Two segments join when the speaker matches (and is present on both),
// neither falls below the confidence threshold (absent confidence is
// always eligible), and the pause between them is at most
// maxMergeGapSec. A joined segment shorter than MinSegmentDuration is
// dropped only when every contributor was individually shorter too;
// untouched input segments are never dropped.
func Merge(segments []transcript.Segment, cfg *SpeakerConfig, logger zerolog.Logger) []transcript.Segment {
	if cfg == nil || !cfg.Enable || !cfg.MergeConsecutiveSegments || len(segments) < 2 {
		return append([]transcript.Segment(nil), segments...)
	}

	type candidate struct {
		seg        transcript.Segment
		merged     bool
		shortParts bool
	}

	isShort := func(s transcript.Segment) bool {
		return s.Duration() < cfg.MinSegmentDuration
	}

	out := []candidate{{seg: segments[0], shortParts: isShort(segments[0])}}
	for _, curr := range segments[1:] {
		last := &out[len(out)-1]
		if canMerge(last.seg, curr, cfg) {
			last.shortParts = last.shortParts && isShort(curr)
			last.seg.Text = joinText(last.seg.Text, curr.Text)
			last.seg.EndTime = curr.EndTime
			last.seg.Confidence = minConfidence(last.seg.Confidence, curr.Confidence)
			last.merged = true
			logger.Debug().
				Float64("start", curr.StartTime).
				Int("speaker", *curr.Speaker).
				Msg("joined segment with previous")
			continue
		}
		out = append(out, candidate{seg: curr, shortParts: isShort(curr)})
	}

	res := make([]transcript.Segment, 0, len(out))
	for _, c := range out {
		if c.merged && c.shortParts && isShort(c.seg) {
			logger.Debug().
				Float64("start", c.seg.StartTime).
				Msg("dropped merge artifact below min_segment_duration")
			continue
		}
		res = append(res, c.seg)
	}
	return res
}

func canMerge(prev, curr transcript.Segment, cfg *SpeakerConfig) bool {
	if prev.Speaker == nil || curr.Speaker == nil || *prev.Speaker != *curr.Speaker {
		return false
	}
	if curr.StartTime-prev.EndTime > maxMergeGapSec {
		return false
	}
	if prev.Confidence != nil && *prev.Confidence < cfg.ConfidenceThreshold {
		return false
	}
	if curr.Confidence != nil && *curr.Confidence < cfg.ConfidenceThreshold {
		return false
	}
	return true
}

func joinText(a, b string) string {
	a = strings.TrimRight(a, " ")
	b = strings.TrimLeft(b, " ")
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func minConfidence(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b < *a:
		return b
	default:
		return a
	}
}

// Labeler formats speaker labels, honoring MaxSpeakers distinct
// identifiers in order of first appearance across segments. Speakers
// beyond the bound get a fallback label.
type Labeler struct {
	format  string
	honored map[int]bool
}

func NewLabeler(cfg *SpeakerConfig, segments []transcript.Segment) *Labeler {
	l := &Labeler{
		format:  cfg.LabelFormat,
		honored: map[int]bool{},
	}
	for _, s := range segments {
		if s.Speaker == nil || l.honored[*s.Speaker] {
			continue
		}
		if len(l.honored) >= cfg.MaxSpeakers {
			break
		}
		l.honored[*s.Speaker] = true
	}
	return l
}

func (l *Labeler) Label(speaker int) string {
	if !l.honored[speaker] {
		return fallbackLabel
	}
	return fmt.Sprintf(l.format, speaker)
}
