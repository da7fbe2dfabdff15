// Package export renders a normalized transcript document into one of
// the supported output formats.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/openscribe/transcript-exporter/cmd/exporter/diarize"
	"github.com/openscribe/transcript-exporter/cmd/exporter/transcript"
)

// ErrUnsupportedFormat marks an export format outside the supported
// set.
var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatSRT      Format = "srt"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatSummary  Format = "summary"
)

func (f Format) IsValid() bool {
	switch f {
	case FormatSRT, FormatMarkdown, FormatJSON, FormatSummary:
		return true
	default:
		return false
	}
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{
		string(FormatSRT),
		string(FormatMarkdown),
		string(FormatJSON),
		string(FormatSummary),
	}
}

type Options struct {
	// Speaker enables the diarization pass when non-nil, valid and
	// enabled. An invalid configuration is reported on Logger and
	// discarded: the export proceeds as if diarization were off.
	Speaker *diarize.SpeakerConfig

	// Logger receives diagnostics. The zero value is silent.
	Logger zerolog.Logger
}

// Export renders doc in the requested format and returns the content.
// Rendering is a pure function: identical inputs produce identical
// output, and nothing is emitted on failure.
func Export(doc *transcript.Document, format Format, opts Options) (string, error) {
	if !format.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}

	speaker := opts.Speaker
	if speaker != nil {
		if err := speaker.IsValid(); err != nil {
			opts.Logger.Warn().Err(err).Msg("discarding speaker diarization config")
			speaker = nil
		} else if !speaker.Enable {
			speaker = nil
		}
	}

	segments := doc.Segments
	var labeler *diarize.Labeler
	if speaker != nil {
		segments = diarize.Merge(segments, speaker, opts.Logger)
		labeler = diarize.NewLabeler(speaker, segments)
	}

	var sb strings.Builder
	var err error
	switch format {
	case FormatSRT:
		err = renderSRT(&sb, segments, labeler)
	case FormatMarkdown:
		err = renderMarkdown(&sb, segments, doc.Metadata)
	case FormatJSON:
		err = renderJSON(&sb, segments, doc.Metadata)
	case FormatSummary:
		err = renderSummary(&sb, segments, doc.Metadata)
	}
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}
