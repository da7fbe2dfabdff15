package export

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/openscribe/transcript-exporter/cmd/exporter/diarize"
	"github.com/openscribe/transcript-exporter/cmd/exporter/transcript"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func speakerCfg() *diarize.SpeakerConfig {
	cfg := &diarize.SpeakerConfig{}
	cfg.SetDefaults()
	cfg.Enable = true
	return cfg
}

func twoSpeakerDoc() *transcript.Document {
	return &transcript.Document{
		Segments: []transcript.Segment{
			{
				StartTime:  0,
				EndTime:    1.5,
				Text:       "Hello there.",
				Speaker:    intPtr(0),
				Confidence: floatPtr(0.955),
			},
			{
				StartTime:  4.5,
				EndTime:    7.2,
				Text:       "Let me show you the editor.",
				Speaker:    intPtr(1),
				Confidence: floatPtr(0.95),
			},
		},
	}
}

func legacyDoc() *transcript.Document {
	return &transcript.Document{
		Segments: []transcript.Segment{
			{
				StartTime: 0,
				EndTime:   4.2,
				Text:      "Hi, welcome to the session.",
				Topic:     "Greeting",
				Keywords:  []string{"hi", "welcome"},
			},
			{
				StartTime:          4.2,
				EndTime:            9.8,
				Text:               "We will write some code in vim today.",
				Topic:              "Programming",
				Keywords:           []string{"code", "vim"},
				AIAnalysis:         "Intro to the coding session.",
				SoftwareDetected:   "vim",
				SoftwareDetections: []string{"vim", "tmux"},
			},
		},
		Metadata: transcript.Metadata{
			Topics:  []transcript.Topic{{Name: "Greeting"}, {Name: "Programming"}},
			Summary: "A session intro.",
		},
	}
}

func TestSRTTS(t *testing.T) {
	require.Equal(t, "00:00:00,000", srtTS(0))
	require.Equal(t, "00:00:01,000", srtTS(1))
	require.Equal(t, "00:00:01,100", srtTS(1.1))
	require.Equal(t, "00:01:10,000", srtTS(70))
	require.Equal(t, "00:01:02,200", srtTS(62.2))
	require.Equal(t, "01:00:00,000", srtTS(3600))
	require.Equal(t, "01:45:45,045", srtTS(6345.045))
}

func TestExportSRT(t *testing.T) {
	out, err := Export(twoSpeakerDoc(), FormatSRT, Options{})
	require.NoError(t, err)
	require.Equal(t,
		"1\n00:00:00,000 --> 00:00:01,500\nHello there.\n\n"+
			"2\n00:00:04,500 --> 00:00:07,200\nLet me show you the editor.\n\n",
		out)
}

func TestExportSRTWithSpeakers(t *testing.T) {
	// Different speakers three seconds apart stay two distinct cues,
	// now carrying labels.
	out, err := Export(twoSpeakerDoc(), FormatSRT, Options{Speaker: speakerCfg()})
	require.NoError(t, err)
	require.Equal(t,
		"1\n00:00:00,000 --> 00:00:01,500\nSpeaker 0: Hello there.\n\n"+
			"2\n00:00:04,500 --> 00:00:07,200\nSpeaker 1: Let me show you the editor.\n\n",
		out)
}

func TestExportSRTMergesSameSpeaker(t *testing.T) {
	doc := &transcript.Document{
		Segments: []transcript.Segment{
			{StartTime: 0, EndTime: 2, Text: "Hello there.", Speaker: intPtr(0), Confidence: floatPtr(0.95)},
			{StartTime: 2.5, EndTime: 5, Text: "How are you?", Speaker: intPtr(0), Confidence: floatPtr(0.9)},
		},
	}
	out, err := Export(doc, FormatSRT, Options{Speaker: speakerCfg()})
	require.NoError(t, err)
	require.Equal(t, "1\n00:00:00,000 --> 00:00:05,000\nSpeaker 0: Hello there. How are you?\n\n", out)
}

func TestExportInvalidSpeakerConfig(t *testing.T) {
	tcs := []struct {
		name   string
		mutate func(cfg *diarize.SpeakerConfig)
	}{
		{
			name:   "threshold out of range",
			mutate: func(cfg *diarize.SpeakerConfig) { cfg.ConfidenceThreshold = 1.5 },
		},
		{
			name:   "label format without placeholder",
			mutate: func(cfg *diarize.SpeakerConfig) { cfg.LabelFormat = "no placeholder" },
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			cfg := speakerCfg()
			tc.mutate(cfg)

			// The export still succeeds, with diarization disabled.
			out, err := Export(twoSpeakerDoc(), FormatSRT, Options{Speaker: cfg, Logger: zerolog.Nop()})
			require.NoError(t, err)
			require.NotContains(t, out, "Speaker")
			require.Contains(t, out, "Hello there.")
		})
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	out, err := Export(twoSpeakerDoc(), Format("xml"), Options{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Empty(t, out)
}

func TestExportMarkdown(t *testing.T) {
	out, err := Export(legacyDoc(), FormatMarkdown, Options{})
	require.NoError(t, err)

	require.Contains(t, out, "# Transcript\n")
	require.Contains(t, out, "> A session intro.\n")
	require.Contains(t, out, "- Topics: Greeting, Programming\n")
	require.Contains(t, out, "**[00:00 - 00:04]** Hi, welcome to the session.\n")
	require.Contains(t, out, "- Topic: Programming\n- Keywords: code, vim\n- AI Analysis: Intro to the coding session.\n")
}

func TestExportSummary(t *testing.T) {
	out, err := Export(legacyDoc(), FormatSummary, Options{})
	require.NoError(t, err)

	require.Contains(t, out, "A session intro.\n")
	require.Contains(t, out, "Segments: 2\n")
	require.Contains(t, out, "Words: 13\n")
	require.Contains(t, out, "Topics: Greeting, Programming\n")
}

func TestExportJSONRoundTrip(t *testing.T) {
	for _, doc := range []*transcript.Document{twoSpeakerDoc(), legacyDoc()} {
		out, err := Export(doc, FormatJSON, Options{})
		require.NoError(t, err)

		back, err := transcript.Normalize([]byte(out))
		require.NoError(t, err)
		require.Len(t, back.Segments, len(doc.Segments))
		for i, s := range doc.Segments {
			require.Equal(t, s.Text, back.Segments[i].Text)
			require.Equal(t, s.StartTime, back.Segments[i].StartTime)
			require.Equal(t, s.EndTime, back.Segments[i].EndTime)
			require.Equal(t, s.Speaker, back.Segments[i].Speaker)
			require.Equal(t, s.Confidence, back.Segments[i].Confidence)
		}
		require.Equal(t, doc.Metadata, back.Metadata)
	}
}

func TestExportIdempotence(t *testing.T) {
	for _, format := range []Format{FormatSRT, FormatMarkdown, FormatJSON, FormatSummary} {
		t.Run(string(format), func(t *testing.T) {
			opts := Options{Speaker: speakerCfg()}
			a, err := Export(twoSpeakerDoc(), format, opts)
			require.NoError(t, err)
			b, err := Export(twoSpeakerDoc(), format, opts)
			require.NoError(t, err)
			require.Equal(t, a, b)
		})
	}
}
