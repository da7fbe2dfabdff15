package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openscribe/transcript-exporter/cmd/exporter/config"
	"github.com/openscribe/transcript-exporter/cmd/exporter/export"
	"github.com/openscribe/transcript-exporter/cmd/exporter/transcript"
)

func errKind(err error) string {
	switch {
	case errors.Is(err, transcript.ErrNotFound):
		return "not_found"
	case errors.Is(err, transcript.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, transcript.ErrUnrecognizedFormat):
		return "unrecognized_format"
	case errors.Is(err, export.ErrUnsupportedFormat):
		return "unsupported_format"
	default:
		return "internal"
	}
}

func main() {
	var (
		inPath     string
		outPath    string
		format     string
		configPath string
		listFields bool
		showStats  bool
		verbose    bool
	)

	flag.StringVar(&inPath, "input", "", "Input transcript JSON file (-i)")
	flag.StringVar(&inPath, "i", "", "Input transcript JSON file")
	flag.StringVar(&outPath, "output", "", "Output file (-o); stdout when empty")
	flag.StringVar(&outPath, "o", "", "Output file; stdout when empty")
	flag.StringVar(&format, "format", string(export.FormatSRT), fmt.Sprintf("Export format: %s (-f)", strings.Join(export.Formats(), "|")))
	flag.StringVar(&format, "f", string(export.FormatSRT), "Export format")
	flag.StringVar(&configPath, "config", "exporter.yaml", "YAML config file with the speaker_diarization block")
	flag.BoolVar(&listFields, "fields", false, "List catalog fields with data for this file and exit")
	flag.BoolVar(&showStats, "stats", false, "Print document statistics and exit")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Str("run", uuid.NewString()).
		Logger()

	if inPath == "" {
		logger.Error().Msg("missing required -input flag")
		flag.Usage()
		os.Exit(2)
	}

	doc, err := transcript.Load(inPath)
	if err != nil {
		logger.Error().Str("kind", errKind(err)).Err(err).Msg("failed to normalize input")
		os.Exit(1)
	}
	logger.Debug().
		Int("segments", len(doc.Segments)).
		Int("topics", len(doc.Metadata.Topics)).
		Msg("normalized input")

	if listFields {
		fmt.Println("Available fields:")
		for _, name := range transcript.AvailableFields() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("Fields with data:")
		for _, name := range transcript.FieldOptions(doc) {
			fmt.Printf("  %s\n", name)
		}
		return
	}

	if showStats {
		st := transcript.Summarize(doc)
		fmt.Printf("Segments: %d\n", st.TotalSegments)
		fmt.Printf("Fields with data: %d/%d\n", st.FieldsWithData, st.AvailableFields)
		fmt.Printf("Words: %d\n", st.Words)
		fmt.Printf("Sentences: %d\n", st.Sentences)
		fmt.Printf("Topics: %d\n", st.Topics)
		fmt.Printf("Duration: %.2fs\n", st.TotalDuration)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		// A broken config file disables diarization, it never blocks
		// the export.
		logger.Warn().Err(err).Msg("failed to load config, diarization disabled")
		cfg = &config.Config{}
		cfg.SetDefaults()
	}

	out, err := export.Export(doc, export.Format(format), export.Options{
		Speaker: &cfg.SpeakerDiarization,
		Logger:  logger.With().Str("component", "export").Logger(),
	})
	if err != nil {
		logger.Error().Str("kind", errKind(err)).Err(err).Msg("export failed")
		os.Exit(1)
	}

	if outPath == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		logger.Error().Err(err).Msg("failed to write output")
		os.Exit(1)
	}
	logger.Info().Str("path", outPath).Str("format", format).Msg("wrote export")
}
