// Package config loads the on-disk tool configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openscribe/transcript-exporter/cmd/exporter/diarize"
)

// Config is the YAML document read from disk.
type Config struct {
	SpeakerDiarization diarize.SpeakerConfig `yaml:"speaker_diarization"`
}

func (cfg *Config) SetDefaults() {
	cfg.SpeakerDiarization.SetDefaults()
}

// Load reads the YAML config at path, applying defaults for absent
// fields. A missing file yields the defaults (diarization disabled).
// The speaker block is not validated here: the exporter validates it
// per call and degrades to disabled diarization on failure.
func Load(path string) (*Config, error) {
	var cfg Config
	cfg.SetDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return &cfg, nil
}
