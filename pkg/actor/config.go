package actor

import (
	"github.com/aretw0/skelly/pkg/domain"
	"github.com/aretw0/skelly/pkg/registry"
)

// Config selects a tracker layout and the optional regions an actor owns.
type Config struct {
	TrackerKind  string `json:"tracker_kind" yaml:"tracker_kind" toml:"tracker_kind" mapstructure:"tracker_kind"`
	IncludeFace  bool   `json:"include_face" yaml:"include_face" toml:"include_face" mapstructure:"include_face"`
	IncludeHands bool   `json:"include_hands" yaml:"include_hands" toml:"include_hands" mapstructure:"include_hands"`
}

// DefaultConfig returns the MediaPipe holistic configuration with every region enabled.
func DefaultConfig() Config {
	return Config{
		TrackerKind:  registry.MediaPipeKind,
		IncludeFace:  true,
		IncludeHands: true,
	}
}

// Validate checks the configuration on its own, without a registry.
func (c Config) Validate() error {
	if c.TrackerKind == "" {
		return &domain.ConfigurationError{Reason: "tracker kind is empty"}
	}
	return nil
}
