package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/skelly/pkg/domain"
	"github.com/aretw0/skelly/pkg/registry"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// regionDoc is the on-disk form of a region. Indices may be given
// explicitly or as a [start, end) range; landmark names may be given
// explicitly or generated from a prefix.
type regionDoc struct {
	Name           string   `mapstructure:"name"`
	Landmarks      []string `mapstructure:"landmarks"`
	Indices        []int    `mapstructure:"indices"`
	Range          []int    `mapstructure:"range"`
	LandmarkPrefix string   `mapstructure:"landmark_prefix"`
}

type layoutDoc struct {
	Kind    string      `mapstructure:"kind"`
	Dims    int         `mapstructure:"dims"`
	Regions []regionDoc `mapstructure:"regions"`
}

type layoutFile struct {
	Trackers []layoutDoc `mapstructure:"trackers"`
}

// LoadLayouts reads tracker layouts from a YAML or JSON file.
// The file holds either a single layout or a list under "trackers".
// Layouts are returned as written; call Validate before use.
func LoadLayouts(path string) ([]registry.TrackerLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	return ParseLayouts(data, formatOf(path))
}

// ParseLayouts decodes layout documents. format is "json" or "yaml".
func ParseLayouts(data []byte, format string) ([]registry.TrackerLayout, error) {
	var raw map[string]any
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse layout json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse layout yaml: %w", err)
		}
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty layout file", domain.ErrConfiguration)
	}

	var docs []layoutDoc
	if _, multi := raw["trackers"]; multi {
		var f layoutFile
		if err := decode(raw, &f); err != nil {
			return nil, err
		}
		docs = f.Trackers
	} else {
		var d layoutDoc
		if err := decode(raw, &d); err != nil {
			return nil, err
		}
		docs = []layoutDoc{d}
	}

	out := make([]registry.TrackerLayout, 0, len(docs))
	for _, d := range docs {
		layout, err := d.toLayout()
		if err != nil {
			return nil, err
		}
		out = append(out, layout)
	}
	return out, nil
}

func decode(input any, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return nil
}

func (d layoutDoc) toLayout() (registry.TrackerLayout, error) {
	layout := registry.TrackerLayout{
		Kind:    d.Kind,
		Dims:    d.Dims,
		Regions: make([]registry.RegionLayout, 0, len(d.Regions)),
	}
	for _, r := range d.Regions {
		region := registry.RegionLayout{
			Name:      domain.AspectName(r.Name),
			Landmarks: r.Landmarks,
			Indices:   r.Indices,
		}
		if len(r.Range) > 0 {
			if len(r.Indices) > 0 {
				return layout, &domain.ConfigurationError{Tracker: d.Kind, Region: r.Name, Reason: "both indices and range given"}
			}
			if len(r.Range) != 2 {
				return layout, &domain.ConfigurationError{Tracker: d.Kind, Region: r.Name, Reason: "range must be [start, end]"}
			}
			region.Indices = registry.Range(r.Range[0], r.Range[1])
		}
		if r.LandmarkPrefix != "" {
			if len(r.Landmarks) > 0 {
				return layout, &domain.ConfigurationError{Tracker: d.Kind, Region: r.Name, Reason: "both landmarks and landmark_prefix given"}
			}
			region.Landmarks = make([]string, len(region.Indices))
			for i := range region.Landmarks {
				region.Landmarks[i] = fmt.Sprintf("%s%d", r.LandmarkPrefix, i)
			}
		}
		layout.Regions = append(layout.Regions, region)
	}
	return layout, nil
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}
