package parsing

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed headings.yaml
var headingsYAML []byte

// HeadingSet lists the accepted heading synonyms per section.
type HeadingSet struct {
	Summary         []string `yaml:"summary"`
	KeyPoints       []string `yaml:"key_points"`
	Details         []string `yaml:"details"`
	Recommendations []string `yaml:"recommendations"`
}

func loadDefaultHeadings() (HeadingSet, error) {
	var doc struct {
		Sections HeadingSet `yaml:"sections"`
	}
	if err := yaml.Unmarshal(headingsYAML, &doc); err != nil {
		return HeadingSet{}, fmt.Errorf("parse headings table: %w", err)
	}
	return doc.Sections, nil
}
