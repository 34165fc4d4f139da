package core

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"teeup-backend-go/internal/models"
)

//go:embed labels.yaml
var labelsYAML []byte

// LabelTable maps stored availability values to display labels.
type LabelTable struct {
	Availability map[string]string `yaml:"availability"`
}

// ParseLabels decodes a label table from YAML.
func ParseLabels(raw []byte) (*LabelTable, error) {
	var t LabelTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("failed to parse label table: %w", err)
	}
	if len(t.Availability) == 0 {
		return nil, fmt.Errorf("label table has no availability entries")
	}
	return &t, nil
}

var (
	defaultLabelsOnce sync.Once
	defaultLabels     *LabelTable
)

// DefaultLabels returns the embedded label table. It panics if the embedded asset is malformed.
func DefaultLabels() *LabelTable {
	defaultLabelsOnce.Do(func() {
		t, err := ParseLabels(labelsYAML)
		if err != nil {
			panic(err)
		}
		defaultLabels = t
	})
	return defaultLabels
}

// Label returns the display label for status, or the raw value when it is not in the table.
func (t *LabelTable) Label(status models.Availability) string {
	if label, ok := t.Availability[string(status)]; ok {
		return label
	}
	return string(status)
}

// Known reports whether status has a label.
func (t *LabelTable) Known(status models.Availability) bool {
	_, ok := t.Availability[string(status)]
	return ok
}
