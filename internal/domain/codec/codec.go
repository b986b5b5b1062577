// Package codec reads and writes the export document: a YAML mapping with
// exactly the devices, groups and scenarios sequences.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"iot-scenario-porter/internal/domain/model"
	"iot-scenario-porter/internal/domain/normalizer"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

type document struct {
	Devices   []*model.Device   `yaml:"devices"`
	Groups    []*model.Group    `yaml:"groups"`
	Scenarios []*model.Scenario `yaml:"scenarios"`
}

// Export serializes the snapshot's devices, groups and scenarios.
func Export(s *model.Snapshot) ([]byte, error) {
	if s == nil {
		return nil, model.ErrNoSnapshot
	}
	doc := document{
		Devices:   nonNil(s.Devices),
		Groups:    nonNil(s.Groups),
		Scenarios: nonNil(s.Scenarios),
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("encode export document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close yaml encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// Import parses an export document. Missing collections are empty; any
// status carried in the file is discarded and every entity comes back
// unattempted and selected. Structural errors wrap model.ErrParse and
// nothing is returned alongside them.
func Import(fileName string, data []byte) (*model.ImportBatch, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrParse, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if _, ok := raw.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: top level must be a mapping, got %T", model.ErrParse, raw)
	}
	// Re-encode as JSON so numbers and nested values decode exactly like
	// API payloads do.
	body, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrParse, err)
	}
	root := gjson.ParseBytes(body)

	collections := map[model.Category][]gjson.Result{}
	for _, c := range model.Categories {
		list := root.Get(string(c))
		if list.Exists() && list.Type != gjson.Null && !list.IsArray() {
			return nil, fmt.Errorf("%w: %s must be a sequence", model.ErrParse, c)
		}
		collections[c] = normalizer.Objects(list)
	}

	batch := &model.ImportBatch{
		FileName:  fileName,
		Scenarios: []*model.Scenario{},
		Devices:   []*model.Device{},
		Groups:    []*model.Group{},
	}
	// Entries written by hand may lack an id; they get a positional one so
	// they can still be selected and reported.
	for i, item := range collections[model.CategoryScenarios] {
		s := normalizer.Scenario(item)
		if s.ID == "" {
			s.ID = positionalID(i)
		}
		batch.Scenarios = append(batch.Scenarios, s)
	}
	for i, item := range collections[model.CategoryDevices] {
		d := normalizer.Device(item)
		if d.ID == "" {
			d.ID = positionalID(i)
		}
		batch.Devices = append(batch.Devices, d)
	}
	for i, item := range collections[model.CategoryGroups] {
		g := normalizer.Group(item)
		if g.ID == "" {
			g.ID = positionalID(i)
		}
		batch.Groups = append(batch.Groups, g)
	}
	for _, c := range model.Categories {
		for _, it := range batch.Items(c) {
			it.State().Reset()
		}
	}
	return batch, nil
}

// positionalID names the i-th entry of a collection, counting from 1.
func positionalID(i int) string {
	return fmt.Sprintf("#%d", i+1)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
