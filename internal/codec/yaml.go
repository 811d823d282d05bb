package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"snowloader/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles hand-written inventory fixtures
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlInventory keeps entries loose so unknown keys survive into Extra
type yamlInventory struct {
	Hosts   []map[string]any `yaml:"hosts"`
	Sites   []map[string]any `yaml:"sites"`
	Devices []map[string]any `yaml:"devices"`
	Clients []map[string]any `yaml:"clients"`
}

// Parse imports an inventory fixture from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Inventory, error) {
	var yi yamlInventory
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yi); err != nil {
		if err == io.EOF {
			return &domain.Inventory{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	inv := &domain.Inventory{}
	if err := convertEntries(yi.Hosts, &inv.Hosts); err != nil {
		return nil, fmt.Errorf("hosts: %w", err)
	}
	if err := convertEntries(yi.Sites, &inv.Sites); err != nil {
		return nil, fmt.Errorf("sites: %w", err)
	}
	if err := convertEntries(yi.Devices, &inv.Devices); err != nil {
		return nil, fmt.Errorf("devices: %w", err)
	}
	if err := convertEntries(yi.Clients, &inv.Clients); err != nil {
		return nil, fmt.Errorf("clients: %w", err)
	}

	return inv, nil
}

// Export writes the inventory as YAML using API field names
func (c *YAMLCodec) Export(inv *domain.Inventory, w io.Writer) error {
	// JSON first so custom marshalers (and their extras) apply
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// convertEntries routes each YAML entry through the record's JSON decoder
func convertEntries[T any](entries []map[string]any, out *[]T) error {
	if len(entries) == 0 {
		return nil
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
