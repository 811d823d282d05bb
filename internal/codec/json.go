package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"snowloader/internal/domain"
)

// JSONCodec handles Site Manager API responses and inventory dumps
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// envelope is the Site Manager list response shape
type envelope struct {
	Data           []domain.Host `json:"data"`
	HTTPStatusCode int           `json:"httpStatusCode,omitempty"`
	TraceID        string        `json:"traceId,omitempty"`
}

// Parse accepts a bare array of hosts, a {"data": [...]} host envelope or
// a full inventory object with hosts/sites/devices/clients.
func (c *JSONCodec) Parse(r io.Reader) (*domain.Inventory, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to parse JSON: empty document")
	}

	if data[0] == '[' {
		var hosts []domain.Host
		if err := json.Unmarshal(data, &hosts); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return &domain.Inventory{Hosts: hosts}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if _, ok := probe["data"]; ok {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("failed to parse JSON envelope: %w", err)
		}
		if env.HTTPStatusCode != 0 && env.HTTPStatusCode != 200 {
			return nil, fmt.Errorf("response reports status %d (trace %s)", env.HTTPStatusCode, env.TraceID)
		}
		return &domain.Inventory{Hosts: env.Data}, nil
	}

	var inv domain.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &inv, nil
}

// Export writes the inventory as indented JSON
func (c *JSONCodec) Export(inv *domain.Inventory, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(inv); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
