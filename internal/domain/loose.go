package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// decodeLoose decodes a loosely typed map into out. Scalars are coerced
// (numbers to strings and back), ServiceNow reference objects collapse to
// their value, and keys the struct does not know land in its ",remain" field.
func decodeLoose(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       referenceValueHook,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	return decoder.Decode(input)
}

// referenceValueHook flattens {"link": "...", "value": "..."} reference
// objects returned by the Table API into their value when the target is a
// string.
func referenceValueHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Map {
		return data, nil
	}
	if to.Kind() != reflect.String && !(to.Kind() == reflect.Ptr && to.Elem().Kind() == reflect.String) {
		return data, nil
	}

	m, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}
	if value, ok := m["value"]; ok {
		return value, nil
	}

	return data, nil
}

// decodeJSON parses data with numbers kept as json.Number, exact past 2^53.
func decodeJSON(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}

// unmarshalLoose parses a JSON object and decodes it with decodeLoose.
func unmarshalLoose(data []byte, out any) error {
	var raw map[string]any
	if err := decodeJSON(data, &raw); err != nil {
		return err
	}

	return decodeLoose(raw, out)
}

// marshalWithExtra encodes v (an alias type without custom marshalers) and
// merges extra keys that v does not already define.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return data, nil
	}

	var merged map[string]any
	if err := decodeJSON(data, &merged); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, exists := merged[k]; !exists {
			merged[k] = val
		}
	}

	return json.Marshal(merged)
}
