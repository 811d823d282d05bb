package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"snowloader/internal/domain"
)

// Importer reads controller inventory from a document
type Importer interface {
	Parse(r io.Reader) (*domain.Inventory, error)
	Format() string
}

// Exporter writes controller inventory as a document
type Exporter interface {
	Export(inv *domain.Inventory, w io.Writer) error
	Format() string
}

// Codec both imports and exports
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec registered under name
func ForFormat(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", name)
	}
}

// ForPath picks a codec from the file extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("cannot infer format from %q", path)
	}
	return ForFormat(ext)
}
