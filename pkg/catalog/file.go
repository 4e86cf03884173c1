package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/carmap/internal/embedded"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// FileSource reads a local catalog file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string {
	return s.Path
}

// Fetch implements Source.
func (s FileSource) Fetch(ctx context.Context) ([]vehicles.Vehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewFetchError(s.Path, "canceled", err)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.NewFetchError(s.Path, "source unreachable", errors.WrapIO("read", s.Path, err))
	}

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		return DecodeYAML(s.Path, data)
	default:
		return DecodeJSON(s.Path, data)
	}
}

// DecodeYAML parses data as a YAML sequence of vehicle records.
func DecodeYAML(source string, data []byte) ([]vehicles.Vehicle, error) {
	var records []vehicles.Vehicle
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, errors.NewFetchError(source, fmt.Sprintf("decode records: %v", err), err)
	}
	return validated(source, records)
}

// EmbeddedSource serves the sample catalog compiled into the binary.
type EmbeddedSource struct{}

// Name implements Source.
func (EmbeddedSource) Name() string {
	return "embedded:" + embedded.CatalogPath
}

// Fetch implements Source.
func (e EmbeddedSource) Fetch(ctx context.Context) ([]vehicles.Vehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewFetchError(e.Name(), "canceled", err)
	}
	data, err := embedded.Catalog()
	if err != nil {
		return nil, errors.NewFetchError(e.Name(), "read embedded catalog", err)
	}
	return DecodeJSON(e.Name(), data)
}
