// Package catalog loads the vehicle record list from its read-only source.
//
// A source is an HTTP endpoint, a local JSON or YAML file, or the sample data
// compiled into the binary. Every failure to produce a valid record list is
// reported as a *errors.FetchError.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Source produces the raw catalog records.
type Source interface {
	// Name identifies the source in errors and logs.
	Name() string

	// Fetch reads and decodes the full record list.
	Fetch(ctx context.Context) ([]vehicles.Vehicle, error)
}

// SourceFor picks a source for ref: HTTP for http:// and https:// references,
// the embedded sample for an empty reference, a local file otherwise.
func SourceFor(ref string, opts ...HTTPOption) Source {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return EmbeddedSource{}
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return NewHTTPSource(ref, opts...)
	default:
		return FileSource{Path: ref}
	}
}

// Load fetches from src and validates the result. The returned error, if
// any, is always a FetchError.
func Load(ctx context.Context, src Source, logger *zerolog.Logger) ([]vehicles.Vehicle, error) {
	logger = logging.OrNop(logger)
	logger.Debug().Str("source", src.Name()).Msg("Loading catalog")

	records, err := src.Fetch(ctx)
	if err != nil {
		err = errors.WrapFetch(src.Name(), err)
		logger.Error().Err(err).Str("source", src.Name()).Msg("Failed to load catalog")
		return nil, err
	}

	logger.Info().Str("source", src.Name()).Int("count", len(records)).Msg("Catalog loaded")
	return records, nil
}

// DecodeJSON parses data as a JSON array of vehicle records and validates
// identifier uniqueness.
func DecodeJSON(source string, data []byte) ([]vehicles.Vehicle, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.NewFetchError(source, "content is not a JSON array of records", nil)
	}

	var records []vehicles.Vehicle
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, errors.NewFetchError(source, fmt.Sprintf("decode records: %v", err), err)
	}
	return validated(source, records)
}

func validated(source string, records []vehicles.Vehicle) ([]vehicles.Vehicle, error) {
	if err := vehicles.Validate(records); err != nil {
		return nil, errors.NewFetchError(source, err.Error(), err)
	}
	if records == nil {
		records = []vehicles.Vehicle{}
	}
	return records, nil
}
