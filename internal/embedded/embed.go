// Package embedded carries the sample vehicle catalog compiled into the binary.
package embedded

import (
	"embed"
)

// FS holds the sample data set.
//
//go:embed data/*.json
var FS embed.FS

// CatalogPath is the sample catalog's path within FS.
const CatalogPath = "data/cars.json"

// Catalog returns the raw sample catalog.
func Catalog() ([]byte, error) {
	return FS.ReadFile(CatalogPath)
}
