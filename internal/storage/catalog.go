package storage

import (
	"encoding/json"
	"path/filepath"
)

// Catalog is the set of known node schemas an app has declared,
// opaque to the engine per spec.md §1's "individual nodes are opaque
// from the core's perspective" — the store holds and serves these
// blobs without interpreting them.
type Catalog map[string]json.RawMessage

func (s *Store) catalogPath(appID string) string {
	return filepath.Join(s.path("apps", appID), "catalog.json")
}

// SaveCatalog replaces an app's declared node-schema catalog.
func (s *Store) SaveCatalog(appID string, c Catalog) error {
	return writeAtomic(s.catalogPath(appID), c)
}

// LoadCatalog reads an app's declared node-schema catalog, returning
// an empty catalog rather than NotFound if none has been declared yet.
func (s *Store) LoadCatalog(appID string) (Catalog, error) {
	var c Catalog
	if err := readJSON(s.catalogPath(appID), &c); err != nil {
		if IsNotFound(err) {
			return Catalog{}, nil
		}
		return nil, err
	}
	return c, nil
}
