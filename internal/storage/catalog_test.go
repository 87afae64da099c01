package storage

import (
	"encoding/json"
	"testing"
)

func TestLoadCatalogWithNoneDeclaredIsEmpty(t *testing.T) {
	s, _ := Open(t.TempDir())
	c, err := s.LoadCatalog("app1")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(c) != 0 {
		t.Fatalf("expected empty catalog, got %v", c)
	}
}

func TestSaveAndLoadCatalogRoundTrips(t *testing.T) {
	s, _ := Open(t.TempDir())
	c := Catalog{"http_request": json.RawMessage(`{"pins":[]}`)}
	if err := s.SaveCatalog("app1", c); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}
	got, err := s.LoadCatalog("app1")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if string(got["http_request"]) != `{"pins":[]}` {
		t.Fatalf("unexpected catalog: %v", got)
	}
}
