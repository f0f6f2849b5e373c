package main

import (
	"strings"
	"testing"
)

func TestMetaSetMappingRequiresInput(t *testing.T) {
	_, err := metaSetMapping(nil, "")
	if err == nil {
		t.Fatal("expected error for empty set")
	}
	if !strings.Contains(err.Error(), "meta clear") {
		t.Fatalf("error should point at meta clear, got %q", err)
	}
}

func TestMetaSetMappingAcceptsPairsOrData(t *testing.T) {
	meta, err := metaSetMapping([]string{"sprint=2026-Q3"}, "")
	if err != nil {
		t.Fatalf("pairs only: %v", err)
	}
	if meta["sprint"] != "2026-Q3" {
		t.Fatalf("unexpected mapping %v", meta)
	}

	meta, err = metaSetMapping(nil, `{"points":5}`)
	if err != nil {
		t.Fatalf("data only: %v", err)
	}
	if meta["points"] != float64(5) {
		t.Fatalf("unexpected mapping %v", meta)
	}
}
