package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDenyListRules(t *testing.T) {
	d := NewDenyList([]string{"guest"}, []string{"uber-"}, []string{"truck"})

	if !d.Blocked("guest") {
		t.Fatalf("expected exact match to block")
	}
	if !d.Blocked("uber-eats") {
		t.Fatalf("expected substring match to block")
	}
	if !d.Blocked("red truck") {
		t.Fatalf("expected vehicle suffix to block")
	}
	if d.Blocked("trucker joe") {
		t.Fatalf("suffix rule must only match the trailing token")
	}
	if d.Blocked("") {
		t.Fatalf("empty names are not blocked")
	}
	if d.Blocked("jane doe") {
		t.Fatalf("did not expect ordinary name to block")
	}
}

func TestLoadDenyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denylist.yaml")
	asset := `names:
  - to go
  - bar
substrings:
  - postmates-
vehicle_suffixes:
  - van
`
	if err := os.WriteFile(path, []byte(asset), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	d, err := LoadDenyList(path)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if !d.Blocked("to go") || !d.Blocked("postmates-77") || !d.Blocked("white van") {
		t.Fatalf("expected loaded rules to block")
	}
}

func TestLoadDenyListMissingFile(t *testing.T) {
	if _, err := LoadDenyList(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing asset")
	}
}

func TestDefaultDenyListMatchesAsset(t *testing.T) {
	d := DefaultDenyList()
	for _, name := range []string{"to go", "guest", "bar", "valued customer"} {
		if !d.Blocked(name) {
			t.Fatalf("expected default list to block %q", name)
		}
	}
}
