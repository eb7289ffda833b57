package main

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadNetworkYAML(t *testing.T) {
	n, domains, err := loadNetwork(writeSprinkler(t))
	if err != nil {
		t.Fatalf("loadNetwork: %v", err)
	}
	if n.Name() != "sprinkler" {
		t.Errorf("name = %q, want sprinkler", n.Name())
	}
	if len(n.Variables()) != 3 {
		t.Errorf("variables = %v", n.Variables())
	}
	if !reflect.DeepEqual(domains["Rain"], []string{"true", "false"}) {
		t.Errorf("Rain domain = %v", domains["Rain"])
	}
}

func TestLoadNetworkMissingPath(t *testing.T) {
	if _, _, err := loadNetwork(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing network file")
	}
}

func TestRunValidate(t *testing.T) {
	if err := runValidate([]string{"-network", writeSprinkler(t)}); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRunValidateRequiresNetwork(t *testing.T) {
	if err := runValidate(nil); err == nil {
		t.Fatal("expected usage error")
	}
}
