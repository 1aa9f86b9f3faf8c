// Package testsupport centralises fixture loading and comparison helpers
// shared by tests across the module.
package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelkit/pkg/model"
)

// InstanceComparer teaches go-cmp to compare model instances by their
// value-equality semantics instead of reaching into unexported state.
func InstanceComparer() cmp.Option {
	return cmp.Comparer(func(a, b *model.Instance) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Equal(b)
	})
}

// Diff compares two values with go-cmp, treating instances by Equal.
// Returns "" when they match.
func Diff(want, got any) string {
	return cmp.Diff(want, got, InstanceComparer())
}

// MustLoadTree reads a JSON fixture into a neutral tree, keeping numbers
// as json.Number so integer fields coerce without precision loss.
func MustLoadTree(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load tree fixture: %v", err)
	}
	return MustParseTree(t, data)
}

// MustParseTree parses JSON bytes into a neutral tree.
func MustParseTree(t *testing.T, data []byte) map[string]any {
	t.Helper()

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var tree map[string]any
	if err := decoder.Decode(&tree); err != nil {
		t.Fatalf("parse tree fixture: %v", err)
	}
	return tree
}
