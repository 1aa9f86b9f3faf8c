package openapi_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-modelkit/pkg/openapi"
)

func TestLoadDocumentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(fixtureDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := openapi.LoadDocument(openapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Location() != path {
		t.Fatalf("location = %q, want %q", doc.Location(), path)
	}
	if !bytes.Equal(doc.Raw(), []byte(fixtureDoc)) {
		t.Fatal("raw payload differs from the file contents")
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	_, err := openapi.LoadDocument(openapi.SourceFromFile(filepath.Join(t.TempDir(), "absent.json")))
	if err == nil {
		t.Fatal("missing file must fail")
	}
}

func TestLoadDocumentBytesSourceRejected(t *testing.T) {
	if _, err := openapi.LoadDocument(openapi.SourceFromBytes()); err == nil {
		t.Fatal("bytes sources carry no path to load from")
	}
}

func TestNewDocumentValidation(t *testing.T) {
	if _, err := openapi.NewDocument(nil, []byte("x")); err == nil {
		t.Fatal("nil source must fail")
	}
	if _, err := openapi.NewDocument(openapi.SourceFromBytes(), nil); err == nil {
		t.Fatal("empty payload must fail")
	}
}

func TestDocumentRawIsACopy(t *testing.T) {
	payload := []byte(`{"openapi": "3.0.3"}`)
	doc := openapi.MustNewDocument(openapi.SourceFromBytes(), payload)

	raw := doc.Raw()
	raw[0] = '!'
	if got := doc.Raw()[0]; got != '{' {
		t.Fatalf("payload mutated through the returned slice: %q", got)
	}
}
