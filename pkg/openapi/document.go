package openapi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Source identifies where an OpenAPI document originated.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile  SourceKind = "file"
	SourceKindBytes SourceKind = "bytes"
)

type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type bytesSource struct{}

func (s bytesSource) Kind() SourceKind { return SourceKindBytes }
func (s bytesSource) Location() string { return "<bytes>" }

// SourceFromBytes returns a Source for documents supplied in memory.
func SourceFromBytes() Source { return bytesSource{} }

// Document wraps the raw OpenAPI payload (JSON or YAML text) and its
// origin, keeping kin-openapi types out of the public surface.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for
// tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// LoadDocument reads a document from a Source.
func LoadDocument(src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	switch src.Kind() {
	case SourceKindFile:
		data, err := os.ReadFile(src.Location())
		if err != nil {
			return Document{}, fmt.Errorf("openapi: read document: %w", err)
		}
		return NewDocument(src, data)
	default:
		return Document{}, fmt.Errorf("openapi: cannot load from %q source", src.Kind())
	}
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source { return d.source }

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
