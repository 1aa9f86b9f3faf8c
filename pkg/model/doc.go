// Package model implements a declarative data-modeling layer: model
// definitions are ordered sets of typed, validated fields, composed across
// an inheritance chain at definition time. Values coerce leniently from an
// enumerated set of source representations during construction and
// decoding, while Validate is the strict gate that re-checks every
// constraint and reports the full list of violations in one pass.
//
// Definitions, value types, and polymorphic registries are immutable once
// built and safe for concurrent reads. Instances are plain mutable records
// owned by their callers.
package model
