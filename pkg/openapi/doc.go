// Package openapi derives model definitions from OpenAPI documents: every
// object schema under components.schemas becomes a model definition with
// its constraints, required list, defaults, nested objects, and arrays
// mapped onto the modeling layer. Schemas carrying a discriminator over a
// oneOf become polymorphic bases. kin-openapi stays an implementation
// detail behind the Document and Parser surfaces.
package openapi
