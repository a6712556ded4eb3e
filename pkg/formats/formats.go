// Package formats provides readers and writers for the OBJ text mesh format
// and its compact binary counterpart, bObj.
//
// Both formats share one record model, Mesh. The Variant passed to each
// reader and writer selects whether vertex normals take part.
package formats

import (
	"errors"
	"fmt"
)

// Errors shared by all readers and writers.
var (
	ErrOpen              = errors.New("cannot open mesh file")
	ErrMalformedOBJ      = errors.New("malformed OBJ line")
	ErrTruncatedBObjData = errors.New("truncated bObj data")
)

// Variant selects the feature set of both formats.
type Variant uint8

// Format variants.
const (
	VariantBasic   Variant = 0 // vertices, faces and comments
	VariantNormals Variant = 1 // adds vertex normals (vn lines, normal section)
)

// String returns a human-readable variant name.
func (v Variant) String() string {
	switch v {
	case VariantBasic:
		return "Basic"
	case VariantNormals:
		return "Normals"
	default:
		return fmt.Sprintf("Unknown(%d)", v)
	}
}

// HasNormals returns true if the variant carries vertex normals.
func (v Variant) HasNormals() bool {
	return v == VariantNormals
}

func openError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrOpen, op, path, err)
}
