package coda

import "github.com/scicoda/coda/internal/errs"

// ErrKind is the error-code taxonomy surfaced at this package's boundary
// (spec.md §6 "Error codes"), re-exported from internal/errs so callers
// of pkg/coda never need to import an internal package to branch on a
// failure's class.
type ErrKind = errs.Code

// The full fixed set spec.md §6 enumerates.
const (
	ErrInvalidArgument  = errs.InvalidArgument
	ErrInvalidType      = errs.InvalidType
	ErrInvalidIndex     = errs.InvalidIndex
	ErrInvalidFormat    = errs.InvalidFormat
	ErrArrayOutOfBounds = errs.ArrayOutOfBounds
	ErrOutOfBoundsRead  = errs.OutOfBoundsRead
	ErrOutOfMemory      = errs.OutOfMemory
	ErrFileRead         = errs.FileRead
	ErrNoHDF4Support    = errs.NoHDF4Support
	ErrNoHDF5Support    = errs.NoHDF5Support
	ErrExpression       = errs.Expression
	ErrDataDefinition   = errs.DataDefinition
	ErrProduct          = errs.Product
	ErrXML              = errs.XML
)

// Error is this package's error type, re-exported from internal/errs so
// callers can inspect Code/Message/Path without an internal import.
type Error = errs.Error

// KindOf reports the ErrKind carried by err, or InvalidFormat if err is
// not one this module produced (matching internal/errs.CodeOf's
// fallback).
func KindOf(err error) ErrKind {
	return errs.CodeOf(err)
}
