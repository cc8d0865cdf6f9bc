package domain

import "errors"

var (
	// ErrUnknownTransform is returned for a vertical transform family other than old1994/new2008.
	ErrUnknownTransform = errors.New("unknown vertical transform")
	// ErrUnknownVariable is returned when a variable kind has no descriptor.
	ErrUnknownVariable = errors.New("unknown variable kind")
	// ErrUnknownSide is returned for a boundary side other than south/east/north/west.
	ErrUnknownSide = errors.New("unknown boundary side")
	// ErrInvalidSpec is returned for malformed vertical coordinate parameters.
	ErrInvalidSpec = errors.New("invalid vertical coordinate spec")
	// ErrShape is returned when array lengths are inconsistent.
	ErrShape = errors.New("inconsistent array shape")
)
