package core

import "errors"

// Sentinel errors covering the taxonomy in the error-handling design: every
// concrete error returned by the codec wraps exactly one of these, so
// callers can branch with errors.Is regardless of the wrapping context.
var (
	// ErrFormat covers bad magic, unsupported version, truncated input,
	// unaligned or cyclic offsets, and unknown tag bytes.
	ErrFormat = errors.New("byml: format error")

	// ErrIndex covers out-of-range string/key-table indices and
	// duplicate or misordered hash keys.
	ErrIndex = errors.New("byml: index error")

	// ErrType covers type-narrowing accessors invoked on the wrong node
	// variant, and writing a non-container root.
	ErrType = errors.New("byml: type error")

	// ErrIO covers failures from the underlying byte sink or source.
	ErrIO = errors.New("byml: I/O error")
)
