package byml

import "github.com/scigolib/byml/internal/core"

// Sentinel errors, re-exported so callers can use errors.Is without
// importing the internal packages directly.
var (
	ErrFormat = core.ErrFormat
	ErrIndex  = core.ErrIndex
	ErrType   = core.ErrType
	ErrIO     = core.ErrIO
)
