package bptreeidx

import (
	"errors"

	"github.com/vahagz-labs/bptreeidx/pkg/pager"
)

// FILE_* errors originate in the page store; re-exported here so
// callers of this package never need to import pkg/pager directly to
// compare against them with errors.Is.
var (
	ErrFileOpenFailed  = pager.ErrFileOpenFailed
	ErrFileReadFailed  = pager.ErrFileReadFailed
	ErrFileWriteFailed = pager.ErrFileWriteFailed
	ErrFileSeekFailed  = pager.ErrFileSeekFailed
)

// Structural errors are programming errors raised by this package
// itself: a caller violated a precondition (NodeFull, InvalidCursor),
// asked for a key that is absent (NoSuchRecord), or the index file's
// content didn't parse (InvalidFileFormat). EndOfTree is the normal
// forward-scan terminator, not a failure.
var (
	ErrNodeFull          = errors.New("bptreeidx: node full")
	ErrInvalidCursor     = errors.New("bptreeidx: invalid cursor")
	ErrNoSuchRecord      = errors.New("bptreeidx: no such record")
	ErrInvalidAttribute  = errors.New("bptreeidx: invalid attribute")
	ErrInvalidFileFormat = errors.New("bptreeidx: invalid file format")
	ErrEndOfTree         = errors.New("bptreeidx: end of tree")
)
