package bptreeidx

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vahagz-labs/bptreeidx/util/logger"
)

// DefaultOptions is used by Open when no Options is given.
var DefaultOptions = Options{
	FileMode: 0644,
	Logger:   logger.L,
}

// Options configures a single index handle. Page size is not among
// these fields: spec.md fixes it at 1024 bytes as part of the on-disk
// format, and MAX_LEAF/MAX_INT are derived constants of that size, so
// making it configurable would break the format itself.
type Options struct {
	// FileMode is used when Open creates a new index file. Ignored if
	// the file already exists.
	FileMode os.FileMode

	// Logger receives structural events: open, node splits, new root
	// creation. Defaults to logger.L.
	Logger *logrus.Logger
}
