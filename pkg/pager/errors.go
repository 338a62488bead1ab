package pager

import "errors"

var (
	// ErrFileOpenFailed is returned when the backing file cannot be
	// opened or created.
	ErrFileOpenFailed = errors.New("pager: file open failed")

	// ErrFileReadFailed is returned when a page read fails, either
	// because the underlying I/O failed or because pid is out of range.
	ErrFileReadFailed = errors.New("pager: file read failed")

	// ErrFileWriteFailed is returned when a page write fails, either
	// because the underlying I/O failed or because pid is past the
	// single page that may extend the file.
	ErrFileWriteFailed = errors.New("pager: file write failed")

	// ErrFileSeekFailed is returned when the file's current size cannot
	// be determined.
	ErrFileSeekFailed = errors.New("pager: file seek failed")

	// ErrClosed is returned by any operation attempted on a pager whose
	// Close has already been called.
	ErrClosed = errors.New("pager: closed")
)
