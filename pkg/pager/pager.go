// Package pager implements the fixed-size paged block store that backs
// the B+Tree index. Pages are PageSize bytes, addressed by a
// non-negative PageId, and are never freed once allocated; the store
// only ever grows by appending a page at EndPID.
package pager

import (
	"os"

	"github.com/pkg/errors"
)

// PageSize is the fixed size, in bytes, of every page in the store.
// The on-disk node layouts in pkg/bptreeidx assume this exact value.
const PageSize = 1024

// PageId addresses a page within the store. NoPage is the sentinel for
// "no page" (e.g. an empty tree's root pointer).
type PageId int32

// NoPage is the sentinel PageId meaning "none".
const NoPage PageId = -1

// Mode selects how the backing file is opened.
type Mode int

const (
	// ModeRead opens an existing file for reading only; Write calls
	// fail and a missing file is an error.
	ModeRead Mode = iota

	// ModeWrite opens the file for reading and writing, creating it if
	// it does not already exist.
	ModeWrite
)

// Pager is a fixed-size block device over a single backing file. All
// reads and writes are whole-page, and the store provides no ordering
// or durability guarantee between writes beyond what Close's flush
// gives a reader that opens the file afterward.
type Pager struct {
	file   *os.File
	mode   Mode
	endPID PageId
}

// Open opens or creates the named file as a page store. In ModeWrite
// the file is created (with the given perm, subject to umask) if it
// does not exist; in ModeRead a missing file is ErrFileOpenFailed and
// perm is ignored.
func Open(path string, mode Mode, perm os.FileMode) (*Pager, error) {
	flags := os.O_RDONLY
	if mode == ModeWrite {
		flags = os.O_RDWR | os.O_CREATE
	}

	f, err := os.OpenFile(path, flags, perm)
	if err != nil {
		return nil, errors.Wrap(ErrFileOpenFailed, err.Error())
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(ErrFileSeekFailed, err.Error())
	}
	if info.Size()%PageSize != 0 {
		_ = f.Close()
		return nil, errors.Wrap(ErrFileOpenFailed, "file size is not a multiple of the page size")
	}

	return &Pager{
		file:   f,
		mode:   mode,
		endPID: PageId(info.Size() / PageSize),
	}, nil
}

// EndPID returns one past the last allocated page: the PageId the next
// Write may append at.
func (p *Pager) EndPID() PageId {
	return p.endPID
}

// ReadOnly reports whether the store was opened in ModeRead. Callers
// that conditionally persist state (Index.Close) use this to avoid
// tripping Write's read-only guard.
func (p *Pager) ReadOnly() bool {
	return p.mode != ModeWrite
}

// Read fills buf (which must be PageSize bytes) with the contents of
// page pid.
func (p *Pager) Read(pid PageId, buf []byte) error {
	if p.file == nil {
		return ErrClosed
	}
	if pid < 0 || pid >= p.endPID {
		return errors.Wrapf(ErrFileReadFailed, "page %d out of range (end=%d)", pid, p.endPID)
	}
	if len(buf) != PageSize {
		return errors.Wrapf(ErrFileReadFailed, "buffer size %d != page size %d", len(buf), PageSize)
	}

	n, err := p.file.ReadAt(buf, int64(pid)*PageSize)
	if err != nil || n != PageSize {
		return errors.Wrapf(ErrFileReadFailed, "page %d: %v", pid, err)
	}
	return nil
}

// Write writes buf (which must be PageSize bytes) to page pid. Writing
// at pid == EndPID() extends the store by one page; writing at any
// other pid past EndPID() fails.
func (p *Pager) Write(pid PageId, buf []byte) error {
	if p.file == nil {
		return ErrClosed
	}
	if p.mode != ModeWrite {
		return errors.Wrap(ErrFileWriteFailed, "pager opened read-only")
	}
	if pid < 0 || pid > p.endPID {
		return errors.Wrapf(ErrFileWriteFailed, "page %d out of range (end=%d)", pid, p.endPID)
	}
	if len(buf) != PageSize {
		return errors.Wrapf(ErrFileWriteFailed, "buffer size %d != page size %d", len(buf), PageSize)
	}

	n, err := p.file.WriteAt(buf, int64(pid)*PageSize)
	if err != nil || n != PageSize {
		return errors.Wrapf(ErrFileWriteFailed, "page %d: %v", pid, err)
	}
	if pid == p.endPID {
		p.endPID++
	}
	return nil
}

// Close flushes pending writes and releases the file handle. Close is
// idempotent.
func (p *Pager) Close() error {
	if p.file == nil {
		return nil
	}

	err := p.file.Sync()
	closeErr := p.file.Close()
	p.file = nil

	if err != nil {
		return errors.Wrap(ErrFileWriteFailed, err.Error())
	}
	if closeErr != nil {
		return errors.Wrap(ErrFileWriteFailed, closeErr.Error())
	}
	return nil
}
