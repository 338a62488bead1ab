package bptreeidx

import "github.com/vahagz-labs/bptreeidx/pkg/pager"

// PageId addresses a page within the index file. NoPage is the
// sentinel meaning "none" (an empty tree's root). The last leaf's
// next-leaf pointer is 0 instead, not NoPage.
type PageId = pager.PageId

// NoPage is the PageId sentinel meaning "none".
const NoPage = pager.NoPage

// Key is the indexed value. Zero is reserved as the leaf/internal
// node's end-of-entries sentinel on disk (spec §3, §9) and therefore
// must never be inserted — Index.Insert rejects it with
// ErrInvalidAttribute.
type Key int32

// RecordId locates a tuple in the record heap this index accelerates
// lookups for. It is opaque to the index: the heap assigns it, the
// index stores it verbatim inside leaf entries.
type RecordId struct {
	Pid int32
	Sid int32
}

// recordIdSize is the on-disk width of a RecordId: two little-endian
// int32s.
const recordIdSize = 8

// Cursor positions a forward scan at an entry within a leaf page.
// Obtained from Index.Locate, advanced by Index.ReadForward. Not
// restartable without a fresh Locate.
type Cursor struct {
	Pid PageId
	Eid int32
}
