// Package bptreeidx implements a disk-backed B+Tree index over 32-bit
// signed integer keys and opaque 8-byte RecordIds. It accelerates
// key-based lookup and range scan over a record heap the index never
// itself reads or writes; RecordId is passed through verbatim.
//
// The tree is single-writer, single-reader: callers serialize their
// own access, and the only durability guarantee is that Close flushes
// pending writes to the backing file.
package bptreeidx
