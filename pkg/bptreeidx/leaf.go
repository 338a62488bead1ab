package bptreeidx

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vahagz-labs/bptreeidx/pkg/pager"
	"github.com/vahagz-labs/bptreeidx/util/mathx"
)

// bin is the byte order used for every on-disk marshal/unmarshal in
// this package.
var bin = binary.LittleEndian

const (
	leafHeaderSize = 4 // next_leaf_pid
	leafEntrySize  = 4 + recordIdSize

	// maxLeafEntries is MAX_LEAF from spec §3: (1024-4)/12 = 85.
	maxLeafEntries = (pager.PageSize - leafHeaderSize) / leafEntrySize

	// noNextLeaf is the leaf-chain terminator. Page 0 is always the
	// metadata page (spec §3), so it can never be a real leaf's
	// successor — 0 doubles as "end of chain" here, distinct from the
	// general NoPage(-1) sentinel used for root_pid.
	noNextLeaf PageId = 0
)

// leafEntry is a single (key, RecordId) pair inside a leaf page.
type leafEntry struct {
	key Key
	rid RecordId
}

// leafNode is the in-memory, decoded form of a leaf page: the
// next-leaf pointer and its ordered entries. Node objects are scoped
// to one page at a time — reading a new page invalidates any entries
// read from the previous one (spec §5).
type leafNode struct {
	nextLeaf PageId
	entries  []leafEntry
}

func newLeafNode() *leafNode {
	return &leafNode{nextLeaf: noNextLeaf}
}

// Read decodes page pid from store into n, discarding n's previous
// contents.
func (n *leafNode) Read(pid PageId, store *pager.Pager) error {
	buf := make([]byte, pager.PageSize)
	if err := store.Read(pid, buf); err != nil {
		return errors.Wrapf(err, "leaf: read page %d", pid)
	}
	return n.UnmarshalBinary(buf)
}

// Write encodes n and writes it to page pid in store.
func (n *leafNode) Write(pid PageId, store *pager.Pager) error {
	buf, err := n.MarshalBinary()
	if err != nil {
		return err
	}
	if err := store.Write(pid, buf); err != nil {
		return errors.Wrapf(err, "leaf: write page %d", pid)
	}
	return nil
}

// KeyCount returns the number of entries currently in the node.
func (n *leafNode) KeyCount() int {
	return len(n.entries)
}

// GetNextLeaf returns the PageId of the next leaf in the chain, or
// noNextLeaf (0) if this is the last leaf.
func (n *leafNode) GetNextLeaf() PageId {
	return n.nextLeaf
}

// SetNextLeaf sets the PageId of the next leaf in the chain.
func (n *leafNode) SetNextLeaf(pid PageId) {
	n.nextLeaf = pid
}

// Locate implements the forward-scan search contract (spec §4.2, §9):
// if key is present, eid is the smallest index holding it and found is
// true. Otherwise eid is the position a forward scan would resume at —
// the first index whose key is >= the search key, or KeyCount() if
// every entry's key is smaller.
func (n *leafNode) Locate(key Key) (eid int, found bool) {
	for i, e := range n.entries {
		if e.key == key {
			return i, true
		}
		if e.key > key {
			return i, false
		}
	}
	return len(n.entries), false
}

// insertPosition returns the index a new entry with the given key
// should be inserted at: the first index whose key is strictly
// greater, so that entries with equal keys keep FIFO order among
// themselves (the only duplicate-key semantics this engine supports).
func (n *leafNode) insertPosition(key Key) int {
	for i, e := range n.entries {
		if e.key > key {
			return i
		}
	}
	return len(n.entries)
}

// ReadEntry returns the (key, RecordId) pair at eid.
func (n *leafNode) ReadEntry(eid int) (Key, RecordId, error) {
	if eid < 0 || eid >= len(n.entries) {
		return 0, RecordId{}, errors.Wrapf(ErrInvalidCursor, "leaf: entry %d out of range (count=%d)", eid, len(n.entries))
	}
	e := n.entries[eid]
	return e.key, e.rid, nil
}

// Insert adds (key, rid) to the node in sorted position. Fails with
// ErrNodeFull if the node is already at MAX_LEAF entries.
func (n *leafNode) Insert(key Key, rid RecordId) error {
	if len(n.entries) >= maxLeafEntries {
		return ErrNodeFull
	}

	pos := n.insertPosition(key)
	n.entries = append(n.entries, leafEntry{})
	copy(n.entries[pos+1:], n.entries[pos:])
	n.entries[pos] = leafEntry{key: key, rid: rid}
	return nil
}

// InsertAndSplit splits a full node in half, inserting (key, rid) into
// whichever half it belongs in, and returns the new sibling plus the
// key to promote to the parent. The separator for a leaf split is
// copied up: it remains present in the sibling's first entry, unlike
// an internal split where it is removed from both sides (spec §4.3).
//
// The caller is responsible for assigning the sibling a PageId,
// writing both nodes, and setting n's next-leaf pointer to the
// sibling's PageId (spec §4.2) — this method only manipulates the
// node's in-memory entries and leaves next-leaf linking to the tree
// layer, since the sibling has no PageId yet at this point.
func (n *leafNode) InsertAndSplit(key Key, rid RecordId) (*leafNode, Key, error) {
	if len(n.entries) < maxLeafEntries {
		return nil, 0, errors.Wrap(ErrInvalidCursor, "leaf: insertAndSplit called on a node that is not full")
	}

	pos := n.insertPosition(key)
	leftKeep, insertLeft := mathx.SplitHalf(maxLeafEntries, pos)

	sibling := newLeafNode()
	sibling.entries = append(sibling.entries, n.entries[leftKeep:]...)
	n.entries = n.entries[:leftKeep:leftKeep]
	sibling.nextLeaf = n.nextLeaf

	var err error
	if insertLeft {
		err = n.Insert(key, rid)
	} else {
		err = sibling.Insert(key, rid)
	}
	if err != nil {
		return nil, 0, err
	}

	return sibling, sibling.entries[0].key, nil
}

func (n *leafNode) MarshalBinary() ([]byte, error) {
	buf := make([]byte, pager.PageSize)
	bin.PutUint32(buf[0:4], uint32(n.nextLeaf))

	offset := leafHeaderSize
	for _, e := range n.entries {
		bin.PutUint32(buf[offset:offset+4], uint32(e.rid.Pid))
		bin.PutUint32(buf[offset+4:offset+8], uint32(e.rid.Sid))
		bin.PutUint32(buf[offset+8:offset+12], uint32(e.key))
		offset += leafEntrySize
	}
	return buf, nil
}

func (n *leafNode) UnmarshalBinary(d []byte) error {
	if len(d) != pager.PageSize {
		return errors.Wrapf(ErrInvalidFileFormat, "leaf: buffer size %d != page size %d", len(d), pager.PageSize)
	}

	n.nextLeaf = PageId(int32(bin.Uint32(d[0:4])))
	n.entries = n.entries[:0]

	offset := leafHeaderSize
	for i := 0; i < maxLeafEntries; i++ {
		key := Key(int32(bin.Uint32(d[offset+8 : offset+12])))
		if key == 0 {
			break
		}

		pid := int32(bin.Uint32(d[offset : offset+4]))
		sid := int32(bin.Uint32(d[offset+4 : offset+8]))
		n.entries = append(n.entries, leafEntry{
			key: key,
			rid: RecordId{Pid: pid, Sid: sid},
		})
		offset += leafEntrySize
	}
	return nil
}
