package bptreeidx

import (
	"github.com/pkg/errors"

	"github.com/vahagz-labs/bptreeidx/pkg/pager"
	"github.com/vahagz-labs/bptreeidx/util/mathx"
)

const (
	internalHeaderSize = 4 // child0
	internalEntrySize  = 8 // child_right(4) + key(4)

	// maxInternalEntries is MAX_INT from spec §3: (1024-4)/8 = 127.
	maxInternalEntries = (pager.PageSize - internalHeaderSize) / internalEntrySize
)

// internalEntry pairs a routing key with the PageId of the subtree
// covering [key, nextKey) — i.e. every key in that subtree is >= this
// entry's key and < the next entry's key (or unbounded, for the last
// entry). The subtree for keys < the first entry's key lives in the
// node's child0, not in any entry.
type internalEntry struct {
	key        Key
	childRight PageId
}

// internalNode is the in-memory, decoded form of an internal page.
type internalNode struct {
	child0  PageId
	entries []internalEntry
}

func newInternalNode() *internalNode {
	return &internalNode{child0: NoPage}
}

func (n *internalNode) Read(pid PageId, store *pager.Pager) error {
	buf := make([]byte, pager.PageSize)
	if err := store.Read(pid, buf); err != nil {
		return errors.Wrapf(err, "internal: read page %d", pid)
	}
	return n.UnmarshalBinary(buf)
}

func (n *internalNode) Write(pid PageId, store *pager.Pager) error {
	buf, err := n.MarshalBinary()
	if err != nil {
		return err
	}
	if err := store.Write(pid, buf); err != nil {
		return errors.Wrapf(err, "internal: write page %d", pid)
	}
	return nil
}

// KeyCount returns the number of routing keys in the node.
func (n *internalNode) KeyCount() int {
	return len(n.entries)
}

// LocateChildPtr returns the PageId of the child subtree that may
// contain key (spec §4.3): child0 if key is smaller than every routing
// key, otherwise the child_right of the last entry whose key is <= key.
func (n *internalNode) LocateChildPtr(key Key) PageId {
	for i, e := range n.entries {
		if e.key > key {
			if i == 0 {
				return n.child0
			}
			return n.entries[i-1].childRight
		}
	}
	if len(n.entries) == 0 {
		return n.child0
	}
	return n.entries[len(n.entries)-1].childRight
}

// insertPosition returns the smallest index whose key is strictly
// greater than key — the position a new (key, childRight) pair would
// be inserted at.
func (n *internalNode) insertPosition(key Key) int {
	for i, e := range n.entries {
		if e.key > key {
			return i
		}
	}
	return len(n.entries)
}

// Insert adds (key, childRight) in sorted position. childRight becomes
// the routing pointer for keys >= key (up to the next entry's key).
// Fails with ErrNodeFull if the node already holds MAX_INT entries.
func (n *internalNode) Insert(key Key, childRight PageId) error {
	if len(n.entries) >= maxInternalEntries {
		return ErrNodeFull
	}

	pos := n.insertPosition(key)
	n.entries = append(n.entries, internalEntry{})
	copy(n.entries[pos+1:], n.entries[pos:])
	n.entries[pos] = internalEntry{key: key, childRight: childRight}
	return nil
}

// InsertAndSplit splits a full node, promoting the boundary key to the
// parent instead of copying it (spec §4.3): unlike a leaf split, the
// middle key is removed from BOTH resulting nodes, and its child_right
// becomes the sibling's child0.
func (n *internalNode) InsertAndSplit(key Key, childRight PageId) (*internalNode, Key, error) {
	if len(n.entries) < maxInternalEntries {
		return nil, 0, errors.Wrap(ErrInvalidCursor, "internal: insertAndSplit called on a node that is not full")
	}

	pos := n.insertPosition(key)

	combined := make([]internalEntry, 0, maxInternalEntries+1)
	combined = append(combined, n.entries[:pos]...)
	combined = append(combined, internalEntry{key: key, childRight: childRight})
	combined = append(combined, n.entries[pos:]...)

	leftKeep, _ := mathx.SplitHalf(maxInternalEntries, pos)
	mid := combined[leftKeep]

	sibling := newInternalNode()
	sibling.child0 = mid.childRight
	sibling.entries = append(sibling.entries, combined[leftKeep+1:]...)

	n.entries = append(n.entries[:0], combined[:leftKeep]...)

	return sibling, mid.key, nil
}

// InitializeRoot populates an empty internal node as a fresh root with
// a single routing key: child0 = left, entries = [(key, right)].
func (n *internalNode) InitializeRoot(left PageId, key Key, right PageId) error {
	if len(n.entries) != 0 {
		return errors.Wrap(ErrInvalidCursor, "internal: initializeRoot called on a non-empty node")
	}
	n.child0 = left
	n.entries = append(n.entries, internalEntry{key: key, childRight: right})
	return nil
}

func (n *internalNode) MarshalBinary() ([]byte, error) {
	buf := make([]byte, pager.PageSize)
	bin.PutUint32(buf[0:4], uint32(n.child0))

	offset := internalHeaderSize
	for _, e := range n.entries {
		bin.PutUint32(buf[offset:offset+4], uint32(e.childRight))
		bin.PutUint32(buf[offset+4:offset+8], uint32(e.key))
		offset += internalEntrySize
	}
	return buf, nil
}

func (n *internalNode) UnmarshalBinary(d []byte) error {
	if len(d) != pager.PageSize {
		return errors.Wrapf(ErrInvalidFileFormat, "internal: buffer size %d != page size %d", len(d), pager.PageSize)
	}

	n.child0 = PageId(int32(bin.Uint32(d[0:4])))
	n.entries = n.entries[:0]

	offset := internalHeaderSize
	for i := 0; i < maxInternalEntries; i++ {
		key := Key(int32(bin.Uint32(d[offset+4 : offset+8])))
		if key == 0 {
			break
		}

		childRight := PageId(int32(bin.Uint32(d[offset : offset+4])))
		n.entries = append(n.entries, internalEntry{key: key, childRight: childRight})
		offset += internalEntrySize
	}
	return nil
}
