package bptreeidx

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vahagz-labs/bptreeidx/internal/stack"
	"github.com/vahagz-labs/bptreeidx/pkg/pager"
)

// Index is a handle on one B+Tree index file: a Page Store plus the
// root/height metadata and the logger used to report structural
// events. Not safe for concurrent use — callers serialize their own
// access (spec §5).
type Index struct {
	store *pager.Pager
	meta  metaBlock
	opts  Options
}

// Open opens or creates the named index file. In pager.ModeWrite an
// empty file is initialized with an empty metadata block; in
// pager.ModeRead the file must already exist.
func Open(path string, mode pager.Mode, opts *Options) (*Index, error) {
	if opts == nil {
		o := DefaultOptions
		opts = &o
	}

	store, err := pager.Open(path, mode, opts.FileMode)
	if err != nil {
		return nil, err
	}

	idx := &Index{store: store, opts: *opts}
	if idx.opts.Logger == nil {
		idx.opts.Logger = DefaultOptions.Logger
	}

	if store.EndPID() == 0 {
		idx.meta = metaBlock{rootPid: NoPage, treeHeight: 0}
		if mode == pager.ModeWrite {
			if err := idx.meta.Write(store); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
	} else if err := idx.meta.Read(store); err != nil {
		_ = store.Close()
		return nil, err
	}

	idx.opts.Logger.WithFields(loggerFields{
		"path":        path,
		"tree_height": idx.meta.treeHeight,
		"root_pid":    idx.meta.rootPid,
	}).Debug("bptreeidx: opened")

	return idx, nil
}

// loggerFields is a local alias so call sites read like the teacher's
// logrus.Fields usage without importing logrus here too.
type loggerFields = map[string]interface{}

// Close persists the current (root_pid, tree_height) to page 0, unless
// the store was opened read-only, and releases the underlying file
// handle regardless of whether that write succeeds.
func (idx *Index) Close() error {
	var writeErr error
	if !idx.store.ReadOnly() {
		writeErr = idx.meta.Write(idx.store)
	}

	closeErr := idx.store.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

// Insert adds (key, rid) to the tree, splitting and propagating as far
// up as needed (spec §4.4). Rejects key == 0, the on-disk sentinel.
func (idx *Index) Insert(key Key, rec RecordId) error {
	if key == 0 {
		return errors.Wrap(ErrInvalidAttribute, "bptreeidx: key 0 is reserved")
	}

	if idx.meta.treeHeight == 0 {
		return idx.insertIntoEmptyTree(key, rec)
	}

	ancestors := stack.New[PageId](int(idx.meta.treeHeight))
	pid := idx.meta.rootPid
	for level := int32(0); level < idx.meta.treeHeight-1; level++ {
		node := newInternalNode()
		if err := node.Read(pid, idx.store); err != nil {
			return err
		}
		ancestors.Push(pid)
		pid = node.LocateChildPtr(key)
	}

	leaf := newLeafNode()
	if err := leaf.Read(pid, idx.store); err != nil {
		return err
	}

	if leaf.KeyCount() < maxLeafEntries {
		if err := leaf.Insert(key, rec); err != nil {
			return err
		}
		return leaf.Write(pid, idx.store)
	}

	sibling, promoteKey, err := leaf.InsertAndSplit(key, rec)
	if err != nil {
		return err
	}

	sibPid := idx.store.EndPID()
	leaf.SetNextLeaf(sibPid)
	if err := sibling.Write(sibPid, idx.store); err != nil {
		return err
	}
	if err := leaf.Write(pid, idx.store); err != nil {
		return err
	}

	idx.opts.Logger.WithFields(loggerFields{
		"leaf_pid":    pid,
		"sibling_pid": sibPid,
		"promote_key": promoteKey,
	}).Debug("bptreeidx: leaf split")

	return idx.propagate(ancestors, promoteKey, sibPid)
}

func (idx *Index) insertIntoEmptyTree(key Key, rec RecordId) error {
	leaf := newLeafNode()
	if err := leaf.Insert(key, rec); err != nil {
		return err
	}

	pid := idx.store.EndPID()
	if err := leaf.Write(pid, idx.store); err != nil {
		return err
	}

	idx.meta.rootPid = pid
	idx.meta.treeHeight = 1
	return nil
}

// propagate unwinds the ancestor stack built during descent, inserting
// (promoteKey, childPid) into each parent in turn, splitting further if
// a parent is also full. If the stack empties while a promotion still
// remains, a new root is created and the tree grows by one level.
func (idx *Index) propagate(ancestors *stack.Stack[PageId], promoteKey Key, childPid PageId) error {
	for !ancestors.Empty() {
		parentPid := ancestors.Pop()
		parent := newInternalNode()
		if err := parent.Read(parentPid, idx.store); err != nil {
			return err
		}

		if parent.KeyCount() < maxInternalEntries {
			if err := parent.Insert(promoteKey, childPid); err != nil {
				return err
			}
			return parent.Write(parentPid, idx.store)
		}

		sibling, midKey, err := parent.InsertAndSplit(promoteKey, childPid)
		if err != nil {
			return err
		}

		sibPid := idx.store.EndPID()
		if err := sibling.Write(sibPid, idx.store); err != nil {
			return err
		}
		if err := parent.Write(parentPid, idx.store); err != nil {
			return err
		}

		idx.opts.Logger.WithFields(loggerFields{
			"parent_pid":  parentPid,
			"sibling_pid": sibPid,
			"mid_key":     midKey,
		}).Debug("bptreeidx: internal split")

		promoteKey, childPid = midKey, sibPid
	}

	newRoot := newInternalNode()
	if err := newRoot.InitializeRoot(idx.meta.rootPid, promoteKey, childPid); err != nil {
		return err
	}

	newRootPid := idx.store.EndPID()
	if err := newRoot.Write(newRootPid, idx.store); err != nil {
		return err
	}

	idx.meta.rootPid = newRootPid
	idx.meta.treeHeight++

	idx.opts.Logger.WithFields(loggerFields{
		"new_root_pid": newRootPid,
		"tree_height":  idx.meta.treeHeight,
	}).Debug("bptreeidx: new root")

	return nil
}

// Locate descends to the leaf that would hold key and returns a cursor
// there (spec §4.4). On an exact match, the cursor points at it and
// the error is nil. Otherwise the cursor is positioned at the first
// entry with key >= search key (or past the leaf's last entry, to be
// resolved by the next leaf hop in ReadForward) and ErrNoSuchRecord is
// returned — not a failure, just "not present".
func (idx *Index) Locate(key Key) (Cursor, error) {
	if idx.meta.treeHeight == 0 {
		return Cursor{}, ErrNoSuchRecord
	}

	pid := idx.meta.rootPid
	for level := int32(0); level < idx.meta.treeHeight-1; level++ {
		node := newInternalNode()
		if err := node.Read(pid, idx.store); err != nil {
			return Cursor{}, err
		}
		pid = node.LocateChildPtr(key)
	}

	leaf := newLeafNode()
	if err := leaf.Read(pid, idx.store); err != nil {
		return Cursor{}, err
	}

	eid, found := leaf.Locate(key)
	cur := Cursor{Pid: pid, Eid: int32(eid)}
	if !found {
		return cur, ErrNoSuchRecord
	}
	return cur, nil
}

// GetTotalKeyCount descends to the leftmost leaf and walks the leaf
// chain via next_leaf, summing each leaf's KeyCount (spec §4.4).
func (idx *Index) GetTotalKeyCount() (int, error) {
	if idx.meta.treeHeight == 0 {
		return 0, nil
	}

	pid := idx.meta.rootPid
	for level := int32(0); level < idx.meta.treeHeight-1; level++ {
		node := newInternalNode()
		if err := node.Read(pid, idx.store); err != nil {
			return 0, err
		}
		pid = node.LocateChildPtr(Key(math.MinInt32))
	}

	total := 0
	leaf := newLeafNode()
	for {
		if err := leaf.Read(pid, idx.store); err != nil {
			return 0, err
		}
		total += leaf.KeyCount()

		next := leaf.GetNextLeaf()
		if next == noNextLeaf {
			break
		}
		pid = next
	}
	return total, nil
}

// Stats reports the tree's current shape: not part of the original
// executor-facing contract, but a read-only diagnostic useful to
// cmd/idxinspect and to tests asserting on height/page counts.
type Stats struct {
	Height        int32
	RootPid       PageId
	LeafCount     int
	InternalCount int
}

// Stats walks the whole tree and reports its shape. O(page count); not
// meant for hot paths.
func (idx *Index) Stats() (Stats, error) {
	st := Stats{Height: idx.meta.treeHeight, RootPid: idx.meta.rootPid}
	if idx.meta.treeHeight == 0 {
		return st, nil
	}
	if err := idx.walkStats(idx.meta.rootPid, idx.meta.treeHeight, &st); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (idx *Index) walkStats(pid PageId, level int32, st *Stats) error {
	if level == 1 {
		st.LeafCount++
		return nil
	}

	node := newInternalNode()
	if err := node.Read(pid, idx.store); err != nil {
		return err
	}
	st.InternalCount++

	if err := idx.walkStats(node.child0, level-1, st); err != nil {
		return err
	}
	for _, e := range node.entries {
		if err := idx.walkStats(e.childRight, level-1, st); err != nil {
			return err
		}
	}
	return nil
}
