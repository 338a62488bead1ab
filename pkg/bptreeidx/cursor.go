package bptreeidx

// ReadForward returns the (key, RecordId) cur points at and then
// advances cur past it (spec §4.5). If cur has run off the end of its
// leaf, it hops to the next leaf in the chain first; ErrEndOfTree is returned
// once the chain is exhausted. cur is mutated in place so repeated
// calls continue the same forward-only, single-pass scan.
func (idx *Index) ReadForward(cur *Cursor) (Key, RecordId, error) {
	leaf := newLeafNode()

	for {
		if err := leaf.Read(cur.Pid, idx.store); err != nil {
			return 0, RecordId{}, err
		}

		if int(cur.Eid) < leaf.KeyCount() {
			break
		}

		next := leaf.GetNextLeaf()
		if next == noNextLeaf {
			return 0, RecordId{}, ErrEndOfTree
		}
		cur.Pid = next
		cur.Eid = 0
	}

	key, rec, err := leaf.ReadEntry(int(cur.Eid))
	if err != nil {
		return 0, RecordId{}, err
	}
	cur.Eid++
	return key, rec, nil
}
