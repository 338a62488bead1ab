package bptreeidx

import (
	"github.com/pkg/errors"

	"github.com/vahagz-labs/bptreeidx/pkg/pager"
)

// metaPID is the fixed location of the metadata block (spec §3: page 0
// is reserved, never a leaf or internal node).
const metaPID PageId = 0

// metaBlock is the persistent root pointer and tree height, kept at
// page 0. tree_height == 0 iff the tree is empty and root_pid ==
// NoPage (spec I6).
type metaBlock struct {
	rootPid    PageId
	treeHeight int32
}

func (m *metaBlock) Read(store *pager.Pager) error {
	buf := make([]byte, pager.PageSize)
	if err := store.Read(metaPID, buf); err != nil {
		return errors.Wrap(err, "meta: read page 0")
	}
	return m.UnmarshalBinary(buf)
}

func (m *metaBlock) Write(store *pager.Pager) error {
	buf, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	if err := store.Write(metaPID, buf); err != nil {
		return errors.Wrap(err, "meta: write page 0")
	}
	return nil
}

func (m *metaBlock) MarshalBinary() ([]byte, error) {
	buf := make([]byte, pager.PageSize)
	bin.PutUint32(buf[0:4], uint32(m.rootPid))
	bin.PutUint32(buf[4:8], uint32(m.treeHeight))
	return buf, nil
}

func (m *metaBlock) UnmarshalBinary(d []byte) error {
	if len(d) != pager.PageSize {
		return errors.Wrapf(ErrInvalidFileFormat, "meta: buffer size %d != page size %d", len(d), pager.PageSize)
	}
	m.rootPid = PageId(int32(bin.Uint32(d[0:4])))
	m.treeHeight = int32(bin.Uint32(d[4:8]))
	return nil
}
