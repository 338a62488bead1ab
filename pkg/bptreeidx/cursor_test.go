package bptreeidx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vahagz-labs/bptreeidx/pkg/pager"
)

func TestReadForward_HopsAcrossLeafBoundary(t *testing.T) {
	p := tempIndexPath(t, "cursor_hop_test.bin")
	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx.Close()

	for k := 1; k <= 86; k++ {
		require.NoError(t, idx.Insert(Key(k), RecordId{Pid: int32(k)}))
	}

	cur := leftmostCursor(t, idx)
	for k := 1; k <= 86; k++ {
		got, rec, err := idx.ReadForward(&cur)
		require.NoError(t, err)
		require.EqualValues(t, k, got)
		require.Equal(t, RecordId{Pid: int32(k)}, rec)
	}

	_, _, err = idx.ReadForward(&cur)
	require.ErrorIs(t, err, ErrEndOfTree)
}

func TestReadForward_NotRestartableWithoutFreshLocate(t *testing.T) {
	p := tempIndexPath(t, "cursor_exhaust_test.bin")
	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Insert(1, RecordId{Pid: 1}))

	cur := leftmostCursor(t, idx)
	_, _, err = idx.ReadForward(&cur)
	require.NoError(t, err)

	_, _, err = idx.ReadForward(&cur)
	require.ErrorIs(t, err, ErrEndOfTree)

	// calling again on the exhausted cursor keeps returning EndOfTree,
	// not a crash or a stale re-read of the last entry
	_, _, err = idx.ReadForward(&cur)
	require.ErrorIs(t, err, ErrEndOfTree)
}
