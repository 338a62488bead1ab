package bptreeidx

import (
	"math/rand"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vahagz-labs/bptreeidx/pkg/pager"
)

func tempIndexPath(t *testing.T, name string) string {
	pwd, err := os.Getwd()
	require.NoError(t, err)

	p := path.Join(pwd, name)
	t.Cleanup(func() { _ = os.Remove(p) })
	return p
}

// leftmostCursor descends with key -2^30, below every key these tests
// insert, giving a cursor positioned at the first entry in the tree.
func leftmostCursor(t *testing.T, idx *Index) Cursor {
	cur, err := idx.Locate(Key(-1 << 30))
	if err != nil && err != ErrNoSuchRecord {
		require.NoError(t, err)
	}
	return cur
}

func TestIndex_EmptyTree(t *testing.T) {
	p := tempIndexPath(t, "idx_empty_test.bin")
	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx.Close()

	_, err = idx.Locate(42)
	require.ErrorIs(t, err, ErrNoSuchRecord)

	count, err := idx.GetTotalKeyCount()
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestIndex_SingleInsert(t *testing.T) {
	p := tempIndexPath(t, "idx_single_test.bin")
	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Insert(42, RecordId{Pid: 7, Sid: 3}))

	cur, err := idx.Locate(42)
	require.NoError(t, err)

	key, rec, err := idx.ReadForward(&cur)
	require.NoError(t, err)
	require.Equal(t, Key(42), key)
	require.Equal(t, RecordId{Pid: 7, Sid: 3}, rec)

	_, _, err = idx.ReadForward(&cur)
	require.ErrorIs(t, err, ErrEndOfTree)
}

func TestIndex_RejectsZeroKey(t *testing.T) {
	p := tempIndexPath(t, "idx_zerokey_test.bin")
	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx.Close()

	require.ErrorIs(t, idx.Insert(0, RecordId{}), ErrInvalidAttribute)
}

func TestIndex_LeafSplit(t *testing.T) {
	p := tempIndexPath(t, "idx_leafsplit_test.bin")
	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx.Close()

	for k := 1; k <= 86; k++ {
		require.NoError(t, idx.Insert(Key(k), RecordId{Pid: int32(k)}))
	}

	st, err := idx.Stats()
	require.NoError(t, err)
	require.EqualValues(t, 2, st.Height)
	require.Equal(t, 2, st.LeafCount)

	cur := leftmostCursor(t, idx)
	var got []Key
	for {
		k, _, err := idx.ReadForward(&cur)
		if err == ErrEndOfTree {
			break
		}
		require.NoError(t, err)
		got = append(got, k)
	}
	require.Len(t, got, 86)
	for i, k := range got {
		require.EqualValues(t, i+1, k)
	}
}

func TestIndex_InternalSplit(t *testing.T) {
	p := tempIndexPath(t, "idx_internalsplit_test.bin")
	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx.Close()

	const n = 10_800
	for k := 1; k <= n; k++ {
		require.NoError(t, idx.Insert(Key(k), RecordId{Pid: int32(k)}))
	}

	st, err := idx.Stats()
	require.NoError(t, err)
	require.GreaterOrEqual(t, st.Height, int32(3))

	count, err := idx.GetTotalKeyCount()
	require.NoError(t, err)
	require.Equal(t, n, count)

	cur := leftmostCursor(t, idx)
	prev := Key(0)
	seen := 0
	for {
		k, _, err := idx.ReadForward(&cur)
		if err == ErrEndOfTree {
			break
		}
		require.NoError(t, err)
		require.Greater(t, int32(k), int32(prev))
		prev = k
		seen++
	}
	require.Equal(t, n, seen)
}

func TestIndex_RangeScan(t *testing.T) {
	p := tempIndexPath(t, "idx_rangescan_test.bin")
	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx.Close()

	for _, k := range []Key{10, 20, 30, 40, 50} {
		require.NoError(t, idx.Insert(k, RecordId{Pid: int32(k)}))
	}

	cur, err := idx.Locate(25)
	require.ErrorIs(t, err, ErrNoSuchRecord)

	var got []Key
	for {
		k, _, err := idx.ReadForward(&cur)
		if err == ErrEndOfTree {
			break
		}
		require.NoError(t, err)
		got = append(got, k)
	}
	require.Equal(t, []Key{30, 40, 50}, got)
}

func TestIndex_Reopen(t *testing.T) {
	p := tempIndexPath(t, "idx_reopen_test.bin")

	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	for _, k := range []Key{5, 15, 25} {
		require.NoError(t, idx.Insert(k, RecordId{Pid: int32(k)}))
	}
	require.NoError(t, idx.Close())

	idx2, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx2.Close()

	count, err := idx2.GetTotalKeyCount()
	require.NoError(t, err)
	require.Equal(t, 3, count)

	cur := leftmostCursor(t, idx2)
	var got []Key
	for {
		k, _, err := idx2.ReadForward(&cur)
		if err == ErrEndOfTree {
			break
		}
		require.NoError(t, err)
		got = append(got, k)
	}
	require.Equal(t, []Key{5, 15, 25}, got)
}

func TestIndex_ReopenReadOnlyCloses(t *testing.T) {
	p := tempIndexPath(t, "idx_readonly_test.bin")

	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	for _, k := range []Key{1, 2, 3} {
		require.NoError(t, idx.Insert(k, RecordId{Pid: int32(k)}))
	}
	require.NoError(t, idx.Close())

	ro, err := Open(p, pager.ModeRead, nil)
	require.NoError(t, err)

	count, err := ro.GetTotalKeyCount()
	require.NoError(t, err)
	require.Equal(t, 3, count)

	require.NoError(t, ro.Close())
}

func TestIndex_LocateAgreesWithScan(t *testing.T) {
	p := tempIndexPath(t, "idx_locatescan_test.bin")
	idx, err := Open(p, pager.ModeWrite, nil)
	require.NoError(t, err)
	defer idx.Close()

	r := rand.New(rand.NewSource(1))
	keys := r.Perm(2000)
	for _, k := range keys {
		require.NoError(t, idx.Insert(Key(k+1), RecordId{Pid: int32(k + 1)}))
	}

	for _, k := range []Key{1, 500, 1000, 2000} {
		cur, err := idx.Locate(k)
		require.NoError(t, err)
		gotKey, gotRec, err := idx.ReadForward(&cur)
		require.NoError(t, err)
		require.Equal(t, k, gotKey)
		require.Equal(t, RecordId{Pid: int32(k)}, gotRec)
	}

	count, err := idx.GetTotalKeyCount()
	require.NoError(t, err)
	require.Equal(t, 2000, count)
}
