package bufpool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageIndex_SizeIsOddAndRoughly1Point2N(t *testing.T) {
	for _, n := range []int{1, 3, 10, 16, 100} {
		idx := newPageIndex(n)
		require.Equal(t, 1, len(idx.buckets)%2, "bucket count must be odd for n=%d", n)
		require.LessOrEqual(t, len(idx.buckets), n*2)
	}
}

func TestPageIndex_InsertLookupRemove(t *testing.T) {
	idx := newPageIndex(4)
	f1 := newFakeFile("F1", testPageSize)
	f2 := newFakeFile("F2", testPageSize)

	k1 := pageKey{file: f1, pageNo: 1}
	k2 := pageKey{file: f2, pageNo: 1} // same pageNo, different file identity

	require.NoError(t, idx.insert(k1, 0))
	require.NoError(t, idx.insert(k2, 1))

	frame, err := idx.lookup(k1)
	require.NoError(t, err)
	require.Equal(t, FrameID(0), frame)

	frame, err = idx.lookup(k2)
	require.NoError(t, err)
	require.Equal(t, FrameID(1), frame)

	err = idx.insert(k1, 2)
	var already *hashAlreadyPresentError
	require.True(t, errors.As(err, &already))

	require.NoError(t, idx.remove(k1))
	_, err = idx.lookup(k1)
	require.True(t, isHashNotFound(err))

	err = idx.remove(k1)
	require.True(t, isHashNotFound(err))
}
