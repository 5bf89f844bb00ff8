package pagefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDiskFile(t *testing.T) *DiskFile {
	t.Helper()
	dir := t.TempDir()
	f, err := OpenDiskFile(dir, "test.dat", 64)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestAllocateReadWriteRoundTrip(t *testing.T) {
	f := newTestDiskFile(t)

	p, err := f.AllocatePage()
	require.NoError(t, err)
	require.NotEqual(t, InvalidPageID, p.PageNumber())

	copy(p.Bytes(), []byte("round trip"))
	require.NoError(t, f.WritePage(p))

	reread, err := f.ReadPage(p.PageNumber())
	require.NoError(t, err)
	require.Equal(t, "round trip", string(reread.Bytes()[:len("round trip")]))
}

func TestDeletePage_ThenReadFails(t *testing.T) {
	f := newTestDiskFile(t)

	p, err := f.AllocatePage()
	require.NoError(t, err)

	require.NoError(t, f.DeletePage(p.PageNumber()))

	_, err = f.ReadPage(p.PageNumber())
	require.Error(t, err)

	err = f.WritePage(p)
	require.Error(t, err)
}

func TestReadUnknownPageFails(t *testing.T) {
	f := newTestDiskFile(t)
	_, err := f.ReadPage(999)
	require.Error(t, err)
}

func TestOpenDiskFile_ReopensExistingPages(t *testing.T) {
	dir := t.TempDir()
	f1, err := OpenDiskFile(dir, "reopen.dat", 64)
	require.NoError(t, err)

	p, err := f1.AllocatePage()
	require.NoError(t, err)
	copy(p.Bytes(), []byte("persisted"))
	require.NoError(t, f1.WritePage(p))
	require.NoError(t, f1.Close())

	f2, err := OpenDiskFile(dir, "reopen.dat", 64)
	require.NoError(t, err)
	defer f2.Close()

	reread, err := f2.ReadPage(p.PageNumber())
	require.NoError(t, err)
	require.Equal(t, "persisted", string(reread.Bytes()[:len("persisted")]))
}

func TestPageClone_IsIndependentCopy(t *testing.T) {
	p := NewPage(1, 8)
	copy(p.Bytes(), []byte("abcdefgh"))

	clone := p.Clone()
	clone.Bytes()[0] = 'X'

	require.Equal(t, byte('a'), p.Bytes()[0])
	require.Equal(t, byte('X'), clone.Bytes()[0])
}

func TestFilenameIsDiagnosticNotIdentity(t *testing.T) {
	dir := t.TempDir()
	f1, err := OpenDiskFile(dir, "same-name.dat", 64)
	require.NoError(t, err)
	defer f1.Close()

	f2, err := OpenDiskFile(dir, "same-name.dat", 64)
	require.NoError(t, err)
	defer f2.Close()

	require.Equal(t, f1.Filename(), f2.Filename())
	require.NotSame(t, f1, f2)
}

func TestOpenDiskFile_CreatesDirectory(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "nested", "dir")
	f, err := OpenDiskFile(nested, "x.dat", 32)
	require.NoError(t, err)
	defer f.Close()

	_, err = os.Stat(nested)
	require.NoError(t, err)
}
