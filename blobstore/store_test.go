package blobstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	w, err := s.Create(ctx, "a.sgy")
	require.NoError(t, err)
	_, _ = w.Write([]byte("hello"))
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	b, err := s.Open(ctx, "a.sgy")
	require.NoError(t, err)
	assert.Equal(t, int64(5), b.Size())

	// Later writes do not affect an open handle.
	require.NoError(t, s.Put(ctx, "a.sgy", []byte("HELLO WORLD")))
	buf := make([]byte, 5)
	_, err = b.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))

	_, err = s.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "a.sgy"))
	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore_Truncate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a", []byte("0123456789")))
	require.NoError(t, s.Truncate("a", 4))

	b, err := s.Open(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(4), b.Size())
	assert.ErrorIs(t, s.Truncate("nope", 1), ErrNotFound)
}

func TestReadFull(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "f.sgy", []byte("0123456789")))
	b, err := s.Open(ctx, "f.sgy")
	require.NoError(t, err)

	buf := make([]byte, 4)
	require.NoError(t, ReadFull(ctx, b, "f.sgy", buf, 6))
	assert.Equal(t, "6789", string(buf))

	err = ReadFull(ctx, b, "f.sgy", buf, 8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIOFailure))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	var ioe *IOError
	require.ErrorAs(t, err, &ioe)
	assert.Equal(t, "f.sgy", ioe.Name)
	assert.Equal(t, int64(8), ioe.Offset)
	assert.Equal(t, int64(4), ioe.Length)
	assert.Contains(t, err.Error(), "[8, 12)")

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	err = ReadFull(cctx, b, "f.sgy", buf, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrIOFailure)
}

func TestGlob(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, name := range []string{
		"data/shot_002.sgy",
		"data/shot_001.sgy",
		"data/shot_001.txt",
		"data/sub/shot_003.sgy",
		"other/shot_004.sgy",
		"root.sgy",
	} {
		require.NoError(t, s.Put(ctx, name, nil))
	}

	names, err := Glob(ctx, s, "data", "*.sgy")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/shot_001.sgy", "data/shot_002.sgy"}, names)

	names, err = Glob(ctx, s, "/data/", "shot_00[2-9].sgy")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/shot_002.sgy"}, names)

	names, err = Glob(ctx, s, "", "*.sgy")
	require.NoError(t, err)
	assert.Equal(t, []string{"root.sgy"}, names)

	names, err = Glob(ctx, s, "empty", "*")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = Glob(ctx, s, "data", "[")
	assert.Error(t, err)
}
