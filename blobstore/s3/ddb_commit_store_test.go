package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/persistence"
	"github.com/hupe1980/segy/scan"
	"github.com/hupe1980/segy/testutil"
)

func newTestDDBCommitStore(ddb *mockDDBClient, baseURI string) (*DDBCommitStore, *blobstore.MemoryStore) {
	inner := blobstore.NewMemoryStore()
	return NewDDBCommitStore(inner, ddb, "segy-commits", baseURI), inner
}

func readPointer(t *testing.T, s blobstore.BlobStore, name string) string {
	t.Helper()
	blob, err := s.Open(context.Background(), name)
	require.NoError(t, err)
	defer blob.Close()

	r, err := blob.ReadRange(context.Background(), 0, blob.Size())
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func TestDDBCommitStore_FirstCommit(t *testing.T) {
	ctx := context.Background()
	store, inner := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	require.NoError(t, store.Put(ctx, "CURRENT", []byte("index-0001.json")))
	assert.Equal(t, "index-0001.json", readPointer(t, store, "CURRENT"))

	// The pointer never reaches the wrapped store.
	names, err := inner.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDDBCommitStore_MultipleCommits(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Put(ctx, "CURRENT", []byte(fmt.Sprintf("index-%04d.json", i))))
	}
	assert.Equal(t, "index-0003.json", readPointer(t, store, "CURRENT"))
}

func TestDDBCommitStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")
	require.NoError(t, store.Put(ctx, "CURRENT", []byte("index-0001.json")))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			err := store.Put(ctx, "CURRENT", []byte(fmt.Sprintf("index-%04d.json", id+2)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConcurrentModification):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	assert.Positive(t, successes)
}

func TestDDBCommitStore_NotFoundBeforeCommit(t *testing.T) {
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")
	_, err := store.Open(context.Background(), "CURRENT")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_Namespaces(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	storeA, _ := newTestDDBCommitStore(ddb, "s3://bucket-a/path/")
	storeB, _ := newTestDDBCommitStore(ddb, "s3://bucket-b/path/")

	require.NoError(t, storeA.Put(ctx, "CURRENT", []byte("A")))
	require.NoError(t, storeB.Put(ctx, "CURRENT", []byte("B")))
	require.NoError(t, storeA.Put(ctx, "line-7/CURRENT", []byte("A7")))

	assert.Equal(t, "A", readPointer(t, storeA, "CURRENT"))
	assert.Equal(t, "B", readPointer(t, storeB, "CURRENT"))
	assert.Equal(t, "A7", readPointer(t, storeA, "line-7/CURRENT"))

	_, err := storeB.Open(ctx, "line-7/CURRENT")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_PassThrough(t *testing.T) {
	ctx := context.Background()
	store, inner := newTestDDBCommitStore(newMockDDBClient(), "s3://b/")

	require.NoError(t, store.Put(ctx, "index-0001.json", []byte("{}")))
	_, err := inner.Open(ctx, "index-0001.json")
	require.NoError(t, err)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"index-0001.json"}, names)

	_, err = store.Create(ctx, "CURRENT")
	assert.Error(t, err)

	require.NoError(t, store.Delete(ctx, "index-0001.json"))
	_, err = inner.Open(ctx, "index-0001.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_PublishScanIndex(t *testing.T) {
	ctx := context.Background()
	store, inner := newTestDDBCommitStore(newMockDDBClient(), "s3://survey/")
	spec := testutil.FileSpec{NS: 16, Shots: testutil.Shots(5, 3)}
	require.NoError(t, store.Put(ctx, "raw/line-1.sgy", spec.Bytes()))

	idx, err := scan.Scan(ctx, store, scan.Request{Dir: "raw"})
	require.NoError(t, err)
	m, err := persistence.Publish(ctx, store, idx)
	require.NoError(t, err)

	// The index file lands in the wrapped store, the pointer in DynamoDB.
	_, err = inner.Open(ctx, m.Index)
	require.NoError(t, err)
	_, err = inner.Open(ctx, "scans/CURRENT")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	loaded, err := persistence.LoadCurrent(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, idx.Records(), loaded.Records())
}
