package persistence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/scan"
)

const (
	// DefaultDir is where Publish writes index files.
	DefaultDir = "scans"
	// CurrentName is the base name of the pointer to the latest index.
	CurrentName = "CURRENT"
	// Extension is the file extension of index files.
	Extension = ".sgyi"
)

// Manifest is the content of a CURRENT pointer.
type Manifest struct {
	Version     int       `json:"version"`
	Index       string    `json:"index"`
	Compression string    `json:"compression"`
	Files       int       `json:"files"`
	Shots       int       `json:"shots"`
	Traces      int       `json:"traces"`
	KeyFields   []string  `json:"key_fields"`
	CreatedAt   time.Time `json:"created_at"`
}

// Publish writes idx as a new index file and points the directory's
// CURRENT blob at it. The previous index file is left in place.
func Publish(ctx context.Context, store blobstore.BlobStore, idx *scan.Index, optFns ...Option) (Manifest, error) {
	o := newOptions(optFns)
	name := path.Join(o.dir, uuid.NewString()+Extension)

	w, err := store.Create(ctx, name)
	if err != nil {
		return Manifest{}, err
	}
	if err := Save(w, idx, optFns...); err != nil {
		if a, ok := w.(blobstore.Aborter); ok {
			_ = a.Abort()
		} else {
			_ = w.Close()
			_ = store.Delete(ctx, name)
		}
		return Manifest{}, fmt.Errorf("write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return Manifest{}, fmt.Errorf("write %s: %w", name, err)
	}

	keys := make([]string, 0, len(idx.KeyFields()))
	for _, f := range idx.KeyFields() {
		keys = append(keys, f.String())
	}
	m := Manifest{
		Version:     Version,
		Index:       name,
		Compression: o.compression.String(),
		Files:       len(idx.Files()),
		Shots:       idx.Len(),
		Traces:      idx.TotalTraces(),
		KeyFields:   keys,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := o.codec.Marshal(m)
	if err != nil {
		return Manifest{}, err
	}
	if err := store.Put(ctx, path.Join(o.dir, CurrentName), data); err != nil {
		return Manifest{}, fmt.Errorf("commit %s: %w", name, err)
	}
	return m, nil
}

// ReadManifest returns the manifest the directory's CURRENT blob holds.
func ReadManifest(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (Manifest, error) {
	o := newOptions(optFns)
	data, err := readAll(ctx, store, path.Join(o.dir, CurrentName))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := o.codec.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: manifest: %v", ErrCorrupt, err)
	}
	if m.Version != Version {
		return Manifest{}, fmt.Errorf("%w: manifest version %d", ErrInvalidVersion, m.Version)
	}
	return m, nil
}

// LoadCurrent loads the index the directory's CURRENT blob points at.
// The index reads SEG-Y files through store.
func LoadCurrent(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*scan.Index, error) {
	o := newOptions(optFns)
	m, err := ReadManifest(ctx, store, optFns...)
	if err != nil {
		return nil, err
	}
	data, err := readAll(ctx, store, m.Index)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Index, err)
	}
	return scan.NewIndex(store, cfg, o.indexOpts...)
}

func readAll(ctx context.Context, store blobstore.BlobStore, name string) ([]byte, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	if m, ok := b.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err == nil {
			return bytes.Clone(data), nil
		}
	}
	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
