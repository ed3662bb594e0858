package persistence

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/codec"
	ihash "github.com/hupe1980/segy/internal/hash"
	"github.com/hupe1980/segy/scan"
)

type options struct {
	compression Compression
	codec       codec.Codec
	dir         string
	indexOpts   []scan.Option
}

// Option configures saving, loading and publishing.
type Option func(*options)

func newOptions(optFns []Option) options {
	o := options{
		compression: CompressionZSTD,
		codec:       codec.Default,
		dir:         DefaultDir,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// WithCompression sets the body compression. Default zstd.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithCodec sets the manifest codec. Default codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithDir sets the directory Publish and LoadCurrent work in.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithIndexOptions passes options to the loaded index (logger, metrics,
// pool, resource controller).
func WithIndexOptions(opts ...scan.Option) Option {
	return func(o *options) { o.indexOpts = append(o.indexOpts, opts...) }
}

func configOf(idx *scan.Index) scan.IndexConfig {
	return scan.IndexConfig{
		Files:      idx.Files(),
		KeyFields:  idx.KeyFields(),
		ScaledKeys: idx.ScaledKeys(),
		ByteOrder:  idx.ByteOrder(),
		Records:    idx.Records(),
	}
}

// Save writes idx to w. Scan failures are not saved.
func Save(w io.Writer, idx *scan.Index, optFns ...Option) error {
	o := newOptions(optFns)
	raw := encodeBody(configOf(idx))
	body, used, err := compress(raw, o.compression)
	if err != nil {
		return err
	}

	h := fileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: used,
		RawLen:      uint64(len(raw)),
		BodyLen:     uint64(len(body)),
	}
	buf := make([]byte, headerSize)
	h.encode(buf)

	cw := newChecksumWriter(w)
	if _, err := cw.Write(buf); err != nil {
		return err
	}
	if _, err := cw.Write(body); err != nil {
		return err
	}
	var trailer [trailerSize]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	_, err = w.Write(trailer[:])
	return err
}

// Decode reads an index file and returns its content.
func Decode(r io.Reader) (scan.IndexConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return scan.IndexConfig{}, err
	}
	return decode(data)
}

func decode(data []byte) (scan.IndexConfig, error) {
	h, err := decodeFileHeader(data)
	if err != nil {
		return scan.IndexConfig{}, err
	}
	if h.BodyLen > uint64(len(data)) || uint64(len(data)) != headerSize+h.BodyLen+trailerSize {
		return scan.IndexConfig{}, fmt.Errorf("%w: file is %d bytes, header announces %d", ErrCorrupt, len(data), headerSize+h.BodyLen+trailerSize)
	}
	end := len(data) - trailerSize
	if want, got := binary.LittleEndian.Uint32(data[end:]), ihash.CRC32C(data[:end]); want != got {
		return scan.IndexConfig{}, fmt.Errorf("%w: checksum %#08x, want %#08x", ErrCorrupt, got, want)
	}
	raw, err := decompress(data[headerSize:end], h.Compression, h.RawLen)
	if err != nil {
		return scan.IndexConfig{}, err
	}
	return decodeBody(raw)
}

// Load reads an index file and rebuilds the index over store, the store
// holding the indexed SEG-Y files.
func Load(r io.Reader, store blobstore.BlobStore, optFns ...Option) (*scan.Index, error) {
	o := newOptions(optFns)
	cfg, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return scan.NewIndex(store, cfg, o.indexOpts...)
}
