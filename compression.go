package geldb

import (
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Compression is used by Compressed to compress encoded values. You may
// define these methods on your own type, or use one of the NewCompression
// helpers.
type Compression interface {
	Writer(dst io.Writer) (io.WriteCloser, error)
	Reader(src io.Reader) (io.ReadCloser, error)
}

// GenericCompression builds a Compression from a pair of constructors.
type GenericCompression struct {
	wf func(w io.Writer) (io.WriteCloser, error)
	rf func(r io.Reader) (io.ReadCloser, error)
}

func (g *GenericCompression) Writer(dst io.Writer) (io.WriteCloser, error) {
	return g.wf(dst)
}

func (g *GenericCompression) Reader(src io.Reader) (io.ReadCloser, error) {
	return g.rf(src)
}

//
//
//

func NewGzipCompression() Compression {
	return NewGzipCompressionLevel(flate.DefaultCompression)
}

func NewGzipCompressionLevel(level int) Compression {
	return &GenericCompression{
		wf: func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(w, level) },
		rf: func(r io.Reader) (io.ReadCloser, error) { return gzip.NewReader(r) },
	}
}

func NewZlibCompression() Compression {
	return NewZlibCompressionLevel(flate.DefaultCompression)
}

func NewZlibCompressionLevel(level int) Compression {
	return NewZlibCompressionLevelDict(level, nil)
}

func NewZlibCompressionLevelDict(level int, dict []byte) Compression {
	return &GenericCompression{
		func(w io.Writer) (io.WriteCloser, error) { return zlib.NewWriterLevelDict(w, level, dict) },
		func(r io.Reader) (io.ReadCloser, error) { return zlib.NewReaderDict(r, dict) },
	}
}

// NewZstdCompression returns zstd compression at the default level (3).
func NewZstdCompression() Compression {
	return NewZstdCompressionLevel(3)
}

// NewZstdCompressionLevel takes a zstd level (1-22); it is mapped onto the
// nearest level the encoder implements.
func NewZstdCompressionLevel(level int) Compression {
	return &GenericCompression{
		wf: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		},
		rf: func(r io.Reader) (io.ReadCloser, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
	}
}
