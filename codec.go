package geldb

import (
	"bytes"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Codec converts values to the bytes stored in an entry file and back.
// Unmarshal(Marshal(v)) must equal v for every value the caller stores.
type Codec[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// Msgpack returns a Codec using MessagePack. Values decoded into interface
// types use int64, uint64 and float64 for numbers.
func Msgpack[V any]() Codec[V] { return msgpackCodec[V]{} }

type msgpackCodec[V any] struct{}

func (msgpackCodec[V]) Marshal(v V) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec[V]) Unmarshal(data []byte) (V, error) {
	var v V
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	err := dec.Decode(&v)
	return v, err
}

// YAML returns a Codec that stores values as YAML documents.
func YAML[V any]() Codec[V] { return yamlCodec[V]{} }

type yamlCodec[V any] struct{}

func (yamlCodec[V]) Marshal(v V) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec[V]) Unmarshal(data []byte) (V, error) {
	var v V
	err := yaml.Unmarshal(data, &v)
	return v, err
}

// Compressed wraps c so that its output is compressed with comp.
func Compressed[V any](c Codec[V], comp Compression) Codec[V] {
	return compressedCodec[V]{c: c, comp: comp}
}

type compressedCodec[V any] struct {
	c    Codec[V]
	comp Compression
}

func (cc compressedCodec[V]) Marshal(v V) ([]byte, error) {
	raw, err := cc.c.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w, err := cc.comp.Writer(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (cc compressedCodec[V]) Unmarshal(data []byte) (V, error) {
	var zero V
	r, err := cc.comp.Reader(bytes.NewReader(data))
	if err != nil {
		return zero, err
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return zero, err
	}
	return cc.c.Unmarshal(raw)
}
