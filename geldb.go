// Package geldb is a file-backed key/value store with transactional read and
// write semantics. Each entry lives in its own file under root/name; the
// filename is a reversible encoding of the key and the contents are the
// codec-encoded value.
//
// A Store is safe for use by many goroutines. Transactions are guarded by a
// reentrant lock whose owner travels in the context.Context handed to the
// transaction body: calls made with that context re-enter the transaction,
// calls made with any other context wait for it to finish. Reads nest inside
// writes, but a write may never start inside a read.
//
// The lock is in-process only. Two processes, or two Stores, pointed at the
// same directory are not coordinated.
package geldb

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
)

var (
	// ErrTransaction is returned when a write transaction is started while
	// the same owner holds a read transaction.
	ErrTransaction = errors.New("geldb: write transaction inside read transaction")

	// ErrEmptyKey is returned for the empty key, which has no filename.
	ErrEmptyKey = errors.New("geldb: empty key")
)

const (
	defaultDirPerm  os.FileMode = 0o755
	defaultFilePerm os.FileMode = 0o644
)

// Options configure a Store. The zero value is usable: values are encoded
// with msgpack, keys with unpadded URL-safe base64, and there is no cache
// and no ordered index.
type Options[V any] struct {
	// Codec encodes values. Defaults to Msgpack[V]().
	Codec Codec[V]

	// KeyCodec maps keys to filenames. Defaults to Base64Keys.
	KeyCodec KeyCodec

	// CacheSizeMax bounds the read cache, in bytes of encoded values.
	// Zero disables the cache.
	CacheSizeMax uint64

	// Index, if set, keeps an ordered view of the keys for KeysFrom.
	// IndexLess orders it; nil means byte order.
	Index     Index
	IndexLess LessFunction

	DirPerm  os.FileMode
	FilePerm os.FileMode

	// Logger receives debug records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store is a directory of entries, one file per key.
type Store[V any] struct {
	root string
	name string
	dir  string

	codec    Codec[V]
	keys     KeyCodec
	dirPerm  os.FileMode
	filePerm os.FileMode
	log      *slog.Logger
	opts     Options[V]

	lock lock
	mode txMode // guarded by lock

	cache   *cache
	index   Index
	indexed bool // guarded by lock
}

// New returns a Store for the directory root/name. Nothing is created on disk
// until the first write transaction; root itself must already exist by then.
func New[V any](root, name string, opts Options[V]) *Store[V] {
	s := &Store[V]{
		root:     root,
		name:     name,
		dir:      filepath.Join(root, name),
		codec:    opts.Codec,
		keys:     opts.KeyCodec,
		dirPerm:  opts.DirPerm,
		filePerm: opts.FilePerm,
		log:      opts.Logger,
		opts:     opts,
		index:    opts.Index,
	}
	if s.codec == nil {
		s.codec = Msgpack[V]()
	}
	if s.keys == nil {
		s.keys = Base64Keys
	}
	if s.dirPerm == 0 {
		s.dirPerm = defaultDirPerm
	}
	if s.filePerm == 0 {
		s.filePerm = defaultFilePerm
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if opts.CacheSizeMax > 0 {
		s.cache = newCache(opts.CacheSizeMax)
	}
	return s
}

// Root returns the parent directory of the store.
func (s *Store[V]) Root() string { return s.root }

// Name returns the store's subdirectory name under Root.
func (s *Store[V]) Name() string { return s.name }

// Dir returns root/name.
func (s *Store[V]) Dir() string { return s.dir }

// isAbsent reports whether v means "no value": a nil pointer, map, slice,
// interface, channel or func, or false, also when held in an interface.
// Setting an absent value removes the entry; every other value is stored.
func isAbsent[V any](v V) bool {
	return absent(reflect.ValueOf(&v).Elem())
}

func absent(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Interface:
		return rv.IsNil() || absent(rv.Elem())
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	case reflect.Bool:
		return !rv.Bool()
	default:
		return false
	}
}
