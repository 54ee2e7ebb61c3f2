package geldb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// keysBatch is how many directory entries Keys reads per lock acquisition.
const keysBatch = 128

// path returns the file holding key.
func (s *Store[V]) path(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return filepath.Join(s.dir, s.keys.EncodeKey(key)), nil
}

// Keys yields every key in the store, in no particular order. Each call
// starts a fresh listing. A store whose directory does not exist yet is
// empty. Files that are not valid encoded keys are skipped.
//
// The read lock is taken for each batch of directory entries rather than
// for the whole iteration, so the loop body may call Set. Called with the
// context of a View, Keys runs entirely inside that read transaction: the
// listing is consistent and a Set in the loop body returns ErrTransaction.
func (s *Store[V]) Keys(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var f *os.File
		err := s.View(ctx, func(context.Context) error {
			var err error
			f, err = os.Open(s.dir)
			return err
		})
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			yield("", err)
			return
		}
		defer f.Close()

		for {
			var names []string
			err := s.View(ctx, func(context.Context) error {
				var err error
				names, err = f.Readdirnames(keysBatch)
				return err
			})
			for _, name := range names {
				key, derr := s.keys.DecodeKey(name)
				if derr != nil || key == "" {
					continue
				}
				if !yield(key, nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
		}
	}
}

// Has reports whether key holds a value.
func (s *Store[V]) Has(ctx context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	var ok bool
	err = s.View(ctx, func(context.Context) error {
		_, err := os.Stat(p)
		switch {
		case err == nil:
			ok = true
		case errors.Is(err, fs.ErrNotExist):
		default:
			return err
		}
		return nil
	})
	return ok, err
}

// Get returns the value stored under key. A key with no value yields the
// zero V and false, with a nil error.
func (s *Store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var (
		v     V
		found bool
	)
	p, err := s.path(key)
	if err != nil {
		return v, false, err
	}
	err = s.View(ctx, func(context.Context) error {
		data, ok := s.cacheGet(key)
		if !ok {
			var err error
			data, err = os.ReadFile(p)
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		decoded, err := s.codec.Unmarshal(data)
		if err != nil {
			return fmt.Errorf("geldb: decode %q: %w", key, err)
		}
		if !ok {
			s.cachePut(key, data)
		}
		v, found = decoded, true
		return nil
	})
	return v, found, err
}

// Set stores v under key, replacing any previous value. If v is nil or
// false the entry is removed instead; removing a key that has no value
// does nothing. Other zero values such as 0 or "" are stored. There is no
// separate delete operation.
func (s *Store[V]) Set(ctx context.Context, key string, v V) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if isAbsent(v) {
		return s.Update(ctx, func(context.Context) error {
			err := os.Remove(p)
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			if err != nil {
				return err
			}
			s.forget(key)
			return nil
		})
	}

	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("geldb: encode %q: %w", key, err)
	}
	return s.Update(ctx, func(context.Context) error {
		if err := s.writeFile(p, data); err != nil {
			return err
		}
		if s.cache != nil {
			s.cache.erase(key)
		}
		if s.indexed {
			s.index.Insert(key)
		}
		return nil
	})
}

// writeFile replaces p with data. The bytes go to a dot-prefixed temporary
// file in the store directory first, which no key can encode to.
func (s *Store[V]) writeFile(p string, data []byte) error {
	f, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(s.filePerm); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *Store[V]) forget(key string) {
	if s.cache != nil {
		s.cache.erase(key)
	}
	if s.indexed {
		s.index.Delete(key)
	}
}

func (s *Store[V]) cacheGet(key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.get(key)
}

func (s *Store[V]) cachePut(key string, data []byte) {
	if s.cache != nil {
		s.cache.put(key, data)
	}
}

func (s *Store[V]) isCached(key string) bool {
	return s.cache != nil && s.cache.has(key)
}
