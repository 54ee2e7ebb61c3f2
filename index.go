package geldb

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/google/btree"
)

// Index is a generic interface for things that can provide an ordered list
// of keys.
type Index interface {
	Initialize(less LessFunction, keys iter.Seq[string])
	Insert(key string)
	Delete(key string)
	Keys(from string, n int) []string
}

// LessFunction is used to initialize an Index of keys in a specific order.
type LessFunction func(string, string) bool

func byteOrder(a, b string) bool { return a < b }

//
//
//

// BTreeIndex is an implementation of the Index interface using
// Google's B-tree.
type BTreeIndex struct {
	sync.RWMutex
	tree *btree.BTreeG[string]
}

const btreeDegree = 32

// Initialize populates the tree with the keys, ordered by less. It replaces
// whatever the index held before.
func (i *BTreeIndex) Initialize(less LessFunction, keys iter.Seq[string]) {
	tree := btree.NewG(btreeDegree, btree.LessFunc[string](less))
	for key := range keys {
		tree.ReplaceOrInsert(key)
	}

	i.Lock()
	defer i.Unlock()
	i.tree = tree
}

// Insert inserts the given key (only) into the tree.
func (i *BTreeIndex) Insert(key string) {
	i.Lock()
	defer i.Unlock()
	if i.tree == nil {
		panic("uninitialized index")
	}
	i.tree.ReplaceOrInsert(key)
}

// Delete removes the given key (only) from the tree.
func (i *BTreeIndex) Delete(key string) {
	i.Lock()
	defer i.Unlock()
	if i.tree == nil {
		panic("uninitialized index")
	}
	i.tree.Delete(key)
}

// Keys returns at most n keys, in order.
//
// If from is empty, Keys returns the first n keys. Otherwise the first
// key returned is the one immediately following from in key order, whether
// or not from itself is indexed.
func (i *BTreeIndex) Keys(from string, n int) []string {
	i.RLock()
	defer i.RUnlock()
	if i.tree == nil {
		panic("uninitialized index")
	}

	if n <= 0 {
		return nil
	}
	keys := make([]string, 0, min(n, i.tree.Len()))
	collect := func(key string) bool {
		if from != "" && key == from {
			return true
		}
		keys = append(keys, key)
		return len(keys) < n
	}
	if from == "" {
		i.tree.Ascend(collect)
	} else {
		i.tree.AscendGreaterOrEqual(from, collect)
	}
	return keys
}

//
//
//

// KeysFrom returns at most n keys from the ordered index, starting just
// after from (or at the first key if from is empty). It is designed to
// effect a simple pagination of keys. The index is built from the directory
// the first time it is needed and kept current by Set afterwards.
//
// KeysFrom panics if the Store was created without an Index.
func (s *Store[V]) KeysFrom(ctx context.Context, from string, n int) ([]string, error) {
	if s.index == nil {
		panic("geldb: KeysFrom on a store without an index")
	}
	var keys []string
	err := s.View(ctx, func(ctx context.Context) error {
		if err := s.buildIndex(ctx); err != nil {
			return err
		}
		keys = s.index.Keys(from, n)
		return nil
	})
	return keys, err
}

// buildIndex fills the index from disk if that has not happened yet. It
// must run inside a transaction.
func (s *Store[V]) buildIndex(ctx context.Context) error {
	if s.indexed {
		return nil
	}
	var (
		keys  []string
		began = time.Now()
	)
	for key, err := range s.Keys(ctx) {
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}
	less := s.opts.IndexLess
	if less == nil {
		less = byteOrder
	}
	s.index.Initialize(less, slices.Values(keys))
	s.indexed = true
	s.log.Debug("geldb: index built", "dir", s.dir, "keys", len(keys), "elapsed", time.Since(began))
	return nil
}
