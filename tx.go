package geldb

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

type txMode uint8

const (
	idle txMode = iota
	reading
	writing
)

// ownerKey keys the transaction owner of one Store in a context.
type ownerKey struct {
	store any
}

func (s *Store[V]) ownerFrom(ctx context.Context) *owner {
	o, _ := ctx.Value(ownerKey{s}).(*owner)
	return o
}

// InTransaction reports whether ctx carries an active transaction on s.
func (s *Store[V]) InTransaction(ctx context.Context) bool {
	return s.lock.owned(s.ownerFrom(ctx))
}

// Update runs fn in a write transaction. The context passed to fn owns the
// transaction: Update and View called with it run fn directly instead of
// waiting. Update called with it while only a read transaction is held
// returns ErrTransaction and leaves the read transaction untouched.
//
// The store directory is created when the outermost write transaction
// begins. The lock is released however fn exits, panics included.
func (s *Store[V]) Update(ctx context.Context, fn func(ctx context.Context) error) error {
	if o := s.ownerFrom(ctx); s.lock.tryReenter(o) {
		defer s.lock.release(o)
		if s.mode != writing {
			return ErrTransaction
		}
		return fn(ctx)
	}

	o := newOwner()
	s.lock.acquire(o)
	s.mode = writing
	defer func() {
		s.mode = idle
		s.lock.release(o)
	}()

	if err := s.ensureDir(); err != nil {
		return err
	}
	return fn(context.WithValue(ctx, ownerKey{s}, o))
}

// View runs fn in a read transaction. If the context already owns a read or
// write transaction on s, fn runs directly inside it.
func (s *Store[V]) View(ctx context.Context, fn func(ctx context.Context) error) error {
	if o := s.ownerFrom(ctx); s.lock.tryReenter(o) {
		defer s.lock.release(o)
		return fn(ctx)
	}

	o := newOwner()
	s.lock.acquire(o)
	s.mode = reading
	defer func() {
		s.mode = idle
		s.lock.release(o)
	}()

	return fn(context.WithValue(ctx, ownerKey{s}, o))
}

func (s *Store[V]) ensureDir() error {
	_, err := os.Stat(s.dir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Mkdir(s.dir, s.dirPerm); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	s.log.Debug("geldb: created store directory", "dir", s.dir)
	return nil
}
