package geldb

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
)

func shuffle(keys []string) {
	rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
}

func genValue(size int) []byte {
	v := make([]byte, size)
	for i := 0; i < size; i++ {
		v[i] = uint8((rand.Int() % 26) + 97) // a-z
	}
	return v
}

const keyCount = 1000

func genKeys() []string {
	keys := make([]string, keyCount)
	for i := 0; i < keyCount; i++ {
		keys[i] = fmt.Sprintf("%d", i)
	}
	return keys
}

func (s *Store[V]) load(b *testing.B, keys []string, val V) {
	ctx := context.Background()
	err := s.Update(ctx, func(ctx context.Context) error {
		for _, key := range keys {
			if err := s.Set(ctx, key, val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.Fatal(err)
	}
}

func benchRead(b *testing.B, size int, cachesz uint64) {
	b.StopTimer()
	s := New[[]byte](b.TempDir(), "speed-test", Options[[]byte]{CacheSizeMax: cachesz})
	keys := genKeys()
	value := genValue(size)
	s.load(b, keys, value)
	shuffle(keys)
	ctx := context.Background()
	b.SetBytes(int64(size))
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.Get(ctx, keys[i%len(keys)])
	}
	b.StopTimer()
}

func benchWrite(b *testing.B, size int, withIndex bool) {
	b.StopTimer()
	opts := Options[[]byte]{}
	if withIndex {
		opts.Index = &BTreeIndex{}
	}
	s := New[[]byte](b.TempDir(), "speed-test", opts)
	ctx := context.Background()
	if withIndex {
		if _, err := s.KeysFrom(ctx, "", 1); err != nil {
			b.Fatal(err)
		}
	}
	keys := genKeys()
	value := genValue(size)
	shuffle(keys)
	b.SetBytes(int64(size))
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Set(ctx, keys[i%len(keys)], value)
	}
	b.StopTimer()
}

func BenchmarkWrite__32B_NoIndex(b *testing.B) {
	benchWrite(b, 32, false)
}

func BenchmarkWrite__1KB_NoIndex(b *testing.B) {
	benchWrite(b, 1024, false)
}

func BenchmarkWrite__4KB_NoIndex(b *testing.B) {
	benchWrite(b, 4096, false)
}

func BenchmarkWrite__32B_WithIndex(b *testing.B) {
	benchWrite(b, 32, true)
}

func BenchmarkWrite__1KB_WithIndex(b *testing.B) {
	benchWrite(b, 1024, true)
}

func BenchmarkRead__32B_NoCache(b *testing.B) {
	benchRead(b, 32, 0)
}

func BenchmarkRead__1KB_NoCache(b *testing.B) {
	benchRead(b, 1024, 0)
}

func BenchmarkRead__32B_WithCache(b *testing.B) {
	benchRead(b, 32, keyCount*64)
}

func BenchmarkRead__1KB_WithCache(b *testing.B) {
	benchRead(b, 1024, keyCount*2048)
}

func BenchmarkKeys(b *testing.B) {
	b.StopTimer()
	s := New[[]byte](b.TempDir(), "speed-test", Options[[]byte]{})
	s.load(b, genKeys(), genValue(32))
	ctx := context.Background()
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		for _, err := range s.Keys(ctx) {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
