package geldb

import "github.com/vmihailenco/msgpack/v5"

// Ref is the exported form of a Store: just the directory it lives in.
// Transaction state and the lock are never part of it.
type Ref struct {
	_msgpack struct{} `msgpack:",as_array"`

	Root string `yaml:"root"`
	Name string `yaml:"name"`
}

// Ref exports s. It is safe to call during a transaction; the result does
// not reflect it.
func (s *Store[V]) Ref() Ref {
	return Ref{Root: s.root, Name: s.name}
}

// Open reconstructs a Store from ref, with an idle, unlocked transaction
// state. Options are not part of a Ref and must be supplied again.
func Open[V any](ref Ref, opts Options[V]) *Store[V] {
	return New(ref.Root, ref.Name, opts)
}

// refWire has Ref's fields without its methods, so msgpack does not call
// back into MarshalBinary.
type refWire Ref

// MarshalBinary encodes r as the msgpack array [root, name].
func (r Ref) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal((*refWire)(&r))
}

// UnmarshalBinary decodes the output of MarshalBinary.
func (r *Ref) UnmarshalBinary(data []byte) error {
	var out refWire
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return err
	}
	*r = Ref(out)
	return nil
}
