package geldb

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrInvalidFilename is returned by KeyCodec.DecodeKey for names the codec
// could not have produced.
var ErrInvalidFilename = errors.New("geldb: invalid filename")

// KeyCodec maps keys to filenames and back. EncodeKey must be injective and
// its output must be a single path element: no separators, and never "."
// or "..". DecodeKey must invert it exactly.
type KeyCodec interface {
	EncodeKey(key string) string
	DecodeKey(filename string) (string, error)
}

// Base64Keys encodes keys as unpadded URL-safe base64. Its alphabet is
// A-Z a-z 0-9 - _ so filenames never contain a slash or a dot, and
// dot-prefixed files in the store directory are never mistaken for keys.
var Base64Keys KeyCodec = base64Keys{}

type base64Keys struct{}

var keyEncoding = base64.RawURLEncoding.Strict()

func (base64Keys) EncodeKey(key string) string {
	return keyEncoding.EncodeToString([]byte(key))
}

func (base64Keys) DecodeKey(filename string) (string, error) {
	b, err := keyEncoding.DecodeString(filename)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidFilename, filename, err)
	}
	return string(b), nil
}
