package geldb

import (
	"errors"
	"strings"
	"testing"
)

func TestBase64KeysRoundTrip(t *testing.T) {
	for _, k := range []string{
		"",
		"a",
		"foo",
		"a/b",
		"/",
		"//",
		".",
		"..",
		"with space",
		" ",
		"\n",
		"trailing newline\n",
		"ünïcödé",
		"🙂",
		"\x00\xff",
		"???>>>", // plain base64 would emit '/' and '+' here
		strings.Repeat("long", 40),
	} {
		name := Base64Keys.EncodeKey(k)
		if strings.ContainsAny(name, "/.=\n\r\t ") {
			t.Errorf("%q: unsafe filename %q", k, name)
		}
		have, err := Base64Keys.DecodeKey(name)
		if err != nil {
			t.Errorf("%q: decode %q: %v", k, name, err)
			continue
		}
		if have != k {
			t.Errorf("round trip: want %q, have %q", k, have)
		}
	}
}

func TestBase64KeysRejects(t *testing.T) {
	for _, name := range []string{".tmp-123", "a=", "ab/cd", "Zm9vYg==", "Zh"} {
		if _, err := Base64Keys.DecodeKey(name); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("%q: expected ErrInvalidFilename, got %v", name, err)
		}
	}
}
