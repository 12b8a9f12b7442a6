// Package keymap translates host key names into calculator input codes.
//
// Codes are the single bytes of the host protocol:
//
//	0 1 2      digits
//	+ - * /    operators
//	( )        parentheses
//	=          equals
//	C A        clear, clear all
//	U R        undo, redo
package keymap

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnknownKey reports a key with no binding in the keymap.
var ErrUnknownKey = errors.New("unknown key")

// Keymap binds key names to input codes.
type Keymap interface {
	Name() string
	Lookup(key string) (byte, bool)
	Keys(code byte) []string
}

var registry = map[string]func() Keymap{}

// Register adds a keymap constructor to the registry.
func Register(name string, constructor func() Keymap) {
	registry[name] = constructor
}

// Get returns a keymap by name.
func Get(name string) (Keymap, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown keymap: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered keymap names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// maxKeyLen bounds the length of a bound key name.
const maxKeyLen = 16

// Parse maps script through km. Whitespace separates keys and is
// otherwise ignored; within a run of non-space text the longest bound key
// name wins, so "1ctrl+z" reads as 1 then ctrl+z and "12+1" as four keys.
func Parse(km Keymap, script string) ([]byte, error) {
	codes := make([]byte, 0, len(script))
	for i := 0; i < len(script); {
		r, size := utf8.DecodeRuneInString(script[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		end := len(script)
		if k := strings.IndexFunc(script[i:], unicode.IsSpace); k >= 0 {
			end = i + k
		}
		end = min(end, i+maxKeyLen)

		n := 0
		var code byte
		for j := end; j > i; j-- {
			if c, ok := km.Lookup(script[i:j]); ok {
				code, n = c, j-i
				break
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("%w %q at offset %d (keymap %s)", ErrUnknownKey, r, i, km.Name())
		}
		codes = append(codes, code)
		i += n
	}
	return codes, nil
}

// bindings is the shared map-backed implementation.
type bindings struct {
	name string
	keys map[string]byte
}

func (b *bindings) Name() string { return b.name }

func (b *bindings) Lookup(key string) (byte, bool) {
	code, ok := b.keys[key]
	return code, ok
}

func (b *bindings) Keys(code byte) []string {
	var out []string
	for k, c := range b.keys {
		if c == code {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
