package keymap

func init() {
	Register("codes", newCodes)
}

// Codes is the identity keymap: every key is its own protocol byte.
const Codes = "012+-*/()=CAUR"

func newCodes() Keymap {
	b := &bindings{name: "codes", keys: make(map[string]byte, len(Codes))}
	for i := 0; i < len(Codes); i++ {
		b.keys[string(Codes[i])] = Codes[i]
	}
	return b
}
