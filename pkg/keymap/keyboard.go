package keymap

func init() {
	Register("keyboard", newKeyboard)
}

// newKeyboard binds terminal key names the way a desktop calculator does:
// symbols as typed, c to clear the entry, delete to clear everything and
// backspace to step back.
func newKeyboard() Keymap {
	return &bindings{name: "keyboard", keys: map[string]byte{
		"0":         '0',
		"1":         '1',
		"2":         '2',
		"+":         '+',
		"-":         '-',
		"*":         '*',
		"/":         '/',
		"(":         '(',
		")":         ')',
		"=":         '=',
		"enter":     '=',
		"c":         'C',
		"delete":    'A',
		"backspace": 'U',
		"ctrl+z":    'U',
		"ctrl+y":    'R',
	}}
}
