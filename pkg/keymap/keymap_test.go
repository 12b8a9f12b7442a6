package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"codes", "keyboard"}, Names())
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("dvorak")
	assert.Error(t, err)
}

func TestCodes_Identity(t *testing.T) {
	km, err := Get("codes")
	require.NoError(t, err)
	assert.Equal(t, "codes", km.Name())
	for i := 0; i < len(Codes); i++ {
		code, ok := km.Lookup(string(Codes[i]))
		require.True(t, ok, "key %q", Codes[i])
		assert.Equal(t, Codes[i], code)
	}
	_, ok := km.Lookup("3")
	assert.False(t, ok)
}

func TestKeyboard_Bindings(t *testing.T) {
	km, err := Get("keyboard")
	require.NoError(t, err)

	tests := map[string]byte{
		"enter":     '=',
		"=":         '=',
		"c":         'C',
		"delete":    'A',
		"backspace": 'U',
		"ctrl+z":    'U',
		"ctrl+y":    'R',
		"2":         '2',
	}
	for key, want := range tests {
		code, ok := km.Lookup(key)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, want, code, "key %q", key)
	}
	assert.Equal(t, []string{"backspace", "ctrl+z"}, km.Keys('U'))
	assert.Equal(t, []string{"=", "enter"}, km.Keys('='))
}

func TestParse(t *testing.T) {
	km, err := Get("codes")
	require.NoError(t, err)

	codes, err := Parse(km, " 1 2 +( 1 ) = U\n")
	require.NoError(t, err)
	assert.Equal(t, []byte("12+(1)=U"), codes)
}

func TestParse_UnknownKey(t *testing.T) {
	km, err := Get("codes")
	require.NoError(t, err)

	_, err = Parse(km, "12x")
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "offset 2")
}

func TestParse_KeyNames(t *testing.T) {
	km, err := Get("keyboard")
	require.NoError(t, err)

	tests := map[string]string{
		"1 backspace":          "1U",
		"1 delete":             "1A",
		"2 enter":              "2=",
		"1ctrl+z":              "1U",
		"1 ctrl+z ctrl+y":      "1UR",
		"12+1c":                "12+1C",
		"(1+2)*2 enter":        "(1+2)*2=",
		"21 backspace\tdelete": "21UA",
	}
	for script, want := range tests {
		codes, err := Parse(km, script)
		require.NoError(t, err, "script %q", script)
		assert.Equal(t, want, string(codes), "script %q", script)
	}
}

func TestParse_UnknownKeyName(t *testing.T) {
	km, err := Get("keyboard")
	require.NoError(t, err)

	_, err = Parse(km, "1 escape")
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "offset 2")
}
