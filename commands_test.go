package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/terncalc/pkg/engine"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		// Flags keep their values between Execute calls.
		for _, name := range []string{"format", "verbose", "display", "keymap"} {
			if f := rootCmd.PersistentFlags().Lookup(name); f != nil {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			}
		}
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEval_Args(t *testing.T) {
	out, err := execute(t, "", "eval", "12+2=", "((1+1)*2+1)=")
	require.NoError(t, err)
	assert.Contains(t, out, "12+2=")
	assert.Contains(t, out, "= 21")
	assert.Contains(t, out, "= 12")
}

func TestEval_Stdin(t *testing.T) {
	out, err := execute(t, "1+1=\n\n2*2=\n", "eval", "--display", "decimal")
	require.NoError(t, err)
	assert.Contains(t, out, "= 2")
	assert.Contains(t, out, "= 4")
}

func TestEval_JSON(t *testing.T) {
	out, err := execute(t, "", "eval", "--format", "json", "2*2=")
	require.NoError(t, err)

	var report engine.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Transcripts, 1)
	assert.Equal(t, "11", report.Transcripts[0].Text)
}

func TestEnabled(t *testing.T) {
	out, err := execute(t, "", "enabled", "(1")
	require.NoError(t, err)
	assert.Contains(t, out, "Depth:    1")
	assert.Contains(t, out, "unclosed parenthesis")
}

func TestFormatAndParse(t *testing.T) {
	out, err := execute(t, "", "format", "16", "0")
	require.NoError(t, err)
	assert.Equal(t, "121\n0\n", out)

	out, err = execute(t, "", "parse", "--", "121", "-2")
	require.NoError(t, err)
	assert.Equal(t, "16\n-2\n", out)

	_, err = execute(t, "", "parse", "3")
	assert.Error(t, err)
}

func TestUnknownDisplay(t *testing.T) {
	_, err := execute(t, "", "eval", "--display", "roman", "1")
	assert.Error(t, err)
}

func TestLoadConfig_InteractiveKeymap(t *testing.T) {
	t.Cleanup(func() { configPath = "" })

	configPath = ""
	require.NoError(t, loadConfig(tuiCmd, nil))
	assert.Equal(t, "keyboard", cfg.Keymap)

	require.NoError(t, loadConfig(evalCmd, nil))
	assert.Equal(t, "codes", cfg.Keymap)

	configPath = filepath.Join(t.TempDir(), "terncalc.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("keymap: codes\n"), 0o644))
	require.NoError(t, loadConfig(tuiCmd, nil))
	assert.Equal(t, "codes", cfg.Keymap, "config file keymap must survive the interactive default")
}
