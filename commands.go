package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/terncalc/pkg/display"
	"github.com/wildfunctions/terncalc/pkg/engine"
	"github.com/wildfunctions/terncalc/pkg/keymap"
	"github.com/wildfunctions/terncalc/pkg/logging"
	"github.com/wildfunctions/terncalc/pkg/server"
	"github.com/wildfunctions/terncalc/pkg/ternary"
	"github.com/wildfunctions/terncalc/pkg/tui"
)

var (
	configPath  string
	logLevel    string
	keymapName  string
	displayName string
	format      string
	verbose     bool
	workers     int
	addr        string

	cfg    engine.Config
	logger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "terncalc",
		Short: "A base-3 integer calculator",
		Long: `terncalc is a calculator for ternary integers with parentheses,
undo and redo. Without a subcommand it opens the interactive calculator on a
terminal and evaluates one script per line otherwise.`,
		SilenceUsage: true,
	}

	evalCmd = &cobra.Command{
		Use:   "eval [script...]",
		Short: "Evaluate scripts, one calculator each; reads stdin lines when no script is given",
		RunE:  runEval,
	}

	enabledCmd = &cobra.Command{
		Use:   "enabled [script]",
		Short: "Show which inputs are accepted after a script",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnabled,
	}

	formatCmd = &cobra.Command{
		Use:   "format <decimal>...",
		Short: "Print decimal integers in base 3",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFormat,
	}

	parseCmd = &cobra.Command{
		Use:   "parse <ternary>...",
		Short: "Print base-3 numerals in decimal",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParse,
	}

	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive calculator",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve calculator sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
)

func init() {
	rootCmd.PersistentPreRunE = loadConfig
	rootCmd.RunE = runRoot

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&keymapName, "keymap", "", "keymap ("+strings.Join(keymap.Names(), ", ")+")")
	pf.StringVar(&displayName, "display", "", "display ("+strings.Join(display.Names(), ", ")+")")
	pf.StringVar(&format, "format", "", "output format (text, json)")
	pf.BoolVar(&verbose, "verbose", false, "print every step")
	pf.IntVar(&workers, "workers", 0, "number of parallel workers")

	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")

	rootCmd.AddCommand(evalCmd, enabledCmd, formatCmd, parseCmd, tuiCmd, serveCmd)
}

// loadConfig layers defaults, the config file and explicitly set flags.
// Interactive use defaults to the keyboard keymap; a file or flag still
// wins.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg = engine.DefaultConfig()
	if interactive(cmd) {
		cfg.Keymap = "keyboard"
	}
	if configPath != "" {
		loaded, err := engine.LoadConfigOver(cfg, configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("keymap") {
		cfg.Keymap = keymapName
	}
	if flags.Changed("display") {
		cfg.Display = displayName
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger = cfg.Logger("terncalc")
	return nil
}

func newEngine() (*engine.Engine, error) {
	return engine.New(cfg, logger)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// interactive reports whether cmd opens the TUI.
func interactive(cmd *cobra.Command) bool {
	return cmd == tuiCmd || (cmd == rootCmd && stdinIsTerminal())
}

func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func runRoot(cmd *cobra.Command, args []string) error {
	if stdinIsTerminal() {
		return runTUI(cmd, args)
	}
	return runEval(cmd, args)
}

func runEval(cmd *cobra.Command, args []string) error {
	scripts := args
	if len(scripts) == 0 {
		var err error
		if scripts, err = readLines(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	report, err := e.Run(ctx, scripts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Format == "json" {
		return engine.WriteJSON(out, report)
	}
	engine.WriteTextReport(out, report)
	return nil
}

func runEnabled(cmd *cobra.Command, args []string) error {
	script := ""
	if len(args) == 1 {
		script = args[0]
	}
	e, err := newEngine()
	if err != nil {
		return err
	}
	snap, err := e.Inspect(script)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Format == "json" {
		return engine.WriteJSON(out, snap)
	}
	engine.WriteTextSnapshot(out, snap)
	return nil
}

func runFormat(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("format %q: %w", arg, err)
		}
		fmt.Fprintln(out, ternary.Format(v))
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, arg := range args {
		v, err := ternary.Parse(arg)
		if err != nil {
			return fmt.Errorf("parse %q: %w", arg, err)
		}
		fmt.Fprintln(out, v)
	}
	return nil
}

func runTUI(_ *cobra.Command, _ []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return tui.Run(ctx, e, logger)
}

func runServe(_ *cobra.Command, _ []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return server.New(e, logger).Run(ctx)
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading scripts: %w", err)
	}
	return lines, nil
}
