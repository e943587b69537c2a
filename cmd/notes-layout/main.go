// notes-layout switches the editor layout of a note from its tags.
//
// Without a subcommand it opens the terminal editor over the configured
// notes directory: selecting a note tagged layout:editor, layout:split,
// layout:viewer or layout:richtext (or any tag configured for those
// layouts) converges the editor panes to that layout.
//
// The resolve, persist and layouts subcommands run the same rules without
// the UI, against the local notes directory or, with --joplin-url or
// --joplin-token, against a running Joplin desktop app.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/treykane/notes-layout/internal/app"
	"github.com/treykane/notes-layout/internal/config"
	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/joplin"
	"github.com/treykane/notes-layout/internal/logging"
	"github.com/treykane/notes-layout/internal/workspace"
)

const defaultLogFileName = "notes-layout.log"

// options are the flags shared by every subcommand.
type options struct {
	configPath  string
	notesDir    string
	joplinURL   string
	joplinToken string
	layout      string
	logLevel    string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("notes-layout", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "config file (default: ~/.notes-layout/config.json)")
	flagSet.StringVar(&opts.notesDir, "notes-dir", "", "notes directory (overrides notes_dir in the config)")
	flagSet.StringVar(&opts.joplinURL, "joplin-url", "", "Joplin Data API address; selects the Joplin backend")
	flagSet.StringVar(&opts.joplinToken, "joplin-token", "", "Joplin Data API token; selects the Joplin backend")
	flagSet.StringVarP(&opts.layout, "layout", "l", "", "layout to persist (editor, split, viewer, richtext)")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if opts.configPath != "" {
		if err := os.Setenv("NOTES_LAYOUT_CONFIG", opts.configPath); err != nil {
			return err
		}
	}
	if opts.logLevel != "" {
		logging.SetLevel(opts.logLevel)
	}

	args := flagSet.Args()
	command := "tui"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	ctx := context.Background()
	switch command {
	case "tui":
		if len(args) > 0 {
			return fmt.Errorf("unexpected argument: %s", args[0])
		}
		return runTUI(opts)
	case "resolve":
		if len(args) != 1 {
			return errors.New("resolve takes exactly one note id")
		}
		return runResolve(ctx, opts, args[0], stdout, stderr)
	case "persist":
		if len(args) == 0 {
			return errors.New("persist needs at least one note id")
		}
		return runPersist(ctx, opts, args, stdout, stderr)
	case "layouts":
		return runLayouts(stdout)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// loadConfig reads the config file, writing a default one on first run.
func loadConfig(opts options) (config.Config, string, error) {
	path, err := config.ConfigPath()
	if err != nil {
		return config.Config{}, "", err
	}
	exists, err := config.Exists()
	if err != nil {
		return config.Config{}, "", err
	}
	if !exists {
		notesDir, err := config.DefaultNotesDir()
		if err != nil {
			return config.Config{}, "", err
		}
		if err := config.Save(config.Config{NotesDir: notesDir, Settings: config.DefaultSettings()}); err != nil {
			return config.Config{}, "", err
		}
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return config.Config{}, "", err
	}
	if opts.notesDir != "" {
		dir, err := config.NormalizeNotesDir(opts.notesDir)
		if err != nil {
			return config.Config{}, "", fmt.Errorf("invalid --notes-dir: %w", err)
		}
		cfg.NotesDir = dir
	}
	if opts.joplinURL != "" {
		cfg.Joplin.URL = opts.joplinURL
	}
	if opts.joplinToken != "" {
		cfg.Joplin.Token = opts.joplinToken
	}
	return cfg, path, nil
}

// useJoplin reports whether the Joplin backend was asked for on the
// command line.
func (o options) useJoplin() bool {
	return o.joplinURL != "" || o.joplinToken != ""
}

// backend is a note store the headless commands work on.
type backend interface {
	host.TagStore
	Note(ctx context.Context, id string) (host.Document, error)
}

// tagStore opens the backend the headless commands work on.
func tagStore(opts options, cfg config.Config) (backend, error) {
	if opts.useJoplin() {
		return joplin.New(cfg.Joplin.URL, cfg.Joplin.Token), nil
	}
	return workspace.Open(cfg.NotesDir)
}

// openLogFile opens path for appending, creating its directory.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// configureLogging sends headless command logs to stderr and, when
// log_file is set, to that file as well. The returned func restores
// stderr-only logging and closes the file.
func configureLogging(cfg config.Config, stderr io.Writer) (func(), error) {
	if cfg.LogFile == "" {
		logging.Configure(stderr)
		return func() {}, nil
	}
	f, err := openLogFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	logging.Configure(stderr, f)
	return func() {
		logging.Configure(stderr)
		f.Close()
	}, nil
}

func runTUI(opts options) error {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(filepath.Dir(path), defaultLogFileName)
	}
	f, err := openLogFile(logFile)
	if err != nil {
		return err
	}
	defer f.Close()
	logging.Configure(f)

	store, err := workspace.Open(cfg.NotesDir)
	if err != nil {
		return err
	}
	m, err := app.New(app.Options{
		Store:    store,
		Settings: config.File{Path: path},
		Watcher:  config.NewWatcher(path, cfg.Settings),
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `notes-layout switches the editor layout of a note from its tags.

Usage:
  notes-layout [flags]                          open the terminal editor
  notes-layout resolve <note>                   print the layout a note resolves to
  notes-layout persist --layout <l> <note>...   tag notes with a layout
  notes-layout layouts                          list layouts and their tags

Flags:
%s`, strings.TrimRight(flagSet.FlagUsages(), "\n")+"\n")
}
