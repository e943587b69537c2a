package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/treykane/notes-layout/internal/layout"
	"github.com/treykane/notes-layout/internal/logging"
)

const (
	configDirName  = ".notes-layout"
	configFileName = "config.json"

	// configPathEnv overrides the config file location.
	configPathEnv = "NOTES_LAYOUT_CONFIG"
)

var ErrNotConfigured = errors.New("notes-layout is not configured")

var log = logging.New("config")

// Config stores user-defined notes-layout settings.
type Config struct {
	NotesDir string   `json:"notes_dir"`
	LogFile  string   `json:"log_file,omitempty"`
	Joplin   Joplin   `json:"joplin"`
	Settings Settings `json:"settings"`
}

// Joplin holds the Data API endpoint used by the joplin backend.
type Joplin struct {
	URL   string `json:"url,omitempty"`
	Token string `json:"token,omitempty"`
}

// Settings are the layout rules. JSON names match the setting keys read
// through File.Value.
type Settings struct {
	DefaultLayout  string `json:"defaultLayout"`
	EditorTags     string `json:"editorTags"`
	SplitTags      string `json:"splitTags"`
	ViewerTags     string `json:"viewerTags"`
	RichtextTags   string `json:"richtextTags"`
	PaneCycleBound int    `json:"paneCycleBound,omitempty"`
}

// DefaultSettings pins each layout to its own layout tag and leaves
// untagged notes alone.
func DefaultSettings() Settings {
	return Settings{
		DefaultLayout: layout.None.String(),
		EditorTags:    layout.LabelEditor,
		SplitTags:     layout.LabelSplit,
		ViewerTags:    layout.LabelViewer,
		RichtextTags:  layout.LabelRichtext,
	}
}

// DefaultNotesDir returns the default notes directory used by the configurator.
func DefaultNotesDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "notes"), nil
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		return expandHome(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Exists reports whether the config file exists.
func Exists() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Load reads and validates the saved configuration.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path. Comments and trailing commas
// are allowed.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, ErrNotConfigured
		}
		return Config{}, err
	}

	cfg := Config{Settings: DefaultSettings()}
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	notesDir, err := NormalizeNotesDir(cfg.NotesDir)
	if err != nil {
		return Config{}, fmt.Errorf("invalid notes_dir: %w", err)
	}
	cfg.NotesDir = notesDir

	if cfg.LogFile != "" {
		logFile, err := expandHome(strings.TrimSpace(cfg.LogFile))
		if err != nil {
			return Config{}, fmt.Errorf("invalid log_file: %w", err)
		}
		cfg.LogFile = logFile
	}

	if _, err := layout.ParseKind(cfg.Settings.DefaultLayout); err != nil {
		log.Warn("unknown default layout", "value", cfg.Settings.DefaultLayout, "path", path)
	}

	return cfg, nil
}

// Save writes configuration to disk.
func Save(cfg Config) error {
	notesDir, err := NormalizeNotesDir(cfg.NotesDir)
	if err != nil {
		return fmt.Errorf("invalid notes_dir: %w", err)
	}
	cfg.NotesDir = notesDir

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// NormalizeNotesDir expands and normalizes a notes directory path.
func NormalizeNotesDir(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
