// Package settings persists the application settings document: a small
// key-value file stored at a fixed location under the user's config dir.
// Values missing from the file are backfilled with defaults on load, so keys
// introduced by upgrades appear without discarding what the user already set.
package settings

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "fintrack/internal/errors"
)

// Settings enumerates every recognized option with its storage key.
// Unknown keys in the file are ignored rather than carried along.
type Settings struct {
	Theme              string `mapstructure:"theme" json:"theme"`
	FontFamily         string `mapstructure:"font_family" json:"font_family"`
	FontSize           int    `mapstructure:"font_size" json:"font_size"`
	ColorScheme        string `mapstructure:"color_scheme" json:"color_scheme"`
	BackupDir          string `mapstructure:"backup_dir" json:"backup_dir"`
	ExportDir          string `mapstructure:"export_dir" json:"export_dir"`
	AutoBackup         bool   `mapstructure:"auto_backup" json:"auto_backup"`
	BackupIntervalDays int    `mapstructure:"backup_interval_days" json:"backup_interval_days"`
}

// Defaults returns the settings used for a fresh installation.
func Defaults() Settings {
	return Settings{
		Theme:              "light",
		FontFamily:         "Arial",
		FontSize:           10,
		ColorScheme:        "default",
		BackupDir:          filepath.Join("data", "backups"),
		ExportDir:          filepath.Join("data", "exports"),
		AutoBackup:         true,
		BackupIntervalDays: 7,
	}
}

// Validate resets out-of-range values to their defaults. The settings file is
// user-editable, so a bad value degrades to the default instead of erroring.
func (s *Settings) Validate() {
	def := Defaults()
	if s.Theme != "light" && s.Theme != "dark" {
		s.Theme = def.Theme
	}
	if s.FontSize < 6 || s.FontSize > 32 {
		s.FontSize = def.FontSize
	}
	if s.BackupIntervalDays < 1 {
		s.BackupIntervalDays = def.BackupIntervalDays
	}
	if s.FontFamily == "" {
		s.FontFamily = def.FontFamily
	}
	if s.ColorScheme == "" {
		s.ColorScheme = def.ColorScheme
	}
	if s.BackupDir == "" {
		s.BackupDir = def.BackupDir
	}
	if s.ExportDir == "" {
		s.ExportDir = def.ExportDir
	}
}

// Store reads and writes the settings document at a fixed path.
type Store struct {
	path string
}

// DefaultPath returns the fixed settings location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrIO, err)
	}
	return filepath.Join(dir, "fintrack", "settings.json"), nil
}

// NewStore creates a store for the settings file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the settings file, merging it over the defaults. A missing file
// is created with the defaults; a malformed file is an IO error.
func (s *Store) Load() (Settings, error) {
	def := Defaults()

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	v.SetDefault("theme", def.Theme)
	v.SetDefault("font_family", def.FontFamily)
	v.SetDefault("font_size", def.FontSize)
	v.SetDefault("color_scheme", def.ColorScheme)
	v.SetDefault("backup_dir", def.BackupDir)
	v.SetDefault("export_dir", def.ExportDir)
	v.SetDefault("auto_backup", def.AutoBackup)
	v.SetDefault("backup_interval_days", def.BackupIntervalDays)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			if err := s.Save(def); err != nil {
				return def, err
			}
			return def, nil
		}
		return def, apperrors.Wrap(apperrors.ErrIO, err)
	}

	var loaded Settings
	if err := v.Unmarshal(&loaded); err != nil {
		return def, apperrors.Wrap(apperrors.ErrIO, err)
	}
	loaded.Validate()
	return loaded, nil
}

// Save writes the settings document, creating the config dir if needed.
func (s *Store) Save(st Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.Wrap(apperrors.ErrIO, err)
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	v.Set("theme", st.Theme)
	v.Set("font_family", st.FontFamily)
	v.Set("font_size", st.FontSize)
	v.Set("color_scheme", st.ColorScheme)
	v.Set("backup_dir", st.BackupDir)
	v.Set("export_dir", st.ExportDir)
	v.Set("auto_backup", st.AutoBackup)
	v.Set("backup_interval_days", st.BackupIntervalDays)

	if err := v.WriteConfigAs(s.path); err != nil {
		return apperrors.Wrap(apperrors.ErrIO, err)
	}
	return nil
}
