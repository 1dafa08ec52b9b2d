// Package config loads settings from defaults, the library's config.yaml, WRAP_NOTES_*
// environment variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/storage"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "WRAP_NOTES"

	// MinWidth is the narrowest wrap width accepted.
	MinWidth = 20
)

// Keys
const (
	KeyLibraryDir = "library_dir"
	KeyWrapWidth  = "wrap_width"
	KeyLogLevel   = "log.level"
	KeyLogFile    = "log.file"
	KeyTheme      = "theme"
	KeyUser       = "user"
)

// Config is the resolved configuration.
type Config struct {
	LibraryDir string `mapstructure:"library_dir"`
	WrapWidth  int    `mapstructure:"wrap_width"`
	Theme      string `mapstructure:"theme"`
	// User is the id of the staff member filling notes; it fills "current user" blanks.
	User string `mapstructure:"user"`
	Log  Log    `mapstructure:"log"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLibraryDir, "")
	v.SetDefault(KeyWrapWidth, 140)
	v.SetDefault(KeyTheme, "auto")
	v.SetDefault(KeyUser, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFile, "")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// WRAP_NOTES_DIR predates WRAP_NOTES_LIBRARY_DIR
	_ = v.BindEnv(KeyLibraryDir, envPrefix+"_LIBRARY_DIR", envPrefix+"_DIR")
	return v
}

// BindFlags binds the persistent flags the CLI defines to their keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		KeyLibraryDir: "library",
		KeyWrapWidth:  "width",
		KeyLogLevel:   "log-level",
		KeyTheme:      "theme",
		KeyUser:       "user",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// Load resolves the configuration. An explicit configFile must exist; otherwise
// config.yaml in the library directory is read when present.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to read config file").
				WithContext("path", configFile)
		}
	} else {
		dir, err := libraryDir(v)
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to read config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to decode configuration")
	}
	if cfg.LibraryDir == "" {
		dir, err := libraryDir(v)
		if err != nil {
			return nil, err
		}
		cfg.LibraryDir = dir
	}
	cfg.LibraryDir = expandHome(cfg.LibraryDir)
	if cfg.Log.File != "" && !filepath.IsAbs(cfg.Log.File) {
		cfg.Log.File = filepath.Join(cfg.LibraryDir, "logs", cfg.Log.File)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.WrapWidth < MinWidth {
		return apperrors.ValidationError(fmt.Sprintf("wrap_width must be at least %d, got %d", MinWidth, c.WrapWidth))
	}
	switch c.Theme {
	case "auto", "light", "dark":
	default:
		return apperrors.ValidationError(fmt.Sprintf("theme must be auto, light or dark, got %q", c.Theme))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "off":
	default:
		return apperrors.ValidationError(fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	return nil
}

func libraryDir(v *viper.Viper) (string, error) {
	if dir := v.GetString(KeyLibraryDir); dir != "" {
		return expandHome(dir), nil
	}
	return storage.DefaultRoot()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
