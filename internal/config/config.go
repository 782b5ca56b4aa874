// Package config resolves where daybook keeps its data and how chatty it
// is. Values come from flags, DAYBOOK_* environment variables (a .env file
// is honored), an optional daybook.yaml and finally built-in defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName = "daybook"

	KeyDataDir  = "data-dir"
	KeyLogLevel = "log-level"
)

type Config struct {
	DataDir  string
	LogLevel string
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, appName+".db")
}

func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, appName+".lock")
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, appName+".log")
}

// NewViper returns a viper instance wired for daybook: env prefix, key
// replacer, defaults and config search paths. With no dirs it searches
// $XDG_CONFIG_HOME/daybook and the working directory.
func NewViper(configDirs ...string) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("DAYBOOK")
	// --data-dir -> DAYBOOK_DATA_DIR
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	if len(configDirs) == 0 {
		configDirs = defaultConfigDirs()
	}
	for _, dir := range configDirs {
		v.AddConfigPath(dir)
	}

	v.SetDefault(KeyLogLevel, "warn")
	return v
}

// Load loads .env files (".env" when none are given), reads the config file
// if there is one and returns the resolved Config. Missing files are fine.
func Load(v *viper.Viper, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		DataDir:  v.GetString(KeyDataDir),
		LogLevel: strings.ToLower(v.GetString(KeyLogLevel)),
	}
	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	return cfg, nil
}

// defaultDataDir uses the XDG data directory or falls back to
// ~/.local/share
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName), nil
}

func defaultConfigDirs() []string {
	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append([]string{filepath.Join(dir, appName)}, dirs...)
	}
	return dirs
}
