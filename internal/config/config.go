package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "addonctl"

// DefaultConcurrency is the number of downloads run at once
const DefaultConcurrency = 4

// Config holds the resolved settings of a run
type Config struct {
	GameDir     string
	AddonsDir   string
	DataDir     string
	CacheDir    string
	DownloadDir string
	WowiToken   string
	WowiBaseURL string
	Concurrency int
	File        string // Config file used, empty when none was found
}

type resolvedPaths struct {
	ConfigDir string
	DataDir   string
	CacheDir  string
	GameDir   string
}

// Load resolves the configuration from defaults, the optional
// $XDG_CONFIG_HOME/addonctl/config.yaml and ADDONCTL_* environment variables
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return load(home, os.Getenv)
}

func load(home string, getenv func(string) string) (*Config, error) {
	paths := resolvePaths(home, getenv)

	v := viper.New()
	v.SetDefault("game_dir", paths.GameDir)
	v.SetDefault("data_dir", paths.DataDir)
	v.SetDefault("cache_dir", paths.CacheDir)
	v.SetDefault("concurrency", DefaultConcurrency)
	v.SetDefault("wowi_base_url", "")
	v.SetDefault("wowi_token", "")
	v.SetDefault("addons_dir", "")
	v.SetDefault("download_dir", "")

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(paths.ConfigDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		GameDir:     v.GetString("game_dir"),
		AddonsDir:   v.GetString("addons_dir"),
		DataDir:     v.GetString("data_dir"),
		CacheDir:    v.GetString("cache_dir"),
		DownloadDir: v.GetString("download_dir"),
		WowiToken:   v.GetString("wowi_token"),
		WowiBaseURL: v.GetString("wowi_base_url"),
		Concurrency: v.GetInt("concurrency"),
		File:        v.ConfigFileUsed(),
	}

	if cfg.AddonsDir == "" {
		cfg.AddonsDir = filepath.Join(cfg.GameDir, "Interface", "AddOns")
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = filepath.Join(cfg.CacheDir, "downloads")
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return cfg, nil
}

// EnsureDirs creates the directories addonctl writes into
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.CacheDir, c.DownloadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolvePaths(home string, getenv func(string) string) resolvedPaths {
	configHome := resolveXDGBaseDir(getenv("XDG_CONFIG_HOME"), filepath.Join(home, ".config"))
	dataHome := resolveXDGBaseDir(getenv("XDG_DATA_HOME"), filepath.Join(home, ".local", "share"))
	cacheHome := resolveXDGBaseDir(getenv("XDG_CACHE_HOME"), filepath.Join(home, ".cache"))

	return resolvedPaths{
		ConfigDir: filepath.Join(configHome, appName),
		DataDir:   filepath.Join(dataHome, appName),
		CacheDir:  filepath.Join(cacheHome, appName),
		GameDir:   filepath.Join(home, "Games", "wow"),
	}
}

func resolveXDGBaseDir(envValue, fallback string) string {
	value := strings.TrimSpace(envValue)
	if value != "" && filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return fallback
}
