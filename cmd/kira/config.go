package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"kira/internal/driver"
	"kira/internal/trace"
)

const configFileName = "kira.toml"

type fileConfig struct {
	Path  string      `toml:"-"`
	Build buildConfig `toml:"build"`
	Trace traceConfig `toml:"trace"`
}

type buildConfig struct {
	Emit   string `toml:"emit"`
	OutDir string `toml:"out_dir"`
	Jobs   int    `toml:"jobs"`
	UI     string `toml:"ui"`
	Cache  bool   `toml:"cache"`
}

type traceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// resolveConfig loads --config if given, otherwise the nearest kira.toml
// above the working directory. No file means an empty config.
func resolveConfig(cmd *cobra.Command) (fileConfig, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit != "" {
		return loadConfig(explicit)
	}
	path, ok, err := findConfig(".")
	if err != nil || !ok {
		return fileConfig{}, err
	}
	return loadConfig(path)
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fileConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("build", "emit") {
		if _, err := driver.ParseEmit(cfg.Build.Emit); err != nil {
			return fileConfig{}, fmt.Errorf("%s: [build].emit: %w", path, err)
		}
	}
	if meta.IsDefined("build", "jobs") && cfg.Build.Jobs < 0 {
		return fileConfig{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	if meta.IsDefined("build", "ui") {
		if _, err := readUIMode(cfg.Build.UI); err != nil {
			return fileConfig{}, fmt.Errorf("%s: [build].ui: %w", path, err)
		}
	}
	if meta.IsDefined("trace", "level") {
		if _, err := trace.ParseLevel(cfg.Trace.Level); err != nil {
			return fileConfig{}, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
	}
	if meta.IsDefined("trace", "format") {
		if _, err := trace.ParseFormat(cfg.Trace.Format); err != nil {
			return fileConfig{}, fmt.Errorf("%s: [trace].format: %w", path, err)
		}
	}
	// out_dir относительно файла конфигурации
	if cfg.Build.OutDir != "" && !filepath.IsAbs(cfg.Build.OutDir) {
		cfg.Build.OutDir = filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.Build.OutDir))
	}
	cfg.Path = path
	return cfg, nil
}
