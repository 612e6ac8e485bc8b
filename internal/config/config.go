/*
Package config provides configuration management for the lsopt CLI.
It reads environment variables and validates all parameters. The library
packages never touch the environment; this is CLI plumbing only.

Environment Variables:

	LSOPT_WORKERS      Number of concurrent subtree walkers (0 = sequential)
	LSOPT_DEPTH        Levels of descent for non-recursive listings
	LSOPT_RECURSIVE    Descend without bound
	LSOPT_DIRS         Include directories
	LSOPT_FILES        Include files
	LSOPT_HIDDEN       Include names starting with '.'
	LSOPT_UNHIDDEN     Include names not starting with '.'
	LSOPT_SUFFIXES     Comma-separated literal suffixes
	LSOPT_OUTPUT       Output format: plain|json|yaml
	LSOPT_OUTPUT_FILE  Output file path (empty = stdout)
	LSOPT_RATE_LIMIT   Subtree walks per second (0 = unlimited)
	LSOPT_NO_COLOR     Disable colored output
	LSOPT_VERBOSE      Verbosity level

Default Values:

	Workers:  0 (sequential engine)
	Depth:    1
	Dirs, Files, Unhidden: true
	Output:   "plain"
*/
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the CLI.
type Config struct {
	// Workers is the number of concurrent subtree walkers.
	// 0 selects the sequential engine.
	Workers int

	// Depth is the number of levels to descend when not recursive.
	Depth uint

	// Recursive descends without bound, ignoring Depth.
	Recursive bool

	// Dirs includes directories in the listing.
	Dirs bool

	// Files includes regular files in the listing.
	Files bool

	// Hidden includes names starting with '.'.
	Hidden bool

	// Unhidden includes names not starting with '.'.
	Unhidden bool

	// Suffixes restricts matches to names ending in one of these
	// literal suffixes.
	Suffixes []string

	// Output specifies the output format (plain, json, or yaml).
	Output string

	// OutputFile is the path to write the output (empty for stdout).
	OutputFile string

	// RateLimit caps subtree walks per second (0 for unlimited).
	RateLimit int

	// NoColor disables colored output.
	NoColor bool

	// Verbose sets the verbosity level.
	Verbose int
}

// validOutputFormats contains the list of supported output formats.
var validOutputFormats = map[string]bool{
	"plain": true,
	"json":  true,
	"yaml":  true,
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("workers", 0)
	v.SetDefault("depth", 1)
	v.SetDefault("recursive", false)
	v.SetDefault("dirs", true)
	v.SetDefault("files", true)
	v.SetDefault("hidden", false)
	v.SetDefault("unhidden", true)
	v.SetDefault("output", "plain")
	v.SetDefault("rate_limit", 0)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	v.SetEnvPrefix("LSOPT")
	v.AutomaticEnv()

	v.BindEnv("workers")
	v.BindEnv("depth")
	v.BindEnv("recursive")
	v.BindEnv("dirs")
	v.BindEnv("files")
	v.BindEnv("hidden")
	v.BindEnv("unhidden")
	v.BindEnv("suffixes")
	v.BindEnv("output")
	v.BindEnv("output_file")
	v.BindEnv("rate_limit")
	v.BindEnv("no_color")
	v.BindEnv("verbose")

	cfg := Config{
		Workers:    v.GetInt("workers"),
		Depth:      v.GetUint("depth"),
		Recursive:  v.GetBool("recursive"),
		Dirs:       v.GetBool("dirs"),
		Files:      v.GetBool("files"),
		Hidden:     v.GetBool("hidden"),
		Unhidden:   v.GetBool("unhidden"),
		Output:     v.GetString("output"),
		OutputFile: v.GetString("output_file"),
		RateLimit:  v.GetInt("rate_limit"),
		NoColor:    v.GetBool("no_color"),
		Verbose:    v.GetInt("verbose"),
	}

	if suffixStr := v.GetString("suffixes"); suffixStr != "" {
		parts := strings.Split(suffixStr, ",")
		cfg.Suffixes = make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Suffixes = append(cfg.Suffixes, trimmed)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be non-negative")
	}
	maxWorkers := runtime.NumCPU() * 4
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * 4")
	}

	if !validOutputFormats[c.Output] {
		return fmt.Errorf("invalid output format: must be one of [plain json yaml]")
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	return nil
}

// String returns a string representation of the configuration.
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, Depth: %d, Recursive: %v, Dirs: %v, Files: %v, "+
			"Hidden: %v, Unhidden: %v, Suffixes: %v, Output: %s, "+
			"OutputFile: %s, RateLimit: %d, NoColor: %v, Verbose: %d}",
		c.Workers, c.Depth, c.Recursive, c.Dirs, c.Files,
		c.Hidden, c.Unhidden, c.Suffixes, c.Output,
		c.OutputFile, c.RateLimit, c.NoColor, c.Verbose,
	)
}
