/*
Package output provides formatters for listing results: a plain one-per-line
view, JSON, and YAML. The plain view supports colored output.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatPlain,
		WithCount:  true,
		WithColors: true,
	}, fs, log)

	text, err := formatter.Format(paths)
*/
package output

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/sonemaro/lsopt/pkg/logger"
)

// Format represents the output format type.
type Format string

const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Config holds formatter configuration.
type Config struct {
	Format     Format
	WithCount  bool
	WithColors bool
}

// Formatter renders a listing result.
type Formatter interface {
	Format(paths []string) (string, error)
}

type formatter struct {
	config Config
	fs     afero.Fs
	log    logger.Logger

	// now stamps structured documents; swappable so tests can produce
	// byte-identical output.
	now func() time.Time
}

// NewFormatter creates a formatter. The filesystem is consulted to classify
// entries (directory vs file) for coloring and typed output.
func NewFormatter(config Config, fs afero.Fs, log logger.Logger) Formatter {
	if log == nil {
		log = logger.Nop()
	}
	return &formatter{
		config: config,
		fs:     fs,
		log:    log,
		now:    time.Now,
	}
}

func (f *formatter) Format(paths []string) (string, error) {
	f.log.WithFields(logger.Fields{
		"format":  f.config.Format,
		"entries": len(paths),
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatPlain:
		return f.formatPlain(paths), nil
	case FormatJSON:
		return f.formatJSON(paths)
	case FormatYAML:
		return f.formatYAML(paths)
	default:
		return "", fmt.Errorf("unsupported format: %s", f.config.Format)
	}
}

// isDir classifies a path, treating anything unstattable as a plain file.
// Formatting is best effort; the listing already happened.
func (f *formatter) isDir(path string) bool {
	info, err := f.fs.Stat(path)
	return err == nil && info.IsDir()
}
