package output

import (
	"encoding/json"
	"time"

	"github.com/sonemaro/lsopt/pkg/logger"
)

// entry is a single listed path in structured output.
type entry struct {
	Path string `json:"path" yaml:"path"`
	Type string `json:"type" yaml:"type"`
}

// listing is the complete structured output document.
type listing struct {
	Entries   []entry   `json:"entries" yaml:"entries"`
	Count     int       `json:"count" yaml:"count"`
	Generated time.Time `json:"generated" yaml:"generated"`
}

func (f *formatter) formatJSON(paths []string) (string, error) {
	bytes, err := json.MarshalIndent(f.buildListing(paths), "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes), nil
}

func (f *formatter) buildListing(paths []string) *listing {
	entries := make([]entry, len(paths))
	for i, path := range paths {
		kind := "file"
		if f.isDir(path) {
			kind = "directory"
		}
		entries[i] = entry{Path: path, Type: kind}
	}

	return &listing{
		Entries:   entries,
		Count:     len(paths),
		Generated: f.now(),
	}
}
