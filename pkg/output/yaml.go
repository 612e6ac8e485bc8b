package output

import (
	"gopkg.in/yaml.v3"

	"github.com/sonemaro/lsopt/pkg/logger"
)

func (f *formatter) formatYAML(paths []string) (string, error) {
	bytes, err := yaml.Marshal(f.buildListing(paths))
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
