package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// formatPlain renders one path per line. Directories get a trailing slash
// and, when colors are on, the same blue/bold treatment ls gives them.
func (f *formatter) formatPlain(paths []string) string {
	var builder strings.Builder

	for _, path := range paths {
		line := path
		if f.isDir(path) {
			line += "/"
			if f.config.WithColors {
				line = color.New(color.FgBlue, color.Bold).Sprint(line)
			}
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	if f.config.WithCount {
		builder.WriteString(fmt.Sprintf("\n%d entries\n", len(paths)))
	}

	return builder.String()
}
