package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	cleanup := func() {
		envVars := []string{
			"LSOPT_WORKERS",
			"LSOPT_DEPTH",
			"LSOPT_RECURSIVE",
			"LSOPT_DIRS",
			"LSOPT_FILES",
			"LSOPT_HIDDEN",
			"LSOPT_UNHIDDEN",
			"LSOPT_SUFFIXES",
			"LSOPT_OUTPUT",
			"LSOPT_OUTPUT_FILE",
			"LSOPT_RATE_LIMIT",
			"LSOPT_NO_COLOR",
			"LSOPT_VERBOSE",
		}
		for _, env := range envVars {
			os.Unsetenv(env)
		}
	}

	tests := []struct {
		name     string
		envVars  map[string]string
		expected Config
		wantErr  bool
		errMsg   string
	}{
		{
			name: "default configuration",
			expected: Config{
				Workers:  0,
				Depth:    1,
				Dirs:     true,
				Files:    true,
				Unhidden: true,
				Output:   "plain",
			},
		},
		{
			name: "configuration from environment variables",
			envVars: map[string]string{
				"LSOPT_WORKERS":   "4",
				"LSOPT_DEPTH":     "3",
				"LSOPT_RECURSIVE": "true",
				"LSOPT_HIDDEN":    "true",
				"LSOPT_SUFFIXES":  ".go, .yaml,",
				"LSOPT_OUTPUT":    "json",
				"LSOPT_NO_COLOR":  "true",
			},
			expected: Config{
				Workers:   4,
				Depth:     3,
				Recursive: true,
				Dirs:      true,
				Files:     true,
				Hidden:    true,
				Unhidden:  true,
				Suffixes:  []string{".go", ".yaml"},
				Output:    "json",
				NoColor:   true,
			},
		},
		{
			name: "invalid output format",
			envVars: map[string]string{
				"LSOPT_OUTPUT": "xml",
			},
			wantErr: true,
			errMsg:  "invalid output format",
		},
		{
			name: "negative rate limit",
			envVars: map[string]string{
				"LSOPT_RATE_LIMIT": "-1",
			},
			wantErr: true,
			errMsg:  "rate limit must be non-negative",
		},
		{
			name: "workers over the cap",
			envVars: map[string]string{
				"LSOPT_WORKERS": "100000",
			},
			wantErr: true,
			errMsg:  "workers count cannot exceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup()
			defer cleanup()

			for k, v := range tt.envVars {
				require.NoError(t, os.Setenv(k, v))
			}

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := Config{Workers: 2, Depth: 1, Output: "plain"}

	s := cfg.String()
	assert.Contains(t, s, "Workers: 2")
	assert.Contains(t, s, "Output: plain")
}
