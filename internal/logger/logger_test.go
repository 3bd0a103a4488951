package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	logpkg "github.com/maxviazov/orgs-directory-service/internal/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		config         *logpkg.LoggerConfig
		expectError    bool
		validateOutput func(zerolog.Logger) bool
	}{
		{
			name: "valid production environment",
			config: &logpkg.LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "info",
				TimeField:      "timestamp",
				Fields:         map[string]interface{}{"key": "value"},
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.InfoLevel
			},
		},
		{
			name: "invalid configuration - wrong env",
			config: &logpkg.LoggerConfig{
				ServiceName: "bad-service",
				Env:         "wrong-env",
				Level:       "debug",
			},
			expectError: true,
		},
		{
			name: "invalid log level",
			config: &logpkg.LoggerConfig{
				Env:   "prod",
				Level: "invalid-level",
			},
			expectError: true,
		},
		{
			name: "invalid time format",
			config: &logpkg.LoggerConfig{
				Env:        "prod",
				TimeFormat: "yesterday",
			},
			expectError: true,
		},
		{
			name: "valid staging environment",
			config: &logpkg.LoggerConfig{
				ServiceName: "test-service",
				Env:         "staging",
				Level:       "warn",
				TimeFormat:  "unix",
				Stacktrace:  true,
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.WarnLevel
			},
		},
		{
			name: "valid development environment without debug",
			config: &logpkg.LoggerConfig{
				Env:   "dev",
				Level: "info",
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.InfoLevel
			},
		},
		{
			name: "console format on stdout",
			config: &logpkg.LoggerConfig{
				Env:          "prod",
				Level:        "error",
				Format:       "console",
				OutputTarget: "stdout",
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.ErrorLevel
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, err := logpkg.New(test.config)
			if test.expectError {
				assert.NotNil(t, err)
				return
			}
			assert.NoError(t, err)
			if test.validateOutput != nil {
				assert.True(t, test.validateOutput(l))
			}
		})
	}

	t.Run("debug log file creation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "debug.log")
		config := &logpkg.LoggerConfig{
			ServiceName: "integration-test",
			Env:         "dev",
			Level:       "debug",
			DebugFile:   path,
		}

		_, err := logpkg.New(config)
		assert.NoError(t, err)

		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	})

	t.Run("defaults fill service identity", func(t *testing.T) {
		config := &logpkg.LoggerConfig{Env: "prod"}
		_, err := logpkg.New(config)
		assert.NoError(t, err)
		assert.Equal(t, "orgs-directory-service", config.ServiceName)
		assert.Equal(t, "json", config.Format)
		assert.Equal(t, "stdout", config.OutputTarget)
	})
}
