package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type LoggerConfig struct {
	Level              string                 `json:"level,omitempty" mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format             string                 `json:"format,omitempty" mapstructure:"format" validate:"oneof=json console"`
	OutputTarget       string                 `json:"outputTarget,omitempty" mapstructure:"output_target" validate:"oneof=stdout stderr"`
	TimeField          string                 `json:"timeField,omitempty" mapstructure:"time_field"`
	TimeFormat         string                 `json:"timeFormat,omitempty" mapstructure:"time_format" validate:"oneof=rfc3339 rfc3339nano unix unix_ms"`
	ServiceName        string                 `json:"serviceName,omitempty" mapstructure:"service_name"`
	ServiceVersion     string                 `json:"serviceVersion,omitempty" mapstructure:"service_version"`
	Env                string                 `json:"env,omitempty" mapstructure:"env" validate:"oneof=dev staging prod"`
	WithCaller         bool                   `json:"withCaller,omitempty" mapstructure:"with_caller"`
	Stacktrace         bool                   `json:"stacktrace,omitempty" mapstructure:"stacktrace"`
	StacktraceMinLevel string                 `json:"stacktraceMinLevel,omitempty" mapstructure:"stacktrace_min_level" validate:"oneof=debug info warn error fatal panic"`
	DebugFile          string                 `json:"debugFile,omitempty" mapstructure:"debug_file"`
	Fields             map[string]interface{} `json:"fields,omitempty" mapstructure:"fields"`
}

// zerolog understands these layouts directly; the config uses friendlier names.
var timeFormats = map[string]string{
	"rfc3339":     "2006-01-02T15:04:05Z07:00",
	"rfc3339nano": "2006-01-02T15:04:05.999999999Z07:00",
	"unix":        zerolog.TimeFormatUnix,
	"unix_ms":     zerolog.TimeFormatUnixMs,
}

func New(logg *LoggerConfig) (logger zerolog.Logger, err error) {
	logg.setDefaults()

	v := validator.New()
	if err = v.Struct(logg); err != nil {
		return logger, fmt.Errorf("logger config validation error: %w", err)
	}

	timeFormat := timeFormats[logg.TimeFormat]
	zerolog.TimestampFieldName = logg.TimeField
	zerolog.TimeFieldFormat = timeFormat

	var out io.Writer = os.Stdout
	if logg.OutputTarget == "stderr" {
		out = os.Stderr
	}

	// prod/staging stay JSON on the configured target; dev defaults to a human console
	// and, at debug level, also keeps full history in a file.
	var writer io.Writer = out
	if logg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}
	}
	if logg.Env == "dev" && logg.Level == "debug" && logg.DebugFile != "" {
		// make sure directory exists; don't crash if it fails
		if mkErr := os.MkdirAll(filepath.Dir(logg.DebugFile), 0o755); mkErr == nil {
			file, ferr := os.OpenFile(logg.DebugFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
			if ferr == nil {
				writer = zerolog.MultiLevelWriter(writer, file)
			}
		}
	}

	logger = zerolog.New(writer).
		With().
		Timestamp().
		Str("service", logg.ServiceName).
		Str("version", logg.ServiceVersion).
		Str("env", logg.Env).
		Logger()

	if logg.WithCaller {
		logger = logger.With().Caller().Logger()
	}
	if logg.Stacktrace {
		logger = logger.With().Stack().Logger()
	}
	if len(logg.Fields) > 0 {
		logger = logger.With().Fields(logg.Fields).Logger()
	}

	// set log level globally (important: must be after ParseLevel)
	level, err := zerolog.ParseLevel(logg.Level)
	if err != nil {
		return logger, err
	}
	zerolog.SetGlobalLevel(level)

	return logger, nil
}

func (c *LoggerConfig) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}

	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}

	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}

	if c.OutputTarget == "" {
		if c.Format == "console" {
			c.OutputTarget = "stderr"
		} else {
			c.OutputTarget = "stdout"
		}
	}

	if c.TimeField == "" {
		c.TimeField = "ts"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "rfc3339nano"
	}

	if !c.WithCaller && c.Env == "dev" {
		c.WithCaller = true
	}
	if !c.Stacktrace && c.Env != "dev" {
		c.Stacktrace = true
	}
	if c.StacktraceMinLevel == "" {
		c.StacktraceMinLevel = "error"
	}
	if c.DebugFile == "" && c.Env == "dev" {
		c.DebugFile = "logs/debug.log"
	}

	if c.ServiceName == "" {
		c.ServiceName = "orgs-directory-service"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.1.0"
	}

	if c.Fields == nil {
		c.Fields = make(map[string]interface{})
	}
}
