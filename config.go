package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/domicon-labs/blobcheck/blob"
)

const (
	defaultIterations = 128
	envPrefix         = "BLOBCHECK"

	flagPreset       = "preset"
	flagTrustedSetup = "trusted-setup"
	flagLogLevel     = "log-level"
)

var errUsage = errors.New("invalid arguments")

type config struct {
	Iterations uint64
	Preset     blob.Preset
	// TrustedSetup is a file path; empty selects the built-in setup.
	TrustedSetup string
	LogLevel     zapcore.Level
}

// parseConfig reads flags and the optional iteration count from args, with
// BLOBCHECK_* environment variables overriding flag defaults. On failure the
// usage message has already been written to stderr.
func parseConfig(prog string, args []string, stderr io.Writer) (*config, error) {
	fs := pflag.NewFlagSet(prog, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String(flagPreset, blob.Mainnet.Name, "blob geometry (mainnet, minimal)")
	fs.String(flagTrustedSetup, "", "trusted setup JSON file (default: built-in testing setup)")
	fs.String(flagLogLevel, zapcore.InfoLevel.String(), "log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s <number_of_iterations>\n", prog)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		// pflag only prints usage itself for --help under ContinueOnError
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(stderr, err)
			fs.Usage()
		}
		return nil, errors.Wrap(errUsage, err.Error())
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "bind flags")
	}

	cfg := &config{
		Iterations:   defaultIterations,
		TrustedSetup: v.GetString(flagTrustedSetup),
	}
	if fs.NArg() > 0 {
		n, err := strconv.ParseUint(fs.Arg(0), 10, 64)
		if err != nil {
			fs.Usage()
			return nil, errors.Wrap(errUsage, err.Error())
		}
		cfg.Iterations = n
	}

	preset, err := blob.PresetByName(v.GetString(flagPreset))
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return nil, errors.Wrap(errUsage, err.Error())
	}
	cfg.Preset = preset

	level, err := zapcore.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return nil, errors.Wrap(errUsage, err.Error())
	}
	cfg.LogLevel = level
	return cfg, nil
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// newLogger builds a console logger writing to w.
func newLogger(level zapcore.Level, w io.Writer) *zap.Logger {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller()).Named("blobcheck")
}
