package main

import (
	"bufio"
	"context"
	"crypto/rand"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/domicon-labs/blobcheck/harness"
	"github.com/domicon-labs/blobcheck/setup"
)

// embeddedTrustedSetup is an insecure testing setup, see cmd/gensetup.
//
//go:embed trusted_setup.json
var embeddedTrustedSetup []byte

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr, embeddedTrustedSetup))
}

// run is the whole program. builtinSetup is used unless a trusted setup file
// is configured.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, builtinSetup []byte) int {
	cfg, err := parseConfig(args[0], args[1:], stderr)
	if err != nil {
		return 1
	}
	logger := newLogger(cfg.LogLevel, stderr)
	defer logger.Sync() //nolint:errcheck

	fmt.Fprintf(stdout, "Number of iterations: %d\n", cfg.Iterations)
	fmt.Fprintln(stdout, "press enter")
	if _, err := bufio.NewReader(stdin).ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("failed to read line", zap.Error(err))
		return 1
	}
	fmt.Fprintln(stdout, "continuing!")

	setupData := builtinSetup
	if cfg.TrustedSetup != "" {
		if setupData, err = os.ReadFile(cfg.TrustedSetup); err != nil {
			logger.Error("unable to read trusted setup file", zap.Error(err))
			return 1
		}
	}
	settings, err := setup.Load(setupData, cfg.Preset)
	if err != nil {
		logger.Error("failed to load trusted setup", zap.String("preset", cfg.Preset.Name), zap.Error(err))
		return 1
	}

	metrics := harness.NewMetrics(prometheus.NewRegistry())
	runner := harness.NewRunner(settings, rand.Reader,
		harness.WithLogger(logger),
		harness.WithMetrics(metrics),
		harness.WithReporter(harness.NewTextReporter(stdout)))

	if _, err := runner.Run(context.Background(), cfg.Iterations); err != nil {
		logger.Error("run aborted", zap.Error(err))
		return 1
	}

	summary, err := metrics.Summary()
	if err != nil {
		logger.Error("failed to read run summary", zap.Error(err))
		return 1
	}
	logger.Info("run complete",
		zap.Uint64("iterations", cfg.Iterations),
		zap.Uint64("valid", summary.Valid),
		zap.Uint64("invalid", summary.Invalid),
		zap.Uint64("failed", summary.Failed))
	return 0
}
