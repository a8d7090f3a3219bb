package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/viant/ktree/internal/config"
	"github.com/viant/ktree/internal/driver"
	"github.com/viant/ktree/internal/observability"
)

// flagError marks a command line the flag parser rejected; such lines are
// handed to the driver verbatim as positional arguments.
type flagError struct{ err error }

func (e *flagError) Error() string { return e.err.Error() }

func (e *flagError) Unwrap() error { return e.err }

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	var configPath string
	exitCode := 0
	program := filepath.Base(os.Args[0])

	rootCmd := &cobra.Command{
		Use:   "ktree [flags] <build|unittest> <in_file> <tree_order> <out_file>",
		Short: "Build a k-tree index from a whitespace separated vector file",
		Long: `ktree reads one vector per line, builds a k-tree of the requested order
and writes its binary serialization to out_file.

  ktree build vectors.txt 16 vectors.ktree
  ktree unittest

Flags must come before the command. Settings may also come from a config
file or KTREE_* environment variables, e.g. KTREE_BUILD_COMPRESSION=zstd.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			for _, warning := range cfg.Validate() {
				fmt.Fprintf(stderr, "Warning: %s\n", warning)
			}
			level, _ := cfg.Log.SlogLevel()
			logger := observability.NewLogger(level, cfg.Log.Format, stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tp, err := observability.InitTracing(ctx, &observability.TracingConfig{
				ServiceName:    cfg.Tracing.ServiceName,
				ServiceVersion: "0.1.0",
				OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
				SampleRate:     cfg.Tracing.SampleRate,
			})
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("tracing shutdown failed", "error", err)
				}
			}()

			d := driver.New(
				driver.WithConfig(cfg),
				driver.WithLogger(logger),
				driver.WithTracer(tp.Tracer()),
				driver.WithProgram(program),
			)
			exitCode = d.Run(ctx, args, stdout)
			return nil
		},
	}

	flags := rootCmd.Flags()
	// only leading flags are options; "-5" after the command is a tree order
	flags.SetInterspersed(false)
	flags.StringVar(&configPath, "config", "", "Config file path (yaml, json or toml)")
	flags.String("compress", "none", "Output compression: none, zstd or lz4")
	flags.String("catalog", "", "Also store the vectors in this SQLite database")
	flags.String("distance", "euclidean", "Tree distance metric: euclidean or cosine")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &flagError{err: err}
	})

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		var ferr *flagError
		if errors.As(err, &ferr) {
			return driver.New(driver.WithProgram(program)).Run(context.Background(), args, stdout)
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return exitCode
}
