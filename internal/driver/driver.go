package driver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/viant/ktree/internal/config"
	"github.com/viant/ktree/internal/observability"
)

const (
	modeBuild    = "build"
	modeUnittest = "unittest"

	// DefaultProgram is the name printed in the usage line.
	DefaultProgram = "ktree"
)

// Driver runs ktree commands with a fixed configuration.
type Driver struct {
	cfg     *config.Config
	logger  *observability.Logger
	tracer  trace.Tracer
	program string
}

// Option configures a Driver.
type Option func(*Driver)

// WithConfig sets the build configuration.
func WithConfig(cfg *config.Config) Option {
	return func(d *Driver) {
		if cfg != nil {
			d.cfg = cfg
		}
	}
}

// WithLogger sets the logger for stage events.
func WithLogger(logger *observability.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTracer sets the tracer for build stage spans; the global provider is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Driver) {
		d.tracer = tracer
	}
}

// WithProgram sets the executable name shown in the usage line.
func WithProgram(name string) Option {
	return func(d *Driver) {
		if name != "" {
			d.program = name
		}
	}
}

// New creates a Driver with default configuration and a silent logger.
func New(opts ...Option) *Driver {
	d := &Driver{
		cfg:     config.Default(),
		logger:  observability.NoopLogger(),
		program: DefaultProgram,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes one invocation with the default Driver.
func Run(ctx context.Context, args []string, stdout io.Writer) int {
	return New().Run(ctx, args, stdout)
}

// Run dispatches args, the command line without the program name, and
// returns the process exit code.
//
//	build <in> <order> <out>     build and serialize a tree
//	unittest <in> <order> <out>  run self tests; the other arguments are ignored
//	<any>                        run self tests
//	anything else                print usage and return 0
func (d *Driver) Run(ctx context.Context, args []string, stdout io.Writer) int {
	switch {
	case len(args) == 4 && args[0] == modeBuild:
		return d.exit(stdout, d.buildCommand(ctx, args[1], args[2], args[3]))
	case len(args) == 4 && args[0] == modeUnittest, len(args) == 1:
		return d.Unittest(ctx, stdout)
	default:
		d.Usage(stdout)
		return 0
	}
}

func (d *Driver) buildCommand(ctx context.Context, in, order, out string) error {
	_, err := d.Build(ctx, in, order, out)
	return err
}

func (d *Driver) exit(stdout io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var diag *Diagnostic
	if errors.As(err, &diag) {
		fmt.Fprintln(stdout, diag.Message)
	} else {
		fmt.Fprintln(stdout, err.Error())
	}
	return 1
}

func (d *Driver) startSpan(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return observability.StartStageSpan(ctx, d.tracer, stage, attrs...)
}

// Usage prints the command syntax.
func (d *Driver) Usage(stdout io.Writer) {
	fmt.Fprintf(stdout, usageFormat, d.program)
}
