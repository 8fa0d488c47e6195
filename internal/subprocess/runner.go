package subprocess

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/scanner-cli-go/internal/errors"
)

// MaxStderrSize is the number of trailing stderr bytes kept for error reporting.
// Stderr is echoed to the output sink in full regardless.
const MaxStderrSize = 20_000

var tracer = otel.Tracer("github.com/wagiedev/scanner-cli-go/internal/subprocess")

// Options control a single run.
type Options struct {
	// Stdin, if non-nil, is piped to the process's standard input.
	Stdin []byte

	// SuppressStdout disables streaming stdout to the output sink. Used when
	// the output is returned to the caller rather than narrated.
	SuppressStdout bool

	// Dir is the working directory. Empty means the caller's.
	Dir string

	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
}

// Runner executes analysis CLI processes. It is safe for concurrent use; each
// call spawns and awaits its own process.
type Runner struct {
	log       *slog.Logger
	sink      *syncWriter
	maxStderr int
}

// NewRunner creates a Runner that narrates to out.
func NewRunner(log *slog.Logger, out io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}

	return &Runner{
		log:       log.With("component", "runner"),
		sink:      &syncWriter{w: out},
		maxStderr: MaxStderrSize,
	}
}

// Run executes executable with args and returns its captured standard output.
//
// A non-zero exit yields an InvocationError carrying the exit code, the
// bounded stderr tail and the full stdout; exit code zero always succeeds
// regardless of stderr. Cancelling ctx kills the process and releases its
// pipes.
func (r *Runner) Run(ctx context.Context, executable string, args []string, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}

	label := commandLabel(executable, args)
	invocationID := ulid.Make().String()
	log := r.log.With("command", label, "invocation_id", invocationID)

	ctx, span := tracer.Start(ctx, "scanner.invoke", trace.WithAttributes(
		attribute.String("scanner.command", label),
		attribute.String("scanner.invocation_id", invocationID),
	))
	defer span.End()

	start := time.Now()

	stdout, err := r.run(ctx, log, executable, args, opts)

	result := "success"

	if err != nil {
		result = "failure"

		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis CLI invocation failed")
	}

	if invocationErr, ok := stderrors.AsType[*errors.InvocationError](err); ok {
		span.SetAttributes(attribute.Int("scanner.exit_code", invocationErr.ExitCode))
	}

	invocationsTotal.WithLabelValues(label, result).Inc()
	invocationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	return stdout, err
}

func (r *Runner) run(
	ctx context.Context,
	log *slog.Logger,
	executable string,
	args []string,
	opts *Options,
) (string, error) {
	argv := append([]string{executable}, args...)

	r.sink.printf("[command]%s\n", strings.Join(argv, " "))
	log.Debug("Starting analysis CLI process", "args", args, "dir", opts.Dir)

	//nolint:gosec // G204: Subprocess launching with dynamic args is expected for CLI invocation
	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = opts.Dir

	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	if opts.Stdin != nil {
		cmd.Stdin = bytes.NewReader(opts.Stdin)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", &errors.InvocationError{Args: argv, ExitCode: -1, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", &errors.InvocationError{Args: argv, ExitCode: -1, Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		log.Error("Failed to start analysis CLI process", "error", err)

		return "", &errors.InvocationError{Args: argv, ExitCode: -1, Err: fmt.Errorf("start process: %w", err)}
	}

	// The process is killed by CommandContext; closing our ends of the pipes
	// as well unblocks the pumps if a grandchild still holds them open.
	stop := context.AfterFunc(ctx, func() {
		_ = stdoutPipe.Close()
		_ = stderrPipe.Close()
	})
	defer stop()

	var stdout bytes.Buffer

	stderr := newTailBuffer(r.maxStderr)

	var g errgroup.Group

	g.Go(func() error {
		var dst io.Writer = &stdout
		if !opts.SuppressStdout {
			dst = io.MultiWriter(&stdout, r.sink)
		}

		_, err := io.Copy(dst, stdoutPipe)

		return err
	})

	g.Go(func() error {
		_, err := io.Copy(io.MultiWriter(stderr, r.sink), stderrPipe)

		return err
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		exitCode := -1
		if exitErr, ok := stderrors.AsType[*exec.ExitError](waitErr); ok {
			exitCode = exitErr.ExitCode()
		}

		cause := waitErr
		if ctx.Err() != nil {
			cause = ctx.Err()
		}

		log.Error("Analysis CLI process exited with error", "exit_code", exitCode, "stderr", stderr.String())

		return stdout.String(), &errors.InvocationError{
			Args:     argv,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Stdout:   stdout.String(),
			Err:      cause,
		}
	}

	if pumpErr != nil {
		return stdout.String(), fmt.Errorf("read analysis CLI output: %w", pumpErr)
	}

	log.Debug("Analysis CLI process exited successfully", "stdout_bytes", stdout.Len())

	return stdout.String(), nil
}

// commandLabel names an invocation by its subcommand words, e.g.
// "database init", for logs and metrics.
func commandLabel(executable string, args []string) string {
	words := make([]string, 0, 2)

	for _, arg := range args {
		if strings.HasPrefix(arg, "-") || len(words) == 2 {
			break
		}

		words = append(words, arg)
	}

	if len(words) == 0 {
		return filepath.Base(executable)
	}

	return strings.Join(words, " ")
}

// syncWriter serializes writes from the stdout and stderr pumps. Sink write
// failures never interrupt capture.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.w.Write(p)

	return len(p), nil
}

func (s *syncWriter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s, format, args...)
}
