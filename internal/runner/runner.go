// Package runner executes rendered command lines as subprocesses.
package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/wardrobe-project/wardrobe/pkg/errclass"
	"github.com/wardrobe-project/wardrobe/pkg/logging"
)

// Options adjusts how a command line is executed.
type Options struct {
	// Capture collects combined stdout/stderr and returns it instead of
	// streaming. Used for short probes such as reading a tool version.
	Capture bool
	// Stdout and Stderr receive the child's output when not capturing.
	// Nil means the parent's streams.
	Stdout io.Writer
	Stderr io.Writer
	// Logger overrides the default component logger.
	Logger *zap.Logger
}

// Run executes argv[0] with the remaining arguments and blocks until the
// subprocess finishes. There is no timeout and no retry; backups run for
// hours and the subprocess owns the terminal. The context is passed
// through for parent-initiated cancellation only.
//
// A non-zero exit comes back as an E_EXIT_STATUS error carrying the exit
// code (see ExitCode). Start failures keep the original error in the
// chain.
func Run(ctx context.Context, argv []string, opts Options) (string, error) {
	if len(argv) == 0 {
		return "", cerr.New("empty command line")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Named("runner")
	}

	name := argv[0]
	cmd := exec.CommandContext(ctx, name, argv[1:]...)

	var buf bytes.Buffer
	if opts.Capture {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	} else {
		cmd.Stdout = writerOr(opts.Stdout, os.Stdout)
		cmd.Stderr = writerOr(opts.Stderr, os.Stderr)
	}

	logger.Info("starting", zap.Strings("argv", argv))
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("canceled",
				zap.String("tool", name),
				zap.Duration("elapsed", elapsed))
			return buf.String(), cerr.Wrapf(ctx.Err(), "running %s", name)
		}
		var exitErr *exec.ExitError
		if cerr.As(err, &exitErr) {
			code := exitErr.ExitCode()
			logger.Error("finished",
				zap.String("tool", name),
				zap.Int("exit_code", code),
				zap.Duration("elapsed", elapsed))
			wrapped := cerr.Wrapf(exitErr, "%s exited with status %d", name, code)
			return buf.String(), cerr.Mark(wrapped, errclass.ErrExitStatus)
		}
		logger.Error("could not start",
			zap.String("tool", name),
			zap.Error(err))
		return buf.String(), cerr.Wrapf(err, "starting %s", name)
	}

	logger.Info("finished",
		zap.String("tool", name),
		zap.Int("exit_code", 0),
		zap.Duration("elapsed", elapsed))
	return buf.String(), nil
}

// ExitCode returns the subprocess exit code carried by err, or -1 when
// err holds none (start failure, cancellation, nil).
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if cerr.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Executor adapts Run to the single-method contract jobs execute
// against, streaming output to the parent's terminal.
type Executor struct {
	Logger *zap.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements the job execution contract.
func (e *Executor) Run(ctx context.Context, argv []string) error {
	_, err := Run(ctx, argv, Options{
		Logger: e.Logger,
		Stdout: e.Stdout,
		Stderr: e.Stderr,
	})
	return err
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
