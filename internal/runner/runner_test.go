package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wardrobe-project/wardrobe/internal/runner"
	"github.com/wardrobe-project/wardrobe/pkg/backup"
	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

func TestRunCaptures(t *testing.T) {
	out, err := runner.Run(context.Background(),
		[]string{"sh", "-c", "echo out; echo err >&2"},
		runner.Options{Capture: true, Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.Contains(t, out, "out")
	assert.Contains(t, out, "err")
}

func TestRunStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out, err := runner.Run(context.Background(),
		[]string{"sh", "-c", "echo out; echo err >&2"},
		runner.Options{Stdout: &stdout, Stderr: &stderr, Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestRunExitStatus(t *testing.T) {
	_, err := runner.Run(context.Background(),
		[]string{"sh", "-c", "exit 3"},
		runner.Options{Logger: zap.NewNop()})
	require.ErrorIs(t, err, errclass.ErrExitStatus)
	assert.Equal(t, 3, runner.ExitCode(err))
	assert.Contains(t, err.Error(), "exited with status 3")
}

func TestRunStartFailure(t *testing.T) {
	_, err := runner.Run(context.Background(),
		[]string{"/nonexistent/wardrobe-no-such-tool"},
		runner.Options{Logger: zap.NewNop()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errclass.ErrExitStatus)
	assert.Equal(t, -1, runner.ExitCode(err))
	assert.True(t, strings.Contains(err.Error(), "starting"))
}

func TestRunEmptyArgv(t *testing.T) {
	_, err := runner.Run(context.Background(), nil, runner.Options{Logger: zap.NewNop()})
	require.Error(t, err)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runner.Run(ctx,
		[]string{"sh", "-c", "sleep 10"},
		runner.Options{Logger: zap.NewNop()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errclass.ErrExitStatus)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExecutorRunsJobs(t *testing.T) {
	var _ backup.Executor = (*runner.Executor)(nil)

	var stdout bytes.Buffer
	exec := &runner.Executor{Logger: zap.NewNop(), Stdout: &stdout}

	err := exec.Run(context.Background(), []string{"sh", "-c", "echo ran"})
	require.NoError(t, err)
	assert.Equal(t, "ran\n", stdout.String())

	err = exec.Run(context.Background(), []string{"sh", "-c", "exit 2"})
	require.ErrorIs(t, err, errclass.ErrExitStatus)
	assert.Equal(t, 2, runner.ExitCode(err))
}
