package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Command describes one external tool invocation.
type Command struct {
	Binary string
	Args   []string
	// Timeout bounds the call; zero means the caller's context governs.
	Timeout time.Duration
	// GracePeriod is how long the subprocess tree gets between SIGTERM and
	// SIGKILL after cancellation. Zero selects a 5 second default.
	GracePeriod time.Duration
	// OnStdout, when set, receives stdout line by line instead of the line
	// being buffered into Result.Stdout.
	OnStdout func(string)
}

// Result captures the outcome of a completed invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Executor abstracts command execution so tool clients can be tested without
// spawning real subprocesses.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ProcessExecutor runs commands in their own process group so cancellation
// can terminate the whole subprocess tree, not just the parent handle.
type ProcessExecutor struct{}

const defaultGracePeriod = 5 * time.Second

// Run executes the command, honoring context cancellation and the command
// timeout. A context-triggered stop returns an error wrapping ErrTimeout when
// the deadline fired, or ctx.Err() for explicit cancellation.
func (ProcessExecutor) Run(ctx context.Context, spec Command) (Result, error) {
	binary := strings.TrimSpace(spec.Binary)
	if binary == "" {
		return Result{}, errors.New("executor: empty binary")
	}

	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.Command(binary, spec.Args...) //nolint:gosec
	setProcessGroup(cmd)

	var stdoutBuf, stderrBuf bytes.Buffer
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Result{}, fmt.Errorf("%w: %s", ErrToolNotFound, binary)
		}
		return Result{}, fmt.Errorf("start %s: %w", binary, err)
	}

	grace := spec.GracePeriod
	if grace <= 0 {
		grace = defaultGracePeriod
	}

	done := make(chan struct{})
	var killOnce sync.Once
	go func() {
		select {
		case <-runCtx.Done():
			killOnce.Do(func() {
				terminateProcessGroup(cmd, grace)
			})
		case <-done:
		}
	}()

	scanStdout(stdout, &stdoutBuf, spec.OnStdout)

	waitErr := cmd.Wait()
	close(done)

	result := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdoutBuf.Bytes(),
		Stderr:   stderrBuf.Bytes(),
	}

	if ctxErr := runCtx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) && ctx.Err() == nil {
			return result, fmt.Errorf("%w: %s exceeded %s", ErrTimeout, binary, spec.Timeout)
		}
		return result, ctxErr
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			// Non-zero exit is reported through Result.ExitCode; callers
			// decide whether it is fatal for their operation.
			return result, nil
		}
		return result, fmt.Errorf("wait %s: %w", binary, waitErr)
	}
	return result, nil
}

func scanStdout(r io.Reader, buf *bytes.Buffer, onLine func(string)) {
	if onLine == nil {
		_, _ = io.Copy(buf, r)
		return
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
}
