// Package relay moves files into, and runs commands inside, the container
// that hosts the HDFS client tools.
package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/BartekS5/pghdfs/pkg/logger"
)

// CommandError is returned when a command ran but exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command '%s' returned non-zero exit status %d", strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// DockerRelay drives a docker compatible CLI (docker, podman, nerdctl).
type DockerRelay struct {
	Binary    string
	Container string
	// Timeout bounds every single command. Zero means no bound.
	Timeout time.Duration
}

func NewDockerRelay(binary, container string, timeout time.Duration) *DockerRelay {
	if binary == "" {
		binary = "docker"
	}
	return &DockerRelay{Binary: binary, Container: container, Timeout: timeout}
}

// CopyFile copies localPath byte for byte to remotePath inside the container.
func (r *DockerRelay) CopyFile(ctx context.Context, localPath, remotePath string) error {
	return r.run(ctx, "cp", localPath, r.Container+":"+remotePath)
}

// Exec runs args inside the container.
func (r *DockerRelay) Exec(ctx context.Context, args ...string) error {
	return r.run(ctx, append([]string{"exec", r.Container}, args...)...)
}

func (r *DockerRelay) run(ctx context.Context, args ...string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	argv := append([]string{r.Binary}, args...)
	logger.Debugf("Running command: %s", strings.Join(argv, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("command '%s' aborted: %w", strings.Join(argv, " "), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{
			Args:     argv,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}
	return fmt.Errorf("failed to run %s: %w", r.Binary, err)
}
