package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CLIWriter implements IndexWriter by invoking the git executable.
type CLIWriter struct {
	root string
}

func NewCLIWriter(root string) *CLIWriter {
	return &CLIWriter{root: root}
}

func (w *CLIWriter) Apply(ctx context.Context, patch string, opts ApplyOptions) error {
	args := []string{"apply", "--cached", "--unidiff-zero"}
	if opts.Reverse {
		args = append(args, "--reverse")
	}
	if opts.Recount {
		args = append(args, "--recount")
	}
	args = append(args, "-")

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = w.root
	cmd.Stdin = strings.NewReader(patch)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &PatchApplyError{
			Patch:   patch,
			Message: strings.TrimSpace(stderr.String()),
		}
	}
	return nil
}

func (w *CLIWriter) ResetPath(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "git", "reset", "HEAD", "--", path)
	cmd.Dir = w.root

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git reset %s: %s: %w", path, strings.TrimSpace(stderr.String()), err)
	}
	return nil
}

func (w *CLIWriter) CommitWithEditor(ctx context.Context) (int, error) {
	cmd := exec.CommandContext(ctx, "git", "commit")
	cmd.Dir = w.root
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("git commit: %w", err)
}
