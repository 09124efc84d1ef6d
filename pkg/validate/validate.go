// Package validate invokes the external RAW decoder in validate-only mode
package validate

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jzx17/rawcheck/pkg/types"
)

// DefaultBinary is the decoder executable used when none is configured
const DefaultBinary = "/usr/bin/dcraw_emu"

// waitDelay bounds how long Wait keeps reading the diagnostic pipe after a
// cancelled decoder is killed. Children spawned by the decoder inherit the
// pipe's write end and would otherwise hold Wait open for their own runtime.
const waitDelay = time.Second

// Outcome is the result of validating a single file
type Outcome struct {
	// Passed is true when the decoder accepted the file
	Passed bool

	// Diagnostic is the decoder's stderr text with the input-path prefix
	// stripped; empty on success
	Diagnostic string
}

// Decoder wraps an external dcraw-style decoder executable. Validation runs
// the decoder against a file with output discarded; only the exit status and
// the diagnostic stream matter.
type Decoder struct {
	path   string
	logger *zap.Logger
}

// New creates a Decoder after verifying the executable exists and is
// executable. Both checks happen once here, not per file.
func New(path string, logger *zap.Logger) (*Decoder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, types.WrapConfigError(err, "decoder executable %q not found", path)
	}
	if !info.Mode().IsRegular() {
		return nil, types.NewConfigError("decoder path %q is not a regular file", path)
	}
	if info.Mode().Perm()&0o111 == 0 {
		return nil, types.NewConfigError("decoder file %q is not executable", path)
	}

	return &Decoder{path: path, logger: logger}, nil
}

// Path returns the configured decoder executable path
func (d *Decoder) Path() string {
	return d.path
}

// Validate runs the decoder against file in validate-only mode ("-Z -"
// discards the decoded image). A file passes iff the process exits zero and
// the diagnostic stream is empty after prefix stripping. Cancelling ctx
// kills an in-flight decoder process and returns within waitDelay even when
// the decoder left children behind.
func (d *Decoder) Validate(ctx context.Context, file string) Outcome {
	cmd := exec.CommandContext(ctx, d.path, "-Z", "-", file)
	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	diag := strings.TrimSpace(stderr.String())

	if err == nil && diag == "" {
		return Outcome{Passed: true}
	}

	// The decoder echoes the input path ahead of the actual message.
	if strings.HasPrefix(diag, file) {
		diag = strings.TrimPrefix(diag[len(file):], ": ")
	}

	d.logger.Debug("validation failed",
		zap.String("file", file),
		zap.String("diagnostic", diag),
		zap.Error(err))

	return Outcome{Diagnostic: diag}
}
