// Package checker coordinates traversal, the worker pool, and result merging
package checker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jzx17/rawcheck/pkg/queue"
	"github.com/jzx17/rawcheck/pkg/types"
	"github.com/jzx17/rawcheck/pkg/validate"
	"github.com/jzx17/rawcheck/pkg/worker"
)

// RawExtensions is the set of recognized RAW file extensions, lowercase,
// without the leading dot
var RawExtensions = map[string]struct{}{
	"crw": {},
	"cr2": {},
	"cr3": {},
	"rw2": {},
	"dng": {},
	"raf": {},
}

// Config defines configuration for a Coordinator
type Config struct {
	// Root is the directory tree to scan
	Root string

	// Workers is the number of validation workers (default 1)
	Workers int

	// DecoderPath is the external decoder executable
	DecoderPath string

	// ShutdownTimeout bounds the wait for workers after cancellation
	ShutdownTimeout time.Duration

	// Logger for structured logging (optional, defaults to no-op)
	Logger *zap.Logger

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Workers:         1,
		DecoderPath:     validate.DefaultBinary,
		ShutdownTimeout: 10 * time.Second,
		Clock:           types.NewRealClock(),
	}
}

// Result is the outcome of one coordinator run
type Result struct {
	// Failures maps each failed file path to its cleaned diagnostic
	Failures map[string]string

	// Extensions counts every regular file seen during traversal by its
	// lowercase extension, RAW or not
	Extensions map[string]int

	// Canceled is true when the run was interrupted before completion
	Canceled bool
}

// Success reports whether the run completed with no validation failures
func (r *Result) Success() bool {
	return !r.Canceled && len(r.Failures) == 0
}

// Coordinator owns the queue lifecycle: it spawns workers, feeds the queue
// from a directory traversal, signals completion, joins the workers, and
// merges their private failure maps into one report.
type Coordinator struct {
	config *Config
	logger *zap.Logger
	clock  types.Clock

	// newValidator builds one worker's validator; tests substitute stubs
	newValidator func(path string, logger *zap.Logger) (worker.Validator, error)
}

// New creates a Coordinator from config
func New(config *Config) (*Coordinator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers <= 0 {
		return nil, types.NewConfigError("worker count must be positive, got %d", config.Workers)
	}
	if config.DecoderPath == "" {
		config.DecoderPath = validate.DefaultBinary
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.Clock == nil {
		config.Clock = types.NewRealClock()
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coordinator{
		config: config,
		logger: logger,
		clock:  config.Clock,
		newValidator: func(path string, logger *zap.Logger) (worker.Validator, error) {
			return validate.New(path, logger)
		},
	}, nil
}

// Run scans the root directory, validates every RAW file through the worker
// pool, and returns the merged result. Configuration errors abort the run
// before traversal begins. Cancelling ctx clears pending work and reports a
// not-successful result without raising.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	info, err := os.Stat(c.config.Root)
	if err != nil || !info.IsDir() {
		return nil, types.NewConfigError("path %q does not exist or is not a directory", c.config.Root)
	}

	q := queue.New()

	// Each worker gets its own independently constructed decoder; any
	// construction failure aborts the whole run before traversal.
	workers := make([]*worker.Worker, c.config.Workers)
	for i := range workers {
		v, err := c.newValidator(c.config.DecoderPath, c.logger)
		if err != nil {
			return nil, err
		}
		workers[i] = worker.New(i, q, v, c.logger, c.clock)
	}

	var eg errgroup.Group
	for _, w := range workers {
		w := w
		eg.Go(func() error {
			w.Run(ctx)
			return nil
		})
	}

	extensions := c.traverse(ctx, q)

	if ctx.Err() != nil {
		q.Clear()
	}
	q.MarkComplete()

	// Unblock the join promptly if the interrupt arrives while waiting.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			q.Clear()
			q.MarkComplete()
		case <-watchDone:
		}
	}()

	joined := make(chan struct{})
	go func() {
		eg.Wait()
		close(joined)
	}()

	canceled := false
	select {
	case <-joined:
		close(watchDone)
	case <-ctx.Done():
		close(watchDone)
		canceled = true
		select {
		case <-joined:
		case <-c.clock.After(c.config.ShutdownTimeout):
			c.logger.Warn("timeout waiting for workers to stop",
				zap.Duration("timeout", c.config.ShutdownTimeout))
			return &Result{Extensions: extensions, Canceled: true}, nil
		}
	}

	result := &Result{
		Failures:   make(map[string]string),
		Extensions: extensions,
		Canceled:   canceled || ctx.Err() != nil,
	}

	// Paths are disjoint across workers, so the merge is a plain union.
	for _, w := range workers {
		for path, diag := range w.Failed() {
			result.Failures[path] = diag
		}
	}

	c.logger.Debug("run complete",
		zap.Int("failures", len(result.Failures)),
		zap.Int("extensions", len(result.Extensions)),
		zap.Bool("canceled", result.Canceled))

	return result, nil
}

// traverse walks the root tree, counting every regular file's extension and
// pushing RAW candidates onto the queue. It stops early when ctx is
// cancelled. Unreadable entries are skipped, not fatal.
func (c *Coordinator) traverse(ctx context.Context, q *queue.Queue) map[string]int {
	extensions := make(map[string]int)

	err := filepath.WalkDir(c.config.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if walkErr != nil {
			c.logger.Debug("skipping unreadable entry",
				zap.String("path", path), zap.Error(walkErr))
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(d.Name()), "."))
		extensions[ext]++

		if _, ok := RawExtensions[ext]; ok {
			q.Push(path)
		}
		return nil
	})
	if err != nil {
		c.logger.Debug("traversal stopped", zap.Error(err))
	}

	return extensions
}
