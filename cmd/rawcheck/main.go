// Command rawcheck verifies camera RAW files under a directory tree by
// running every candidate through an external decoder and listing the files
// that fail to parse.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jzx17/rawcheck/internal/config"
	"github.com/jzx17/rawcheck/pkg/checker"
	"github.com/jzx17/rawcheck/pkg/types"
)

var errFailuresFound = errors.New("validation failures found")

var (
	rootDir        string
	workers        int
	decoderPath    string
	debug          bool
	showExtensions bool
)

var rootCmd = &cobra.Command{
	Use:   "rawcheck",
	Short: "Verify that camera RAW files decode without errors",
	Long: `rawcheck walks a directory tree, feeds every recognized RAW file
(crw, cr2, cr3, rw2, dng, raf) to an external dcraw-style decoder in
validate-only mode, and reports the files the decoder rejects.

The exit code is 0 when every file decodes cleanly and 1 otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	cfg := config.Load()

	rootCmd.Flags().StringVarP(&rootDir, "dir", "d", cfg.Root, "directory tree to scan")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", cfg.Workers, "number of validation workers")
	rootCmd.Flags().StringVar(&decoderPath, "dcraw-binary", cfg.DecoderPath, "path to the dcraw_emu executable")
	rootCmd.Flags().BoolVar(&debug, "debug", cfg.Debug, "enable debug logging")
	rootCmd.Flags().BoolVar(&showExtensions, "show-extensions", cfg.ShowExtensions, "print a per-extension file count summary")

	if cfg.Root == "" {
		_ = rootCmd.MarkFlagRequired("dir")
	}
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	return cfg.Build()
}

func run(ctx context.Context) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	coord, err := checker.New(&checker.Config{
		Root:        rootDir,
		Workers:     workers,
		DecoderPath: decoderPath,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	result, err := coord.Run(ctx)
	if err != nil {
		return err
	}

	if showExtensions {
		printExtensions(result.Extensions)
	}

	if len(result.Failures) > 0 {
		printFailures(result.Failures)
	}

	if result.Canceled {
		return types.ErrCanceled
	}
	if len(result.Failures) > 0 {
		return errFailuresFound
	}
	return nil
}

func printExtensions(extensions map[string]int) {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	fmt.Println("File Extensions:")
	for _, ext := range exts {
		fmt.Printf("  %s: %d\n", ext, extensions[ext])
	}
	fmt.Println()
}

func printFailures(failures map[string]string) {
	paths := make([]string, 0, len(failures))
	for path := range failures {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	fmt.Println("Failed:")
	for _, path := range paths {
		fmt.Printf("  %s: %s\n", path, failures[path])
	}
	fmt.Println()
}

// reportError prints a message for errors that have not already been
// reported. Validation failures and cancellation are silent here: the
// failure list was printed by run, and an interrupted run speaks for itself.
func reportError(w io.Writer, err error) {
	switch {
	case types.IsConfigError(err):
		fmt.Fprintf(w, "Error: %v\n\n", err)
	case errors.Is(err, errFailuresFound), errors.Is(err, types.ErrCanceled):
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
