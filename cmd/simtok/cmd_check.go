package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dhamidi/simtok/scheme/frontend"
	"github.com/dhamidi/simtok/scheme/parser"
	"github.com/dhamidi/simtok/workspace"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var workers int
	var maxDepth int
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:          "check <path>...",
		Short:        "Parse Scheme files and directories and report per-file results",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			opts := []frontend.Option{
				frontend.WithWorkers(workers),
				frontend.WithMaxDepth(maxDepth),
			}
			if watch {
				return runWatch(ctx, args, interval, opts)
			}
			return runCheck(ctx, args, opts)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "j", 4, "number of files parsed concurrently")
	cmd.Flags().IntVar(&maxDepth, "max-depth", parser.DefaultMaxDepth, "maximum nesting depth")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep reparsing directories as files change")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval for --watch")

	return cmd
}

// collectFiles expands directories into the Scheme files below them. Plain
// files are taken as given, whatever their extension.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := workspace.SchemeFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

func runCheck(ctx context.Context, args []string, opts []frontend.Option) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	errs := &frontend.ErrorLog{}
	driver := frontend.New(append(opts, frontend.WithErrorConsumer(errs))...)
	results := driver.ParseBatch(ctx, files, nil)

	for _, r := range results {
		switch {
		case r.Success:
			fmt.Printf("[OK] %s (%d tokens)\n", r.File, r.Tokens)
		case errors.Is(r.Err, context.Canceled):
			fmt.Printf("[SKIP] %s\n", r.File)
		default:
			fmt.Printf("[FAIL] %s\n", r.File)
		}
	}

	fmt.Printf("\n=== CHECK COMPLETE ===\n")
	fmt.Printf("Files: %d\n", len(results))
	fmt.Printf("Errors: %d\n", errs.Len())
	for _, report := range errs.Reports() {
		fmt.Printf("  - %s\n", report.Message)
	}
	return nil
}

func runWatch(ctx context.Context, args []string, interval time.Duration, opts []frontend.Option) error {
	var watchers []*workspace.FileWatcher
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("--watch needs directories, %s is a file", arg)
		}
		w := workspace.New(arg, opts...)
		watchers = append(watchers, workspace.NewFileWatcher(w, interval, printChange))
	}

	for _, fw := range watchers {
		fw.Start()
	}
	<-ctx.Done()
	for _, fw := range watchers {
		fw.Stop()
	}
	return nil
}

func printChange(path string, info *workspace.FileInfo) {
	switch {
	case info == nil:
		fmt.Printf("[GONE] %s\n", path)
	case info.ParseErr != nil:
		fmt.Printf("[FAIL] %s\n  - %s\n", path, info.ParseErr)
	default:
		fmt.Printf("[OK] %s (%d tokens)\n", path, len(info.Tokens))
	}
}
