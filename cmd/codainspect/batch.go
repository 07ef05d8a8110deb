package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var batchJobs int

func init() {
	cmd := newBatchCmd()
	cmd.Flags().IntVar(&batchJobs, "jobs", 4, "maximum number of files to scan concurrently")
	rootCmd.AddCommand(cmd)
}

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file>...",
		Short: "Scan multiple products concurrently and report their metadata",
		Long: `batch opens every file argument on its own goroutine (each gets its
own Product and Cursor, never shared across goroutines, per this module's
single-threaded-per-handle concurrency model) and prints one summary line
per file once all scans finish. A failure to open one file does not stop
the others; it is reported alongside the successful summaries.

Example:
  codainspect batch granule1.bin granule2.bin profile.xml
  codainspect batch --jobs 8 *.bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(args)
		},
	}
}

// batchResult is one file's outcome; err is non-nil on a failed open or
// metadata read.
type batchResult struct {
	path    string
	class   string
	typ     string
	version int
	format  string
	size    int64
	err     error
}

func runBatch(paths []string) error {
	results := make([]batchResult, len(paths))

	g := new(errgroup.Group)
	if batchJobs > 0 {
		g.SetLimit(batchJobs)
	}

	var mu sync.Mutex
	failed := false

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			r := scanOne(path)
			mu.Lock()
			results[i] = r
			if r.err != nil {
				failed = true
			}
			mu.Unlock()
			return nil
		})
	}
	// Errors from scanOne are carried in batchResult, not returned here,
	// so every file gets a reported outcome instead of the group aborting
	// on the first failure.
	_ = g.Wait()

	if jsonOut {
		out := make([]map[string]any, len(results))
		for i, r := range results {
			out[i] = batchResultJSON(r)
		}
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			printBatchResult(r)
		}
	}

	if failed {
		return fmt.Errorf("codainspect: batch: one or more files failed to scan")
	}
	return nil
}

func scanOne(path string) batchResult {
	p, err := openProduct(path)
	if err != nil {
		return batchResult{path: path, err: err}
	}
	defer p.Close()

	size, err := p.FileSize()
	if err != nil {
		return batchResult{path: path, err: err}
	}
	return batchResult{
		path:    path,
		class:   p.ProductClass(),
		typ:     p.ProductType(),
		version: p.ProductVersion(),
		format:  p.ProductFormat(),
		size:    size,
	}
}

func batchResultJSON(r batchResult) map[string]any {
	if r.err != nil {
		return map[string]any{"file": r.path, "error": r.err.Error()}
	}
	return map[string]any{
		"file":    r.path,
		"class":   r.class,
		"type":    r.typ,
		"version": r.version,
		"format":  r.format,
		"size":    r.size,
	}
}

func printBatchResult(r batchResult) {
	if r.err != nil {
		printError("%s: %v\n", r.path, r.err)
		return
	}
	printInfo("%-30s %s/%s v%d (%s, %d bytes)\n", r.path, r.class, r.typ, r.version, r.format, r.size)
}
