// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/keylens/keylens/internal/messages"
	"github.com/keylens/keylens/internal/render"
	"github.com/keylens/keylens/internal/resolve"

	"github.com/charmbracelet/log"
	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
)

// fileResult is the outcome of resolving one file.
type fileResult struct {
	path  string
	text  string
	calls []resolve.ResolvedCall
	err   error
}

func newResolveCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var failOnMissing bool

	cmd := &cobra.Command{
		Use:   "resolve FILE...",
		Short: "Annotate every message call in the given files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.open(cmd.Context(), flags)
			if err != nil {
				return err
			}
			results, err := ws.resolveFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printResults(app.stdout, app.stderr, ws, results, failOnMissing)
		},
	}
	cmd.Flags().BoolVar(&failOnMissing, "fail-on-missing", false, "exit with status 2 when any call is unresolved")
	return cmd
}

// resolveFiles resolves every path concurrently on a bounded worker pool.
// Results keep the order of paths.
func (ws *workspace) resolveFiles(ctx context.Context, paths []string) ([]fileResult, error) {
	return resolveEach(ctx, ws.logger, paths, ws.resolveFile)
}

// resolveEach runs fn for every path and stores its result at the path's
// index. A panic in fn becomes that path's error.
func resolveEach(ctx context.Context, logger *log.Logger, paths []string, fn func(context.Context, string) fileResult) ([]fileResult, error) {
	results := make([]fileResult, len(paths))
	run := func(i int, path string) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("resolve worker panicked", "path", path, "err", fmt.Sprint(rec))
				results[i] = fileResult{path: path, err: fmt.Errorf("resolve %s: panic: %v", path, rec)}
			}
		}()
		results[i] = fn(ctx, path)
	}

	if len(paths) == 1 {
		run(0, paths[0])
		return results, nil
	}

	pool, err := ants.NewPool(runtime.GOMAXPROCS(0), ants.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		results[i].path = path
		submitErr := pool.Submit(func() {
			defer wg.Done()
			run(i, path)
		})
		if submitErr != nil {
			wg.Done()
			results[i].err = fmt.Errorf("schedule %s: %w", path, submitErr)
		}
	}
	wg.Wait()
	return results, nil
}

func (ws *workspace) resolveFile(ctx context.Context, path string) fileResult {
	text, err := readSource(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}
	return fileResult{path: path, text: text, calls: ws.resolveText(ctx, text)}
}

func printResults(stdout, stderr io.Writer, ws *workspace, results []fileResult, failOnMissing bool) error {
	failed, missing := 0, 0
	for i, res := range results {
		if res.err != nil {
			failed++
			ws.logger.Error("resolve failed", "path", res.path, "err", res.err)
			continue
		}
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintln(stdout, render.TitleStyle.Render(res.path))
		if len(res.calls) == 0 {
			fmt.Fprintln(stdout, "  "+render.MutedStyle.Render(ws.labels.T(messages.NoCalls, nil)))
			continue
		}
		for _, call := range res.calls {
			if call.State == resolve.Unresolved {
				missing++
			}
			line, col := render.Position(res.text, call.Start)
			fmt.Fprintf(stdout, "  %s %s → %s\n",
				render.MutedStyle.Render(fmt.Sprintf("%d:%d", line, col)), call.Key, render.StyledHint(call, ws.labels))
		}
	}

	switch {
	case failed == len(results):
		return results[0].err
	case failed > 0:
		return &ExitError{Code: 1}
	case failOnMissing && missing > 0:
		fmt.Fprintln(stderr, render.ErrorStyle.Render(ws.labels.Occurrences(missing)+": "+ws.labels.State(resolve.Unresolved)))
		return &ExitError{Code: 2}
	}
	return nil
}
