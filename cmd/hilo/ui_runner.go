package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"hilo/internal/driver"
	"hilo/internal/ui"
)

type batchFunc func(context.Context, []string, driver.Options) ([]*driver.Result, error)

// runBatchWithUI runs lower in the background and draws its stage events.
// A failed view does not hide lowering results.
func runBatchWithUI(ctx context.Context, title string, files []string, opts driver.Options, lower batchFunc) ([]*driver.Result, error) {
	events := make(chan driver.Event, 256)
	opts.Progress = driver.ChannelSink{Ch: events}

	var (
		g       errgroup.Group
		results []*driver.Result
	)
	g.Go(func() error {
		defer close(events)
		var err error
		results, err = lower(ctx, files, opts)
		return err
	})

	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, viewErr := program.Run()
	// The view may quit before the batch ends; the sink must not block.
	go func() {
		for range events {
		}
	}()
	lowerErr := g.Wait()
	if lowerErr != nil {
		return results, lowerErr
	}
	return results, viewErr
}
