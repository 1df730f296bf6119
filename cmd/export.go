package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/bookmind/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export dumps the user's library to disk, streaming progress lines as
// sections are fetched and written.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	engine := tasks.NewLibraryEngine(r.api)
	progress := make(chan tasks.ProgressUpdate, 32)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.Export(ctx, progress, session.UserID, tasks.ExportOpts{
		OutputDir: cmd.String("output"),
		Combined:  cmd.Bool("combined"),
	})
	close(progress)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("✓ Exported %d files to %s", len(result.Files), result.OutputDirectory)
	for _, section := range result.Failed {
		r.writePlain("⚠ Skipped %s: %s\n", section.Section, section.Error)
	}
	return nil
}
