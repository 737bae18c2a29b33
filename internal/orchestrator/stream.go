package orchestrator

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"mcs-mcp/pkg/rowsource"
)

// streamRows drains rows until the channel closes, onRow returns false, or
// ctx is canceled, consulting errs for a trailing stream error along the
// way. Wraps the data-channel/error-channel pair every
// rowsource.RowSource.CreateStream returns in a single errgroup so pass 1
// and pass 2 don't each hand-roll the same three-case select loop.
func streamRows(ctx context.Context, rows <-chan rowsource.ParsedRow, errs <-chan error, onRow func(rowsource.ParsedRow) bool) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case row, ok := <-rows:
				if !ok {
					select {
					case err := <-errs:
						return err
					default:
						return nil
					}
				}
				if !onRow(row) {
					return nil
				}
			case err := <-errs:
				return err
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	return g.Wait()
}

// isContextErr reports whether err is ctx's own cancellation/deadline
// error, as opposed to a genuine row-source failure.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
