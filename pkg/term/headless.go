package term

import (
	"context"
	"fmt"
	"io"
	"time"

	"gitlab.com/tinyland/lab/framekit/pkg/app"
	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
)

// plainMarker is the Marker used without a terminal; regions are not
// tracked.
type plainMarker struct{}

func (plainMarker) Mark(_ dispatch.NodeID, s string) string { return s }

// Headless runs the frame loop without a terminal, writing a frame to w
// whenever the app asks for a redraw. It stops after frames ticks
// (0 means until ctx is done) and returns ctx.Err() on cancellation.
func Headless[T any](ctx context.Context, a *app.App[T], view ViewFunc[T], w io.Writer, tick time.Duration, frames int) error {
	if tick <= 0 {
		tick = defaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	write := func() error {
		body := placeholderView("framekit", 0, 0)
		if view != nil {
			body = view(a.State(), plainMarker{})
		}
		_, err := fmt.Fprintln(w, body)
		return err
	}
	if err := write(); err != nil {
		return fmt.Errorf("term: write frame: %w", err)
	}

	for n := 0; frames == 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if a.Frame(now) == redraw.Redraw {
				if err := write(); err != nil {
					return fmt.Errorf("term: write frame: %w", err)
				}
			}
		}
	}
	return nil
}
