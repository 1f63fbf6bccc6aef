// Package term runs an app.App inside a bubbletea program.
//
// Terminal input is translated into dispatch events, hover is resolved
// through bubblezone zones named after node IDs, and the view is only
// re-rendered after a Redraw decision.
package term

import "time"

// FrameMsg is sent by the frame ticker. Each one advances timers and
// collects finished tasks.
type FrameMsg struct {
	Time time.Time
}

// TaskDoneMsg wakes the loop when a background task finishes, so results
// show up without waiting for the next tick.
type TaskDoneMsg struct{}
