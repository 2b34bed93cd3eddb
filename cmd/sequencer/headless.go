package main

import (
	"context"
	"time"
)

// frameClock only moves when the loop advances it, so a headless run plays
// the same way however slow the machine is.
type frameClock struct {
	now float64
}

func (c *frameClock) Now() float64       { return c.now }
func (c *frameClock) Advance(dt float64) { c.now += dt }

// runHeadless ticks the app at a fixed rate until ctx is done, or until the
// first end of playback when once is set.
func runHeadless(ctx context.Context, app *App, clock *frameClock, tps int, once bool) error {
	if tps <= 0 {
		tps = 60
	}
	dt := 1.0 / float64(tps)
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			clock.Advance(dt)
			app.Frame()
			if once && app.Ended() {
				return nil
			}
		}
	}
}
