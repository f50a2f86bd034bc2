package player

import (
	"context"

	"gitlab.com/edge-engine/roqplay/internal/helper"
)

// Tickable is anything that needs a periodic call, a Player among them.
type Tickable interface {
	Ticker()
}

// Drive calls p.Ticker once per tick until ctx is done. It does not touch
// the playback state; callers Play and Stop the player themselves.
func Drive(ctx context.Context, p Tickable, ticker helper.Ticker) error {
	ticker.Reset()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			p.Ticker()
			ticker.Reset()
		}
	}
}
