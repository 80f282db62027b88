package bus

import (
	"context"
	"time"
)

// randomiseSettleDelay is the minimum pause after Randomise before the
// search-address space can be reliably probed, per the commissioning engine
// design.
const randomiseSettleDelay = 100 * time.Millisecond

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
