package main

import (
	"context"
	"time"
)

// pollOnce runs one Fetching → Deciding → Notifying cycle and reports
// whether a change notification went out. Failures are logged and end the
// cycle early; the next tick is the retry.
func (b *Bot) pollOnce(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	start := time.Now()
	pollsTotal.Inc()

	st := b.fetcher.Fetch(ctx)
	if st == nil {
		fetchFailuresTotal.Inc()
		b.logger.Debug().Dur("took", time.Since(start)).Msg("status unknown this cycle")
		return false
	}

	if st.Online {
		serverOnline.Set(1)
	} else {
		serverOnline.Set(0)
	}

	if !b.tracker.Observe(st) {
		b.logger.Debug().Bool("online", st.Online).Msg("no state change")
		return false
	}

	state := "offline"
	if st.Online {
		state = "online"
	}
	stateChangesTotal.WithLabelValues(state).Inc()

	b.updatePresence(st.Online)
	sent := b.broadcast(renderStatus(b.fetcher.Address(), st, modeChange))

	b.logger.Info().
		Str("state", state).
		Int("players", len(st.Players.List)).
		Int("delivered", sent).
		Int("channels", b.registry.Len()).
		Dur("took", time.Since(start)).
		Msg("server state changed")

	return true
}
