// Package tracker remembers the last observed online/offline state of the
// server and reports transitions.
package tracker

import (
	"sync"

	"github.com/bombom/mc-status-bot/pkg/mcstatus"
)

// Tracker holds a tri-state value: unset, online or offline.
// The zero value is ready to use and starts unset, so the first successful
// observation always counts as a change even when the server is offline.
type Tracker struct {
	mu     sync.Mutex
	known  bool
	online bool
}

// New returns an unset tracker.
func New() *Tracker { return &Tracker{} }

// Observe records st and reports whether it differs from the previous
// known state. A nil status (fetch failed) is never a change and leaves the
// stored state untouched.
func (t *Tracker) Observe(st *mcstatus.Status) bool {
	if st == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	changed := !t.known || t.online != st.Online
	t.known = true
	t.online = st.Online
	return changed
}

// Last returns the stored state. known is false until the first successful
// observation.
func (t *Tracker) Last() (online, known bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.online, t.known
}
