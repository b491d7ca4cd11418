// Package registry maps each guild to its single announcement channel.
package registry

import (
	"sort"
	"sync"
)

// Entry is one guild → channel registration.
type Entry struct {
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
}

// Registry is an in-memory guild → channel map. Entries are overwritten,
// never deleted, and live only as long as the process.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{channels: make(map[string]string)}
}

// Register sets the announcement channel for guildID, replacing any
// previous one.
func (r *Registry) Register(guildID, channelID string) {
	if guildID == "" || channelID == "" {
		return
	}
	r.mu.Lock()
	r.channels[guildID] = channelID
	r.mu.Unlock()
}

// RegisterDefault sets channelID only when guildID has no entry yet and
// reports whether it did.
func (r *Registry) RegisterDefault(guildID, channelID string) bool {
	if guildID == "" || channelID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.channels[guildID]; ok {
		return false
	}
	r.channels[guildID] = channelID
	return true
}

// Resolve returns the channel registered for guildID.
func (r *Registry) Resolve(guildID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[guildID]
	return ch, ok
}

// Entries returns a snapshot of all registrations ordered by guild ID.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.channels))
	for g, c := range r.channels {
		entries = append(entries, Entry{GuildID: g, ChannelID: c})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].GuildID < entries[j].GuildID })
	return entries
}

// Len returns the number of registered guilds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
