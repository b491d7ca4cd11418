package main

import (
	"sort"

	"github.com/bwmarrin/discordgo"
)

const defaultChannelName = "general"

// defaultChannel picks the text channel literally named "general", else the
// first text channel in listing order. ok is false when the guild has no
// text channels.
func defaultChannel(channels []*discordgo.Channel) (channelID string, ok bool) {
	text := make([]*discordgo.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch != nil && ch.Type == discordgo.ChannelTypeGuildText {
			text = append(text, ch)
		}
	}
	if len(text) == 0 {
		return "", false
	}

	sort.SliceStable(text, func(i, j int) bool { return text[i].Position < text[j].Position })

	for _, ch := range text {
		if ch.Name == defaultChannelName {
			return ch.ID, true
		}
	}
	return text[0].ID, true
}

// registerDefaultChannel fills the registry for a guild seen on connect.
// An admin's earlier /announce choice is left alone.
func (b *Bot) registerDefaultChannel(g *discordgo.Guild) {
	if g == nil || g.Unavailable {
		return
	}

	log := b.logger.With().Str("guild_id", g.ID).Str("guild", g.Name).Logger()

	channelID, ok := defaultChannel(g.Channels)
	if !ok {
		log.Warn().Msg("no text channel available, guild will not receive status updates")
		return
	}

	if b.registry.RegisterDefault(g.ID, channelID) {
		log.Info().Str("channel_id", channelID).Msg("default announcement channel registered")
	}
}
