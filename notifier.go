package main

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/bombom/mc-status-bot/pkg/mcstatus"
)

// ================= EMBED RENDERING =================

type embedMode int

const (
	// modeChange is posted by the poll loop when the state flips.
	modeChange embedMode = iota
	// modeQuery answers /status.
	modeQuery
)

const (
	statusTitle = "Minecraft Server Status"

	colorChangeOnline  = 0x00FF00
	colorChangeOffline = 0xFF0000
	colorQueryOnline   = 0x2ECC71
	colorQueryOffline  = 0xE74C3C
	colorUnknown       = 0x95A5A6

	// Discord rejects embeds with a longer field value
	maxFieldValue = 1024

	noPlayersText = "No active players"
	commandsHint  = "Use `/server` to see server rules and `/status` to check the server status."
)

func renderStatus(address string, st *mcstatus.Status, mode embedMode) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: statusTitle}

	switch mode {
	case modeChange:
		embed.Description = "The status of the Minecraft server has changed."
		embed.Color = colorChangeOffline
		if st.Online {
			embed.Color = colorChangeOnline
		}
	default:
		embed.Description = "Here is the current status of the Minecraft server:"
		embed.Color = colorQueryOffline
		if st.Online {
			embed.Color = colorQueryOnline
		}
	}

	statusText := "Offline"
	if st.Online {
		statusText = "Online"
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Server Address", Value: address, Inline: false},
		&discordgo.MessageEmbedField{Name: "Status", Value: statusText, Inline: false},
	)

	if st.Online {
		players := noPlayersText
		if names := st.PlayerNames(); len(names) > 0 {
			players = joinPlayers(names, maxFieldValue)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Active Players",
			Value:  players,
			Inline: false,
		})
	}

	if mode == modeChange {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Commands",
			Value:  commandsHint,
			Inline: false,
		})
	}

	return embed
}

// joinPlayers lists one name per line. When the list is longer than limit
// bytes it keeps whole names only and ends with "…and N more".
func joinPlayers(names []string, limit int) string {
	if full := strings.Join(names, "\n"); len(full) <= limit {
		return full
	}

	var b strings.Builder
	for i, name := range names {
		sep := ""
		if i > 0 {
			sep = "\n"
		}

		if b.Len()+len(sep)+len(name)+len(morePlayers(len(names)-i-1)) > limit {
			more := morePlayers(len(names) - i)
			if i == 0 {
				more = strings.TrimPrefix(more, "\n")
			}
			b.WriteString(more)
			break
		}

		b.WriteString(sep)
		b.WriteString(name)
	}
	return b.String()
}

func morePlayers(n int) string {
	return fmt.Sprintf("\n…and %d more", n)
}

// renderUnknown answers /status when the API gave no usable answer.
func renderUnknown(address string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       statusTitle,
		Description: "The server status could not be determined right now. Please try again in a minute.",
		Color:       colorUnknown,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Server Address", Value: address, Inline: false},
			{Name: "Status", Value: "Unknown", Inline: false},
		},
	}
}

// ================= DELIVERY =================

// broadcast sends embed to every registered announcement channel and
// returns how many deliveries succeeded. A failing channel is skipped.
func (b *Bot) broadcast(embed *discordgo.MessageEmbed) int {
	sent := 0
	for _, e := range b.registry.Entries() {
		if _, err := b.discord.ChannelMessageSendEmbed(e.ChannelID, embed); err != nil {
			broadcastMessagesTotal.WithLabelValues("failed").Inc()
			b.logger.Warn().
				Err(err).
				Str("guild_id", e.GuildID).
				Str("channel_id", e.ChannelID).
				Msg("skipping unreachable announcement channel")
			continue
		}
		broadcastMessagesTotal.WithLabelValues("sent").Inc()
		sent++
	}
	return sent
}

// updatePresence mirrors the server state in the bot's global activity.
func (b *Bot) updatePresence(online bool) {
	status, text := string(discordgo.StatusDoNotDisturb), "Server Offline"
	if online {
		status, text = string(discordgo.StatusOnline), "Server Online"
	}

	err := b.discord.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: status,
		Activities: []*discordgo.Activity{
			{Name: text, Type: discordgo.ActivityTypeGame},
		},
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("status", status).Msg("failed to update presence")
	}
}
