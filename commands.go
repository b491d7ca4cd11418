package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	cmdStatus   = "status"
	cmdServer   = "server"
	cmdAnnounce = "announce"
	cmdRecipe   = "recipe"

	statusCommandTimeout = 10 * time.Second
)

var adminPermission int64 = discordgo.PermissionAdministrator

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        cmdStatus,
		Description: "Check the status of the Minecraft server.",
	},
	{
		Name:        cmdServer,
		Description: "Welcome to the LifeSteal server and read the server rules.",
	},
	{
		Name:                     cmdAnnounce,
		Description:              "Post server status updates in this channel.",
		DefaultMemberPermissions: &adminPermission,
	},
	{
		Name:        cmdRecipe,
		Description: "Show how to craft a heart.",
	},
}

func (b *Bot) handleInteraction(i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	h, ok := b.handlers[name]
	if !ok {
		b.logger.Debug().Str("command", name).Msg("ignoring unknown command")
		return
	}

	commandsTotal.WithLabelValues(name).Inc()
	if err := h(i); err != nil {
		b.logger.Error().
			Err(err).
			Str("command", name).
			Str("guild_id", i.GuildID).
			Str("channel_id", i.ChannelID).
			Msg("command failed")
	}
}

// handleStatus always answers, even when the status API is down.
// The response is deferred first because the API call can outlast the
// interaction's acknowledgement window.
func (b *Bot) handleStatus(i *discordgo.InteractionCreate) error {
	err := b.discord.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to defer status response: %w", err)
	}

	ctx, cancel := context.WithTimeout(b.ctx, statusCommandTimeout)
	defer cancel()

	address := b.fetcher.Address()

	var embed *discordgo.MessageEmbed
	if st := b.fetcher.Fetch(ctx); st != nil {
		embed = renderStatus(address, st, modeQuery)
	} else {
		embed = renderUnknown(address)
	}

	embeds := []*discordgo.MessageEmbed{embed}
	if _, err := b.discord.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds}); err != nil {
		return fmt.Errorf("failed to send status response: %w", err)
	}
	return nil
}

func (b *Bot) handleServerInfo(i *discordgo.InteractionCreate) error {
	return b.respondEmbed(i, serverInfoEmbed(), false)
}

func (b *Bot) handleRecipe(i *discordgo.InteractionCreate) error {
	return b.respondEmbed(i, recipeEmbed(b.cfg.RecipeImageURL), false)
}

// handleAnnounce designates the invoking channel as the guild's
// announcement channel. Only administrators may do this.
func (b *Bot) handleAnnounce(i *discordgo.InteractionCreate) error {
	if i.GuildID == "" || i.Member == nil {
		return b.respondText(i, "This command can only be used inside a server.", true)
	}

	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		userID := ""
		if i.Member.User != nil {
			userID = i.Member.User.ID
		}
		b.logger.Info().
			Str("guild_id", i.GuildID).
			Str("user_id", userID).
			Msg("rejected announce command from non-administrator")
		return b.respondText(i, "You need the Administrator permission to use this command.", true)
	}

	b.registry.Register(i.GuildID, i.ChannelID)
	b.logger.Info().
		Str("guild_id", i.GuildID).
		Str("channel_id", i.ChannelID).
		Msg("announcement channel set")

	return b.respondText(i, fmt.Sprintf("Server status updates will be posted in <#%s>.", i.ChannelID), true)
}

func (b *Bot) respondEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return b.respond(i, data)
}

func (b *Bot) respondText(i *discordgo.InteractionCreate, content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return b.respond(i, data)
}

func (b *Bot) respond(i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) error {
	err := b.discord.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	return nil
}
