package main

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

const colorGold = 0xF1C40F

var serverRules = strings.Join([]string{
	"Here's some important information about our server:",
	"",
	"1. **Server Rules**:",
	"",
	"   - If you die by any means, you will lose a full 1 heart.",
	"   - If you are killed by another player by any means, that player will gain a heart, while you lose yours.",
	"   - You can put your own hearts into your inventory by using the `/heartdrop` command or `/hd` for short, followed by the number of hearts you would like to remove.",
	"   - Be aware that the amount of hearts removed will reflect on your health, so be careful. You may consume these hearts at any time or give them to another player.",
	"   - If you lose all your hearts, you are BANNED from the server, but you may be able to come back if desired.",
	"",
	"2. **Basic Rules**:",
	"",
	"   - You can kill players on the server, but you must do so respectfully. Do not spam kill a player, and give them back whatever they need to get back on their feet.",
	"   - You should be killing for hearts, not to destroy the player's enjoyment.",
	"   - You may hurt and grief other players, but there's a limit. Understand that everyone has their limits, and don't try to upset someone to get them kicked out of the server.",
}, "\n")

func serverInfoEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Welcome to the LifeSteal Server!",
		Description: serverRules,
		Color:       colorGold,
	}
}

// Crafting grid, read left to right, top to bottom.
var heartRecipeGrid = [3][3]string{
	{"\U0001F48E", "\U0001F7EB", "\U0001F48E"}, // 💎 🟫 💎
	{"\U0001F7EB", "\U0001F5FF", "\U0001F7EB"}, // 🟫 🗿 🟫
	{"\U0001F48E", "\U0001F7EB", "\U0001F48E"}, // 💎 🟫 💎
}

func recipeEmbed(imageURL string) *discordgo.MessageEmbed {
	rows := make([]string, 0, len(heartRecipeGrid))
	for _, row := range heartRecipeGrid {
		rows = append(rows, strings.Join(row[:], " "))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Heart Recipe",
		Description: "Craft an extra heart at any crafting table:\n\n" + strings.Join(rows, "\n"),
		Color:       colorGold,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "\U0001F48E Corners", Value: "Diamond Block", Inline: true},
			{Name: "\U0001F7EB Edges", Value: "Netherite Ingot", Inline: true},
			{Name: "\U0001F5FF Center", Value: "Totem of Undying", Inline: true},
			{Name: "Result", Value: "1 Heart. Right click to consume it, or give it to another player.", Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use /server to read the rules",
		},
	}

	if imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}
	return embed
}
