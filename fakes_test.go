package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/bombom/mc-status-bot/pkg/mcstatus"
)

const testAddress = "play.example.net"

// fakeDiscord records everything the bot sends.
type fakeDiscord struct {
	mu sync.Mutex

	sent         map[string][]*discordgo.MessageEmbed
	failChannels map[string]bool
	presence     []discordgo.UpdateStatusData
	responses    []*discordgo.InteractionResponse
	edits        []*discordgo.WebhookEdit
	respondErr   error
}

func newFakeDiscord() *fakeDiscord {
	return &fakeDiscord{
		sent:         make(map[string][]*discordgo.MessageEmbed),
		failChannels: make(map[string]bool),
	}
}

func (f *fakeDiscord) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failChannels[channelID] {
		return nil, errors.New("HTTP 404 Not Found, {\"message\": \"Unknown Channel\", \"code\": 10003}")
	}
	if err := checkEmbed(embed); err != nil {
		return nil, err
	}
	f.sent[channelID] = append(f.sent[channelID], embed)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakeDiscord) UpdateStatusComplex(usd discordgo.UpdateStatusData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presence = append(f.presence, usd)
	return nil
}

func (f *fakeDiscord) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.respondErr != nil {
		return f.respondErr
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeDiscord) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if edit.Embeds != nil {
		for _, e := range *edit.Embeds {
			if err := checkEmbed(e); err != nil {
				return nil, err
			}
		}
	}
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

// checkEmbed rejects field values Discord would refuse with a 400.
func checkEmbed(embed *discordgo.MessageEmbed) error {
	for _, field := range embed.Fields {
		if utf8.RuneCountInString(field.Value) > maxFieldValue {
			return fmt.Errorf("HTTP 400 Bad Request, embeds.0.fields.value: must be %d or fewer in length", maxFieldValue)
		}
	}
	return nil
}

func (f *fakeDiscord) totalSent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, embeds := range f.sent {
		n += len(embeds)
	}
	return n
}

// fakeFetcher returns queued results in order, then nil.
type fakeFetcher struct {
	mu      sync.Mutex
	results []*mcstatus.Status
	calls   int
}

func (f *fakeFetcher) Fetch(context.Context) *mcstatus.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.results) == 0 {
		return nil
	}
	st := f.results[0]
	f.results = f.results[1:]
	return st
}

func (f *fakeFetcher) Address() string { return testAddress }

func (f *fakeFetcher) push(st ...*mcstatus.Status) {
	f.mu.Lock()
	f.results = append(f.results, st...)
	f.mu.Unlock()
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestBot(t *testing.T, fetcher StatusFetcher) (*Bot, *fakeDiscord) {
	t.Helper()
	d := newFakeDiscord()
	cfg := Config{
		ServerAddress: testAddress,
		PollInterval:  time.Hour,
		HTTPTimeout:   time.Second,
	}
	b := newBot(cfg, d, fetcher, zerolog.Nop())
	t.Cleanup(func() { b.Close() })
	return b, d
}

func onlineWith(names ...string) *mcstatus.Status {
	st := &mcstatus.Status{Online: true}
	for _, n := range names {
		st.Players.List = append(st.Players.List, mcstatus.Player{Name: n})
	}
	return st
}

func offlineStatus() *mcstatus.Status { return &mcstatus.Status{Online: false} }

func fieldValue(embed *discordgo.MessageEmbed, name string) (string, bool) {
	for _, f := range embed.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func commandInteraction(name, guildID, channelID string, perms int64) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "interaction-1",
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   guildID,
			ChannelID: channelID,
			Member: &discordgo.Member{
				User:        &discordgo.User{ID: "user-1"},
				Permissions: perms,
			},
			Data: discordgo.ApplicationCommandInteractionData{Name: name},
		},
	}
}
