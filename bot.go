package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/bombom/mc-status-bot/pkg/mcstatus"
	"github.com/bombom/mc-status-bot/pkg/registry"
	"github.com/bombom/mc-status-bot/pkg/tracker"
)

// Discord is the subset of *discordgo.Session the bot talks to after the
// gateway connection is up.
type Discord interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// StatusFetcher returns the current server status, or nil when unknown.
type StatusFetcher interface {
	Fetch(ctx context.Context) *mcstatus.Status
	Address() string
}

type commandHandler func(i *discordgo.InteractionCreate) error

// Bot owns every piece of shared state: the Discord connection, the last
// observed server state and the announcement channel registry.
type Bot struct {
	session *discordgo.Session
	discord Discord

	cfg      Config
	fetcher  StatusFetcher
	tracker  *tracker.Tracker
	registry *registry.Registry
	logger   zerolog.Logger

	handlers map[string]commandHandler

	cron      *cron.Cron
	pollJob   cron.Job
	startPoll sync.Once
	firstPoll sync.WaitGroup // the immediate cycle runs outside cron

	ctx    context.Context
	cancel context.CancelFunc
}

func createDiscordSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// GUILD_CREATE carries the channel list used for default registration
	session.Identify.Intents = discordgo.IntentsGuilds

	return session, nil
}

// NewBot wires a bot against a real Discord session.
func NewBot(cfg Config, logger zerolog.Logger) (*Bot, error) {
	session, err := createDiscordSession(cfg.Token)
	if err != nil {
		return nil, err
	}

	fetcher := mcstatus.NewClient(cfg.ServerAddress,
		mcstatus.WithBaseURL(cfg.StatusAPIURL),
		mcstatus.WithTimeout(cfg.HTTPTimeout),
		mcstatus.WithLogger(logger.With().Str("component", "mcstatus").Logger()),
	)

	b := newBot(cfg, session, fetcher, logger)
	b.session = session
	return b, nil
}

func newBot(cfg Config, discord Discord, fetcher StatusFetcher, logger zerolog.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())

	b := &Bot{
		discord:  discord,
		cfg:      cfg,
		fetcher:  fetcher,
		tracker:  tracker.New(),
		registry: registry.New(),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	b.handlers = map[string]commandHandler{
		cmdStatus:   b.handleStatus,
		cmdServer:   b.handleServerInfo,
		cmdAnnounce: b.handleAnnounce,
		cmdRecipe:   b.handleRecipe,
	}

	cl := cronLogger{log: logger.With().Str("component", "poll").Logger()}
	b.cron = cron.New(cron.WithLogger(cl))
	b.pollJob = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).
		Then(cron.FuncJob(func() { b.pollOnce(b.ctx) }))
	b.cron.Schedule(cron.Every(cfg.PollInterval), b.pollJob)

	return b
}

func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onGuildCreate)
	b.session.AddHandler(b.onInteractionCreate)
}

// ================= EVENT HANDLERS =================

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info().
		Str("user", event.User.Username).
		Str("user_id", event.User.ID).
		Int("guilds", len(event.Guilds)).
		Msg("logged in")

	if _, err := s.ApplicationCommandBulkOverwrite(event.User.ID, b.cfg.GuildID, commands); err != nil {
		b.logger.Error().Err(err).Msg("failed to register slash commands")
	} else {
		b.logger.Info().Int("count", len(commands)).Str("guild_id", b.cfg.GuildID).Msg("slash commands registered")
	}

	// READY fires again after every reconnect; the loop must only start once
	b.startPollLoop()
}

func (b *Bot) onGuildCreate(_ *discordgo.Session, event *discordgo.GuildCreate) {
	b.registerDefaultChannel(event.Guild)
}

func (b *Bot) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(i)
}

// ================= LIFECYCLE =================

func (b *Bot) startPollLoop() {
	b.startPoll.Do(func() {
		b.logger.Info().
			Dur("interval", b.cfg.PollInterval).
			Str("address", b.fetcher.Address()).
			Msg("starting status poll loop")

		// first cycle right away, then on the schedule
		b.firstPoll.Add(1)
		go func() {
			defer b.firstPoll.Done()
			b.pollJob.Run()
		}()
		b.cron.Start()
	})
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// Close stops the poll loop, waits briefly for an in-flight cycle and
// closes the gateway connection.
func (b *Bot) Close() error {
	b.cancel()

	stopped := make(chan struct{})
	go func() {
		<-b.cron.Stop().Done()
		b.firstPoll.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		b.logger.Warn().Msg("poll cycle still running at shutdown")
	}

	if b.session == nil {
		return nil
	}
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("failed to close Discord session: %w", err)
	}
	return nil
}

// ================= API STATE =================

func (b *Bot) ServerAddress() string { return b.fetcher.Address() }

func (b *Bot) LastState() (online, known bool) { return b.tracker.Last() }

func (b *Bot) Channels() []registry.Entry { return b.registry.Entries() }
