package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bombom/mc-status-bot/api"
)

// WaitForShutdown blocks until SIGINT/SIGTERM, then stops the API server
// (if any) and the bot.
func (b *Bot) WaitForShutdown(apiServer *api.Server) {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	sig := <-sigchan
	b.logger.Info().Str("signal", sig.String()).Msg("shutting down")

	if apiServer != nil {
		if err := apiServer.Stop(); err != nil {
			b.logger.Error().Err(err).Msg("error stopping API server")
		}
	}

	if err := b.Close(); err != nil {
		b.logger.Error().Err(err).Msg("error closing bot")
	}

	b.logger.Info().Msg("shutdown complete")
}

func main() {
	boot := newLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stdout)

	if err := loadEnv(); err != nil {
		boot.Fatal().Err(err).Msg("configuration error")
	}

	cfg, err := validateConfig(os.Getenv)
	if err != nil {
		boot.Fatal().Err(err).Msg("configuration error")
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	bot, err := NewBot(cfg, logger.With().Str("component", "bot").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create bot")
	}

	bot.registerHandlers()

	if err := bot.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start bot")
	}

	var apiServer *api.Server
	if cfg.APIPort != "" {
		apiServer = api.NewServer(bot, cfg.APIPort, cfg.APIBearerToken,
			logger.With().Str("component", "api").Logger())
		go func() {
			if err := apiServer.Start(context.Background()); err != nil {
				logger.Error().Err(err).Msg("API server error")
			}
		}()
	}

	bot.WaitForShutdown(apiServer)
}
