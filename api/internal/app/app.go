// Package app wires the process-wide dependencies shared by the entrypoints.
package app

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"descrivi-bot/api/internal/cache"
	"descrivi-bot/api/internal/config"
	"descrivi-bot/api/internal/describe"
	"descrivi-bot/api/internal/describe/azure"
	"descrivi-bot/api/internal/describe/gemini"
	"descrivi-bot/api/internal/store"
	"descrivi-bot/api/internal/telegram"
	"descrivi-bot/api/internal/webhook"
)

// Runtime holds everything built once per process.
type Runtime struct {
	Bot       *tgbotapi.BotAPI
	Requester *describe.Requester
	Lifecycle *webhook.Lifecycle
	Health    func(ctx context.Context) error

	closers []func() error
}

// New builds the bot client, the selected engine and the optional cache.
func New(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = false
	rt.Bot = bot

	eng, err := rt.engine(ctx, cfg)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	opts := []describe.Option{describe.WithTimeout(cfg.Model.Timeout)}
	c, err := rt.cache(ctx, cfg)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if c != nil {
		opts = append(opts, describe.WithCache(c))
	}
	rt.Requester = describe.NewRequester(eng, opts...)

	rt.Lifecycle = webhook.New(webhook.Deps{
		Bot:       bot,
		Token:     cfg.TelegramToken,
		Describer: rt.Requester,
		Filters: telegram.Filters{
			AllowedGroupIDs: cfg.AllowedGroupIDs,
			PrivacyModeOn:   cfg.BotPrivacyModeOn,
			BotUsername:     bot.Self.UserName,
		},
		SetCommands: true,
	})

	log.Info().
		Str("bot", bot.Self.UserName).
		Str("engine", eng.Name()).
		Str("model", eng.GetModel()).
		Bool("cache", c != nil).
		Msg("runtime ready")
	return rt, nil
}

func (rt *Runtime) engine(ctx context.Context, cfg *config.Config) (describe.Engine, error) {
	var engines describe.Engines
	switch cfg.LLMProvider {
	case "gemini":
		g, err := gemini.New(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.Model.Temperature,
			MaxTokens:   cfg.Model.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, g.Close)
		engines.Gemini = g
	default:
		a, err := azure.New(azure.Config{
			Endpoint:    cfg.AzureEndpoint,
			APIKey:      cfg.AzureAPIKey,
			Deployment:  cfg.AzureDeployment,
			APIVersion:  cfg.AzureAPIVersion,
			Temperature: cfg.Model.Temperature,
			MaxTokens:   cfg.Model.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		engines.Azure = a
	}
	return engines.GetEngine(cfg.LLMProvider)
}

// cache picks Postgres when DATABASE_URL is set, else Redis, else none.
func (rt *Runtime) cache(ctx context.Context, cfg *config.Config) (describe.Cache, error) {
	switch {
	case cfg.DatabaseURL != "":
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, db.Close)
		rt.Health = db.PingContext
		repo := store.NewDescriptionRepo(db, cfg.CacheTTL)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Info().Str("db", store.SafeDSNSummary(cfg.DatabaseURL)).Msg("description cache: postgres")
		return repo, nil
	case cfg.RedisURL != "":
		r, err := cache.NewRedis(ctx, cfg.RedisURL, "descrivi", cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, r.Close)
		rt.Health = r.Ping
		log.Info().Msg("description cache: redis")
		return r, nil
	}
	return nil, nil
}

// Close releases clients in reverse construction order.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	rt.closers = nil
	return errors.Join(errs...)
}
