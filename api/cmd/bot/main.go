// Command bot runs the describer as a long-lived process: webhook mode when
// WEBHOOK_URL is set, long polling otherwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"net/http"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"descrivi-bot/api/internal/app"
	"descrivi-bot/api/internal/config"
	"descrivi-bot/api/internal/httpserver"
	"descrivi-bot/api/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", false)
		log.Fatal().Err(err).Msg("config")
	}
	logging.Init(cfg.LogLevel, cfg.LogPretty)
	httpserver.SetMode(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init runtime")
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error().Err(err).Msg("close runtime")
		}
	}()

	addr := "0.0.0.0:" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)

	path := webhookPath(cfg)
	router := httpserver.NewRouter(path, rt.Lifecycle, rt.Health)
	if path != "" {
		if err := setWebhook(rt.Bot, strings.TrimRight(strings.TrimSpace(cfg.WebhookURL), "/")+path); err != nil {
			log.Fatal().Err(err).Msg("setWebhook")
		}
		log.Info().Str("path", path).Msg("webhook mode")
		g.Go(func() error { return httpserver.Serve(gctx, addr, router) })
	} else {
		if _, err := rt.Bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Warn().Err(err).Msg("deleteWebhook")
		}
		log.Info().Msg("polling mode, serving /healthz only")
		g.Go(func() error { return httpserver.Serve(gctx, addr, router) })
		g.Go(func() error {
			runPolling(gctx, rt.Bot, func(upd tgbotapi.Update) {
				uctx, _ := logging.WithRequest(gctx)
				rt.Lifecycle.HandleUpdate(uctx, upd)
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("bot stopped")
		return
	}
	log.Info().Msg("bot stopped")
}

// webhookPath is the secret route Telegram posts updates to, or "" in polling
// mode where no update route is exposed.
func webhookPath(cfg *config.Config) string {
	if strings.TrimSpace(cfg.WebhookURL) == "" {
		return ""
	}
	return "/webhook/" + shortHash(cfg.TelegramToken)
}

func setWebhook(bot *tgbotapi.BotAPI, public string) error {
	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		return err
	}
	wh.DropPendingUpdates = true
	_, err = bot.Request(wh)
	return err
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

// retryDelayFromError prefers the retry_after Telegram sends with a 429 and
// falls back to parsing the message for wrapped errors.
func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return time.Duration(apiErr.RetryAfter) * time.Second
	}
	if m := reRetryAfter.FindStringSubmatch(err.Error()); len(m) == 2 {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	var ne net.Error
	switch {
	case apiErr != nil && apiErr.Code == http.StatusTooManyRequests,
		strings.Contains(strings.ToLower(err.Error()), "too many requests"):
		return 3 * time.Second
	case errors.As(err, &ne) && ne.Timeout():
		return 2 * time.Second
	}
	return time.Second
}

func clampDelay(d, lo, hi time.Duration) time.Duration {
	return max(lo, min(d, hi))
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	const (
		baseDelay = 1 * time.Second
		maxDelay  = 15 * time.Second
	)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := clampDelay(retryDelayFromError(err), baseDelay, maxDelay)
			log.Warn().Err(err).Dur("retry_in", d).Msg("polling error")
			sleep(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			sleep(ctx, 200*time.Millisecond)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// shortHash is the 64-bit FNV-1a of the token in hex, used as the secret webhook path.
func shortHash(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%016x", h.Sum64())
}
