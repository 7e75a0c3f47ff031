// Package webhook turns one inbound Telegram webhook body into one processed
// update and a status/body pair for the transport.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"descrivi-bot/api/internal/telegram"
)

var (
	ErrNoUpdateData  = errors.New("No update data provided")
	ErrNotStarted    = errors.New("application not started")
	ErrAlreadyClosed = errors.New("application stopped")
)

// Deps are constructed once per process and shared across invocations.
type Deps struct {
	Bot         telegram.BotAPI
	Token       string
	Describer   telegram.Describer
	Filters     telegram.Filters
	SetCommands bool
}

// Result is what the transport writes back.
type Result struct {
	StatusCode int
	Body       string
}

func jsonResult(code int, v any) Result {
	b, err := json.Marshal(v)
	if err != nil {
		return Result{StatusCode: http.StatusInternalServerError, Body: `{"error":"encode response"}`}
	}
	return Result{StatusCode: code, Body: string(b)}
}

func OK() Result { return jsonResult(http.StatusOK, map[string]string{"status": "OK"}) }

func Fail(code int, err error) Result {
	return jsonResult(code, map[string]string{"error": err.Error()})
}

type appState int

const (
	stateBuilt appState = iota
	stateStarted
	stateStopped
)

// Application is the per-event routing table around the shared deps.
type Application struct {
	router *telegram.Router
	state  appState
}

// Build assembles a fresh routing table.
func Build(d Deps) *Application {
	h := &telegram.Handler{Bot: d.Bot, Token: d.Token, Describer: d.Describer}
	return &Application{router: telegram.NewRouter(telegram.Routes(h, d.Filters)...)}
}

func (a *Application) Start() {
	if a.state == stateBuilt {
		a.state = stateStarted
	}
}

// Process dispatches upd and returns when its handler has finished.
func (a *Application) Process(ctx context.Context, upd tgbotapi.Update) (string, error) {
	switch a.state {
	case stateBuilt:
		return "", ErrNotStarted
	case stateStopped:
		return "", ErrAlreadyClosed
	}
	name, _ := a.router.Dispatch(ctx, upd)
	return name, nil
}

func (a *Application) Stop() { a.state = stateStopped }

// Lifecycle handles webhook invocations. Safe for concurrent use.
type Lifecycle struct {
	deps     Deps
	commands sync.Once
}

func New(d Deps) *Lifecycle {
	return &Lifecycle{deps: d}
}

// registerCommands runs setMyCommands at most once per process.
func (l *Lifecycle) registerCommands(ctx context.Context) {
	if !l.deps.SetCommands {
		return
	}
	l.commands.Do(func() {
		if err := telegram.SetCommands(l.deps.Bot); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("setMyCommands failed")
			return
		}
		zerolog.Ctx(ctx).Info().Msg("bot commands registered")
	})
}

// Handle decodes body as a Telegram update and processes it.
func (l *Lifecycle) Handle(ctx context.Context, body []byte) Result {
	logger := zerolog.Ctx(ctx)
	if len(body) == 0 {
		logger.Error().Msg("webhook called without body")
		return Fail(http.StatusBadRequest, ErrNoUpdateData)
	}
	var upd tgbotapi.Update
	if err := json.Unmarshal(body, &upd); err != nil {
		logger.Error().Err(err).Msg("decode update")
		return Fail(http.StatusInternalServerError, fmt.Errorf("decode update: %w", err))
	}
	return l.HandleUpdate(ctx, upd)
}

// HandleUpdate runs build → start → process → stop for upd. It never panics.
func (l *Lifecycle) HandleUpdate(ctx context.Context, upd tgbotapi.Update) (res Result) {
	logger := zerolog.Ctx(ctx)
	defer func() {
		if p := recover(); p != nil {
			logger.Error().Interface("panic", p).Int("update_id", upd.UpdateID).Msg("update processing panicked")
			res = Fail(http.StatusInternalServerError, fmt.Errorf("%v", p))
		}
	}()

	app := Build(l.deps)
	l.registerCommands(ctx)
	app.Start()
	defer app.Stop()

	route, err := app.Process(ctx, upd)
	if err != nil {
		logger.Error().Err(err).Msg("process update")
		return Fail(http.StatusInternalServerError, err)
	}
	logger.Debug().Int("update_id", upd.UpdateID).Str("route", route).Msg("update processed")
	return OK()
}
