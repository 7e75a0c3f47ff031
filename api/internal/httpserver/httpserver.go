package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"descrivi-bot/api/internal/logging"
	"descrivi-bot/api/internal/webhook"
)

// Maximum webhook body accepted from Telegram.
const maxBody = 1 << 20

// Processor handles one decoded webhook body.
type Processor interface {
	Handle(ctx context.Context, body []byte) webhook.Result
}

// HealthFunc reports readiness; nil means healthy.
type HealthFunc func(ctx context.Context) error

// NewRouter serves GET /healthz and, unless webhookPath is empty, POST webhookPath.
func NewRouter(webhookPath string, p Processor, health HealthFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				c.String(http.StatusServiceUnavailable, "not ok\n"+err.Error())
				return
			}
		}
		c.String(http.StatusOK, "ok")
	})

	if webhookPath != "" {
		r.POST(webhookPath, func(c *gin.Context) {
			ctx, l := logging.WithRequest(c.Request.Context())
			body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
			if err != nil {
				l.Error().Err(err).Msg("read webhook body")
				res := webhook.Fail(http.StatusBadRequest, err)
				c.Data(res.StatusCode, "application/json", []byte(res.Body))
				return
			}
			res := p.Handle(ctx, body)
			c.Data(res.StatusCode, "application/json", []byte(res.Body))
		})
	}

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusOK, "telegram webhook bot")
	})
	return r
}

// Serve runs the server until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("http shutdown")
		return err
	}
	log.Info().Msg("http server stopped")
	return nil
}

// SetMode maps the log level onto gin's mode.
func SetMode(level string) {
	if level == "debug" {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
