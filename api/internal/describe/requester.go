package describe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrModelInvocation is the single failure surfaced for any problem while
// obtaining a description (transport, auth, refusal, schema, timeout).
var ErrModelInvocation = errors.New("model invocation failed")

// Requester calls the engine for a resolved image and renders the answer.
type Requester struct {
	eng     Engine
	cache   Cache
	timeout time.Duration
}

type Option func(*Requester)

// WithCache puts a cache in front of the engine. A nil cache disables caching.
func WithCache(c Cache) Option { return func(r *Requester) { r.cache = c } }

// WithTimeout bounds each model call. Zero leaves the caller's context untouched.
func WithTimeout(d time.Duration) Option { return func(r *Requester) { r.timeout = d } }

func NewRequester(eng Engine, opts ...Option) *Requester {
	r := &Requester{eng: eng}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Requester) Engine() Engine { return r.eng }

// Describe returns the rendered description for in using the contract kind.
func (r *Requester) Describe(ctx context.Context, in Request, kind Kind) (string, error) {
	logger := zerolog.Ctx(ctx)
	key := CacheKey(r.eng.Name(), r.eng.GetModel(), kind, in)

	if r.cache != nil && in.ImageKey != "" {
		text, ok, err := r.cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("description cache get failed")
		case ok:
			logger.Debug().Str("kind", kind.String()).Msg("description cache hit")
			return text, nil
		}
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := r.eng.Describe(callCtx, in, kind)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrModelInvocation, r.eng.Name(), err)
	}
	logger.Info().
		Str("engine", r.eng.Name()).
		Str("model", r.eng.GetModel()).
		Str("kind", kind.String()).
		Dur("took", time.Since(start)).
		Msg("description received")

	text := Render(res)

	if r.cache != nil && in.ImageKey != "" {
		if err := r.cache.Put(ctx, key, text); err != nil {
			logger.Warn().Err(err).Msg("description cache put failed")
		}
	}
	return text, nil
}

// CacheKey identifies a description by engine, contract and every input that reaches the model.
func CacheKey(engine, model string, kind Kind, in Request) string {
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{engine, model, kind.String(), in.ImageKey, in.Caption, in.ReplyContext}, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}
