package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"descrivi-bot/api/internal/describe"
	"descrivi-bot/api/internal/util"
)

type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int64
}

// Fetcher downloads the image bytes; Gemini does not accept Telegram file URLs.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

type Engine struct {
	cl          *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	fetch       Fetcher
}

// New builds the client once; call Close when the process exits.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(cfg.APIKey)))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Engine{
		cl:          cl,
		model:       strings.TrimSpace(cfg.Model),
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
		fetch:       util.Download,
	}, nil
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.model }

func (e *Engine) Close() error { return e.cl.Close() }

func (e *Engine) Describe(ctx context.Context, in describe.Request, kind describe.Kind) (describe.Result, error) {
	raw, err := e.fetch(ctx, in.ImageURL)
	if err != nil {
		return describe.Result{}, fmt.Errorf("gemini: fetch image: %w", err)
	}
	img, mime, err := util.Downscale(raw, util.LowDetailSide)
	if err != nil {
		return describe.Result{}, fmt.Errorf("gemini: %w", err)
	}

	m := e.cl.GenerativeModel(e.model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(describe.SystemPrompt)}}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      &e.temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   Schema(kind),
	}
	if e.maxTokens > 0 {
		m.GenerationConfig.MaxOutputTokens = &e.maxTokens
	}

	resp, err := m.GenerateContent(ctx, Parts(img, mime, in)...)
	if err != nil {
		return describe.Result{}, fmt.Errorf("gemini generate: %w", err)
	}
	out := responseText(resp)
	if out == "" {
		return describe.Result{}, errors.New("gemini generate: empty response")
	}
	return describe.Decode(kind, out)
}

// Parts lays out the user turn: image first, then the optional text segments.
func Parts(img []byte, mime string, in describe.Request) []genai.Part {
	parts := []genai.Part{genai.Blob{MIMEType: mime, Data: img}}
	for _, s := range describe.TextSegments(in) {
		parts = append(parts, genai.Text(s))
	}
	return parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}
