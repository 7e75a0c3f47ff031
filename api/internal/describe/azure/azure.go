package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	azureopt "github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"descrivi-bot/api/internal/describe"
)

type Config struct {
	Endpoint    string
	APIKey      string
	Deployment  string
	APIVersion  string
	Temperature float64
	MaxTokens   int64
	HTTPClient  *http.Client
}

// Engine talks to an Azure OpenAI chat deployment. It is built once per process
// and is safe for concurrent use.
type Engine struct {
	client      openai.Client
	deployment  string
	temperature float64
	maxTokens   int64
}

func New(cfg Config) (*Engine, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("AZURE_OPENAI_API_KEY is empty")
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("AZURE_OPENAI_ENDPOINT is empty")
	}
	opts := []option.RequestOption{
		azureopt.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azureopt.WithAPIKey(cfg.APIKey),
		// no retries: a failed call is reported once
		option.WithMaxRetries(0),
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 120 * time.Second}
	}
	opts = append(opts, option.WithHTTPClient(hc))

	return &Engine{
		client:      openai.NewClient(opts...),
		deployment:  cfg.Deployment,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (e *Engine) Name() string     { return "azure" }
func (e *Engine) GetModel() string { return e.deployment }

func (e *Engine) Describe(ctx context.Context, in describe.Request, kind describe.Kind) (describe.Result, error) {
	params := e.params(in, kind)

	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return describe.Result{}, fmt.Errorf("azure chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return describe.Result{}, errors.New("azure chat completion: empty response")
	}
	msg := resp.Choices[0].Message
	if r := strings.TrimSpace(msg.Refusal); r != "" {
		return describe.Result{}, fmt.Errorf("azure chat completion: refusal: %s", r)
	}
	return describe.Decode(kind, msg.Content)
}

func (e *Engine) params(in describe.Request, kind describe.Kind) openai.ChatCompletionNewParams {
	parts := []openai.ChatCompletionContentPartUnionParam{
		{OfImageURL: &openai.ChatCompletionContentPartImageParam{
			ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
				URL:    in.ImageURL,
				Detail: describe.ImageDetail,
			},
		}},
	}
	for _, s := range describe.TextSegments(in) {
		parts = append(parts, openai.ChatCompletionContentPartUnionParam{
			OfText: &openai.ChatCompletionContentPartTextParam{Text: s},
		})
	}

	p := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(e.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(describe.SystemPrompt),
			{OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: parts,
				},
			}},
		},
		Temperature: openai.Float(e.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        describe.SchemaName(kind),
					Description: openai.String(describe.SchemaDoc(kind)),
					Schema:      describe.JSONSchema(kind),
					Strict:      openai.Bool(true),
				},
			},
		},
	}
	if e.maxTokens > 0 {
		p.MaxTokens = openai.Int(e.maxTokens)
	}
	return p
}
