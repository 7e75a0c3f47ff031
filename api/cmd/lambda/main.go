// Command lambda is the AWS Lambda entrypoint behind an API Gateway webhook.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"descrivi-bot/api/internal/app"
	"descrivi-bot/api/internal/config"
	"descrivi-bot/api/internal/logging"
	"descrivi-bot/api/internal/webhook"
)

var (
	coldStart = true
	rt        *app.Runtime
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", false)
		log.Fatal().Err(err).Msg("config")
	}
	logging.Init(cfg.LogLevel, false)

	rt, err = app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init runtime")
	}
}

func main() {
	setup()
	lambda.Start(handler)
}

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx, l := logging.WithRequest(ctx)
	if coldStart {
		coldStart = false
		l.Info().Msg("cold start, first invocation")
	}

	body, err := requestBody(req)
	var res webhook.Result
	if err != nil {
		l.Error().Err(err).Msg("decode request body")
		res = webhook.Fail(http.StatusBadRequest, err)
	} else {
		res = rt.Lifecycle.Handle(ctx, body)
	}
	l.Info().Int("status", res.StatusCode).Msg("webhook invocation done")

	return events.APIGatewayProxyResponse{
		StatusCode: res.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       res.Body,
	}, nil
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	b, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, fmt.Errorf("base64 body: %w", err)
	}
	return b, nil
}
