package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/api"
	"github.com/bbernstein/groundscout/backend-go/internal/app"
	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/handler"
)

var (
	lambdaStart   = lambda.Start // Allow mocking of lambda.Start in tests
	enrichHandler *handler.EnrichHandler
	setupOnce     sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		services, err := app.New(context.Background(), cfg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize services")
			return
		}

		// Sweep stale historical entries while the container stays warm
		go services.Fallback.Run(context.Background())

		enrichHandler = handler.NewEnrichHandler(services.Catalog, services.Fallback)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if enrichHandler == nil {
		return api.Error("Service not initialized", http.StatusServiceUnavailable)
	}
	return enrichHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
