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
	lambdaStart        = lambda.Start // Allow mocking of lambda.Start in tests
	opportunityHandler *handler.OpportunityHandler
	setupOnce          sync.Once
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

		opportunityHandler = handler.NewOpportunityHandler(services.Analyzer, services.Catalog)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if opportunityHandler == nil {
		return api.Error("Service not initialized", http.StatusServiceUnavailable)
	}
	return opportunityHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
