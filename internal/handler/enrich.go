package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/api"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/station"
)

// StationEnricher merges live and fallback data into a station record
type StationEnricher interface {
	GetEnrichedStationWithFallback(ctx context.Context, station models.StationRecord) (*models.EnrichedStationRecord, error)
}

// StationFinder looks up a catalog station by ID
type StationFinder interface {
	FindStation(ctx context.Context, stationID string) (*models.StationRecord, error)
}

type EnrichHandler struct {
	stations StationFinder
	enricher StationEnricher
}

func NewEnrichHandler(stations StationFinder, enricher StationEnricher) *EnrichHandler {
	return &EnrichHandler{
		stations: stations,
		enricher: enricher,
	}
}

func (h *EnrichHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	stationID, ok := request.QueryStringParameters["stationId"]
	if !ok || stationID == "" {
		return api.Error("stationId is required", http.StatusBadRequest)
	}

	record, err := h.stations.FindStation(ctx, stationID)
	if err != nil {
		var notFound *station.NotFoundError
		if errors.As(err, &notFound) {
			return api.Error("Station not found", http.StatusNotFound)
		}
		log.Error().Err(err).Str("station", stationID).Msg("Station lookup failed")
		return api.Error("Error finding station", http.StatusInternalServerError)
	}
	if record == nil {
		return api.Error("Station not found", http.StatusNotFound)
	}

	enriched, err := h.enricher.GetEnrichedStationWithFallback(ctx, *record)
	if err != nil {
		if api.IsBadRequest(err) {
			return api.Error(err.Error(), http.StatusUnprocessableEntity)
		}
		log.Error().Err(err).Str("station", stationID).Msg("Enrichment failed")
		return api.Error("Error enriching station", http.StatusInternalServerError)
	}

	return api.Success(api.NewEnrichmentResponse(enriched))
}
