package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/api"
	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

const defaultCompetitorLimit = 5

// OpportunityAnalyzer scores a candidate location
type OpportunityAnalyzer interface {
	Analyze(ctx context.Context, req models.LocationRequest) (*models.OpportunityAnalysis, error)
}

// CompetitorFinder ranks competitor stations around a location
type CompetitorFinder interface {
	FindNearestCompetitors(ctx context.Context, loc geo.Location, limit int) ([]geo.Ranked[models.CompetitorStation], error)
}

type OpportunityHandler struct {
	analyzer    OpportunityAnalyzer
	competitors CompetitorFinder
}

func NewOpportunityHandler(analyzer OpportunityAnalyzer, competitors CompetitorFinder) *OpportunityHandler {
	return &OpportunityHandler{
		analyzer:    analyzer,
		competitors: competitors,
	}
}

// HandleRequest serves /opportunity and /opportunity/competitors
func (h *OpportunityHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	req, err := api.ParseLocationRequest(params)
	if err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}

	if strings.HasSuffix(request.Path, "/competitors") {
		return h.handleCompetitors(ctx, req.Location(), api.ParseLimit(params, defaultCompetitorLimit))
	}

	analysis, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		if api.IsBadRequest(err) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		log.Error().Err(err).Str("location", req.Location().String()).Msg("Opportunity analysis failed")
		return api.Error("Error analyzing location", http.StatusInternalServerError)
	}

	return api.Success(api.NewOpportunityResponse(analysis))
}

func (h *OpportunityHandler) handleCompetitors(ctx context.Context, loc geo.Location, limit int) (events.APIGatewayProxyResponse, error) {
	if h.competitors == nil {
		return api.Error("Competitor data not configured", http.StatusNotFound)
	}

	ranked, err := h.competitors.FindNearestCompetitors(ctx, loc, limit)
	if err != nil {
		log.Error().Err(err).Msg("Competitor lookup failed")
		return api.Error("Error finding competitors", http.StatusInternalServerError)
	}
	return api.Success(api.NewCompetitorsResponse(ranked))
}
