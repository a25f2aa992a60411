package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

type OpportunityResponse struct {
	APIResponse
	Analysis *models.OpportunityAnalysis `json:"analysis"`
}

type EnrichmentResponse struct {
	APIResponse
	Station *models.EnrichedStationRecord `json:"station"`
}

type CompetitorsResponse struct {
	APIResponse
	Competitors []geo.Ranked[models.CompetitorStation] `json:"competitors"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewOpportunityResponse(analysis *models.OpportunityAnalysis) *OpportunityResponse {
	return &OpportunityResponse{
		APIResponse: APIResponse{ResponseType: "opportunity"},
		Analysis:    analysis,
	}
}

func NewEnrichmentResponse(station *models.EnrichedStationRecord) *EnrichmentResponse {
	return &EnrichmentResponse{
		APIResponse: APIResponse{ResponseType: "enrichment"},
		Station:     station,
	}
}

func NewCompetitorsResponse(competitors []geo.Ranked[models.CompetitorStation]) *CompetitorsResponse {
	return &CompetitorsResponse{
		APIResponse: APIResponse{ResponseType: "competitors"},
		Competitors: competitors,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// InvalidParameterError reports a query parameter that is missing or malformed
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// ParseLocationRequest reads lat, lon and the optional radiusKm from query
// parameters and validates the result
func ParseLocationRequest(params map[string]string) (models.LocationRequest, error) {
	var req models.LocationRequest

	lat, err := parseFloatParam(params, "lat")
	if err != nil {
		return req, err
	}
	lon, err := parseFloatParam(params, "lon")
	if err != nil {
		return req, err
	}
	req.Latitude = lat
	req.Longitude = lon

	if _, ok := params["radiusKm"]; ok {
		radius, err := parseFloatParam(params, "radiusKm")
		if err != nil {
			return req, err
		}
		req.RadiusKm = &radius
	}

	if err := req.Validate(); err != nil {
		var coordErr *geo.InvalidCoordinateError
		if errors.As(err, &coordErr) {
			return req, err
		}
		return req, &InvalidParameterError{Param: "radiusKm", Reason: err.Error()}
	}
	return req, nil
}

// ParseLimit returns the limit parameter, or def when it is absent or unusable
func ParseLimit(params map[string]string, def int) int {
	if limitStr, ok := params["limit"]; ok {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func parseFloatParam(params map[string]string, name string) (float64, error) {
	raw, ok := params[name]
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, &InvalidParameterError{Param: name, Reason: "required"}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &InvalidParameterError{Param: name, Reason: "not a number"}
	}
	return v, nil
}

// IsBadRequest reports whether err came from invalid client input
func IsBadRequest(err error) bool {
	var paramErr *InvalidParameterError
	var coordErr *geo.InvalidCoordinateError
	return errors.As(err, &paramErr) || errors.As(err, &coordErr)
}
