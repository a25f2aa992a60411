package models

import "context"

// StationCatalog serves the read-only fixture datasets
type StationCatalog interface {
	FindStation(ctx context.Context, stationID string) (*StationRecord, error)
	ListStations(ctx context.Context) ([]StationRecord, error)
	ListCompetitors(ctx context.Context) ([]CompetitorStation, error)
}
