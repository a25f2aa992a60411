package models

import (
	"fmt"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
)

type Operator string

const (
	OperatorAWS       Operator = "AWS Ground Station"
	OperatorAzure     Operator = "Azure Orbital"
	OperatorSpaceX    Operator = "SpaceX Starlink"
	OperatorOneWeb    Operator = "OneWeb"
	OperatorKSAT      Operator = "KSAT"
	OperatorSSC       Operator = "SSC"
	OperatorSES       Operator = "SES"
	OperatorIntelsat  Operator = "Intelsat"
	OperatorViasat    Operator = "Viasat"
	OperatorTelesat   Operator = "Telesat"
	OperatorLeafSpace Operator = "Leaf Space"
	OperatorOther     Operator = "Other"
)

// Archetype groups operators by the business model that matters for competition
type Archetype string

const (
	ArchetypeCloud       Archetype = "cloud-integrated"
	ArchetypeLEO         Archetype = "leo-constellation"
	ArchetypeTraditional Archetype = "traditional"
)

// Archetype maps an operator onto its competitive archetype. AWS and Azure
// bundle ground segment with cloud compute; Starlink and OneWeb run their own
// LEO gateways.
func (o Operator) Archetype() Archetype {
	switch o {
	case OperatorAWS, OperatorAzure:
		return ArchetypeCloud
	case OperatorSpaceX, OperatorOneWeb:
		return ArchetypeLEO
	default:
		return ArchetypeTraditional
	}
}

type ThreatLevel string

const (
	ThreatCritical ThreatLevel = "Critical"
	ThreatHigh     ThreatLevel = "High"
	ThreatMedium   ThreatLevel = "Medium"
	ThreatLow      ThreatLevel = "Low"
)

func (t ThreatLevel) Validate() error {
	switch t {
	case ThreatCritical, ThreatHigh, ThreatMedium, ThreatLow:
		return nil
	default:
		return fmt.Errorf("invalid threat level: %q", t)
	}
}

type TechnicalSpecs struct {
	CapacityGbps   float64  `json:"capacityGbps"`
	AntennaSizeM   float64  `json:"antennaSizeM"`
	AntennaCount   int      `json:"antennaCount"`
	FrequencyBands []string `json:"frequencyBands"`
}

type UtilizationMetrics struct {
	CurrentPct     float64   `json:"currentPct"`
	PeakPct        float64   `json:"peakPct"`
	AveragePct     float64   `json:"averagePct"`
	Trend          string    `json:"trend"`
	MonthlyHistory []float64 `json:"monthlyHistory,omitempty"`
}

type BusinessMetrics struct {
	MonthlyRevenue       float64 `json:"monthlyRevenue"`
	ProfitMarginPct      float64 `json:"profitMarginPct"`
	OperationalCostRatio float64 `json:"operationalCostRatio"`
	MaintenanceCostRatio float64 `json:"maintenanceCostRatio"`
	ChurnPct             float64 `json:"churnPct"`
}

type ROIMetrics struct {
	AnnualROIPct  float64 `json:"annualRoiPct"`
	PaybackMonths float64 `json:"paybackMonths"`
}

// StationRecord is a ground station as loaded from fixtures or a live fetch
type StationRecord struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Operator    Operator           `json:"operator"`
	Country     string             `json:"country"`
	Location    geo.Location       `json:"location"`
	Technical   TechnicalSpecs     `json:"technical"`
	Utilization UtilizationMetrics `json:"utilization"`
	Business    BusinessMetrics    `json:"business"`
	ROI         ROIMetrics         `json:"roi"`
}

func (s StationRecord) GetLocation() geo.Location {
	return s.Location
}

// Validate checks identity and location; metrics are allowed to be zero
func (s StationRecord) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("station ID is required")
	}
	if err := s.Location.Validate(); err != nil {
		return fmt.Errorf("station %s: %w", s.ID, err)
	}
	if s.Utilization.CurrentPct < 0 || s.Utilization.CurrentPct > 100 {
		return fmt.Errorf("station %s: utilization out of range: %v", s.ID, s.Utilization.CurrentPct)
	}
	return nil
}

type Capabilities struct {
	FrequencyBands []string `json:"frequencyBands"`
	AntennaCount   int      `json:"antennaCount"`
	CapacityGbps   float64  `json:"capacityGbps"`
	Services       []string `json:"services,omitempty"`
}

type MarketPosition struct {
	ThreatLevel    ThreatLevel `json:"threatLevel"`
	MarketSharePct float64     `json:"marketSharePct"`
	PricingTier    string      `json:"pricingTier,omitempty"`
	Strengths      []string    `json:"strengths,omitempty"`
}

// CompetitorStation is static reference data and is never modified
type CompetitorStation struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Operator       Operator       `json:"operator"`
	Country        string         `json:"country"`
	Location       geo.Location   `json:"location"`
	Capabilities   Capabilities   `json:"capabilities"`
	MarketPosition MarketPosition `json:"marketPosition"`
}

func (c CompetitorStation) GetLocation() geo.Location {
	return c.Location
}

func (c CompetitorStation) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("competitor ID is required")
	}
	if err := c.Location.Validate(); err != nil {
		return fmt.Errorf("competitor %s: %w", c.ID, err)
	}
	if err := c.MarketPosition.ThreatLevel.Validate(); err != nil {
		return fmt.Errorf("competitor %s: %w", c.ID, err)
	}
	return nil
}
