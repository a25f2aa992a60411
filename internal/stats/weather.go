package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
)

// Latitude band boundaries. A latitude exactly on a boundary belongs to the
// band closer to the equator.
const (
	TropicBoundary = 23.5
	PolarBoundary  = 60.0
)

const (
	tropicalBaseReliability  = 0.75
	temperateBaseReliability = 0.80
	polarBaseReliability     = 0.60

	temperateWinterPenalty = 0.10
	polarWinterPenalty     = 0.20
	monsoonPenalty         = 0.15
)

type Band string

const (
	BandTropical  Band = "tropical"
	BandTemperate Band = "temperate"
	BandPolar     Band = "polar"
)

func LatitudeBand(lat float64) Band {
	abs := math.Abs(lat)
	switch {
	case abs <= TropicBoundary:
		return BandTropical
	case abs <= PolarBoundary:
		return BandTemperate
	default:
		return BandPolar
	}
}

// SeasonalWeatherReliability returns the fraction of usable link time for a
// latitude in a given month. Winter is Dec-Feb in the northern hemisphere and
// Jun-Aug in the southern; tropical sites take a monsoon penalty in Jun-Sep
// (north) or Dec-Mar (south). The equator counts as northern.
func SeasonalWeatherReliability(lat float64, month time.Month) (float64, error) {
	if err := geo.ValidateCoordinates(lat, 0); err != nil {
		return 0, err
	}
	if month < time.January || month > time.December {
		return 0, fmt.Errorf("invalid month: %d", month)
	}

	northern := lat >= 0
	reliability := 0.0

	switch LatitudeBand(lat) {
	case BandTropical:
		reliability = tropicalBaseReliability
		if isMonsoon(month, northern) {
			reliability -= monsoonPenalty
		}
	case BandTemperate:
		reliability = temperateBaseReliability
		if isWinter(month, northern) {
			reliability -= temperateWinterPenalty
		}
	case BandPolar:
		reliability = polarBaseReliability
		if isWinter(month, northern) {
			reliability -= polarWinterPenalty
		}
	}

	return Clamp01(reliability), nil
}

// AnnualWeatherReliability averages SeasonalWeatherReliability over a year
func AnnualWeatherReliability(lat float64) (float64, error) {
	sum := 0.0
	for m := time.January; m <= time.December; m++ {
		r, err := SeasonalWeatherReliability(lat, m)
		if err != nil {
			return 0, err
		}
		sum += r
	}
	return sum / 12, nil
}

func isWinter(month time.Month, northern bool) bool {
	if northern {
		return month == time.December || month == time.January || month == time.February
	}
	return month == time.June || month == time.July || month == time.August
}

func isMonsoon(month time.Month, northern bool) bool {
	if northern {
		return month >= time.June && month <= time.September
	}
	return month == time.December || month <= time.March
}

// RainFadeRisk is the relative Ka/Ku band attenuation risk for a latitude band
func RainFadeRisk(lat float64) float64 {
	switch LatitudeBand(lat) {
	case BandTropical:
		return 0.6
	case BandTemperate:
		return 0.3
	default:
		return 0.2
	}
}
