package stats

// DefaultCountry is the lookup key used when a country is not in the table
const DefaultCountry = "default"

type CountryEconomics struct {
	GDPPerCapita  float64 `json:"gdpPerCapita"`
	InfraIndex    float64 `json:"infraIndex"`
	DigitalIndex  float64 `json:"digitalIndex"`
	GrowthRatePct float64 `json:"growthRatePct"`
}

var countryEconomics = map[string]CountryEconomics{
	"United States":        {GDPPerCapita: 76300, InfraIndex: 87, DigitalIndex: 89, GrowthRatePct: 2.5},
	"Canada":               {GDPPerCapita: 53200, InfraIndex: 82, DigitalIndex: 84, GrowthRatePct: 1.1},
	"United Kingdom":       {GDPPerCapita: 48900, InfraIndex: 85, DigitalIndex: 88, GrowthRatePct: 0.5},
	"Germany":              {GDPPerCapita: 52700, InfraIndex: 88, DigitalIndex: 84, GrowthRatePct: -0.3},
	"France":               {GDPPerCapita: 46300, InfraIndex: 86, DigitalIndex: 82, GrowthRatePct: 0.9},
	"Norway":               {GDPPerCapita: 87900, InfraIndex: 89, DigitalIndex: 90, GrowthRatePct: 0.5},
	"Sweden":               {GDPPerCapita: 56300, InfraIndex: 87, DigitalIndex: 91, GrowthRatePct: -0.2},
	"Ireland":              {GDPPerCapita: 103700, InfraIndex: 80, DigitalIndex: 86, GrowthRatePct: -3.2},
	"Netherlands":          {GDPPerCapita: 61800, InfraIndex: 90, DigitalIndex: 92, GrowthRatePct: 0.1},
	"Japan":                {GDPPerCapita: 33800, InfraIndex: 91, DigitalIndex: 83, GrowthRatePct: 1.9},
	"South Korea":          {GDPPerCapita: 33100, InfraIndex: 89, DigitalIndex: 92, GrowthRatePct: 1.4},
	"Singapore":            {GDPPerCapita: 84700, InfraIndex: 95, DigitalIndex: 95, GrowthRatePct: 1.1},
	"Australia":            {GDPPerCapita: 64700, InfraIndex: 80, DigitalIndex: 85, GrowthRatePct: 2.0},
	"New Zealand":          {GDPPerCapita: 48500, InfraIndex: 76, DigitalIndex: 83, GrowthRatePct: 0.6},
	"United Arab Emirates": {GDPPerCapita: 52900, InfraIndex: 86, DigitalIndex: 87, GrowthRatePct: 3.4},
	"Saudi Arabia":         {GDPPerCapita: 30400, InfraIndex: 72, DigitalIndex: 74, GrowthRatePct: -0.8},
	"China":                {GDPPerCapita: 12600, InfraIndex: 78, DigitalIndex: 76, GrowthRatePct: 5.2},
	"India":                {GDPPerCapita: 2500, InfraIndex: 58, DigitalIndex: 61, GrowthRatePct: 7.8},
	"Indonesia":            {GDPPerCapita: 4900, InfraIndex: 55, DigitalIndex: 57, GrowthRatePct: 5.0},
	"Malaysia":             {GDPPerCapita: 11600, InfraIndex: 70, DigitalIndex: 72, GrowthRatePct: 3.7},
	"Brazil":               {GDPPerCapita: 10000, InfraIndex: 55, DigitalIndex: 62, GrowthRatePct: 2.9},
	"Chile":                {GDPPerCapita: 17100, InfraIndex: 66, DigitalIndex: 70, GrowthRatePct: 0.2},
	"Mexico":               {GDPPerCapita: 13900, InfraIndex: 58, DigitalIndex: 60, GrowthRatePct: 3.2},
	"South Africa":         {GDPPerCapita: 6200, InfraIndex: 55, DigitalIndex: 58, GrowthRatePct: 0.6},
	"Kenya":                {GDPPerCapita: 2000, InfraIndex: 42, DigitalIndex: 50, GrowthRatePct: 5.6},
	"Nigeria":              {GDPPerCapita: 1600, InfraIndex: 35, DigitalIndex: 41, GrowthRatePct: 2.9},
	"Iceland":              {GDPPerCapita: 78800, InfraIndex: 79, DigitalIndex: 88, GrowthRatePct: 4.1},
	DefaultCountry:         {GDPPerCapita: 15000, InfraIndex: 50, DigitalIndex: 50, GrowthRatePct: 2.0},
}

// LookupCountryEconomics returns the indicators for country, or the default
// entry when the country is unknown. It never fails.
func LookupCountryEconomics(country string) CountryEconomics {
	if e, ok := countryEconomics[country]; ok {
		return e
	}
	return countryEconomics[DefaultCountry]
}

// HasCountry reports whether the table has a specific (non-default) entry
func HasCountry(country string) bool {
	if country == DefaultCountry {
		return false
	}
	_, ok := countryEconomics[country]
	return ok
}

// Countries returns every country key except the default entry
func Countries() []string {
	out := make([]string, 0, len(countryEconomics)-1)
	for k := range countryEconomics {
		if k != DefaultCountry {
			out = append(out, k)
		}
	}
	return out
}
