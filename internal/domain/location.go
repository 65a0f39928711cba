package domain

// ForecastLocation is one forecast site and its NWS grid cell.
type ForecastLocation struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	Gridpoint   Gridpoint `json:"gridpoint"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	// TimeZone is an IANA name. Empty means resolve from Lat/Lon.
	TimeZone string `json:"timeZone,omitempty"`
}

var forecastLocations = []ForecastLocation{
	{
		ID:          "bachelor",
		Label:       "Mt. Bachelor",
		Title:       "Mt. Bachelor snow forecast",
		Description: "A quick, visual snowfall outlook for Mt. Bachelor in Bend, Oregon",
		State:       "OR",
		Gridpoint:   Gridpoint{Office: "PDT", X: 23, Y: 39},
		Lat:         43.9792,
		Lon:         -121.6886,
		TimeZone:    "America/Los_Angeles",
	},
	{
		ID:          "caribou-kcar",
		Label:       "Caribou",
		Title:       "Caribou snow forecast",
		Description: "A quick, visual snowfall outlook for Caribou Municipal Airport in Maine",
		State:       "ME",
		Gridpoint:   Gridpoint{Office: "CAR", X: 71, Y: 163},
		Lat:         46.8715,
		Lon:         -68.0179,
		TimeZone:    "America/New_York",
	},
}

// ForecastLocations returns a copy of the site catalog.
func ForecastLocations() []ForecastLocation {
	out := make([]ForecastLocation, len(forecastLocations))
	copy(out, forecastLocations)
	return out
}

// FindLocation returns the site with the given id.
func FindLocation(id string) (ForecastLocation, bool) {
	for _, loc := range forecastLocations {
		if loc.ID == id {
			return loc, true
		}
	}
	return ForecastLocation{}, false
}

// LookupLocation returns the site with the given id, falling back to the first
// site for empty or unknown ids.
func LookupLocation(id string) ForecastLocation {
	if loc, ok := FindLocation(id); ok {
		return loc
	}
	return forecastLocations[0]
}

// LocationsForState returns the sites in a state, in catalog order.
func LocationsForState(state string) []ForecastLocation {
	var out []ForecastLocation
	for _, loc := range forecastLocations {
		if loc.State == state {
			out = append(out, loc)
		}
	}
	return out
}

// ForecastStates lists the states with at least one site, without duplicates.
func ForecastStates() []string {
	seen := make(map[string]bool, len(forecastLocations))
	var out []string
	for _, loc := range forecastLocations {
		if !seen[loc.State] {
			seen[loc.State] = true
			out = append(out, loc.State)
		}
	}
	return out
}
