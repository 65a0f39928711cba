package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Gridpoint identifies one NWS forecast grid cell.
type Gridpoint struct {
	Office string `json:"office"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// CacheKey derives the cache key for the raw gridpoint payload.
func (g Gridpoint) CacheKey() string {
	return fmt.Sprintf("noaa:gridpoint:v1:%s:%d,%d", strings.ToUpper(g.Office), g.X, g.Y)
}

func (g Gridpoint) String() string {
	return fmt.Sprintf("%s/%d,%d", g.Office, g.X, g.Y)
}

// RawSample is one element of an upstream parameter series. Value decodes to
// nil, a float64, or a string.
type RawSample struct {
	ValidTime string `json:"validTime"`
	Value     any    `json:"value"`
}

// Series is one named upstream parameter block.
type Series struct {
	UOM    string      `json:"uom,omitempty"`
	Values []RawSample `json:"values"`
}

// GridpointProperties holds the fixed set of parameter series the pipeline consumes.
type GridpointProperties struct {
	SnowfallAmount             Series `json:"snowfallAmount"`
	QuantitativePrecipitation  Series `json:"quantitativePrecipitation"`
	ProbabilityOfPrecipitation Series `json:"probabilityOfPrecipitation"`
	Temperature                Series `json:"temperature"`
	WindSpeed                  Series `json:"windSpeed"`
	WindGust                   Series `json:"windGust"`
	SkyCover                   Series `json:"skyCover"`
}

// GridpointResponse is the subset of the NWS gridpoint document used here.
type GridpointResponse struct {
	Properties GridpointProperties `json:"properties"`
}

// DecodeGridpoint parses a raw gridpoint payload.
func DecodeGridpoint(payload []byte) (GridpointResponse, error) {
	var resp GridpointResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return GridpointResponse{}, fmt.Errorf("decode gridpoint: %w", err)
	}
	return resp, nil
}
