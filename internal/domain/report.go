package domain

import "time"

// Report is the pipeline output for one forecast site.
type Report struct {
	ID              string           `json:"id"`
	Location        ForecastLocation `json:"location"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Points          []ForecastPoint  `json:"points"`
	Warnings        []WarningRange   `json:"warnings"`
	WarningDetails  []WarningDetail  `json:"warningDetails"`
	BluebirdWindows []BluebirdWindow `json:"bluebirdWindows"`
}
