// Package domain turns National Weather Service (NWS) gridpoint forecasts into
// an ordered sequence of forecast windows and the warning ranges derived from them.
//
// # Data Source
//
// Raw data comes from the NWS gridpoint endpoint, one document per forecast
// office grid cell: https://api.weather.gov/gridpoints/{office}/{x},{y}. Each
// document carries independently-sampled parameter series (snowfallAmount,
// quantitativePrecipitation, probabilityOfPrecipitation, temperature,
// windSpeed, windGust, skyCover), each a list of {validTime, value} samples.
//
// # NWS Data Conventions
//
// Interval notation:
//
//	"<start>/<ISO 8601 duration>"  →  e.g. "2024-01-15T18:00:00+00:00/PT6H"
//	means a six hour window starting at 18:00 UTC.
//	A missing or unparsable duration collapses the window to its start instant.
//	An unparsable start drops the sample; neighbours are filled in later.
//
// Units (as emitted upstream):
//
//	snowfallAmount, quantitativePrecipitation: millimetres
//	temperature: degrees Celsius
//	windSpeed, windGust: km/h
//	probabilityOfPrecipitation, skyCover: percent
//
// Value encoding:
//
//	Usually a JSON number or null. Some grids emit range strings such as
//	"10,20"; the point estimate is the mean of the first two bounds.
//
// # Alignment
//
// Series do not share a grid. The snowfall series is the anchor timeline when
// present, then temperature, then probability of precipitation. Every other
// series is projected onto the anchor by exact start match. Probability,
// temperature, wind, gust and sky cover are then gap-filled with the nearest
// known neighbour (ties go to the earlier value). Snow and precipitation
// amounts are never filled: a missing amount means nothing measurable.
//
// # Warnings
//
// Rain and wind warnings are contiguous runs of qualifying windows, capped at
// 24 hours from their own start, then merged when a later run ends within 24
// hours of an earlier run's start. Rain ranges totalling 0.04 in or less are
// dropped. See [SegmentWarnings].
package domain
