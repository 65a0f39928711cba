package domain

import "time"

// AlignedGrid holds every parameter resampled onto the anchor timeline. Each
// value slice has exactly len(Anchor) elements, index-aligned with Anchor.
type AlignedGrid struct {
	Anchor []Interval

	Snow        []*float64 // mm
	Precip      []*float64 // mm
	Probability []*float64 // percent
	Temperature []*float64 // °C
	Wind        []*float64 // km/h
	Gust        []*float64 // km/h
	Cloud       []*float64 // percent

	// SkippedSamples counts samples dropped for an unparsable interval start.
	SkippedSamples int
}

type parsedSample struct {
	interval Interval
	value    *float64
}

// Align picks the anchor series (snowfall, else temperature, else probability
// of precipitation) and projects the remaining series onto its timeline,
// nearest-filling their gaps. The anchor keeps its own values as sampled.
// An empty anchor yields an empty grid.
func Align(props GridpointProperties) AlignedGrid {
	var grid AlignedGrid
	parse := func(s Series) []parsedSample {
		parsed, skipped := parseSeries(s.Values)
		grid.SkippedSamples += skipped
		return parsed
	}

	snow := parse(props.SnowfallAmount)
	precip := parse(props.QuantitativePrecipitation)
	prob := parse(props.ProbabilityOfPrecipitation)
	temp := parse(props.Temperature)
	wind := parse(props.WindSpeed)
	gust := parse(props.WindGust)
	cloud := parse(props.SkyCover)

	candidates := [][]parsedSample{snow, temp, prob}
	anchorIdx := selectAnchor(candidates...)
	if anchorIdx < 0 {
		return grid
	}
	anchor := candidates[anchorIdx]

	grid.Anchor = make([]Interval, len(anchor))
	starts := make([]time.Time, len(anchor))
	for i, s := range anchor {
		grid.Anchor[i] = s.interval
		starts[i] = s.interval.Start
	}

	resample := func(samples []parsedSample, isAnchor bool) []*float64 {
		projected := projectByStart(starts, samples)
		if isAnchor {
			return projected
		}
		return FillNearest(starts, projected)
	}

	grid.Snow = resample(snow, anchorIdx == 0)
	grid.Temperature = resample(temp, anchorIdx == 1)
	grid.Probability = resample(prob, anchorIdx == 2)
	grid.Precip = resample(precip, false)
	grid.Wind = resample(wind, false)
	grid.Gust = resample(gust, false)
	grid.Cloud = resample(cloud, false)
	return grid
}

func parseSeries(samples []RawSample) ([]parsedSample, int) {
	parsed := make([]parsedSample, 0, len(samples))
	skipped := 0
	for _, s := range samples {
		interval, ok := ParseInterval(s.ValidTime)
		if !ok {
			skipped++
			continue
		}
		parsed = append(parsed, parsedSample{interval: interval, value: ParseNumber(s.Value)})
	}
	return parsed, skipped
}

// selectAnchor returns the index of the first non-empty candidate, or -1.
func selectAnchor(candidates ...[]parsedSample) int {
	for i, c := range candidates {
		if len(c) > 0 {
			return i
		}
	}
	return -1
}

// projectByStart looks up each anchor start in the series. Later samples with
// a duplicate start overwrite earlier ones.
func projectByStart(starts []time.Time, samples []parsedSample) []*float64 {
	byStart := make(map[int64]*float64, len(samples))
	for _, s := range samples {
		byStart[s.interval.Start.UnixNano()] = s.value
	}
	out := make([]*float64, len(starts))
	for i, t := range starts {
		out[i] = byStart[t.UnixNano()]
	}
	return out
}

// FillNearest replaces each nil with the closest known value by wall-clock
// distance. Equal distances prefer the earlier value. Runs in a single pass
// over precomputed previous/next known indices.
func FillNearest(times []time.Time, values []*float64) []*float64 {
	n := len(values)
	out := make([]*float64, n)
	if n == 0 {
		return out
	}

	prev := make([]int, n)
	last := -1
	for i := 0; i < n; i++ {
		if values[i] != nil {
			last = i
		}
		prev[i] = last
	}

	next := make([]int, n)
	last = -1
	for i := n - 1; i >= 0; i-- {
		if values[i] != nil {
			last = i
		}
		next[i] = last
	}

	for i := 0; i < n; i++ {
		if values[i] != nil {
			out[i] = values[i]
			continue
		}
		p, q := prev[i], next[i]
		switch {
		case p < 0 && q < 0:
			out[i] = nil
		case p < 0:
			out[i] = values[q]
		case q < 0:
			out[i] = values[p]
		case times[i].Sub(times[p]) <= times[q].Sub(times[i]):
			out[i] = values[p]
		default:
			out[i] = values[q]
		}
	}
	return out
}
