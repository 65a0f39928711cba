package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Interval is the [Start, End] window a sample is valid for.
type Interval struct {
	Start time.Time
	End   time.Time
}

// isoDurationPattern matches ISO 8601 durations such as "PT1H", "P1D", "P1DT6H", "PT30M".
var isoDurationPattern = regexp.MustCompile(
	`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`,
)

// startLayouts are tried in order; the zone-less form is read as UTC.
var startLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05"}

// ParseInterval splits "<start>/<duration>" into start and end instants.
// Returns false when the start instant cannot be parsed.
func ParseInterval(validTime string) (Interval, bool) {
	startText, durationText, _ := strings.Cut(strings.TrimSpace(validTime), "/")
	start, ok := parseStart(startText)
	if !ok {
		return Interval{}, false
	}
	return Interval{Start: start, End: addISODuration(start, durationText)}, true
}

func parseStart(s string) (time.Time, bool) {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// addISODuration returns start shifted by the duration, or start itself when
// the duration is absent, zero, or malformed.
func addISODuration(start time.Time, duration string) time.Time {
	duration = strings.ToUpper(strings.TrimSpace(duration))
	m := isoDurationPattern.FindStringSubmatch(duration)
	if m == nil || duration == "P" || strings.HasSuffix(duration, "T") {
		return start
	}
	years, months := atoi(m[1]), atoi(m[2])
	days := atoi(m[3])*7 + atoi(m[4])
	end := start.AddDate(years, months, days)
	end = end.Add(time.Duration(atoi(m[5])) * time.Hour)
	end = end.Add(time.Duration(atoi(m[6])) * time.Minute)
	if m[7] != "" {
		if secs, err := strconv.ParseFloat(m[7], 64); err == nil {
			end = end.Add(time.Duration(secs * float64(time.Second)))
		}
	}
	return end
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
