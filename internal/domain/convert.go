package domain

import "math"

const (
	inchesPerMillimetre = 0.0393701
	mphPerKmh           = 0.621371
)

// MMToInches converts millimetres to inches, rounded to 2 decimal places.
func MMToInches(mm float64) float64 {
	return roundTo(mm*inchesPerMillimetre, 2)
}

// CToF converts Celsius to Fahrenheit, rounded to 1 decimal place.
func CToF(c float64) float64 {
	return roundTo(c*9/5+32, 1)
}

// KmhToMph converts km/h to mph, rounded to 1 decimal place.
func KmhToMph(kmh float64) float64 {
	return roundTo(kmh*mphPerKmh, 1)
}

// roundTo rounds half up (toward +Inf), so -2.25 becomes -2.2 at one place.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}

func convertOptional(v *float64, fn func(float64) float64) *float64 {
	if v == nil {
		return nil
	}
	return ptr(fn(*v))
}

func roundPercent(v *float64) *int {
	if v == nil {
		return nil
	}
	return ptr(int(math.Floor(*v + 0.5)))
}

// nonZero maps a zero amount to nil for display.
func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return ptr(v)
}
