package domain

import "math"

// Unit conversions for the altimeter setting.
const (
	inHgPerMillibar = 0.0295299830714
	kpaPerMillibar  = 0.1
)

// Magnus approximation coefficients, valid for -45C..60C.
const (
	magnusA = 17.625
	magnusB = 243.04
)

// Enrich fills the derived fields of a parsed METAR: relative humidity from
// the temperature/dewpoint spread and the inHg/kPa renderings of the
// altimeter setting. Fields whose inputs are absent stay absent.
func Enrich(m METAR) METAR {
	if m.Temperature != nil && m.Dewpoint != nil {
		h := relativeHumidity(float64(m.Temperature.Celsius), float64(m.Dewpoint.Celsius))
		m.HumidityPercent = &h
	}

	if m.Barometer != nil {
		m.Barometer.Hg = roundTo(m.Barometer.Mb*inHgPerMillibar, 2)
		m.Barometer.Kpa = roundTo(m.Barometer.Mb*kpaPerMillibar, 2)
	}

	return m
}

// relativeHumidity computes RH in percent from temperature and dewpoint in
// Celsius using the Magnus formula, clamped to 0..100.
func relativeHumidity(tempC, dewpC float64) int {
	num := math.Exp(magnusA * dewpC / (magnusB + dewpC))
	den := math.Exp(magnusA * tempC / (magnusB + tempC))
	rh := int(math.Round(100 * num / den))
	if rh > 100 {
		return 100
	}
	if rh < 0 {
		return 0
	}
	return rh
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
