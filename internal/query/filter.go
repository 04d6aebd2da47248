package query

import "github.com/flightline/metar-cache-service/internal/domain"

// attributeCopiers maps each recognized attribute name to a function copying
// that attribute from a source record into its reduced view. Adding an
// attribute is a table entry, not a new branch.
var attributeCopiers = map[string]func(dst, src *domain.METAR){
	"observed":         func(dst, src *domain.METAR) { dst.Observed = src.Observed },
	"raw_text":         func(dst, src *domain.METAR) { dst.RawText = src.RawText },
	"barometer":        func(dst, src *domain.METAR) { dst.Barometer = src.Barometer },
	"ceiling":          func(dst, src *domain.METAR) { dst.Ceiling = src.Ceiling },
	"clouds":           func(dst, src *domain.METAR) { dst.Clouds = src.Clouds },
	"dewpoint":         func(dst, src *domain.METAR) { dst.Dewpoint = src.Dewpoint },
	"elevation":        func(dst, src *domain.METAR) { dst.Elevation = src.Elevation },
	"flight_category":  func(dst, src *domain.METAR) { dst.FlightCategory = src.FlightCategory },
	"humidity_percent": func(dst, src *domain.METAR) { dst.HumidityPercent = src.HumidityPercent },
	"temperature":      func(dst, src *domain.METAR) { dst.Temperature = src.Temperature },
	"visibility":       func(dst, src *domain.METAR) { dst.Visibility = src.Visibility },
	"wind":             func(dst, src *domain.METAR) { dst.Wind = src.Wind },
}

// FilterAttributes reduces each record to the station identity plus the
// requested attributes. An empty or nil attribute list returns the input
// unchanged; unrecognized names are no-ops and contribute nothing beyond the
// identity already present. Output order matches input order and the
// operation is idempotent for a fixed attribute list.
func FilterAttributes(metars []domain.METAR, attributes []string) []domain.METAR {
	if len(attributes) == 0 {
		return metars
	}

	filtered := make([]domain.METAR, 0, len(metars))
	for idx := range metars {
		src := &metars[idx]
		reduced := domain.METAR{Icao: src.Icao}
		for _, name := range attributes {
			if copyAttr, ok := attributeCopiers[name]; ok {
				copyAttr(&reduced, src)
			}
		}
		filtered = append(filtered, reduced)
	}
	return filtered
}
