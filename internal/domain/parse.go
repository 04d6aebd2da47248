package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Feed property keys used by the aviationweather.gov MetarJSON payload.
const (
	propIcao           = "id"
	propSite           = "site"
	propObservedTime   = "obsTime"
	propTemperature    = "temp"
	propDewpoint       = "dewp"
	propWindSpeed      = "wspd"
	propWindDirection  = "wdir"
	propCeiling        = "ceil"
	propCover          = "cover"
	propCloudCover     = "cldCvg"
	propCloudBase      = "cldBas"
	propVisibility     = "visib"
	propFlightCategory = "fltcat"
	propAltimeter      = "altim"
	propElevation      = "elev"
	propRawObservation = "rawOb"
)

// maxCloudLayers bounds the cldCvgN/cldBasN index scan. The feed has never
// been observed to report more than six layers.
const maxCloudLayers = 9

// cloudBaseScale converts the feed's hundreds-of-feet cloud base encoding to
// feet AGL.
const cloudBaseScale = 100

// Feature is the property bag of one identified feature in the bulk payload.
type Feature map[string]json.RawMessage

type feedDocument struct {
	Features []feedFeature `json:"features"`
}

type feedFeature struct {
	// ID is the feed's internal feature identifier, not the station code.
	// Features without it are placeholders and carry no observation.
	ID         json.RawMessage `json:"id"`
	Properties Feature         `json:"properties"`
}

// ParseFeed decodes one bulk MetarJSON payload into the property bags of its
// identified features. Features without a feature-level id are silently
// skipped; a payload that is not JSON or lacks the features array is a
// structural failure and aborts the whole ingestion cycle.
func ParseFeed(payload []byte) ([]Feature, error) {
	var doc feedDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("parse feed payload: %w", err)
	}
	if doc.Features == nil {
		return nil, fmt.Errorf("parse feed payload: missing features array")
	}

	features := make([]Feature, 0, len(doc.Features))
	for _, f := range doc.Features {
		if len(f.ID) == 0 || f.Properties == nil {
			continue
		}
		features = append(features, f.Properties)
	}
	return features, nil
}

// ParseMETAR builds a METAR from one feature's property bag. The station code
// and observation time are mandatory; each optional group is populated only
// when its source field is present. Any malformed field fails the whole
// feature, which the caller drops without aborting the batch.
func ParseMETAR(props Feature) (METAR, error) {
	icao, err := requireString(props, propIcao)
	if err != nil {
		return METAR{}, err
	}
	observed, err := requireString(props, propObservedTime)
	if err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	}
	rawText, err := requireString(props, propRawObservation)
	if err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	}

	m := METAR{
		Icao:     strings.ToUpper(icao),
		Observed: observed,
		RawText:  rawText,
	}

	if name, ok, err := stringProp(props, propSite); err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	} else if ok {
		m.Name = name
	}

	if v, ok, err := floatProp(props, propTemperature); err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	} else if ok {
		m.Temperature = &Temperature{Celsius: int(math.Round(v))}
	}

	if v, ok, err := floatProp(props, propDewpoint); err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	} else if ok {
		m.Dewpoint = &Dewpoint{Celsius: int(math.Round(v))}
	}

	// Wind and ceiling are keyed on their lead field; the companion field is
	// then mandatory, so a half-reported group fails the feature.
	if spd, ok, err := floatProp(props, propWindSpeed); err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	} else if ok {
		dir, dirOK, err := floatProp(props, propWindDirection)
		if err != nil {
			return METAR{}, fmt.Errorf("station %s: %w", icao, err)
		}
		if !dirOK {
			return METAR{}, fmt.Errorf("station %s: missing required property %q", icao, propWindDirection)
		}
		m.Wind = &Wind{SpeedKt: int(spd), Degrees: int(dir)}
	}

	if ceil, ok, err := floatProp(props, propCeiling); err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	} else if ok {
		cover, err := requireString(props, propCover)
		if err != nil {
			return METAR{}, fmt.Errorf("station %s: %w", icao, err)
		}
		m.Ceiling = &Ceiling{Feet: ceil, Code: cover}
	}

	clouds, err := parseClouds(props)
	if err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	}
	m.Clouds = clouds

	if vis, ok, err := rawStringProp(props, propVisibility); err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	} else if ok {
		m.Visibility = &Visibility{Miles: vis}
	}

	if cat, ok, err := stringProp(props, propFlightCategory); err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	} else if ok {
		m.FlightCategory = cat
	}

	if altim, ok, err := floatProp(props, propAltimeter); err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	} else if ok {
		m.Barometer = &Barometer{Mb: altim}
	}

	if elev, ok, err := floatProp(props, propElevation); err != nil {
		return METAR{}, fmt.Errorf("station %s: %w", icao, err)
	} else if ok {
		m.Elevation = &Elevation{Meters: elev}
	}

	now := clock.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	return m, nil
}

// parseClouds scans layer indices 1..maxCloudLayers in ascending order. A
// missing index in the middle does not terminate the scan; the feed is
// allowed to leave gaps.
func parseClouds(props Feature) ([]Cloud, error) {
	var clouds []Cloud
	for i := 1; i <= maxCloudLayers; i++ {
		cover, ok, err := stringProp(props, propCloudCover+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		cloud := Cloud{Code: cover}
		if base, ok, err := floatProp(props, propCloudBase+strconv.Itoa(i)); err != nil {
			return nil, err
		} else if ok {
			feet := base * cloudBaseScale
			cloud.BaseFeetAGL = &feet
		}
		clouds = append(clouds, cloud)
	}
	return clouds, nil
}

// requireString returns the property as a string or an error when it is
// absent. Used for the fields a feature cannot be cached without.
func requireString(props Feature, key string) (string, error) {
	s, ok, err := stringProp(props, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("missing required property %q", key)
	}
	return s, nil
}

// stringProp decodes a property as a JSON string.
func stringProp(props Feature, key string) (string, bool, error) {
	raw, ok := props[key]
	if !ok {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, fmt.Errorf("property %q is not a string: %w", key, err)
	}
	return s, true, nil
}

// rawStringProp preserves a property's textual form: strings verbatim,
// numbers in their minimal decimal representation (2.50 -> "2.5").
func rawStringProp(props Feature, key string) (string, bool, error) {
	raw, ok := props[key]
	if !ok {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", false, fmt.Errorf("property %q is neither string nor number", key)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true, nil
}

// floatProp decodes a property as a number, accepting the feed's habit of
// quoting numeric values ("7" for a cloud base).
func floatProp(props Feature, key string) (float64, bool, error) {
	raw, ok := props[key]
	if !ok {
		return 0, false, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false, fmt.Errorf("property %q is not numeric", key)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false, fmt.Errorf("property %q is not numeric: %w", key, err)
	}
	return f, true, nil
}
