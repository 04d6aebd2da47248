package domain

import "time"

// METAR is the normalized observation record for a single station. Every
// optional group is a pointer (or nil slice) so that an absent feed field is
// distinguishable from a valid zero value downstream.
type METAR struct {
	Icao            string       `json:"icao"`
	Name            string       `json:"name,omitempty"`
	Observed        string       `json:"observed"`
	RawText         string       `json:"raw_text"`
	Temperature     *Temperature `json:"temperature,omitempty"`
	Dewpoint        *Dewpoint    `json:"dewpoint,omitempty"`
	Wind            *Wind        `json:"wind,omitempty"`
	Ceiling         *Ceiling     `json:"ceiling,omitempty"`
	Clouds          []Cloud      `json:"clouds,omitempty"`
	Visibility      *Visibility  `json:"visibility,omitempty"`
	FlightCategory  string       `json:"flight_category,omitempty"`
	Barometer       *Barometer   `json:"barometer,omitempty"`
	Elevation       *Elevation   `json:"elevation,omitempty"`
	HumidityPercent *int         `json:"humidity_percent,omitempty"`

	// Cache bookkeeping, never sourced from the feed.
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Temperature in whole degrees Celsius, rounded from the feed's fractional value.
type Temperature struct {
	Celsius int `json:"celsius"`
}

// Dewpoint in whole degrees Celsius, rounded from the feed's fractional value.
type Dewpoint struct {
	Celsius int `json:"celsius"`
}

// Wind holds sustained speed in knots and direction in degrees true.
type Wind struct {
	SpeedKt int `json:"speed_kt"`
	Degrees int `json:"degrees"`
}

// Ceiling is the lowest broken or overcast layer: height in feet plus the
// cover code reported with it.
type Ceiling struct {
	Feet float64 `json:"feet"`
	Code string  `json:"code"`
}

// Cloud is a single sky-condition layer. BaseFeetAGL is nil when the feed
// reports a cover code without a base height for that layer.
type Cloud struct {
	Code        string   `json:"code"`
	BaseFeetAGL *float64 `json:"base_feet_agl,omitempty"`
}

// Visibility preserves the feed value verbatim. The feed mixes plain numbers
// with qualified strings such as "10+", so no unit conversion is attempted.
type Visibility struct {
	Miles string `json:"miles"`
}

// Barometer holds the altimeter setting. Mb comes from the feed; Hg and Kpa
// are derived during enrichment.
type Barometer struct {
	Mb  float64 `json:"mb"`
	Hg  float64 `json:"hg,omitempty"`
	Kpa float64 `json:"kpa,omitempty"`
}

// Elevation is the station elevation above mean sea level.
type Elevation struct {
	Meters float64 `json:"meters"`
}

// FlightCategory values as reported by the feed. Passed through unvalidated;
// listed here for reference only.
const (
	FlightCategoryVFR  = "VFR"
	FlightCategoryMVFR = "MVFR"
	FlightCategoryIFR  = "IFR"
	FlightCategoryLIFR = "LIFR"
)
