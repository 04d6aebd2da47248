// Package domain models aviation routine weather reports (METARs).
//
// # Data Source
//
// Observations come from the aviationweather.gov bulk MetarJSON endpoint,
// a GeoJSON FeatureCollection with one feature per reporting station. Each
// feature carries a flat property bag; the service scans a fixed bounding box
// (by default the Atlanta sectional chart) and keeps only the latest
// observation per station.
//
// # Feed Conventions
//
// Property names are terse and heterogeneous:
//
//	id       ICAO station code, e.g. "KATL" (also the cache identity)
//	site     station long name, e.g. "Atlanta/Hartsfield I"
//	obsTime  observation time as an RFC 3339 string, stored verbatim
//	temp     temperature in fractional Celsius, rounded to whole degrees
//	dewp     dewpoint in fractional Celsius, rounded to whole degrees
//	wspd     sustained wind speed in knots (wdir: direction in degrees true)
//	ceil     ceiling height in feet (cover: the cover code reported with it)
//	cldCvgN  cover code for sky-condition layer N, N in 1..9
//	cldBasN  base of layer N as a quoted number in hundreds of feet AGL,
//	         so "7" means 700 ft; multiplied by 100 during parsing
//	visib    visibility in statute miles; may be a number (2.50) or a
//	         qualified string ("10+"), preserved verbatim either way
//	fltcat   flight category (VFR, MVFR, IFR, LIFR), passed through
//	altim    altimeter setting in millibars
//	elev     station elevation in meters MSL
//	rawOb    the raw METAR text, stored verbatim
//
// Features without a feature-level id carry no observation and are skipped.
// A feature whose properties are malformed fails individually and never
// aborts the rest of the batch.
//
// # Derived Fields
//
// [Enrich] computes relative humidity from the temperature/dewpoint spread
// (Magnus approximation) and renders the altimeter setting in inHg and kPa
// alongside the feed's millibar value.
package domain
