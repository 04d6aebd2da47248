// Command genmock generates a mock MetarJSON feed payload plus its parsed
// fixture for the test suites. It runs the generated payload through the
// actual domain package so the parsed output matches real service behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -stations KATL,KPDK,KFTY \
//	  -feed-out data/mock/metar_feed.json \
//	  -parsed-out data/mock/metar_parsed.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flightline/metar-cache-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

var observedAt = time.Date(2024, time.April, 26, 12, 0, 0, 0, time.UTC)

var flightCategories = []string{
	domain.FlightCategoryVFR,
	domain.FlightCategoryMVFR,
	domain.FlightCategoryIFR,
	domain.FlightCategoryLIFR,
}

var coverCodes = []string{"FEW", "SCT", "BKN", "OVC"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	stationsFlag := flag.String("stations", "KATL,KPDK,KFTY,KRYY,KLZU", "comma-separated station identifiers")
	feedOut := flag.String("feed-out", "", "output path for the raw MetarJSON feed fixture")
	parsedOut := flag.String("parsed-out", "", "output path for the parsed records fixture")
	seed := flag.Int64("seed", 1, "rng seed for reproducible payloads")
	flag.Parse()

	if *feedOut == "" || *parsedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -feed-out, -parsed-out")
	}

	stations := strings.Split(*stationsFlag, ",")
	for i := range stations {
		stations[i] = strings.ToUpper(strings.TrimSpace(stations[i]))
	}

	// Set a fixed clock for reproducible CreatedAt/UpdatedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 26, 12, 5, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewSource(*seed))

	payload, err := buildPayload(stations, rng)
	if err != nil {
		return fmt.Errorf("building payload: %w", err)
	}

	// Run the generated payload through the real parsing pipeline.
	features, err := domain.ParseFeed(payload)
	if err != nil {
		return fmt.Errorf("parsing generated payload: %w", err)
	}

	parsed := make([]domain.METAR, 0, len(features))
	for _, props := range features {
		m, err := domain.ParseMETAR(props)
		if err != nil {
			return fmt.Errorf("parsing generated feature: %w", err)
		}
		parsed = append(parsed, domain.Enrich(m))
	}

	if err := writeFile(*feedOut, payload); err != nil {
		return fmt.Errorf("writing feed fixture: %w", err)
	}
	log.Printf("wrote feed fixture: %s (%d features)", *feedOut, len(features))

	if err := writeJSON(*parsedOut, parsed); err != nil {
		return fmt.Errorf("writing parsed fixture: %w", err)
	}
	log.Printf("wrote parsed fixture: %s", *parsedOut)

	printStats(parsed)
	return nil
}

// buildPayload assembles a GeoJSON feature collection in the shape the
// aviationweather.gov bulk feed uses, one feature per station plus one
// unidentified placeholder feature that parsing must skip.
func buildPayload(stations []string, rng *rand.Rand) ([]byte, error) {
	type feature struct {
		Type       string         `json:"type"`
		ID         string         `json:"id,omitempty"`
		Properties map[string]any `json:"properties"`
	}

	features := make([]feature, 0, len(stations)+1)
	for i, icao := range stations {
		temp := -5.0 + rng.Float64()*35.0
		dewp := temp - rng.Float64()*10.0
		cat := flightCategories[rng.Intn(len(flightCategories))]

		props := map[string]any{
			"id":      icao,
			"site":    fmt.Sprintf("%s Airport", icao),
			"obsTime": observedAt.Format(time.RFC3339),
			"temp":    round1(temp),
			"dewp":    round1(dewp),
			"wspd":    float64(rng.Intn(25)),
			"wdir":    float64(rng.Intn(36) * 10),
			"visib":   "10+",
			"fltcat":  cat,
			"altim":   round1(990.0 + rng.Float64()*50.0),
			"elev":    float64(rng.Intn(500)),
			"rawOb": fmt.Sprintf("%s 261200Z AUTO %03d%02dKT 10SM %02d/%02d A3001",
				icao, rng.Intn(36)*10, rng.Intn(25), int(temp), int(dewp)),
		}

		// Roughly half the stations report a ceiling with cloud layers.
		if i%2 == 0 {
			props["ceil"] = float64(5 + rng.Intn(80))
			props["cover"] = coverCodes[2+rng.Intn(2)]
			props["cldCvg1"] = coverCodes[rng.Intn(len(coverCodes))]
			props["cldBas1"] = fmt.Sprintf("%d", 5+rng.Intn(30))
			props["cldCvg2"] = "OVC"
			props["cldBas2"] = fmt.Sprintf("%d", 40+rng.Intn(60))
		}

		features = append(features, feature{Type: "Feature", ID: icao + "-0", Properties: props})
	}

	// Placeholder feature without a feature-level id.
	features = append(features, feature{Type: "Feature", Properties: map[string]any{}})

	doc := map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func round1(v float64) float64 {
	return float64(int(v*10)) / 10
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return os.WriteFile(path, data, 0o600)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func printStats(parsed []domain.METAR) {
	catCounts := map[string]int{}
	var withCeiling, withHumidity int
	for i := range parsed {
		m := &parsed[i]
		catCounts[m.FlightCategory]++
		if m.Ceiling != nil {
			withCeiling++
		}
		if m.HumidityPercent != nil {
			withHumidity++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(parsed))
	fmt.Printf("By category: VFR=%d, MVFR=%d, IFR=%d, LIFR=%d\n",
		catCounts[domain.FlightCategoryVFR], catCounts[domain.FlightCategoryMVFR],
		catCounts[domain.FlightCategoryIFR], catCounts[domain.FlightCategoryLIFR])
	fmt.Printf("With ceiling: %d\n", withCeiling)
	fmt.Printf("With humidity: %d\n", withHumidity)
}
