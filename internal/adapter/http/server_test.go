package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/flightline/metar-cache-service/internal/adapter/http"
	"github.com/flightline/metar-cache-service/internal/domain"
	"github.com/flightline/metar-cache-service/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockResolver struct {
	metars []domain.METAR
	err    error
	lastID string
}

func (m *mockResolver) Resolve(_ context.Context, id string) ([]domain.METAR, error) {
	m.lastID = id
	return m.metars, m.err
}

type mockUpdater struct {
	calls int
	err   error
}

func (m *mockUpdater) RunCycle(context.Context) error {
	m.calls++
	return m.err
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(context.Context) error { return m.err }

func newTestServer(resolver *mockResolver, updater *mockUpdater, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", resolver, updater, &mockReadiness{err: readyErr}, slog.Default())
}

func doRequest(srv *httpadapter.Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func katlMETAR() domain.METAR {
	return domain.METAR{
		Icao:        "KATL",
		Observed:    "2022-02-27T16:04:00Z",
		RawText:     "KATL 271604Z 12004KT",
		Temperature: &domain.Temperature{Celsius: 9},
		Wind:        &domain.Wind{SpeedKt: 4, Degrees: 120},
	}
}

// --- tests ---

func TestMetarReturnsRecords(t *testing.T) {
	resolver := &mockResolver{metars: []domain.METAR{katlMETAR()}}
	srv := newTestServer(resolver, &mockUpdater{}, nil)

	rec := doRequest(srv, http.MethodGet, "/weather/metars/KATL")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "KATL", resolver.lastID)

	var body []domain.METAR
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "KATL", body[0].Icao)
	require.NotNil(t, body[0].Temperature)
	assert.Equal(t, 9, body[0].Temperature.Celsius)
}

func TestMetarAppliesDataFilter(t *testing.T) {
	resolver := &mockResolver{metars: []domain.METAR{katlMETAR()}}
	srv := newTestServer(resolver, &mockUpdater{}, nil)

	rec := doRequest(srv, http.MethodGet, "/weather/metars/KATL?data=temperature")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body []domain.METAR
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "KATL", body[0].Icao)
	assert.NotNil(t, body[0].Temperature)
	assert.Nil(t, body[0].Wind)
	assert.Empty(t, body[0].RawText)
}

func TestMetarAcceptsRepeatedAndCommaSeparatedData(t *testing.T) {
	resolver := &mockResolver{metars: []domain.METAR{katlMETAR()}}
	srv := newTestServer(resolver, &mockUpdater{}, nil)

	rec := doRequest(srv, http.MethodGet, "/weather/metars/KATL?data=temperature,wind&data=raw_text")

	var body []domain.METAR
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.NotNil(t, body[0].Temperature)
	assert.NotNil(t, body[0].Wind)
	assert.NotEmpty(t, body[0].RawText)
}

func TestMetarInvalidStationReturns400(t *testing.T) {
	resolver := &mockResolver{err: fmt.Errorf("%w: %q", query.ErrInvalidStation, "KXYZ")}
	srv := newTestServer(resolver, &mockUpdater{}, nil)

	rec := doRequest(srv, http.MethodGet, "/weather/metars/KXYZ")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "KXYZ")
	assert.Contains(t, body["error"], "not on the Atlanta sectional chart")
}

func TestMetarUncachedStationReturns404(t *testing.T) {
	resolver := &mockResolver{err: fmt.Errorf("%w for KPDK", query.ErrNoObservation)}
	srv := newTestServer(resolver, &mockUpdater{}, nil)

	rec := doRequest(srv, http.MethodGet, "/weather/metars/KPDK")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateRunsOneCycle(t *testing.T) {
	updater := &mockUpdater{}
	srv := newTestServer(&mockResolver{}, updater, nil)

	rec := doRequest(srv, http.MethodPost, "/weather/update")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, updater.calls)
	assert.Empty(t, rec.Body.String())
}

func TestUpdateFailureStillReturns204(t *testing.T) {
	updater := &mockUpdater{err: errors.New("feed unreachable")}
	srv := newTestServer(&mockResolver{}, updater, nil)

	rec := doRequest(srv, http.MethodPost, "/weather/update")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockResolver{}, &mockUpdater{}, nil)

	rec := doRequest(srv, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReflectsIngestorState(t *testing.T) {
	srv := newTestServer(&mockResolver{}, &mockUpdater{}, nil)
	rec := doRequest(srv, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	srv = newTestServer(&mockResolver{}, &mockUpdater{}, errors.New("no cycle yet"))
	rec = doRequest(srv, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockResolver{}, &mockUpdater{}, nil)

	rec := doRequest(srv, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
