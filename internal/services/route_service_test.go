package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osrmOKBody = `{
	"code": "Ok",
	"routes": [{
		"geometry": {"coordinates": [[130.5571, 31.5966], [130.6586, 31.5809]]},
		"legs": [{"distance": 12000, "duration": 1800}]
	}]
}`

const googleOKBody = `{
	"status": "OK",
	"routes": [{
		"legs": [{"distance": {"value": 15000}, "duration": {"value": 2400}}]
	}]
}`

func newTestRouteService(osrmURL, googleURL, googleKey string) *RouteService {
	return &RouteService{
		HTTP:          &http.Client{Timeout: time.Second},
		OSRMBaseURL:   osrmURL,
		GoogleBaseURL: googleURL,
		GoogleAPIKey:  googleKey,
		Cache:         newRouteCache(),
		TTL:           time.Hour,
	}
}

func routePair() []Coordinate {
	return []Coordinate{
		{Lat: 31.5966, Lng: 130.5571},
		{Lat: 31.5809, Lng: 130.6586},
	}
}

func TestGetRouteNeedsTwoCoordinates(t *testing.T) {
	svc := newTestRouteService("http://unused", "http://unused", "")

	_, err := svc.GetRoute(context.Background(), []Coordinate{{Lat: 1, Lng: 1}}, "driving")
	assert.Error(t, err)
}

func TestGetRouteZeroCoordinateSkipsNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, osrmOKBody)
	}))
	defer server.Close()

	svc := newTestRouteService(server.URL, server.URL, "key")

	result, err := svc.GetRoute(context.Background(), []Coordinate{
		{Lat: 31.59, Lng: 130.55},
		{Lat: 0, Lng: 0},
	}, "driving")
	require.NoError(t, err)

	assert.Equal(t, RouteSourceDefault, result.Source)
	assert.Equal(t, float64(DefaultLegMinutes), result.DurationMinutes)
	assert.Equal(t, 0.0, result.DistanceKm)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestGetRouteOSRMPrimary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, osrmOKBody)
	}))
	defer server.Close()

	svc := newTestRouteService(server.URL, "http://unused", "")

	result, err := svc.GetRoute(context.Background(), routePair(), "driving")
	require.NoError(t, err)

	assert.Equal(t, RouteSourceOSRM, result.Source)
	assert.InDelta(t, 12.0, result.DistanceKm, 0.001)
	assert.InDelta(t, 30.0, result.DurationMinutes, 0.001)
	require.Len(t, result.Geometry, 2)
	// GeoJSON pairs come back lng,lat and must be swapped.
	assert.InDelta(t, 31.5966, result.Geometry[0].Lat, 0.0001)
	assert.InDelta(t, 130.5571, result.Geometry[0].Lng, 0.0001)
}

func TestGetRouteCacheHit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, osrmOKBody)
	}))
	defer server.Close()

	svc := newTestRouteService(server.URL, "http://unused", "")

	first, err := svc.GetRoute(context.Background(), routePair(), "driving")
	require.NoError(t, err)
	second, err := svc.GetRoute(context.Background(), routePair(), "driving")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetRouteProfileSeparatesCacheEntries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, osrmOKBody)
	}))
	defer server.Close()

	svc := newTestRouteService(server.URL, "http://unused", "")

	_, err := svc.GetRoute(context.Background(), routePair(), "driving")
	require.NoError(t, err)
	_, err = svc.GetRoute(context.Background(), routePair(), "walking")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetRouteFallsBackToGoogle(t *testing.T) {
	osrm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer osrm.Close()

	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		fmt.Fprint(w, googleOKBody)
	}))
	defer google.Close()

	svc := newTestRouteService(osrm.URL, google.URL, "secret")

	result, err := svc.GetRoute(context.Background(), routePair(), "driving")
	require.NoError(t, err)

	assert.Equal(t, RouteSourceGoogle, result.Source)
	assert.InDelta(t, 15.0, result.DistanceKm, 0.001)
	assert.InDelta(t, 40.0, result.DurationMinutes, 0.001)
}

func TestGetRouteBothProvidersFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	svc := newTestRouteService(failing.URL, failing.URL, "key")

	result, err := svc.GetRoute(context.Background(), routePair(), "driving")
	require.NoError(t, err)
	assert.Equal(t, RouteSourceDefault, result.Source)
	assert.Equal(t, float64(DefaultLegMinutes), result.DurationMinutes)
}

func TestGetRouteFailureNotCached(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, osrmOKBody)
	}))
	defer server.Close()

	svc := newTestRouteService(server.URL, "http://unused", "")

	first, err := svc.GetRoute(context.Background(), routePair(), "driving")
	require.NoError(t, err)
	assert.Equal(t, RouteSourceDefault, first.Source)

	// The default sentinel must not poison the cache; the retry reaches the
	// provider and succeeds.
	second, err := svc.GetRoute(context.Background(), routePair(), "driving")
	require.NoError(t, err)
	assert.Equal(t, RouteSourceOSRM, second.Source)
}

func TestGetRoutesBatchOrderAndDegradation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, osrmOKBody)
	}))
	defer server.Close()

	svc := newTestRouteService(server.URL, "http://unused", "")

	requests := []RouteRequest{
		{Coordinates: routePair(), Profile: "driving"},
		{Coordinates: []Coordinate{{Lat: 1, Lng: 1}, {Lat: 0, Lng: 0}}, Profile: "driving"},
		{Coordinates: []Coordinate{{Lat: 1, Lng: 1}}, Profile: "driving"},
		{Coordinates: routePair(), Profile: "driving"},
	}

	results := svc.GetRoutesBatch(context.Background(), requests, 2)
	require.Len(t, results, len(requests))

	assert.Equal(t, RouteSourceOSRM, results[0].Source)
	assert.Equal(t, RouteSourceDefault, results[1].Source)
	// Too few coordinates degrades to the sentinel instead of failing the batch.
	assert.Equal(t, RouteSourceDefault, results[2].Source)
	assert.Equal(t, RouteSourceOSRM, results[3].Source)
}

// unstableTransport panics mid-request when it sees the marker
// coordinate and otherwise answers like a healthy OSRM server.
type unstableTransport struct {
	marker string
}

func (u *unstableTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if strings.Contains(r.URL.String(), u.marker) {
		panic("transport failure for " + r.URL.String())
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(osrmOKBody)),
		Header:     make(http.Header),
		Request:    r,
	}, nil
}

func TestGetRoutesBatchRecoversFromPanic(t *testing.T) {
	svc := newTestRouteService("http://osrm.test", "http://unused", "")
	svc.HTTP = &http.Client{Transport: &unstableTransport{marker: "99.000000"}}

	requests := []RouteRequest{
		{Coordinates: routePair(), Profile: "driving"},
		{Coordinates: []Coordinate{{Lat: 99, Lng: 99}, {Lat: 98, Lng: 98}}, Profile: "driving"},
		{Coordinates: routePair(), Profile: "driving"},
	}

	results := svc.GetRoutesBatch(context.Background(), requests, len(requests))
	require.Len(t, results, len(requests))

	// A worker blowing up degrades its own slot to the sentinel and
	// leaves the neighbors untouched.
	assert.Equal(t, RouteSourceOSRM, results[0].Source)
	assert.Equal(t, RouteSourceDefault, results[1].Source)
	assert.Equal(t, float64(DefaultLegMinutes), results[1].DurationMinutes)
	assert.Equal(t, RouteSourceOSRM, results[2].Source)
}

func TestGetRoutesBatchEmpty(t *testing.T) {
	svc := newTestRouteService("http://unused", "http://unused", "")

	results := svc.GetRoutesBatch(context.Background(), nil, 10)
	assert.Empty(t, results)
}

func TestRouteCacheTTLExpiry(t *testing.T) {
	cache := newRouteCache()
	cache.Set("k", RouteResult{Source: RouteSourceOSRM}, -time.Second)

	_, ok := cache.Get("k")
	assert.False(t, ok)
}
