package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

type Coordinate struct {
	Lat float64
	Lng float64
}

// IsZero reports whether the coordinate is missing or never geocoded.
// Catalog rows without geocoding store exact zeros.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0.0 || c.Lng == 0.0
}

type RouteRequest struct {
	Coordinates []Coordinate
	Profile     string
}

type RouteResult struct {
	DistanceKm      float64
	DurationMinutes float64
	Geometry        []Coordinate
	Source          string
}

const (
	RouteSourceOSRM    = "osrm"
	RouteSourceGoogle  = "google_maps"
	RouteSourceDefault = "default"

	// Leg cost used whenever no provider can answer.
	DefaultLegMinutes = 20

	// Width of the batch worker pool.
	DefaultRouteConcurrency = 10

	routeCacheTTL    = time.Hour
	routeCallTimeout = 5 * time.Second
)

// DefaultRouteResult is the sentinel returned for unroutable or failed legs.
func DefaultRouteResult() RouteResult {
	return RouteResult{
		DistanceKm:      0,
		DurationMinutes: DefaultLegMinutes,
		Source:          RouteSourceDefault,
	}
}

type RouteServiceInterface interface {
	GetRoute(ctx context.Context, coords []Coordinate, profile string) (RouteResult, error)
	GetRoutesBatch(ctx context.Context, requests []RouteRequest, maxConcurrency int) []RouteResult
}

// --------- In-memory route cache (per pair of rounded coords + profile) ---------

type routeCacheEntry struct {
	Result    RouteResult
	ExpiresAt time.Time
}

type routeCache struct {
	mu    sync.RWMutex
	store map[string]routeCacheEntry
}

func newRouteCache() *routeCache {
	return &routeCache{store: make(map[string]routeCacheEntry)}
}

func (c *routeCache) Get(key string) (RouteResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[key]
	if !ok || time.Now().After(it.ExpiresAt) {
		return RouteResult{}, false
	}
	return it.Result, true
}

func (c *routeCache) Set(key string, v RouteResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = routeCacheEntry{Result: v, ExpiresAt: time.Now().Add(ttl)}
}

// cacheKey rounds coordinates to six decimals so near-identical points
// share an entry regardless of float noise upstream.
func cacheKey(coords []Coordinate, profile string) string {
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts, fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng))
	}
	return profile + ":" + strings.Join(parts, ";")
}

// -------------- Route service (OSRM primary, Google Maps secondary) ---------------

type RouteService struct {
	HTTP          *http.Client
	OSRMBaseURL   string
	GoogleBaseURL string
	GoogleAPIKey  string
	Cache         *routeCache
	TTL           time.Duration
}

func NewRouteService() *RouteService {
	return &RouteService{
		HTTP:          &http.Client{Timeout: routeCallTimeout},
		OSRMBaseURL:   "https://router.project-osrm.org",
		GoogleBaseURL: "https://maps.googleapis.com",
		GoogleAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		Cache:         newRouteCache(),
		TTL:           routeCacheTTL,
	}
}

// GetRoute resolves one route. Unroutable input degrades to the default
// sentinel rather than an error; the only error case is fewer than two
// coordinates, which is a caller bug rather than a data-quality problem.
func (s *RouteService) GetRoute(ctx context.Context, coords []Coordinate, profile string) (RouteResult, error) {
	if len(coords) < 2 {
		return RouteResult{}, fmt.Errorf("route needs at least 2 coordinates, got %d", len(coords))
	}
	if profile == "" {
		profile = "driving"
	}

	for _, c := range coords {
		if c.IsZero() {
			// Unresolved geocoding; skip the network entirely.
			return DefaultRouteResult(), nil
		}
	}

	key := cacheKey(coords, profile)
	if cached, ok := s.Cache.Get(key); ok {
		return cached, nil
	}

	if result, err := s.fetchFromOSRM(ctx, coords, profile); err == nil {
		s.Cache.Set(key, result, s.TTL)
		return result, nil
	} else {
		log.Printf("OSRM route error: %v", err)
	}

	if len(coords) == 2 && s.GoogleAPIKey != "" {
		if result, err := s.fetchFromGoogleMaps(ctx, coords[0], coords[1], profile); err == nil {
			s.Cache.Set(key, result, s.TTL)
			return result, nil
		} else {
			log.Printf("Google Maps route error: %v", err)
		}
	}

	// Both providers failed. The sentinel reflects a transient outage, not
	// a fact about the route, so it is never cached.
	return DefaultRouteResult(), nil
}

// GetRoutesBatch resolves many routes through a bounded worker pool.
// It always returns len(requests) results, index-aligned with the input;
// failures and panics degrade to the default sentinel per slot.
func (s *RouteService) GetRoutesBatch(ctx context.Context, requests []RouteRequest, maxConcurrency int) []RouteResult {
	if len(requests) == 0 {
		return []RouteResult{}
	}
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultRouteConcurrency
	}

	results := make([]RouteResult, len(requests))
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, req RouteRequest) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("route batch worker %d panicked: %v", i, r)
					results[i] = DefaultRouteResult()
				}
			}()

			result, err := s.GetRoute(ctx, req.Coordinates, req.Profile)
			if err != nil {
				log.Printf("route batch request %d failed: %v", i, err)
				results[i] = DefaultRouteResult()
				return
			}
			results[i] = result
		}(i, req)
	}

	wg.Wait()
	return results
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Legs []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

func (s *RouteService) fetchFromOSRM(ctx context.Context, coords []Coordinate, profile string) (RouteResult, error) {
	// OSRM wants lng,lat pairs.
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts, fmt.Sprintf("%f,%f", c.Lng, c.Lat))
	}

	u := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		s.OSRMBaseURL, url.PathEscape(profile), strings.Join(parts, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return RouteResult{}, err
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return RouteResult{}, fmt.Errorf("osrm http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RouteResult{}, fmt.Errorf("osrm bad status: %s", resp.Status)
	}

	var payload osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return RouteResult{}, fmt.Errorf("osrm decode: %w", err)
	}
	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return RouteResult{}, fmt.Errorf("osrm returned no usable route (code=%q)", payload.Code)
	}

	route := payload.Routes[0]

	var distanceMeters, durationSeconds float64
	for _, leg := range route.Legs {
		distanceMeters += leg.Distance
		durationSeconds += leg.Duration
	}

	geometry := make([]Coordinate, 0, len(route.Geometry.Coordinates))
	for _, pair := range route.Geometry.Coordinates {
		if len(pair) >= 2 {
			geometry = append(geometry, Coordinate{Lat: pair[1], Lng: pair[0]})
		}
	}

	return RouteResult{
		DistanceKm:      distanceMeters / 1000,
		DurationMinutes: durationSeconds / 60,
		Geometry:        geometry,
		Source:          RouteSourceOSRM,
	}, nil
}

type googleDirectionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

func (s *RouteService) fetchFromGoogleMaps(ctx context.Context, origin, dest Coordinate, mode string) (RouteResult, error) {
	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	q.Set("destination", fmt.Sprintf("%f,%f", dest.Lat, dest.Lng))
	q.Set("mode", mode)
	q.Set("language", "ja")
	q.Set("key", s.GoogleAPIKey)

	u := s.GoogleBaseURL + "/maps/api/directions/json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return RouteResult{}, err
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return RouteResult{}, fmt.Errorf("google maps http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RouteResult{}, fmt.Errorf("google maps bad status: %s", resp.Status)
	}

	var payload googleDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return RouteResult{}, fmt.Errorf("google maps decode: %w", err)
	}
	if payload.Status != "OK" || len(payload.Routes) == 0 || len(payload.Routes[0].Legs) == 0 {
		return RouteResult{}, fmt.Errorf("google maps returned no usable route (status=%q)", payload.Status)
	}

	leg := payload.Routes[0].Legs[0]
	return RouteResult{
		DistanceKm:      leg.Distance.Value / 1000,
		DurationMinutes: leg.Duration.Value / 60,
		Source:          RouteSourceGoogle,
	}, nil
}
