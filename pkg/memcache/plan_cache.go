package memcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"tabiplan/internal/models/request_models"
)

// GeneratedPlanCache keeps recently generated candidate lists so identical
// requests skip the planning model. Identical request parameters yield the
// same key; schedule recomputation still runs per request because catalog
// contents and route costs can change underneath the cache.
type GeneratedPlanCache interface {
	Get(key string) ([]request_models.CandidateSpot, bool)
	Set(key string, spots []request_models.CandidateSpot, ttl time.Duration)
}

type planCacheEntry struct {
	spots     []request_models.CandidateSpot
	expiresAt time.Time
}

type PlanCache struct {
	mu   sync.RWMutex
	data map[string]planCacheEntry
}

func NewPlanCache() *PlanCache {
	return &PlanCache{
		data: make(map[string]planCacheEntry),
	}
}

func (s *PlanCache) Get(key string) ([]request_models.CandidateSpot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.spots, true
}

func (s *PlanCache) Set(key string, spots []request_models.CandidateSpot, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = planCacheEntry{
		spots:     spots,
		expiresAt: time.Now().Add(ttl),
	}
}

// RequestKey derives a stable cache key from the parameters that influence
// generation. Pending spots are included because they shape the prompt.
func RequestKey(req request_models.PlanGenerateRequest) string {
	payload, _ := json.Marshal(struct {
		Destination    string                         `json:"destination"`
		Days           int                            `json:"days"`
		Themes         []string                       `json:"themes"`
		Budget         float64                        `json:"budget"`
		PendingSpots   []request_models.CandidateSpot `json:"pendingSpots"`
		Preferences    string                         `json:"preferences"`
		StartTime      string                         `json:"startTime"`
		EndTime        string                         `json:"endTime"`
		Transportation string                         `json:"transportation"`
	}{
		Destination:    req.Destination,
		Days:           req.Days,
		Themes:         req.Themes,
		Budget:         req.Budget,
		PendingSpots:   req.PendingSpots,
		Preferences:    req.Preferences,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Transportation: req.Transportation,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
