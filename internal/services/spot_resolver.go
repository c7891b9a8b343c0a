package services

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"tabiplan/internal/models/db_models"
)

// Match thresholds used by the two resolution contexts. Spots the user
// picked by hand get the lenient threshold (typos are common); spots the
// planning model invented get the strict one.
const (
	PendingMatchThreshold   = 0.7
	GeneratedMatchThreshold = 0.8
)

// SpotIndex maps candidate names onto catalog entries. Keys are the exact
// spot name plus "name (area)" when the spot has an area. Insertion order
// is recorded so that substring matching iterates deterministically instead
// of depending on map iteration order.
type SpotIndex struct {
	keys  []string
	spots map[string]db_models.Spot
}

func (idx SpotIndex) Len() int { return len(idx.keys) }

// BuildSpotIndex indexes the catalog subset by name. Later entries with a
// colliding key overwrite earlier ones; the catalog is externally curated,
// so collisions mean a duplicate row, not a bug here.
func BuildSpotIndex(catalog []db_models.Spot) SpotIndex {
	idx := SpotIndex{spots: make(map[string]db_models.Spot, len(catalog)*2)}

	add := func(key string, spot db_models.Spot) {
		if _, exists := idx.spots[key]; !exists {
			idx.keys = append(idx.keys, key)
		}
		idx.spots[key] = spot
	}

	for _, spot := range catalog {
		if spot.Name == "" {
			continue
		}
		add(spot.Name, spot)
		if spot.Area != "" {
			add(spot.Name+" ("+spot.Area+")", spot)
		}
	}
	return idx
}

// MatchSpot resolves a free-text candidate name against the index.
// Exact match wins outright; then substring containment in either
// direction; then the best fuzzy ratio at or above threshold. The fuzzy
// pass compares case-normalized names with the area suffix stripped.
func MatchSpot(name string, idx SpotIndex, threshold float64) (db_models.Spot, float64, bool) {
	if name == "" {
		return db_models.Spot{}, 0, false
	}

	if spot, ok := idx.spots[name]; ok {
		return spot, 1.0, true
	}

	for _, key := range idx.keys {
		if strings.Contains(key, name) || strings.Contains(name, key) {
			return idx.spots[key], 0.9, true
		}
	}

	nameLower := strings.ToLower(name)
	var best db_models.Spot
	bestScore := 0.0
	found := false

	for _, key := range idx.keys {
		clean := key
		if i := strings.Index(key, " ("); i >= 0 {
			clean = key[:i]
		}
		score := float64(fuzzy.Ratio(nameLower, strings.ToLower(clean))) / 100
		if score > bestScore && score >= threshold {
			bestScore = score
			best = idx.spots[key]
			found = true
		}
	}

	if !found {
		return db_models.Spot{}, 0, false
	}
	return best, bestScore, true
}
