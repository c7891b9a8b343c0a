package memcache_fx

import (
	"go.uber.org/fx"

	"tabiplan/pkg/memcache"
)

var Module = fx.Provide(
	providePlanCache)

func providePlanCache() memcache.GeneratedPlanCache {
	return memcache.NewPlanCache()
}
