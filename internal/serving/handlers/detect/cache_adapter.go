package detect

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/visagelab/visage/pkg/inmemorycache"
	"github.com/visagelab/visage/pkg/metric"
)

// cacheAdapter fronts the in-memory cache for detection results. Keys are the
// upload's SHA-1 hex digest, so identical bytes never hit the model twice
// within the TTL window.
type cacheAdapter struct {
	cache       inmemorycache.InMemoryCache
	ttlInSec    int
	metricsTags []string
}

func newCacheAdapter(cache inmemorycache.InMemoryCache, ttlInSec int) *cacheAdapter {
	return &cacheAdapter{
		cache:       cache,
		ttlInSec:    ttlInSec,
		metricsTags: metric.BuildTag(metric.NewTag(metric.TagPath, detectPath)),
	}
}

func (a *cacheAdapter) get(fileSha1 string) (*cachedDetection, bool) {
	if a == nil {
		return nil, false
	}
	raw, err := a.cache.Get([]byte(fileSha1))
	if err != nil || raw == nil {
		metric.Incr("detect_cache_miss", a.metricsTags)
		return nil, false
	}
	var entry cachedDetection
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Error().Msgf("Detect cache entry for %s is corrupt: %v", fileSha1, err)
		a.cache.Delete([]byte(fileSha1))
		return nil, false
	}
	metric.Incr("detect_cache_hit", a.metricsTags)
	return &entry, true
}

func (a *cacheAdapter) put(fileSha1 string, entry *cachedDetection) {
	if a == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		log.Error().Msgf("Failed to serialize detect cache entry for %s: %v", fileSha1, err)
		return
	}
	if err := a.cache.SetEx([]byte(fileSha1), raw, a.ttlInSec); err != nil {
		log.Error().Msgf("Failed to cache detect result for %s: %v", fileSha1, err)
	}
}
