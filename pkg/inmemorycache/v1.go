package inmemorycache

import (
	"time"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/visagelab/visage/pkg/metric"
)

const (
	metricUpdateInterval     = 1 * time.Minute
	infiniteExpiry           = -1
	inMemoryCacheSizeInBytes = "IN_MEMORY_CACHE_SIZE_IN_BYTES"

	HitRate       = "in_memory_cache_hit_rate"
	ItemCount     = "in_memory_cache_item_count"
	EvacuateCount = "in_memory_cache_evacuate_count"
	ExpiryCount   = "in_memory_cache_expiry_count"
)

type V1 struct {
	cacheName  string
	sizeInMb   int
	inMemCache *freecache.Cache
}

func newV1InMemoryCache(cName string) InMemoryCache {
	if !viper.IsSet(inMemoryCacheSizeInBytes) {
		log.Panic().Msgf("env::IN_MEMORY_CACHE_SIZE_IN_BYTES is not set !!")
	}
	sizeInBytes := viper.GetInt(inMemoryCacheSizeInBytes)

	v1InMemoryCache := &V1{
		cacheName:  cName,
		sizeInMb:   sizeInBytes / (1024 * 1024),
		inMemCache: freecache.NewCache(sizeInBytes),
	}

	go v1InMemoryCache.publishMetric()
	return v1InMemoryCache
}

func newV1InMemoryCacheWithConf(cName string, sizeInMb int) InMemoryCache {
	if sizeInMb <= 0 {
		log.Panic().Msgf("cache size must be positive, got %d MB", sizeInMb)
	}
	v1InMemoryCache := &V1{
		cacheName:  cName,
		sizeInMb:   sizeInMb,
		inMemCache: freecache.NewCache(sizeInMb * 1024 * 1024),
	}
	go v1InMemoryCache.publishMetric()
	return v1InMemoryCache
}

// SizeInMb returns the cache size in megabytes
func (imc *V1) SizeInMb() int {
	return imc.sizeInMb
}

func (imc *V1) Get(key []byte) ([]byte, error) {
	return imc.inMemCache.Get(key)
}

func (imc *V1) Set(key, value []byte) error {
	return imc.inMemCache.Set(key, value, infiniteExpiry)
}

func (imc *V1) SetEx(key, value []byte, expiryInSec int) error {
	return imc.inMemCache.Set(key, value, expiryInSec)
}

func (imc *V1) Delete(key []byte) bool {
	return imc.inMemCache.Del(key)
}

// publishMetric publishes the in-memory-cache metrics every 1 min, configured by metricUpdateInterval
func (imc *V1) publishMetric() {
	ticker := time.NewTicker(metricUpdateInterval)
	cacheMetricTags := metric.BuildTag(metric.NewTag("cache_name", imc.cacheName))
	defer ticker.Stop()
	for range ticker.C {
		metric.Gauge(HitRate, imc.inMemCache.HitRate(), cacheMetricTags)
		metric.Gauge(ItemCount, float64(imc.inMemCache.EntryCount()), cacheMetricTags)
		metric.Gauge(EvacuateCount, float64(imc.inMemCache.EvacuateCount()), cacheMetricTags)
		metric.Gauge(ExpiryCount, float64(imc.inMemCache.ExpiredCount()), cacheMetricTags)
	}
}
