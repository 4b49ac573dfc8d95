package detect

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/pkg/inmemorycache"
)

var (
	once      sync.Once
	handlerV1 *HandlerV1
)

type Handler interface {
	PostDetect(c *gin.Context)
}

func GetHandler(version int8) Handler {
	switch version {
	case 1:
		return InitV1()
	default:
		return nil
	}
}

// SetMockDetectHandler builds the handler with explicit collaborators.
// This would be handy in places where we want a handler over a stubbed
// session or cache.
func SetMockDetectHandler(adapter *detector.Adapter, cache inmemorycache.InMemoryCache,
	ttlInSec int, appName string, timingsEnabled bool) *HandlerV1 {
	once.Do(func() {})
	var adaptor *cacheAdapter
	if cache != nil {
		adaptor = newCacheAdapter(cache, ttlInSec)
	}
	handlerV1 = &HandlerV1{
		adapter:        adapter,
		cache:          adaptor,
		appName:        appName,
		timingsEnabled: timingsEnabled,
	}
	return handlerV1
}
