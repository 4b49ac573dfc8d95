package recognize

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/internal/refstore"
)

var (
	once      sync.Once
	handlerV1 *HandlerV1
)

type Handler interface {
	PostRecognize(c *gin.Context)
}

func GetHandler(version int8) Handler {
	switch version {
	case 1:
		return InitV1()
	default:
		return nil
	}
}

// SetMockRecognizeHandler builds the handler with an explicit store and
// ranking parameters. This would be handy in places where we want a handler
// over a small synthetic reference table.
func SetMockRecognizeHandler(store refstore.Store, adapter *detector.Adapter,
	appName string, threshold float64, topK int) *HandlerV1 {
	once.Do(func() {})
	handlerV1 = &HandlerV1{
		store:     store,
		adapter:   adapter,
		appName:   appName,
		threshold: threshold,
		topK:      topK,
	}
	return handlerV1
}
