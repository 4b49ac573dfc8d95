package meta

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/visagelab/visage/internal/detector"
)

var (
	once      sync.Once
	handlerV1 HandlerV1
)

type Handler interface {
	GetRoot(c *gin.Context)
}

func GetHandler(version int8) Handler {
	switch version {
	case 1:
		return InitV1()
	default:
		return nil
	}
}

// SetMockMetaHandler builds the handler with an explicit adapter.
// This would be handy in places where we want a handler over a stubbed session.
func SetMockMetaHandler(adapter *detector.Adapter, appName string) *HandlerV1 {
	once.Do(func() {})
	handlerV1 = HandlerV1{adapter: adapter, appName: appName}
	return &handlerV1
}
