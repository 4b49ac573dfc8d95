package meta

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/visagelab/visage/internal/config"
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/internal/serving"
)

type HandlerV1 struct {
	adapter *detector.Adapter
	appName string
}

func InitV1() Handler {
	if (HandlerV1{}) == handlerV1 {
		once.Do(func() {
			handlerV1 = HandlerV1{
				adapter: detector.Instance(),
				appName: config.GetAppConfig().Configs.AppName,
			}
		})
	}
	return &handlerV1
}

// GetRoot serves the metadata endpoint. No side effects, always 200.
func (h *HandlerV1) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Service:            serving.BuildService(c.Request.Context(), h.appName, h.adapter),
		TimeInMilliseconds: serving.NowInMilliseconds(),
	})
}
