package recognize

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/visagelab/visage/internal/codec"
	"github.com/visagelab/visage/internal/config"
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/internal/ranker"
	"github.com/visagelab/visage/internal/refstore"
	"github.com/visagelab/visage/internal/serving"
	"github.com/visagelab/visage/pkg/metric"
)

const recognizePath = "/recognize"

type HandlerV1 struct {
	store     refstore.Store
	adapter   *detector.Adapter
	appName   string
	threshold float64
	topK      int
}

func InitV1() Handler {
	if handlerV1 == nil {
		once.Do(func() {
			configs := config.GetAppConfig().Configs
			handlerV1 = &HandlerV1{
				store:     refstore.Instance(),
				adapter:   detector.Instance(),
				appName:   configs.AppName,
				threshold: configs.RecognizeThreshold,
				topK:      configs.RecognizeTopK,
			}
		})
	}
	return handlerV1
}

// PostRecognize ranks one query embedding against the reference corpus.
func (h *HandlerV1) PostRecognize(c *gin.Context) {
	startTime := time.Now()
	tags := metric.BuildTag(metric.NewTag(metric.TagPath, recognizePath))
	metric.Incr("recognize_request", tags)

	var request RecognizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		metric.Incr("recognize_request_4xx", tags)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if isValid, msg := validateRecognizeRequest(&request); !isValid {
		metric.Incr("recognize_request_4xx", tags)
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	query, err := codec.Decode(request.Embedding)
	if err != nil {
		metric.Incr("recognize_request_4xx", tags)
		log.Debug().Msgf("Recognize request failed: %v", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed embedding"})
		return
	}

	matches, err := ranker.Rank(h.store, query, h.threshold, h.topK)
	if err != nil {
		if errors.Is(err, ranker.ErrDimensionMismatch) {
			metric.Incr("recognize_request_4xx", tags)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		metric.Incr("recognize_request_5xx", tags)
		log.Error().Msgf("Recognize request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recognition failed"})
		return
	}

	metric.Timing("recognize_latency", time.Since(startTime), tags)
	c.JSON(http.StatusOK, RecognizeResponse{
		Service:            serving.BuildService(c.Request.Context(), h.appName, h.adapter),
		TimeInMilliseconds: serving.NowInMilliseconds(),
		Actors:             adaptMatches(matches),
	})
}

func adaptMatches(matches []ranker.Match) []ActorModel {
	actors := make([]ActorModel, 0, len(matches))
	for _, match := range matches {
		actors = append(actors, ActorModel{
			Similarity: detector.Round4(match.Similarity),
			Names:      match.Metadata.Names,
			Fanza:      match.Metadata.Fanza,
		})
	}
	return actors
}
