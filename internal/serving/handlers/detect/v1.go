package detect

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/visagelab/visage/internal/codec"
	"github.com/visagelab/visage/internal/config"
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/internal/imaging"
	"github.com/visagelab/visage/internal/serving"
	"github.com/visagelab/visage/pkg/inmemorycache"
	"github.com/visagelab/visage/pkg/metric"
)

const (
	detectPath    = "/detect"
	fileFormField = "file"
)

type HandlerV1 struct {
	adapter        *detector.Adapter
	cache          *cacheAdapter
	appName        string
	timingsEnabled bool
}

func InitV1() Handler {
	if handlerV1 == nil {
		once.Do(func() {
			configs := config.GetAppConfig().Configs
			var cache *cacheAdapter
			if configs.DetectCacheEnabled {
				cache = newCacheAdapter(inmemorycache.Instance(), configs.DetectCacheTTLInSeconds)
			}
			handlerV1 = &HandlerV1{
				adapter:        detector.Instance(),
				cache:          cache,
				appName:        configs.AppName,
				timingsEnabled: configs.DetectTimingsEnabled,
			}
		})
	}
	return handlerV1
}

// PostDetect handles one uploaded file: hash it, decode it by declared
// content type, run detection, and echo the request back with the face list.
func (h *HandlerV1) PostDetect(c *gin.Context) {
	startTime := time.Now()
	tags := metric.BuildTag(metric.NewTag(metric.TagPath, detectPath))
	metric.Incr("detect_request", tags)

	fileHeader, err := c.FormFile(fileFormField)
	if err != nil {
		fileHeader = nil
	}
	if isValid, msg := validateDetectRequest(fileHeader); !isValid {
		metric.Incr("detect_request_4xx", tags)
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		metric.Incr("detect_request_5xx", tags)
		log.Error().Msgf("Detect request failed: could not open upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		metric.Incr("detect_request_5xx", tags)
		log.Error().Msgf("Detect request failed: could not read upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}

	hashStart := time.Now()
	digest := sha1.Sum(data)
	fileSha1 := hex.EncodeToString(digest[:])
	hashTime := time.Since(hashStart).Nanoseconds()

	contentType := fileHeader.Header.Get("Content-Type")

	result, echo, err := h.detect(c, contentType, data, fileSha1)
	if err != nil {
		h.writeError(c, err, contentType, tags)
		return
	}
	if h.timingsEnabled {
		result.HashTimeInNanoseconds = &hashTime
	}
	echo.FileName = fileHeader.Filename
	echo.FileSize = fileHeader.Size
	echo.FileSha1 = fileSha1

	metric.Timing("detect_latency", time.Since(startTime), tags)
	metric.Gauge("detect_faces_count", float64(len(result.Faces)), tags)
	c.JSON(http.StatusOK, DetectResponse{
		Service:            serving.BuildService(c.Request.Context(), h.appName, h.adapter),
		TimeInMilliseconds: serving.NowInMilliseconds(),
		Request:            echo,
		Response:           result,
	})
}

// detect resolves the face list for the upload, from cache when possible.
// Cached entries skip decode and model work entirely; their timing fields
// stay unset.
func (h *HandlerV1) detect(c *gin.Context, contentType string, data []byte, fileSha1 string) (DetectionResult, RequestEcho, error) {
	if cached, ok := h.cache.get(fileSha1); ok {
		return DetectionResult{Faces: cached.Faces},
			RequestEcho{ImageWidth: cached.ImageWidth, ImageHeight: cached.ImageHeight}, nil
	}

	decodeStart := time.Now()
	img, err := imaging.Decode(contentType, data)
	if err != nil {
		return DetectionResult{}, RequestEcho{}, err
	}
	decodeTime := time.Since(decodeStart).Nanoseconds()

	detectStart := time.Now()
	faces, err := h.adapter.Detect(c.Request.Context(), img)
	if err != nil {
		return DetectionResult{}, RequestEcho{}, err
	}
	detectTime := time.Since(detectStart).Nanoseconds()

	bounds := img.Bounds()
	models := adaptFaces(faces)
	h.cache.put(fileSha1, &cachedDetection{
		ImageWidth:  bounds.Dx(),
		ImageHeight: bounds.Dy(),
		Faces:       models,
	})

	result := DetectionResult{Faces: models}
	if h.timingsEnabled {
		result.DecodeTimeInNanoseconds = &decodeTime
		result.DetectionTimeInNanoseconds = &detectTime
	}
	return result, RequestEcho{ImageWidth: bounds.Dx(), ImageHeight: bounds.Dy()}, nil
}

func (h *HandlerV1) writeError(c *gin.Context, err error, contentType string, tags []string) {
	switch {
	case errors.Is(err, imaging.ErrUnsupportedMediaType):
		metric.Incr("detect_request_4xx", tags)
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported media type: " + contentType})
	case errors.Is(err, imaging.ErrMalformedImage):
		metric.Incr("detect_request_4xx", tags)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not decode image"})
	default:
		metric.Incr("detect_request_5xx", tags)
		log.Error().Msgf("Detect request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "detection failed"})
	}
}

func adaptFaces(faces []detector.Face) []FaceModel {
	models := make([]FaceModel, 0, len(faces))
	for _, face := range faces {
		models = append(models, FaceModel{
			Score:       face.Score,
			BoundingBox: face.BoundingBox,
			KeyPoints:   face.KeyPoints,
			Sex:         face.Sex,
			Age:         face.Age,
			Embedding:   codec.Encode(face.Embedding),
		})
	}
	return models
}
