package detect

import (
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/internal/serving"
)

// FaceModel is one detected face on the wire. Embedding is transport-encoded,
// never a raw numeric array.
type FaceModel struct {
	Score       float64              `json:"score"`
	BoundingBox detector.BoundingBox `json:"boundingBox"`
	KeyPoints   []detector.Point     `json:"keyPoints"`
	Sex         string               `json:"sex"`
	Age         int                  `json:"age"`
	Embedding   string               `json:"embedding"`
}

// RequestEcho mirrors back what the service understood about the upload.
type RequestEcho struct {
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	FileSha1    string `json:"fileSha1"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
}

// DetectionResult carries the face list plus optional per-stage timings.
// Timing fields are emitted only when DETECT_TIMINGS_ENABLED.
type DetectionResult struct {
	HashTimeInNanoseconds      *int64      `json:"hashTimeInNanoseconds,omitempty"`
	DecodeTimeInNanoseconds    *int64      `json:"decodeTimeInNanoseconds,omitempty"`
	DetectionTimeInNanoseconds *int64      `json:"detectionTimeInNanoseconds,omitempty"`
	Faces                      []FaceModel `json:"faces"`
}

type DetectResponse struct {
	Service            serving.Service `json:"service"`
	TimeInMilliseconds int64           `json:"timeInMilliseconds"`
	Request            RequestEcho     `json:"request"`
	Response           DetectionResult `json:"response"`
}

// cachedDetection is the cache value keyed by file SHA-1. The request echo
// and timestamp are rebuilt per request; only the detection work is reused.
type cachedDetection struct {
	ImageWidth  int         `json:"imageWidth"`
	ImageHeight int         `json:"imageHeight"`
	Faces       []FaceModel `json:"faces"`
}
