// Package remote implements the inference session against an HTTP sidecar
// carrying the actual vision model. The wire format keeps the model opaque:
// the image travels as a npy uint8 array, faces come back as JSON with their
// embeddings in transport encoding.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"

	"github.com/visagelab/visage/internal/codec"
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/internal/npy"
	"github.com/visagelab/visage/pkg/httpclient"
)

const (
	// EnvPrefix scopes the sidecar connection settings, e.g.
	// INFERENCE_CLIENT_HOST and INFERENCE_CLIENT_TIMEOUT_IN_MS.
	EnvPrefix = "INFERENCE_CLIENT"

	inferPath    = "/infer"
	describePath = "/"
)

type Session struct {
	client *httpclient.HTTPClient

	describeOnce sync.Once
	description  detector.Description
	describeErr  error
}

func NewSession() *Session {
	return &Session{
		client: httpclient.NewConn(EnvPrefix),
	}
}

type wireFace struct {
	Score       float64              `json:"score"`
	BoundingBox detector.BoundingBox `json:"boundingBox"`
	KeyPoints   []detector.Point     `json:"keyPoints"`
	Sex         string               `json:"sex"`
	Age         int                  `json:"age"`
	Embedding   string               `json:"embedding"`
}

type inferResponse struct {
	Faces []wireFace `json:"faces"`
}

func (s *Session) Detect(ctx context.Context, img *image.RGBA) ([]detector.Face, error) {
	payload := npy.WriteImage(rgbaToPixels(img), img.Bounds().Dx(), img.Bounds().Dy())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.Endpoint+inferPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("inference engine returned %d: %s", resp.StatusCode, body)
	}

	var decoded inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding inference response: %w", err)
	}

	faces := make([]detector.Face, 0, len(decoded.Faces))
	for i, wf := range decoded.Faces {
		embedding, err := codec.Decode(wf.Embedding)
		if err != nil {
			return nil, fmt.Errorf("decoding face %d embedding: %w", i, err)
		}
		faces = append(faces, detector.Face{
			Score:       wf.Score,
			BoundingBox: wf.BoundingBox,
			KeyPoints:   wf.KeyPoints,
			Sex:         wf.Sex,
			Age:         wf.Age,
			Embedding:   embedding,
		})
	}
	return faces, nil
}

// Describe fetches the engine's self-description once and caches it; the
// engine's identity is fixed for its lifetime.
func (s *Session) Describe(ctx context.Context) (detector.Description, error) {
	s.describeOnce.Do(func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.Endpoint+describePath, nil)
		if err != nil {
			s.describeErr = err
			return
		}
		resp, err := s.client.Do(req)
		if err != nil {
			s.describeErr = err
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			s.describeErr = fmt.Errorf("inference engine returned %d", resp.StatusCode)
			return
		}
		s.describeErr = json.NewDecoder(resp.Body).Decode(&s.description)
	})
	return s.description, s.describeErr
}

// rgbaToPixels drops the alpha channel, yielding row-major (h, w, 3) bytes.
func rgbaToPixels(img *image.RGBA) []byte {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := make([]byte, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y) : img.PixOffset(bounds.Min.X, y)+width*4]
		for x := 0; x < width; x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}
