package detector

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"
	"time"
)

// Adapter wraps the inference session with the service-owned concerns: tile
// padding of undersized inputs, a single-slot gate around the session, a
// bounded per-call timeout, and rounding of coordinates before they leave
// the service boundary.
type Adapter struct {
	session  Session
	tileSize int
	timeout  time.Duration

	// the session keeps mutable internal state across calls
	mu sync.Mutex
}

func NewAdapter(session Session, tileSize int, timeout time.Duration) *Adapter {
	return &Adapter{
		session:  session,
		tileSize: tileSize,
		timeout:  timeout,
	}
}

// Detect runs one detection pass. Inputs smaller than the model tile in both
// dimensions are embedded at the origin of a zero-filled tile-size canvas;
// upscaling would degrade accuracy, padding does not.
func (a *Adapter) Detect(ctx context.Context, img *image.RGBA) ([]Face, error) {
	img = a.pad(img)

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	a.mu.Lock()
	faces, err := a.session.Detect(ctx, img)
	a.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}

	for i := range faces {
		roundFace(&faces[i])
	}
	return faces, nil
}

// Describe reports the underlying engine's identity. Reads no session state
// that detection mutates, so it skips the gate.
func (a *Adapter) Describe(ctx context.Context) (Description, error) {
	return a.session.Describe(ctx)
}

func (a *Adapter) pad(img *image.RGBA) *image.RGBA {
	bounds := img.Bounds()
	if bounds.Dx() >= a.tileSize || bounds.Dy() >= a.tileSize {
		return img
	}
	canvas := image.NewRGBA(image.Rect(0, 0, a.tileSize, a.tileSize))
	draw.Draw(canvas, bounds.Sub(bounds.Min), img, bounds.Min, draw.Src)
	return canvas
}

// roundFace trims transport precision: 2 decimals for pixel coordinates,
// 4 for the detection score.
func roundFace(face *Face) {
	face.Score = Round4(face.Score)
	face.BoundingBox.X1 = Round2(face.BoundingBox.X1)
	face.BoundingBox.Y1 = Round2(face.BoundingBox.Y1)
	face.BoundingBox.X2 = Round2(face.BoundingBox.X2)
	face.BoundingBox.Y2 = Round2(face.BoundingBox.Y2)
	for i := range face.KeyPoints {
		face.KeyPoints[i].X = Round2(face.KeyPoints[i].X)
		face.KeyPoints[i].Y = Round2(face.KeyPoints[i].Y)
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
