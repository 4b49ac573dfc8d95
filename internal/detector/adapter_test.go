package detector

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdapterPadding(t *testing.T) {
	t.Run("undersized input lands on a zero canvas at the origin", func(t *testing.T) {
		session := new(MockSession)
		var seen *image.RGBA
		session.On("Detect", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			seen = args.Get(1).(*image.RGBA)
		}).Return([]Face{}, nil)

		img := image.NewRGBA(image.Rect(0, 0, 200, 300))
		img.SetRGBA(10, 20, rgba(200, 100, 50))

		adapter := NewAdapter(session, 640, 0)
		_, err := adapter.Detect(context.Background(), img)
		require.NoError(t, err)

		require.NotNil(t, seen)
		assert.Equal(t, 640, seen.Bounds().Dx())
		assert.Equal(t, 640, seen.Bounds().Dy())
		assert.Equal(t, rgba(200, 100, 50), seen.RGBAAt(10, 20))
		// beyond the original extent the canvas stays zero
		assert.Equal(t, uint8(0), seen.RGBAAt(300, 400).R)
		session.AssertExpectations(t)
	})

	t.Run("input at tile size passes through untouched", func(t *testing.T) {
		session := new(MockSession)
		var seen *image.RGBA
		session.On("Detect", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			seen = args.Get(1).(*image.RGBA)
		}).Return([]Face{}, nil)

		img := image.NewRGBA(image.Rect(0, 0, 640, 640))
		adapter := NewAdapter(session, 640, 0)
		_, err := adapter.Detect(context.Background(), img)
		require.NoError(t, err)
		assert.Same(t, img, seen)
	})

	t.Run("one oversized dimension skips padding", func(t *testing.T) {
		session := new(MockSession)
		var seen *image.RGBA
		session.On("Detect", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			seen = args.Get(1).(*image.RGBA)
		}).Return([]Face{}, nil)

		img := image.NewRGBA(image.Rect(0, 0, 100, 900))
		adapter := NewAdapter(session, 640, 0)
		_, err := adapter.Detect(context.Background(), img)
		require.NoError(t, err)
		assert.Same(t, img, seen)
	})
}

func TestAdapterRounding(t *testing.T) {
	session := new(MockSession)
	session.On("Detect", mock.Anything, mock.Anything).Return([]Face{{
		Score:       0.987654321,
		BoundingBox: BoundingBox{X1: 1.23456, Y1: 2.34567, X2: 101.999, Y2: 202.016},
		KeyPoints:   []Point{{X: 3.14159, Y: 2.71828}},
	}}, nil)

	adapter := NewAdapter(session, 640, 0)
	faces, err := adapter.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 640, 640)))
	require.NoError(t, err)
	require.Len(t, faces, 1)

	assert.Equal(t, 0.9877, faces[0].Score)
	assert.Equal(t, 1.23, faces[0].BoundingBox.X1)
	assert.Equal(t, 2.35, faces[0].BoundingBox.Y1)
	assert.Equal(t, 102.0, faces[0].BoundingBox.X2)
	assert.Equal(t, 202.02, faces[0].BoundingBox.Y2)
	assert.Equal(t, 3.14, faces[0].KeyPoints[0].X)
	assert.Equal(t, 2.72, faces[0].KeyPoints[0].Y)
}

func TestAdapterWrapsSessionErrors(t *testing.T) {
	session := new(MockSession)
	session.On("Detect", mock.Anything, mock.Anything).Return(nil, errors.New("onnx runtime fault"))

	adapter := NewAdapter(session, 640, 0)
	_, err := adapter.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 640, 640)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model invocation failed")
	assert.Contains(t, err.Error(), "onnx runtime fault")
}

func TestAdapterTimeoutReachesSession(t *testing.T) {
	session := new(MockSession)
	var deadline bool
	session.On("Detect", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		_, deadline = ctx.Deadline()
	}).Return([]Face{}, nil)

	adapter := NewAdapter(session, 640, 5*time.Second)
	_, err := adapter.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 640, 640)))
	require.NoError(t, err)
	assert.True(t, deadline)
}

func rgba(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
