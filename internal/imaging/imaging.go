// Package imaging dispatches uploaded file bytes to a decoder by declared
// content type. JPEG and PNG go through the standard decoders; an
// octet-stream upload is a pre-decoded npy uint8 (h, w, 3) array.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/visagelab/visage/internal/npy"
)

// ErrUnsupportedMediaType marks a content type outside the recognized set;
// handlers surface it as HTTP 415 before any detection work happens.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ErrMalformedImage marks bytes that claim a recognized content type but do
// not decode; handlers surface it as a client error.
var ErrMalformedImage = errors.New("malformed image")

const (
	ContentTypeJPEG        = "image/jpeg"
	ContentTypePNG         = "image/png"
	ContentTypeOctetStream = "application/octet-stream"
)

// Decode turns uploaded bytes into an RGBA image according to contentType.
func Decode(contentType string, data []byte) (*image.RGBA, error) {
	switch contentType {
	case ContentTypeJPEG:
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: jpeg: %v", ErrMalformedImage, err)
		}
		return toRGBA(img), nil
	case ContentTypePNG:
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: png: %v", ErrMalformedImage, err)
		}
		return toRGBA(img), nil
	case ContentTypeOctetStream:
		pixels, width, height, err := npy.ReadImage(data)
		if err != nil {
			return nil, fmt.Errorf("%w: raw array: %v", ErrMalformedImage, err)
		}
		return pixelsToRGBA(pixels, width, height), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType)
	}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

func pixelsToRGBA(pixels []byte, width, height int) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		rgba.Pix[i*4] = pixels[i*3]
		rgba.Pix[i*4+1] = pixels[i*3+1]
		rgba.Pix[i*4+2] = pixels[i*3+2]
		rgba.Pix[i*4+3] = 0xff
	}
	return rgba
}
