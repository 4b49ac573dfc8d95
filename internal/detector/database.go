package detector

import (
	"context"
	"image"
)

// Session is the opaque inference capability behind the adapter. A session
// is NOT safe for concurrent calls; the adapter serializes access to it.
type Session interface {
	Detect(ctx context.Context, img *image.RGBA) ([]Face, error)
	Describe(ctx context.Context) (Description, error)
}
