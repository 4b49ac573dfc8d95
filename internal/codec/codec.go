// Package codec converts embedding vectors to and from their transport form:
// a npy array payload wrapped in standard base64. Embeddings never cross the
// service boundary as raw numeric sequences.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/visagelab/visage/internal/npy"
)

// ErrMalformedInput marks embedding text that is not valid base64 or does not
// decode to a well-formed array payload.
var ErrMalformedInput = errors.New("malformed embedding input")

// Encode serializes a vector to its transport form. Decode(Encode(v)) == v
// exactly; the payload is full 32-bit precision.
func Encode(vec []float32) string {
	return base64.StdEncoding.EncodeToString(npy.WriteVector(vec))
}

// Decode parses the transport form back into a vector. Dimensionality is not
// checked here; that is the ranker's responsibility.
func Decode(text string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrMalformedInput, err)
	}
	vec, err := npy.ReadVector(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return vec, nil
}
