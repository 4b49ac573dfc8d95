package npy

import (
	"encoding/binary"
	"math"
)

// WriteVector serializes a float32 vector as a "<f4" 1-D npy payload,
// byte-for-byte compatible with what np.save produces.
func WriteVector(vec []float32) []byte {
	out := encodeHeader("<f4", len(vec))
	for _, v := range vec {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// WriteImage serializes row-major (h, w, 3) uint8 pixels as a "|u1" npy
// payload; used by the octet-stream upload path's counterpart and by tests.
func WriteImage(pixels []byte, width, height int) []byte {
	dict := encodeImageHeader(width, height)
	out := make([]byte, 0, len(dict)+len(pixels))
	out = append(out, dict...)
	out = append(out, pixels...)
	return out
}
