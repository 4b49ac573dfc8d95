package codec

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Run("full precision survives", func(t *testing.T) {
		vec := []float32{0.0123, -0.987, 1, 0, 2.5e-5}
		out, err := Decode(Encode(vec))
		require.NoError(t, err)
		assert.Equal(t, vec, out)
	})

	t.Run("typical embedding size", func(t *testing.T) {
		vec := make([]float32, 512)
		for i := range vec {
			vec[i] = float32(i) / 512
		}
		out, err := Decode(Encode(vec))
		require.NoError(t, err)
		assert.Equal(t, vec, out)
	})
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"base64 of garbage", base64.StdEncoding.EncodeToString([]byte("not an array"))},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}
