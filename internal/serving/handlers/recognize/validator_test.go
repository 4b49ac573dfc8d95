package recognize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRecognizeRequest(t *testing.T) {
	t.Run("missing embedding", func(t *testing.T) {
		isValid, msg := validateRecognizeRequest(&RecognizeRequest{})
		assert.False(t, isValid)
		assert.Equal(t, "embedding is required", msg)
	})

	t.Run("present embedding", func(t *testing.T) {
		isValid, msg := validateRecognizeRequest(&RecognizeRequest{Embedding: "AAAA"})
		assert.True(t, isValid)
		assert.Empty(t, msg)
	})
}
