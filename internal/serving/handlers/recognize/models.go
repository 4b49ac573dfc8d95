package recognize

import (
	"encoding/json"

	"github.com/visagelab/visage/internal/refstore"
	"github.com/visagelab/visage/internal/serving"
)

// RecognizeRequest carries one transport-encoded query embedding.
type RecognizeRequest struct {
	Embedding string `json:"embedding"`
}

// ActorModel is one ranked identity on the wire. Fanza is an opaque
// pass-through attachment and is omitted when the corpus has none.
type ActorModel struct {
	Similarity float64         `json:"similarity"`
	Names      []refstore.Name `json:"names"`
	Fanza      json.RawMessage `json:"fanza,omitempty"`
}

type RecognizeResponse struct {
	Service            serving.Service `json:"service"`
	TimeInMilliseconds int64           `json:"timeInMilliseconds"`
	Actors             []ActorModel    `json:"actors"`
}
