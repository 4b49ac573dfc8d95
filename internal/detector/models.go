package detector

// Point is one facial landmark in image pixel coordinates. Keypoint order is
// model-defined and semantically meaningful; it is preserved end to end.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is an axis-aligned face box, x2 >= x1 and y2 >= y1.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Face is one detection produced by the inference session. Embedding is the
// unit-normalized identity vector; it leaves the service only in encoded form.
type Face struct {
	Score       float64
	BoundingBox BoundingBox
	KeyPoints   []Point
	Sex         string
	Age         int
	Embedding   []float32
}

// Description is the inference engine's self-reported identity, surfaced in
// the service metadata endpoint.
type Description struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	ComputingDevice string            `json:"computingDevice,omitempty"`
	Libraries       map[string]string `json:"libraries"`
}
