package meta

import "github.com/visagelab/visage/internal/serving"

// RootResponse is the service metadata envelope: identity block plus current
// server time.
type RootResponse struct {
	Service            serving.Service `json:"service"`
	TimeInMilliseconds int64           `json:"timeInMilliseconds"`
}
