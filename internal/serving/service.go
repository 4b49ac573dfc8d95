// Package serving carries the response envelope shared by every endpoint:
// the service identity block and the server timestamp.
package serving

import (
	"context"
	"time"

	"github.com/visagelab/visage/internal/detector"
)

// Version is the service contract version reported in every response.
const Version = "0.2.0"

// Service identifies this deployment and the vision libraries behind it.
type Service struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	ComputingDevice string            `json:"computingDevice,omitempty"`
	Libraries       map[string]string `json:"libraries"`
}

// BuildService assembles the identity block, folding in the inference
// engine's self-description when it is reachable.
func BuildService(ctx context.Context, appName string, adapter *detector.Adapter) Service {
	service := Service{
		Name:      appName,
		Version:   Version,
		Libraries: map[string]string{},
	}
	if adapter == nil {
		return service
	}
	description, err := adapter.Describe(ctx)
	if err != nil {
		return service
	}
	service.ComputingDevice = description.ComputingDevice
	if description.Libraries != nil {
		service.Libraries = description.Libraries
	}
	return service
}

// NowInMilliseconds is the wall-clock timestamp the contract reports.
func NowInMilliseconds() int64 {
	return time.Now().UnixMilli()
}
