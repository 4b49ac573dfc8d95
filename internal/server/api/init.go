package api

import (
	"github.com/visagelab/visage/internal/serving/handlers/detect"
	"github.com/visagelab/visage/internal/serving/handlers/meta"
	"github.com/visagelab/visage/internal/serving/handlers/recognize"
	"github.com/visagelab/visage/pkg/httpframework"
)

const (
	healthCheckPath = "/health"
	rootPath        = "/"
	detectPath      = "/detect"
	recognizePath   = "/recognize"
)

func Init() {
	engine := httpframework.Instance()
	engine.GET(healthCheckPath, healthProvider)
	engine.GET(rootPath, meta.GetHandler(1).GetRoot)
	engine.POST(detectPath, detect.GetHandler(1).PostDetect)
	engine.POST(recognizePath, recognize.GetHandler(1).PostRecognize)
}
