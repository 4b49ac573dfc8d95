package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/rs/zerolog/log"
	"github.com/visagelab/visage/internal/config"
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/internal/detector/remote"
	"github.com/visagelab/visage/internal/refstore"
	"github.com/visagelab/visage/internal/server"
	"github.com/visagelab/visage/internal/server/api"
	"github.com/visagelab/visage/pkg/httpframework"
	"github.com/visagelab/visage/pkg/inmemorycache"
	"github.com/visagelab/visage/pkg/logger"
	"github.com/visagelab/visage/pkg/metric"
	"github.com/visagelab/visage/pkg/tracing"
)

func main() {
	config.InitConfig(config.GetAppConfig())
	configs := config.GetAppConfig().Configs

	logger.Init()
	metric.Init()
	tracing.Init()
	defer tracing.ShutdownTracer()

	// the service sits behind no auth tier; any origin may call it
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	httpframework.Init(cors.New(corsConfig))

	if configs.DetectCacheEnabled {
		inmemorycache.InitV1()
	}

	refstore.Init(configs.DbDir)
	if dim := refstore.Instance().Dim(); dim != 0 && dim != configs.EmbeddingDim {
		log.Warn().Msgf("Reference table dim %d differs from configured EMBEDDING_DIM %d", dim, configs.EmbeddingDim)
	}
	detector.Init(
		remote.NewSession(),
		configs.ModelTileSize,
		time.Duration(configs.DetectionTimeoutInMs)*time.Millisecond,
	)

	api.Init()
	server.InitServer(configs.Port)
}
