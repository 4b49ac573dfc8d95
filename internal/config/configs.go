package config

var (
	appConfig AppConfig
)

type AppConfig struct {
	Configs Configs
}

func GetAppConfig() *AppConfig {
	return &appConfig
}

type Configs struct {
	AppName                  string  `mapstructure:"app_name"`
	AppEnv                   string  `mapstructure:"app_env"`
	AppLogLevel              string  `mapstructure:"app_log_level"`
	Port                     int     `mapstructure:"port"`
	DbDir                    string  `mapstructure:"db_dir"`
	EmbeddingDim             int     `mapstructure:"embedding_dim"`
	RecognizeThreshold       float64 `mapstructure:"recognize_threshold"`
	RecognizeTopK            int     `mapstructure:"recognize_top_k"`
	ModelTileSize            int     `mapstructure:"model_tile_size"`
	DetectTimingsEnabled     bool    `mapstructure:"detect_timings_enabled"`
	DetectCacheEnabled       bool    `mapstructure:"detect_cache_enabled"`
	DetectCacheTTLInSeconds  int     `mapstructure:"detect_cache_ttl_in_seconds"`
	DetectionTimeoutInMs     int     `mapstructure:"detection_timeout_in_ms"`
	AppMetricSamplingRate    float64 `mapstructure:"app_metric_sampling_rate"`
	InMemoryCacheSizeInBytes int     `mapstructure:"in_memory_cache_size_in_bytes"`
}
