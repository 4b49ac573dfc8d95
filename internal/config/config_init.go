package config

import (
	"log"

	"github.com/spf13/viper"
)

func InitConfig(appConfig *AppConfig) {
	viper.AutomaticEnv()
	bindEnvVars()
	setDefaults()
	if err := viper.Unmarshal(&appConfig.Configs); err != nil {
		log.Fatalf("Failed to unmarshal config from environment: %v", err)
	}
}

func bindEnvVars() {
	viper.BindEnv("app_name", "APP_NAME")
	viper.BindEnv("app_env", "APP_ENV")
	viper.BindEnv("app_log_level", "APP_LOG_LEVEL")
	viper.BindEnv("port", "PORT")
	viper.BindEnv("db_dir", "DB_DIR")
	viper.BindEnv("embedding_dim", "EMBEDDING_DIM")
	viper.BindEnv("recognize_threshold", "RECOGNIZE_THRESHOLD")
	viper.BindEnv("recognize_top_k", "RECOGNIZE_TOP_K")
	viper.BindEnv("model_tile_size", "MODEL_TILE_SIZE")
	viper.BindEnv("detect_timings_enabled", "DETECT_TIMINGS_ENABLED")
	viper.BindEnv("detect_cache_enabled", "DETECT_CACHE_ENABLED")
	viper.BindEnv("detect_cache_ttl_in_seconds", "DETECT_CACHE_TTL_IN_SECONDS")
	viper.BindEnv("detection_timeout_in_ms", "DETECTION_TIMEOUT_IN_MS")
	viper.BindEnv("app_metric_sampling_rate", "APP_METRIC_SAMPLING_RATE")
	viper.BindEnv("in_memory_cache_size_in_bytes", "IN_MEMORY_CACHE_SIZE_IN_BYTES")
}

func setDefaults() {
	viper.SetDefault("embedding_dim", 512)
	viper.SetDefault("recognize_threshold", 0.3)
	viper.SetDefault("recognize_top_k", 10)
	viper.SetDefault("model_tile_size", 640)
	viper.SetDefault("detect_timings_enabled", true)
	viper.SetDefault("detect_cache_ttl_in_seconds", 300)
	viper.SetDefault("detection_timeout_in_ms", 30000)
}
