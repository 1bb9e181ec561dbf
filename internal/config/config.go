package config

import (
	"os"
	"strconv"
)

// Config 风险评分服务配置
type Config struct {
	// HTTP 服务配置
	HTTP struct {
		Addr string // 监听地址，默认 ":8084"
	}

	// NLU 增强服务配置（可选，不可用时自动降级为 fallback）
	NLU struct {
		Enabled bool   // 是否启用 NLU 增强
		BaseURL string // NLU 服务地址
		APIKey  string // API Key
		Timeout int    // 请求超时（秒），默认 15
	}

	// 批量评分配置
	Scoring struct {
		Workers     int // 人群评分 worker 数量，默认 8
		UploadMaxMB int // 上传文件大小上限（MB），默认 10
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8084")

	cfg.NLU.Enabled = getEnv("NLU_ENABLED", "false") == "true"
	cfg.NLU.BaseURL = getEnv("NLU_BASE_URL", "")
	cfg.NLU.APIKey = getEnv("NLU_API_KEY", "")
	cfg.NLU.Timeout = getEnvInt("NLU_TIMEOUT_SECONDS", 15)

	cfg.Scoring.Workers = getEnvInt("SCORE_WORKERS", 8)
	cfg.Scoring.UploadMaxMB = getEnvInt("UPLOAD_MAX_MB", 10)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// NLU 配置不完整时强制降级（缺少服务地址时不应尝试在线增强）
	if cfg.NLU.Enabled && cfg.NLU.BaseURL == "" {
		cfg.NLU.Enabled = false
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}
