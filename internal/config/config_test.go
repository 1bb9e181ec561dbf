package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 清除环境变量
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// 验证默认值
	assert.Equal(t, ":8084", cfg.HTTP.Addr)

	assert.False(t, cfg.NLU.Enabled)
	assert.Equal(t, "", cfg.NLU.BaseURL)
	assert.Equal(t, 15, cfg.NLU.Timeout)

	assert.Equal(t, 8, cfg.Scoring.Workers)
	assert.Equal(t, 10, cfg.Scoring.UploadMaxMB)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9000")
	os.Setenv("NLU_ENABLED", "true")
	os.Setenv("NLU_BASE_URL", "http://nlu.test")
	os.Setenv("NLU_API_KEY", "test-key")
	os.Setenv("NLU_TIMEOUT_SECONDS", "5")
	os.Setenv("SCORE_WORKERS", "4")
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.True(t, cfg.NLU.Enabled)
	assert.Equal(t, "http://nlu.test", cfg.NLU.BaseURL)
	assert.Equal(t, "test-key", cfg.NLU.APIKey)
	assert.Equal(t, 5, cfg.NLU.Timeout)
	assert.Equal(t, 4, cfg.Scoring.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_NLUEnabledWithoutBaseURL(t *testing.T) {
	os.Clearenv()
	os.Setenv("NLU_ENABLED", "true")
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)

	// BaseURL 缺失时强制降级为 fallback
	assert.False(t, cfg.NLU.Enabled)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	os.Clearenv()
	os.Setenv("SCORE_WORKERS", "not-a-number")
	os.Setenv("NLU_TIMEOUT_SECONDS", "-3")
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Scoring.Workers)
	assert.Equal(t, 15, cfg.NLU.Timeout)
}
