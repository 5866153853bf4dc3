package app

import (
	"testing"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestApplyConfig_NotifiesCallbacks(t *testing.T) {
	logger.Log = zap.NewNop()

	app := &App{Config: &config.Config{
		Cache: config.CacheConfig{QuestionTTL: 10 * time.Minute},
	}}

	var got *config.Config
	app.RegisterConfigCallback(func(cfg *config.Config) { got = cfg })

	newCfg := &config.Config{
		Cache:     config.CacheConfig{QuestionTTL: 5 * time.Minute},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://app.example"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 50, WindowMinutes: 2},
	}
	app.ApplyConfig(newCfg)

	assert.Same(t, newCfg, got)
	assert.Equal(t, 5*time.Minute, app.Config.Cache.QuestionTTL)
	assert.Equal(t, []string{"http://app.example"}, app.Config.CORS.AllowedOrigins)
	assert.Equal(t, 50, app.Config.RateLimit.MaxRequests)
}
