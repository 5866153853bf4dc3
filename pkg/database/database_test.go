package database

import (
	"testing"

	"quizhub_backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		force    bool
		expected bool
	}{
		{name: "debug mode migrates", mode: "debug", expected: true},
		{name: "release mode skips", mode: "release", expected: false},
		{name: "release mode forced", mode: "release", force: true, expected: true},
		{name: "debug mode forced", mode: "debug", force: true, expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{ForceMigrate: tc.force}
			cfg.Server.Mode = tc.mode
			assert.Equal(t, tc.expected, ShouldMigrate(cfg))
		})
	}
}
