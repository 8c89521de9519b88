package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, 20, cfg.ReportHideThreshold)
	assert.Equal(t, 1000.0, cfg.LocationGridMeters)
	assert.Equal(t, 8, cfg.SponsorEvery)
	assert.Equal(t, 20, cfg.FeedPageSize)
	assert.Equal(t, 24*time.Hour, cfg.PostTTL)
	assert.Equal(t, 300*time.Second, cfg.OTPTTL)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.AllowAnon)
}

func TestLoadDotenvAndOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "REPORT_HIDE_THRESHOLD=5\nLOCATION_GRID_METERS=0\nSPONSOR_EVERY=3\nPOST_TTL=2h\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("can't write env file: %v", err)
	}
	t.Setenv("SPONSOR_EVERY", "4")
	t.Setenv("ALLOW_ANON", "true")

	cfg := Load(path)

	assert.Equal(t, 5, cfg.ReportHideThreshold)
	assert.Equal(t, 0.0, cfg.LocationGridMeters)
	assert.Equal(t, 4, cfg.SponsorEvery)
	assert.Equal(t, 2*time.Hour, cfg.PostTTL)
	assert.True(t, cfg.AllowAnon)
}

func TestLoadBadNumbersFallBack(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "lots")
	t.Setenv("LOCATION_GRID_METERS", "far")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, 20, cfg.FeedPageSize)
	assert.Equal(t, 1000.0, cfg.LocationGridMeters)
}
