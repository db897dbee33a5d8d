package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o600))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestProvideApplicationConfig_Defaults(t *testing.T) {
	writeConfigFile(t, `
postgres:
  url: postgres://localhost/discounts
`)

	appConfig, err := ProvideApplicationConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/discounts", appConfig.Postgres.URL)
	assert.Equal(t, ":8080", appConfig.Server.Address)
	assert.Equal(t, "nats://127.0.0.1:4222", appConfig.NATS.URL)
	assert.Equal(t, "https://maps.googleapis.com/maps/api/geocode/json", appConfig.Geocoding.Endpoint)
	assert.Equal(t, 2*time.Hour, appConfig.Reclaimer.StalenessWindow)
	assert.Equal(t, 2, appConfig.Reclaimer.ScheduleHour)
	assert.Equal(t, 4, appConfig.Events.Workers)
	assert.Equal(t, 64, appConfig.Events.QueueSize)
}

func TestProvideApplicationConfig_Overrides(t *testing.T) {
	writeConfigFile(t, `
server:
  address: ":9090"
reclaimer:
  staleness_window: 30m
  schedule_hour: 5
events:
  workers: 8
  queue_size: 128
`)

	appConfig, err := ProvideApplicationConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", appConfig.Server.Address)
	assert.Equal(t, 30*time.Minute, appConfig.Reclaimer.StalenessWindow)
	assert.Equal(t, 5, appConfig.Reclaimer.ScheduleHour)
	assert.Equal(t, 8, appConfig.Events.Workers)
	assert.Equal(t, 128, appConfig.Events.QueueSize)
}

func TestProvideApplicationConfig_MissingFile(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	_, err = ProvideApplicationConfig()
	assert.Error(t, err)
}
