package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "data:\n  base_url: http://data:3001\n")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "http://data:3001", cfg.Data.BaseURL)
	assert.Equal(t, BackendHTTP, cfg.Data.Backend)
	assert.Equal(t, "sessoes", cfg.Data.Resources.Sessions)
	assert.Equal(t, "comprasCombos", cfg.Data.Resources.ComboPurchases)
	assert.Equal(t, 5, cfg.Catalog.RefreshSeconds)
	assert.False(t, cfg.Booking.GuardFinalization)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "http:\n  address: \":8080\"\nkafka:\n  brokers: [\"a:9092\"]\n")
	t.Setenv("CINEMA_HTTP_ADDRESS", ":9999")
	t.Setenv("CINEMA_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CINEMA_CATALOG_REFRESH_SECONDS", "30")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTP.Address)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30, cfg.Catalog.RefreshSeconds)
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"unknown backend", "data:\n  backend: mongo\n"},
		{"unknown broker", "events:\n  broker: nats\n"},
		{"guard without redis", "booking:\n  guard_finalization: true\n"},
		{"bad yaml", "http: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "cinema", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cinema sslmode=disable", d.DSN())
}
