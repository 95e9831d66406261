package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092, ,kafka2:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DEMO_LOGIN", "")
	t.Setenv("SETTLEMENT_DELAY", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.DemoLogin)
	assert.Equal(t, 1500*time.Millisecond, cfg.SettlementDelay)
	assert.Equal(t, "sqlite:storefront.db", cfg.DatabaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DEMO_LOGIN", "false")
	t.Setenv("SETTLEMENT_DELAY", "10ms")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.False(t, cfg.DemoLogin)
	assert.Equal(t, 10*time.Millisecond, cfg.SettlementDelay)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
}

func TestEnvDefaults_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
	assert.Equal(t, time.Second, EnvDurationDefault("X_DUR", time.Second))
}
