package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("GARDEN_TEST_STR", "value")
	t.Setenv("GARDEN_TEST_INT", "42")
	t.Setenv("GARDEN_TEST_BAD_INT", "forty")
	t.Setenv("GARDEN_TEST_DUR", "250ms")
	t.Setenv("GARDEN_TEST_BAD_DUR", "-1s")

	assert.Equal(t, "value", EnvDefault("GARDEN_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("GARDEN_TEST_MISSING", "def"))
	assert.Equal(t, 42, EnvIntDefault("GARDEN_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("GARDEN_TEST_BAD_INT", 1))
	assert.Equal(t, 250*time.Millisecond, EnvDurationDefault("GARDEN_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("GARDEN_TEST_BAD_DUR", time.Second))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CART_API_URL", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_CART_TOPIC", "")

	cfg := Load()
	assert.Equal(t, "http://localhost:8080", cfg.CartAPIURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "cart_events", cfg.CartTopic)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}
