package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Energy1190/autossl/core/config"
)

func TestLoad(t *testing.T) {
	type loadConfig struct {
		Name  string `env:"CONFIG_TEST_NAME" envDefault:"fallback"`
		Count int    `env:"CONFIG_TEST_COUNT" envDefault:"3"`
	}

	t.Setenv("CONFIG_TEST_NAME", "from-env")

	var cfg loadConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 3, cfg.Count)
}

func TestLoadCaches(t *testing.T) {
	type cachedConfig struct {
		Name string `env:"CONFIG_TEST_CACHED" envDefault:"fallback"`
	}

	t.Setenv("CONFIG_TEST_CACHED", "first")

	var cfg cachedConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "first", cfg.Name)

	// The first parse wins for a given type; later env changes are not seen.
	t.Setenv("CONFIG_TEST_CACHED", "second")

	var again cachedConfig
	require.NoError(t, config.Load(&again))
	assert.Equal(t, "first", again.Name)
}

func TestLoadRequired(t *testing.T) {
	type requiredConfig struct {
		Value string `env:"CONFIG_TEST_REQUIRED,required"`
	}

	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.Error(t, err)
}

func TestLoadNil(t *testing.T) {
	t.Parallel()

	type nilConfig struct{}

	err := config.Load((*nilConfig)(nil))
	assert.ErrorIs(t, err, config.ErrNilConfig)
}

func TestMustLoadPanics(t *testing.T) {
	type panicConfig struct {
		Value string `env:"CONFIG_TEST_MUST,required"`
	}

	assert.Panics(t, func() {
		var cfg panicConfig
		config.MustLoad(&cfg)
	})
}
