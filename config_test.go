package deepresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Iterations:     1000,
		SkipIterations: 500,
		BetSizing:      []float64{1},
		MaxRaises:      2,
		Ranks:          "23456789TJQKA",
	}, cfg)

	hands, err := cfg.Hands()
	require.NoError(t, err)
	assert.Equal(t, 52*51/2, hands.Len())
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("DEEPRESOLVE_CFR_ITERS", "50")
	t.Setenv("DEEPRESOLVE_CFR_SKIP_ITERS", "10")
	t.Setenv("DEEPRESOLVE_BET_SIZING", "0.5,1,2")
	t.Setenv("DEEPRESOLVE_MAX_RAISES", "3")
	t.Setenv("DEEPRESOLVE_RANKS", "TJQKA")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Iterations)
	assert.Equal(t, 10, cfg.SkipIterations)
	assert.Equal(t, []float64{0.5, 1, 2}, cfg.BetSizing)
	assert.Equal(t, 3, cfg.MaxRaises)
	assert.Equal(t, "TJQKA", cfg.Ranks)

	params := cfg.TreeParams()
	assert.Equal(t, cfg.BetSizing, params.BetSizing)
	assert.Equal(t, 3, params.MaxRaises)
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name, key, value string
	}{
		{"not a number", "DEEPRESOLVE_CFR_ITERS", "many"},
		{"skip exceeds iterations", "DEEPRESOLVE_CFR_SKIP_ITERS", "5000"},
		{"zero bet", "DEEPRESOLVE_BET_SIZING", "0.5,0"},
		{"negative raises", "DEEPRESOLVE_MAX_RAISES", "-1"},
		{"bad ranks", "DEEPRESOLVE_RANKS", "TJX"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := LoadConfigFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	cfg.Iterations = 0
	cfg.SkipIterations = 0
	assert.Error(t, cfg.Validate())

	cfg = testConfig()
	cfg.SkipIterations = -1
	assert.Error(t, cfg.Validate())
}
