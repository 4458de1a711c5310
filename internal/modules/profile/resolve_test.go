package profile

import (
	"testing"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_UnknownProfile(t *testing.T) {
	_, err := Resolve(Name("aggressive"), nil)
	require.Error(t, err)

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeUnknownProfile, derr.Code)
}

func TestResolve_PresetsDiffer(t *testing.T) {
	risky, err := Resolve(Risky, nil)
	require.NoError(t, err)
	averse, err := Resolve(Averse, nil)
	require.NoError(t, err)

	assert.Less(t, risky.Indicators.RSIOversold, averse.Indicators.RSIOversold)
	assert.Greater(t, risky.Signals.MaxTradePlans, averse.Signals.MaxTradePlans)
	assert.Less(t, risky.Risk.MinRRRatio, averse.Risk.MinRRRatio)
}

func TestParseOverrides_UnknownKeyReportsAllOffenders(t *testing.T) {
	_, err := ParseOverrides(map[string]any{
		"rsi_oversold":    float64(40),
		"not_a_real_key":  1.0,
		"also_bogus":      2.0,
	})
	require.Error(t, err)

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeInvalidOverride, derr.Code)
	assert.ElementsMatch(t, []string{"not_a_real_key", "also_bogus"}, derr.Keys)
}

func TestResolve_WithOverridesAppliesOnTopOfPreset(t *testing.T) {
	overrides, err := ParseOverrides(map[string]any{
		"rsi_oversold":   float64(40),
		"min_rr_ratio":   float64(1.8),
		"top_k_for_bias": float64(5),
	})
	require.NoError(t, err)

	cfg, err := Resolve(Neutral, overrides)
	require.NoError(t, err)

	assert.Equal(t, 40.0, cfg.Indicators.RSIOversold)
	assert.Equal(t, 1.8, cfg.Risk.MinRRRatio)
	assert.Equal(t, 5, cfg.Momentum.TopKForBias)
	// Untouched fields still come from the neutral preset.
	assert.Equal(t, 70.0, cfg.Indicators.RSIOverbought)
}

func TestUserConfig_FlattenCarriesEveryField(t *testing.T) {
	cfg, err := Resolve(Risky, nil)
	require.NoError(t, err)

	ctx := cfg.Flatten()
	assert.Equal(t, cfg.Indicators.RSIOversold, ctx.RSIOversold)
	assert.Equal(t, cfg.Risk.MinRRRatio, ctx.MinRRRatio)
	assert.Equal(t, cfg.Momentum.TopKForBias, ctx.TopKForBias)
	assert.Equal(t, cfg.Signals.MaxSignalsReturned, ctx.MaxSignalsReturned)
	assert.NotEmpty(t, ctx.CategoryBonuses)
}
