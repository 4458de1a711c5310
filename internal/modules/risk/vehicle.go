package risk

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// selectVehicle implements pipeline step 9: stock by default, switching to
// an option vehicle only when the expected move clears
// option_min_expected_move.
func selectVehicle(entry, target, atr float64, bias domain.Bias, cfg profile.ConfigContext) (domain.Vehicle, *domain.VehicleParams) {
	expectedMovePct := 0.0
	if entry != 0 {
		expectedMovePct = abs((target - entry) / entry * 100)
	}
	if expectedMovePct < cfg.OptionMinExpectedMove {
		return domain.VehicleStock, nil
	}

	spreadWidth := cfg.OptionSpreadWidthATR * atr
	if bias == domain.BiasBullish {
		return domain.VehicleOptionCall, &domain.VehicleParams{
			MinDTE: cfg.OptionSwingMinDTE, MaxDTE: cfg.OptionSwingMaxDTE,
			MinDelta: cfg.CallDeltaMin, MaxDelta: cfg.CallDeltaMax,
			SpreadWidth: spreadWidth,
		}
	}
	return domain.VehicleOptionPut, &domain.VehicleParams{
		MinDTE: cfg.OptionSwingMinDTE, MaxDTE: cfg.OptionSwingMaxDTE,
		MinDelta: cfg.PutDeltaMin, MaxDelta: cfg.PutDeltaMax,
		SpreadWidth: spreadWidth,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
