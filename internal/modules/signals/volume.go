package signals

import (
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// VolumeDetector emits volume spike / extreme spike / dry-up signals,
// relative to the 20-day volume SMA.
type VolumeDetector struct{}

func (VolumeDetector) Name() string             { return "volume" }
func (VolumeDetector) Category() domain.Category { return domain.CategoryVolume }

func (VolumeDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n == 0 {
		return nil
	}
	i := n - 1
	ts := frame.Series.Bars[i].Timestamp

	avg, ok := last(frame.VolumeSMA[20], i)
	if !ok || avg == 0 {
		return nil
	}
	volume := frame.Series.Bars[i].Volume
	ratio := volume / avg

	switch {
	case ratio >= cfg.VolumeExtremeMultiple:
		return []domain.Signal{{
			Name: "volume_extreme_spike", Description: fmt.Sprintf("volume %.0fx the 20-day average", ratio),
			Strength: domain.StrengthSignificant, Category: domain.CategoryVolume, Timestamp: ts, Value: ptr(ratio),
		}}
	case ratio >= cfg.VolumeSpikeMultiple:
		return []domain.Signal{{
			Name: "volume_spike", Description: fmt.Sprintf("volume %.1fx the 20-day average", ratio),
			Strength: domain.StrengthNotable, Category: domain.CategoryVolume, Timestamp: ts, Value: ptr(ratio),
		}}
	case ratio <= cfg.VolumeDryUpMultiple:
		return []domain.Signal{{
			Name: "volume_dryup", Description: fmt.Sprintf("volume %.2fx the 20-day average", ratio),
			Strength: domain.StrengthNeutral, Category: domain.CategoryVolume, Timestamp: ts, Value: ptr(ratio),
		}}
	}
	return nil
}
