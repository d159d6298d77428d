package estimator

import (
	"math"

	"github.com/terra-money/alliance-estimator/internal/config"
	"github.com/terra-money/alliance-estimator/internal/types"
)

// CalculateTakeRate converts an annualized take rate percentage into the per-interval rate the
// alliance module applies, so that compounding it over a year removes exactly the annual share.
// Rates outside [0, 100) and missing rates give NaN.
func CalculateTakeRate(annualizedTakeRate, intervalMinutes float64) float64 {
	if !(annualizedTakeRate >= 0 && annualizedTakeRate < 100) {
		return math.NaN()
	}
	intervalsPerYear := config.MinutesPerYear / intervalMinutes
	return 1 - math.Exp(math.Log(1-annualizedTakeRate/100)/intervalsPerYear)
}

// CalculateAllianceValues derives every projection for one alliance asset.
// Inputs:
//   - in: the asset's own inputs.
//   - allianceWeightSum: sum of reward weights over the alliance assets sharing the pool.
//   - nativeWeight: the native asset's reward weight.
//   - poolTotalValue: the yearly value of the shared reward pool.
//   - intervalMinutes: how often the take rate is applied.
//
// Missing inputs propagate as NaN or Inf and are picked up by ClassifyAlliance.
func CalculateAllianceValues(in types.AllianceInputs, allianceWeightSum, nativeWeight, poolTotalValue, intervalMinutes float64) types.AllianceDerivedValues {
	var d types.AllianceDerivedValues

	d.RewardPoolPercentage = in.AllianceRewardWeight / (allianceWeightSum + nativeWeight)
	d.TakeRateInterval = intervalMinutes
	d.TakeRate = CalculateTakeRate(in.AnnualizedTakeRate, intervalMinutes)

	d.RewardPoolMakeup = in.AssetStakedInAlliance * (in.AnnualizedTakeRate / 100)
	d.ValueExcludingLSD = d.RewardPoolMakeup * in.AssetPrice
	d.ValueIncludingLSD = d.ValueExcludingLSD + d.RewardPoolMakeup*(in.LSDAnnualEstimate/100)*in.AssetPrice
	d.PercentageMakeupOfRewardPool = d.ValueIncludingLSD / poolTotalValue

	d.PrincipalStakeExcludingRewards = in.AssetStakedInAlliance - d.RewardPoolMakeup
	d.PrincipalStakeIncludingLSD = d.PrincipalStakeExcludingRewards * in.AssetPrice * (1 + in.LSDAnnualEstimate/100)

	d.StakingRewardValue = poolTotalValue * d.RewardPoolPercentage
	stakedValue := in.AssetStakedInAlliance * in.AssetPrice
	d.StakingEstimatedPercentage = (d.PrincipalStakeIncludingLSD + d.StakingRewardValue - stakedValue) / stakedValue

	return d
}
