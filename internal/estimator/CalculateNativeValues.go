package estimator

import (
	"github.com/terra-money/alliance-estimator/internal/types"
)

// CalculateNativeValues derives every projection for the native asset. The native asset
// feeds the pool through inflation rather than a take rate, so its principal is not eroded.
func CalculateNativeValues(in types.NativeInputs, allianceWeightSum, poolTotalValue float64) types.NativeDerivedValues {
	var d types.NativeDerivedValues

	d.RewardPoolOnNativeChain = in.InflationRate / 100 * in.TotalTokenSupply
	d.RewardPoolPercentage = in.AllianceRewardWeight / (allianceWeightSum + in.AllianceRewardWeight)

	d.RewardPoolMakeup = in.TotalTokenSupply * (in.InflationRate / 100)
	d.ValueExcludingLSD = d.RewardPoolMakeup * in.AssetPrice
	d.ValueIncludingLSD = d.ValueExcludingLSD + d.RewardPoolMakeup*(in.LSDAnnualEstimate/100)*in.AssetPrice
	d.PercentageMakeupOfRewardPool = d.ValueIncludingLSD / poolTotalValue
	d.PoolTotalValue = poolTotalValue

	d.PrincipalStakeExcludingRewards = in.AssetStakedInAlliance
	d.PrincipalStakeIncludingLSD = d.PrincipalStakeExcludingRewards * in.AssetPrice * (1 + in.LSDAnnualEstimate/100)

	d.StakingRewardValue = poolTotalValue * d.RewardPoolPercentage
	stakedValue := in.AssetStakedInAlliance * in.AssetPrice
	d.StakingEstimatedPercentage = (d.PrincipalStakeIncludingLSD + d.StakingRewardValue - stakedValue) / stakedValue

	return d
}
