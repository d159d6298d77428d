/*

Field keys shared by asset inputs, derived values and the field metadata tables.
The string values are the JSON keys used in snapshots and API responses.

*/

package types

type FieldKey string

// Input fields
const (
	FieldInflationRate         FieldKey = "inflationRate"
	FieldLSDAnnualEstimate     FieldKey = "lsdAnnualEstimate"
	FieldTotalTokenSupply      FieldKey = "totalTokenSupply"
	FieldAssetPrice            FieldKey = "assetPrice"
	FieldAllianceRewardWeight  FieldKey = "allianceRewardWeight"
	FieldAnnualizedTakeRate    FieldKey = "annualizedTakeRate"
	FieldAssetStakedInAlliance FieldKey = "assetStakedInAlliance"
)

// Derived fields
const (
	FieldRewardPoolOnNativeChain        FieldKey = "rewardPoolOnNativeChain"
	FieldRewardPoolPercentage           FieldKey = "rewardPoolPercentage"
	FieldTakeRateInterval               FieldKey = "takeRateInterval"
	FieldTakeRate                       FieldKey = "takeRate"
	FieldRewardPoolMakeup               FieldKey = "rewardPoolMakeup"
	FieldValueExcludingLSD              FieldKey = "valueOfDenomInRewardPoolExcludingLSD"
	FieldValueIncludingLSD              FieldKey = "valueOfDenomInRewardPoolIncludingLSD"
	FieldPercentageMakeupOfRewardPool   FieldKey = "percentageMakeupOfRewardPoolValue"
	FieldPoolTotalValue                 FieldKey = "poolTotalValue"
	FieldPrincipalStakeExcludingRewards FieldKey = "principalStakeExcludingRewards"
	FieldPrincipalStakeIncludingLSD     FieldKey = "principalStakeIncludingLSD"
	FieldStakingRewardValue             FieldKey = "stakingRewardValue"
	FieldStakingEstimatedPercentage     FieldKey = "stakingEstimatedPercentage"
)

// FieldValue pairs a field key with its numeric value, used to walk inputs and
// derived sets in display order.
type FieldValue struct {
	Key   FieldKey
	Value float64
}

func lookup(values []FieldValue, key FieldKey) (float64, bool) {
	for _, fv := range values {
		if fv.Key == key {
			return fv.Value, true
		}
	}
	return 0, false
}
