/*

Derived value sets produced by the estimator. They are never mutated after being computed.

*/

package types

import "encoding/json"

type NativeDerivedValues struct {
	RewardPoolOnNativeChain        float64
	RewardPoolPercentage           float64
	RewardPoolMakeup               float64
	ValueExcludingLSD              float64
	ValueIncludingLSD              float64
	PercentageMakeupOfRewardPool   float64
	PoolTotalValue                 float64
	PrincipalStakeExcludingRewards float64
	PrincipalStakeIncludingLSD     float64
	StakingRewardValue             float64
	StakingEstimatedPercentage     float64
}

type AllianceDerivedValues struct {
	RewardPoolPercentage           float64
	TakeRateInterval               float64 // minutes
	TakeRate                       float64 // per interval
	RewardPoolMakeup               float64
	ValueExcludingLSD              float64
	ValueIncludingLSD              float64
	PercentageMakeupOfRewardPool   float64
	PrincipalStakeExcludingRewards float64
	PrincipalStakeIncludingLSD     float64
	StakingRewardValue             float64
	StakingEstimatedPercentage     float64
}

// Values lists the derived fields in display order.
func (d NativeDerivedValues) Values() []FieldValue {
	return []FieldValue{
		{FieldRewardPoolOnNativeChain, d.RewardPoolOnNativeChain},
		{FieldRewardPoolPercentage, d.RewardPoolPercentage},
		{FieldRewardPoolMakeup, d.RewardPoolMakeup},
		{FieldValueExcludingLSD, d.ValueExcludingLSD},
		{FieldValueIncludingLSD, d.ValueIncludingLSD},
		{FieldPercentageMakeupOfRewardPool, d.PercentageMakeupOfRewardPool},
		{FieldPoolTotalValue, d.PoolTotalValue},
		{FieldPrincipalStakeExcludingRewards, d.PrincipalStakeExcludingRewards},
		{FieldPrincipalStakeIncludingLSD, d.PrincipalStakeIncludingLSD},
		{FieldStakingRewardValue, d.StakingRewardValue},
		{FieldStakingEstimatedPercentage, d.StakingEstimatedPercentage},
	}
}

func (d NativeDerivedValues) Value(key FieldKey) (float64, bool) {
	return lookup(d.Values(), key)
}

func (d AllianceDerivedValues) Values() []FieldValue {
	return []FieldValue{
		{FieldRewardPoolPercentage, d.RewardPoolPercentage},
		{FieldTakeRateInterval, d.TakeRateInterval},
		{FieldTakeRate, d.TakeRate},
		{FieldRewardPoolMakeup, d.RewardPoolMakeup},
		{FieldValueExcludingLSD, d.ValueExcludingLSD},
		{FieldValueIncludingLSD, d.ValueIncludingLSD},
		{FieldPercentageMakeupOfRewardPool, d.PercentageMakeupOfRewardPool},
		{FieldPrincipalStakeExcludingRewards, d.PrincipalStakeExcludingRewards},
		{FieldPrincipalStakeIncludingLSD, d.PrincipalStakeIncludingLSD},
		{FieldStakingRewardValue, d.StakingRewardValue},
		{FieldStakingEstimatedPercentage, d.StakingEstimatedPercentage},
	}
}

func (d AllianceDerivedValues) Value(key FieldKey) (float64, bool) {
	return lookup(d.Values(), key)
}

func (d NativeDerivedValues) MarshalJSON() ([]byte, error) {
	return marshalFieldValues(d.Values())
}

func (d AllianceDerivedValues) MarshalJSON() ([]byte, error) {
	return marshalFieldValues(d.Values())
}

func marshalFieldValues(values []FieldValue) ([]byte, error) {
	out := make(map[FieldKey]NullableFloat, len(values))
	for _, fv := range values {
		out[fv.Key] = NullableFloat(fv.Value)
	}
	return json.Marshal(out)
}
