/*

This file contains the pool total aggregation: the yearly value flowing into the shared
reward pool from native inflation plus every alliance asset's take rate.

*/

package estimator

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/terra-money/alliance-estimator/internal/types"
)

// NativeContribution is the yearly value the native asset adds to the reward pool.
// The native LSD term is weighted by zero: native issuance does not carry LSD
// appreciation in the pool total.
func NativeContribution(in types.NativeInputs) float64 {
	issued := in.TotalTokenSupply * (in.InflationRate / 100)
	return issued*in.AssetPrice + issued*0*in.AssetPrice
}

// AllianceContribution is the yearly value one alliance asset adds to the reward pool
// through its take rate, including LSD growth on the redistributed amount.
func AllianceContribution(in types.AllianceInputs) float64 {
	taken := in.AssetStakedInAlliance * (in.AnnualizedTakeRate / 100)
	return taken*in.AssetPrice + taken*(in.LSDAnnualEstimate/100)*in.AssetPrice
}

// CalculatePoolTotalValue sums every contribution. Alliance assets are added in ascending
// id order so the result is reproducible for a given snapshot. Missing inputs propagate
// as NaN rather than failing.
func CalculatePoolTotalValue(native types.NativeInputs, alliance map[types.AssetID]types.AllianceInputs) float64 {
	contributions := make([]float64, 0, len(alliance)+1)
	for _, id := range sortedIDs(alliance) {
		contributions = append(contributions, AllianceContribution(alliance[id]))
	}
	allianceTotal := floats.Sum(contributions)

	return allianceTotal + NativeContribution(native)
}

// SumAllianceWeights adds up the reward weights of the given alliance assets.
func SumAllianceWeights(alliance map[types.AssetID]types.AllianceInputs) float64 {
	weights := make([]float64, 0, len(alliance))
	for _, id := range sortedIDs(alliance) {
		weights = append(weights, alliance[id].AllianceRewardWeight)
	}
	return floats.Sum(weights)
}

// ParticipatingAssets keeps only the alliance assets whose inputs are all provided.
// Assets still being filled in do not affect anyone else's estimate.
func ParticipatingAssets(alliance map[types.AssetID]types.AllianceInputs) map[types.AssetID]types.AllianceInputs {
	out := make(map[types.AssetID]types.AllianceInputs, len(alliance))
	for id, in := range alliance {
		if in.Complete() {
			out[id] = in
		}
	}
	return out
}

func sortedIDs(alliance map[types.AssetID]types.AllianceInputs) []types.AssetID {
	return slices.Sorted(maps.Keys(alliance))
}
