/*

This file contains the fixed estimator parameters and the default and example input sets.

The example data mirrors a Terra deployment with three liquid staking derivatives allied to LUNA.

*/

package config

import (
	"math"

	"github.com/terra-money/alliance-estimator/internal/types"
)

const (
	// TakeRateIntervalMinutes is how often the alliance module applies the take rate.
	TakeRateIntervalMinutes = 5.0
	// MinutesPerYear is the number of minutes in a 365 day year.
	MinutesPerYear = 525600.0

	DefaultNativeColumnName = "Native"
	DefaultNativeDenom      = "LUNA"
)

// DefaultNativeInputs is the native input set before the user has entered anything.
// LSD growth defaults to zero because the native asset is usually not an LSD.
func DefaultNativeInputs() types.NativeInputs {
	nan := math.NaN()
	return types.NativeInputs{
		ColumnName:            DefaultNativeColumnName,
		Denom:                 DefaultNativeDenom,
		InflationRate:         nan,
		LSDAnnualEstimate:     0,
		TotalTokenSupply:      nan,
		AssetPrice:            nan,
		AllianceRewardWeight:  nan,
		AssetStakedInAlliance: nan,
	}
}

// ExampleNativeInputs is a fully populated native input set for demos.
func ExampleNativeInputs() types.NativeInputs {
	return types.NativeInputs{
		ColumnName:            DefaultNativeColumnName,
		Denom:                 DefaultNativeDenom,
		InflationRate:         7,
		LSDAnnualEstimate:     0,
		TotalTokenSupply:      1073271122,
		AssetPrice:            1.3,
		AllianceRewardWeight:  1,
		AssetStakedInAlliance: 527724946,
	}
}

// ExampleAllianceAssets returns the demo alliance assets in display order.
func ExampleAllianceAssets() []types.AllianceAsset {
	return []types.AllianceAsset{
		{
			Name: "Alliance LSD1",
			Inputs: types.AllianceInputs{
				LSDAnnualEstimate:     16,
				AssetPrice:            0.015,
				AllianceRewardWeight:  0.001,
				AnnualizedTakeRate:    16,
				AssetStakedInAlliance: 10000000,
			},
		},
		{
			Name: "Alliance LSD2",
			Inputs: types.AllianceInputs{
				LSDAnnualEstimate:     16,
				AssetPrice:            0.424,
				AllianceRewardWeight:  0.01,
				AnnualizedTakeRate:    11,
				AssetStakedInAlliance: 9000000,
			},
		},
		{
			Name: "Alliance LSD3",
			Inputs: types.AllianceInputs{
				LSDAnnualEstimate:     22,
				AssetPrice:            0.819,
				AllianceRewardWeight:  0.04,
				AnnualizedTakeRate:    22,
				AssetStakedInAlliance: 19000000,
			},
		},
	}
}
