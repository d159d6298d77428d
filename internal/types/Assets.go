/*

Input records for the native asset and for alliance assets. Every numeric field is a
float64 where NaN means "not yet provided".

*/

package types

import (
	"encoding/json"
	"math"
)

type AssetID int64

// NativeInputs is the user-supplied parameter set for the home chain's token.
type NativeInputs struct {
	ColumnName            string  // e.g., "Native"
	Denom                 string  // e.g., "LUNA"
	InflationRate         float64 // annual inflation, percent
	LSDAnnualEstimate     float64 // annual LSD growth, percent (0 when not an LSD)
	TotalTokenSupply      float64
	AssetPrice            float64 // USD
	AllianceRewardWeight  float64 // conventionally 1
	AssetStakedInAlliance float64
}

// AllianceInputs is the user-supplied parameter set for one alliance asset.
type AllianceInputs struct {
	LSDAnnualEstimate     float64 // annual LSD growth, percent
	AssetPrice            float64 // USD
	AllianceRewardWeight  float64
	AnnualizedTakeRate    float64 // percent, may be zero
	AssetStakedInAlliance float64
}

type AllianceAsset struct {
	Name   string         `json:"name"`
	Inputs AllianceInputs `json:"inputValues"`
}

// NewAllianceInputs returns an input set with every value missing.
func NewAllianceInputs() AllianceInputs {
	nan := math.NaN()
	return AllianceInputs{
		LSDAnnualEstimate:     nan,
		AssetPrice:            nan,
		AllianceRewardWeight:  nan,
		AnnualizedTakeRate:    nan,
		AssetStakedInAlliance: nan,
	}
}

// Values lists the numeric inputs in display order.
func (in NativeInputs) Values() []FieldValue {
	return []FieldValue{
		{FieldInflationRate, in.InflationRate},
		{FieldLSDAnnualEstimate, in.LSDAnnualEstimate},
		{FieldTotalTokenSupply, in.TotalTokenSupply},
		{FieldAssetPrice, in.AssetPrice},
		{FieldAllianceRewardWeight, in.AllianceRewardWeight},
		{FieldAssetStakedInAlliance, in.AssetStakedInAlliance},
	}
}

func (in NativeInputs) Value(key FieldKey) (float64, bool) {
	return lookup(in.Values(), key)
}

// Set assigns v to the input named by key. It returns false, leaving the record
// untouched, when key is not a native input.
func (in *NativeInputs) Set(key FieldKey, v float64) bool {
	switch key {
	case FieldInflationRate:
		in.InflationRate = v
	case FieldLSDAnnualEstimate:
		in.LSDAnnualEstimate = v
	case FieldTotalTokenSupply:
		in.TotalTokenSupply = v
	case FieldAssetPrice:
		in.AssetPrice = v
	case FieldAllianceRewardWeight:
		in.AllianceRewardWeight = v
	case FieldAssetStakedInAlliance:
		in.AssetStakedInAlliance = v
	default:
		return false
	}
	return true
}

func (in AllianceInputs) Values() []FieldValue {
	return []FieldValue{
		{FieldLSDAnnualEstimate, in.LSDAnnualEstimate},
		{FieldAssetPrice, in.AssetPrice},
		{FieldAllianceRewardWeight, in.AllianceRewardWeight},
		{FieldAnnualizedTakeRate, in.AnnualizedTakeRate},
		{FieldAssetStakedInAlliance, in.AssetStakedInAlliance},
	}
}

func (in AllianceInputs) Value(key FieldKey) (float64, bool) {
	return lookup(in.Values(), key)
}

func (in *AllianceInputs) Set(key FieldKey, v float64) bool {
	switch key {
	case FieldLSDAnnualEstimate:
		in.LSDAnnualEstimate = v
	case FieldAssetPrice:
		in.AssetPrice = v
	case FieldAllianceRewardWeight:
		in.AllianceRewardWeight = v
	case FieldAnnualizedTakeRate:
		in.AnnualizedTakeRate = v
	case FieldAssetStakedInAlliance:
		in.AssetStakedInAlliance = v
	default:
		return false
	}
	return true
}

// Complete reports whether every alliance input is finite.
func (in AllianceInputs) Complete() bool {
	for _, fv := range in.Values() {
		if !IsFinite(fv.Value) {
			return false
		}
	}
	return true
}

type nativeInputsJSON struct {
	ColumnName            string        `json:"columnName"`
	Denom                 string        `json:"denom"`
	InflationRate         NullableFloat `json:"inflationRate"`
	LSDAnnualEstimate     NullableFloat `json:"lsdAnnualEstimate"`
	TotalTokenSupply      NullableFloat `json:"totalTokenSupply"`
	AssetPrice            NullableFloat `json:"assetPrice"`
	AllianceRewardWeight  NullableFloat `json:"allianceRewardWeight"`
	AssetStakedInAlliance NullableFloat `json:"assetStakedInAlliance"`
}

func (in NativeInputs) MarshalJSON() ([]byte, error) {
	return json.Marshal(nativeInputsJSON{
		ColumnName:            in.ColumnName,
		Denom:                 in.Denom,
		InflationRate:         NullableFloat(in.InflationRate),
		LSDAnnualEstimate:     NullableFloat(in.LSDAnnualEstimate),
		TotalTokenSupply:      NullableFloat(in.TotalTokenSupply),
		AssetPrice:            NullableFloat(in.AssetPrice),
		AllianceRewardWeight:  NullableFloat(in.AllianceRewardWeight),
		AssetStakedInAlliance: NullableFloat(in.AssetStakedInAlliance),
	})
}

// UnmarshalJSON treats absent numeric keys as missing input (NaN). The native LSD
// growth rate is the exception: absent, null or unparsable means the native asset
// is not an LSD, so it decodes to 0.
func (in *NativeInputs) UnmarshalJSON(data []byte) error {
	nan := NullableFloat(math.NaN())
	wire := nativeInputsJSON{
		InflationRate:         nan,
		LSDAnnualEstimate:     0,
		TotalTokenSupply:      nan,
		AssetPrice:            nan,
		AllianceRewardWeight:  nan,
		AssetStakedInAlliance: nan,
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if math.IsNaN(float64(wire.LSDAnnualEstimate)) {
		wire.LSDAnnualEstimate = 0
	}
	*in = NativeInputs{
		ColumnName:            wire.ColumnName,
		Denom:                 wire.Denom,
		InflationRate:         float64(wire.InflationRate),
		LSDAnnualEstimate:     float64(wire.LSDAnnualEstimate),
		TotalTokenSupply:      float64(wire.TotalTokenSupply),
		AssetPrice:            float64(wire.AssetPrice),
		AllianceRewardWeight:  float64(wire.AllianceRewardWeight),
		AssetStakedInAlliance: float64(wire.AssetStakedInAlliance),
	}
	return nil
}

type allianceInputsJSON struct {
	LSDAnnualEstimate     NullableFloat `json:"lsdAnnualEstimate"`
	AssetPrice            NullableFloat `json:"assetPrice"`
	AllianceRewardWeight  NullableFloat `json:"allianceRewardWeight"`
	AnnualizedTakeRate    NullableFloat `json:"annualizedTakeRate"`
	AssetStakedInAlliance NullableFloat `json:"assetStakedInAlliance"`
}

func (in AllianceInputs) MarshalJSON() ([]byte, error) {
	return json.Marshal(allianceInputsJSON{
		LSDAnnualEstimate:     NullableFloat(in.LSDAnnualEstimate),
		AssetPrice:            NullableFloat(in.AssetPrice),
		AllianceRewardWeight:  NullableFloat(in.AllianceRewardWeight),
		AnnualizedTakeRate:    NullableFloat(in.AnnualizedTakeRate),
		AssetStakedInAlliance: NullableFloat(in.AssetStakedInAlliance),
	})
}

func (in *AllianceInputs) UnmarshalJSON(data []byte) error {
	nan := NullableFloat(math.NaN())
	wire := allianceInputsJSON{
		LSDAnnualEstimate:     nan,
		AssetPrice:            nan,
		AllianceRewardWeight:  nan,
		AnnualizedTakeRate:    nan,
		AssetStakedInAlliance: nan,
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*in = AllianceInputs{
		LSDAnnualEstimate:     float64(wire.LSDAnnualEstimate),
		AssetPrice:            float64(wire.AssetPrice),
		AllianceRewardWeight:  float64(wire.AllianceRewardWeight),
		AnnualizedTakeRate:    float64(wire.AnnualizedTakeRate),
		AssetStakedInAlliance: float64(wire.AssetStakedInAlliance),
	}
	return nil
}
