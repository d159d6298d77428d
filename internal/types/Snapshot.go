/*

Snapshot is the full estimator input: the native asset plus every alliance asset.
It is also the payload of share links and saved input sets.

*/

package types

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
)

type Snapshot struct {
	AllianceAssets map[AssetID]AllianceAsset `json:"allianceAssets"`
	Native         NativeInputs              `json:"nativeInputValues"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	assets := make(map[AssetID]AllianceAsset, len(s.AllianceAssets))
	for id, asset := range s.AllianceAssets {
		assets[id] = asset
	}
	return Snapshot{AllianceAssets: assets, Native: s.Native}
}

// AllianceIDs returns the alliance asset ids in ascending order.
func (s Snapshot) AllianceIDs() []AssetID {
	return slices.Sorted(maps.Keys(s.AllianceAssets))
}

// AllianceInputs returns the input sets keyed by asset id.
func (s Snapshot) AllianceInputs() map[AssetID]AllianceInputs {
	out := make(map[AssetID]AllianceInputs, len(s.AllianceAssets))
	for id, asset := range s.AllianceAssets {
		out[id] = asset.Inputs
	}
	return out
}

func (a *AllianceAsset) UnmarshalJSON(data []byte) error {
	type wire AllianceAsset
	w := wire{Inputs: NewAllianceInputs()}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = AllianceAsset(w)
	return nil
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type wire Snapshot
	nan := math.NaN()
	w := wire{Native: NativeInputs{
		InflationRate:         nan,
		LSDAnnualEstimate:     0,
		TotalTokenSupply:      nan,
		AssetPrice:            nan,
		AllianceRewardWeight:  nan,
		AssetStakedInAlliance: nan,
	}}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.AllianceAssets == nil {
		w.AllianceAssets = map[AssetID]AllianceAsset{}
	}
	*s = Snapshot(w)
	return nil
}

// NativeEstimate is the computed view of the native asset.
type NativeEstimate struct {
	Inputs        NativeInputs        `json:"inputValues"`
	Derived       NativeDerivedValues `json:"derivedValues"`
	InputRequired []FieldKey          `json:"moreInputRequiredFields"`
}

// AllianceEstimate is the computed view of one alliance asset. Participating is
// false until all of the asset's inputs are finite; non-participating assets do
// not count towards the weight sum or the pool total.
type AllianceEstimate struct {
	ID            AssetID               `json:"id"`
	Name          string                `json:"name"`
	Inputs        AllianceInputs        `json:"inputValues"`
	Derived       AllianceDerivedValues `json:"derivedValues"`
	Participating bool                  `json:"participating"`
	InputRequired []FieldKey            `json:"moreInputRequiredFields"`
}

// Estimate is the result of one computation pass over a snapshot.
type Estimate struct {
	PoolTotalValue float64            `json:"-"`
	WeightSum      float64            `json:"-"`
	Native         NativeEstimate     `json:"native"`
	Alliance       []AllianceEstimate `json:"alliance"` // ascending id
}

func (e Estimate) MarshalJSON() ([]byte, error) {
	type wire Estimate
	return json.Marshal(struct {
		wire
		PoolTotalValue NullableFloat `json:"poolTotalValue"`
		WeightSum      NullableFloat `json:"weightSum"`
	}{wire(e), NullableFloat(e.PoolTotalValue), NullableFloat(e.WeightSum)})
}

// AllianceByID finds the estimate for one alliance asset.
func (e Estimate) AllianceByID(id AssetID) (AllianceEstimate, bool) {
	for _, a := range e.Alliance {
		if a.ID == id {
			return a, true
		}
	}
	return AllianceEstimate{}, false
}
