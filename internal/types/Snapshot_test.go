package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableFloatUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantNaN bool
		wantErr bool
	}{
		{name: "number", input: `12.5`, want: 12.5},
		{name: "numeric string", input: `"7"`, want: 7},
		{name: "padded numeric string", input: `" 1.3 "`, want: 1.3},
		{name: "null", input: `null`, wantNaN: true},
		{name: "empty string", input: `""`, wantNaN: true},
		{name: "non numeric string", input: `"abc"`, wantNaN: true},
		{name: "infinity string", input: `"Infinity"`, wantNaN: true},
		{name: "inf string", input: `"Inf"`, wantNaN: true},
		{name: "negative inf string", input: `"-Inf"`, wantNaN: true},
		{name: "overflowing string", input: `"1e400"`, wantNaN: true},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f NullableFloat
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNaN {
				assert.True(t, math.IsNaN(float64(f)))
				return
			}
			assert.Equal(t, tt.want, float64(f))
		})
	}
}

func TestNullableFloatMarshalNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		out, err := json.Marshal(NullableFloat(v))
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	}

	out, err := json.Marshal(NullableFloat(0.015))
	require.NoError(t, err)
	assert.Equal(t, "0.015", string(out))
}

func TestSnapshotJSONMissingFieldsAreNaN(t *testing.T) {
	raw := `{"allianceAssets":{"42":{"name":"Alliance LSD1","inputValues":{"assetPrice":"0.5"}},"43":{"name":"empty"}},"nativeInputValues":{"columnName":"Native","denom":"LUNA","inflationRate":7}}`

	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))

	require.Len(t, snap.AllianceAssets, 2)
	asset := snap.AllianceAssets[42]
	assert.Equal(t, "Alliance LSD1", asset.Name)
	assert.Equal(t, 0.5, asset.Inputs.AssetPrice)
	assert.True(t, math.IsNaN(asset.Inputs.AnnualizedTakeRate))
	assert.False(t, asset.Inputs.Complete())

	empty := snap.AllianceAssets[43]
	for _, fv := range empty.Inputs.Values() {
		assert.True(t, math.IsNaN(fv.Value), "field %s", fv.Key)
	}

	assert.Equal(t, 7.0, snap.Native.InflationRate)
	assert.True(t, math.IsNaN(snap.Native.TotalTokenSupply))
}

func TestNativeLSDDefaultsToZero(t *testing.T) {
	tests := map[string]string{
		"null":   `{"nativeInputValues":{"inflationRate":7,"lsdAnnualEstimate":null,"totalTokenSupply":1073271122}}`,
		"absent": `{"nativeInputValues":{"inflationRate":7,"totalTokenSupply":1073271122}}`,
		"text":   `{"nativeInputValues":{"inflationRate":7,"lsdAnnualEstimate":"","totalTokenSupply":1073271122}}`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			var snap Snapshot
			require.NoError(t, json.Unmarshal([]byte(input), &snap))
			assert.Equal(t, 0.0, snap.Native.LSDAnnualEstimate)
			assert.Equal(t, 7.0, snap.Native.InflationRate)
			assert.True(t, math.IsNaN(snap.Native.AssetPrice))
		})
	}

	var native NativeInputs
	require.NoError(t, json.Unmarshal([]byte(`{"lsdAnnualEstimate":null}`), &native))
	assert.Equal(t, 0.0, native.LSDAnnualEstimate)

	// Alliance assets have no such default.
	var asset AllianceAsset
	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","inputValues":{"lsdAnnualEstimate":null}}`), &asset))
	assert.True(t, math.IsNaN(asset.Inputs.LSDAnnualEstimate))
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	snap := Snapshot{
		AllianceAssets: map[AssetID]AllianceAsset{
			1700000000000: {Name: "Alliance LSD1", Inputs: AllianceInputs{
				LSDAnnualEstimate: 16, AssetPrice: 0.015, AllianceRewardWeight: 0.001,
				AnnualizedTakeRate: 16, AssetStakedInAlliance: 10000000,
			}},
			1700000000001: {Name: "new", Inputs: NewAllianceInputs()},
		},
		Native: NativeInputs{
			ColumnName: "Native", Denom: "LUNA", InflationRate: 7, LSDAnnualEstimate: 0,
			TotalTokenSupply: 1073271122, AssetPrice: 1.3, AllianceRewardWeight: 1,
			AssetStakedInAlliance: math.NaN(),
		},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, snap.AllianceAssets[1700000000000], decoded.AllianceAssets[1700000000000])
	assert.Equal(t, "new", decoded.AllianceAssets[1700000000001].Name)
	assert.False(t, decoded.AllianceAssets[1700000000001].Inputs.Complete())
	assert.Equal(t, snap.Native.TotalTokenSupply, decoded.Native.TotalTokenSupply)
	assert.True(t, math.IsNaN(decoded.Native.AssetStakedInAlliance))
	assert.Equal(t, []AssetID{1700000000000, 1700000000001}, decoded.AllianceIDs())
}

func TestInputsSet(t *testing.T) {
	in := NewAllianceInputs()
	assert.True(t, in.Set(FieldAnnualizedTakeRate, 11))
	assert.False(t, in.Set(FieldTotalTokenSupply, 5))
	assert.False(t, in.Set("notAField", 5))
	assert.Equal(t, 11.0, in.AnnualizedTakeRate)

	var native NativeInputs
	assert.True(t, native.Set(FieldTotalTokenSupply, 5))
	assert.False(t, native.Set(FieldAnnualizedTakeRate, 5))
	v, ok := native.Value(FieldTotalTokenSupply)
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestCloneIsDeep(t *testing.T) {
	snap := Snapshot{AllianceAssets: map[AssetID]AllianceAsset{1: {Name: "a", Inputs: NewAllianceInputs()}}}
	clone := snap.Clone()
	clone.AllianceAssets[2] = AllianceAsset{Name: "b"}
	delete(clone.AllianceAssets, 1)

	assert.Len(t, snap.AllianceAssets, 1)
	assert.Equal(t, "a", snap.AllianceAssets[1].Name)
}
