package sharelink

import (
	"encoding/base64"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-money/alliance-estimator/internal/config"
	"github.com/terra-money/alliance-estimator/internal/estimator"
	"github.com/terra-money/alliance-estimator/internal/types"
)

func fullSnapshot() types.Snapshot {
	snap := types.Snapshot{
		AllianceAssets: map[types.AssetID]types.AllianceAsset{},
		Native:         config.ExampleNativeInputs(),
	}
	for i, asset := range config.ExampleAllianceAssets() {
		snap.AllianceAssets[types.AssetID(1690000000000+i)] = asset
	}
	snap.AllianceAssets[1690000000100] = types.AllianceAsset{Name: "Pending", Inputs: types.NewAllianceInputs()}
	return snap
}

func assertSameInputs(t *testing.T, want, got []types.FieldValue) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Key, got[i].Key)
		assert.Equal(t, math.Float64bits(want[i].Value), math.Float64bits(got[i].Value), "field %s", want[i].Key)
	}
}

func TestRoundTripPreservesInputsAndPoolTotal(t *testing.T) {
	snap := fullSnapshot()

	link, err := BuildLink("https://estimator.example/", snap)
	require.NoError(t, err)

	decoded, ok, err := FromURL(link)
	require.NoError(t, err)
	require.True(t, ok)

	assertSameInputs(t, snap.Native.Values(), decoded.Native.Values())
	assert.Equal(t, snap.Native.ColumnName, decoded.Native.ColumnName)
	assert.Equal(t, snap.Native.Denom, decoded.Native.Denom)

	require.Equal(t, snap.AllianceIDs(), decoded.AllianceIDs())
	for id, asset := range snap.AllianceAssets {
		assert.Equal(t, asset.Name, decoded.AllianceAssets[id].Name)
		assertSameInputs(t, asset.Inputs.Values(), decoded.AllianceAssets[id].Inputs.Values())
	}

	before := estimator.Compute(snap, config.TakeRateIntervalMinutes)
	after := estimator.Compute(decoded, config.TakeRateIntervalMinutes)
	assert.Equal(t, math.Float64bits(before.PoolTotalValue), math.Float64bits(after.PoolTotalValue))
}

func TestDecodeNullNativeLSDStillEstimates(t *testing.T) {
	payload := `{
		"allianceAssets": {
			"1690000000000": {"name": "Alliance LSD1", "inputValues": {"lsdAnnualEstimate": 16, "assetPrice": 0.015, "allianceRewardWeight": 0.001, "annualizedTakeRate": 16, "assetStakedInAlliance": 10000000}}
		},
		"nativeInputValues": {
			"columnName": "Native", "denom": "LUNA", "inflationRate": 7, "lsdAnnualEstimate": null,
			"totalTokenSupply": 1073271122, "assetPrice": 1.3, "allianceRewardWeight": 1, "assetStakedInAlliance": 527724946
		}
	}`

	snap, err := Decode(base64.StdEncoding.EncodeToString([]byte(payload)))
	require.NoError(t, err)

	est := estimator.Compute(snap, config.TakeRateIntervalMinutes)
	assert.True(t, types.IsFinite(est.Native.Derived.StakingEstimatedPercentage))
	assert.Empty(t, est.Native.InputRequired)

	// Same result as the example inputs, whose native LSD is 0.
	want := estimator.Compute(types.Snapshot{
		AllianceAssets: map[types.AssetID]types.AllianceAsset{1690000000000: config.ExampleAllianceAssets()[0]},
		Native:         config.ExampleNativeInputs(),
	}, config.TakeRateIntervalMinutes)
	assert.InDelta(t, want.Native.Derived.StakingEstimatedPercentage, est.Native.Derived.StakingEstimatedPercentage, 1e-12)
}

func TestInfiniteTextDoesNotSurviveRoundTrip(t *testing.T) {
	payload := `{"allianceAssets":{"1":{"name":"a","inputValues":{"assetPrice":"Infinity"}}},"nativeInputValues":{"assetPrice":"Inf"}}`

	snap, err := Decode(base64.StdEncoding.EncodeToString([]byte(payload)))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(snap.AllianceAssets[1].Inputs.AssetPrice))
	assert.True(t, math.IsNaN(snap.Native.AssetPrice))

	encoded, err := Encode(snap)
	require.NoError(t, err)
	again, err := Decode(encoded)
	require.NoError(t, err)
	assertSameInputs(t, snap.Native.Values(), again.Native.Values())
	assertSameInputs(t, snap.AllianceAssets[1].Inputs.Values(), again.AllianceAssets[1].Inputs.Values())
}

func TestDecodeAcceptsBase64Variants(t *testing.T) {
	snap := fullSnapshot()
	encoded, err := Encode(snap)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	variants := map[string]string{
		"standard":          encoded,
		"standard unpadded": strings.TrimRight(encoded, "="),
		"url safe":          base64.URLEncoding.EncodeToString(raw),
		"url safe unpadded": base64.RawURLEncoding.EncodeToString(raw),
		"plus as space":     strings.ReplaceAll(encoded, "+", " "),
	}

	for name, v := range variants {
		t.Run(name, func(t *testing.T) {
			decoded, err := Decode(v)
			require.NoError(t, err)
			assert.Len(t, decoded.AllianceAssets, len(snap.AllianceAssets))
			assert.Equal(t, snap.Native.TotalTokenSupply, decoded.Native.TotalTokenSupply)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"not base64": "%%%",
		"not json":   base64.StdEncoding.EncodeToString([]byte("hello")),
		"wrong type": base64.StdEncoding.EncodeToString([]byte(`{"allianceAssets":[1,2]}`)),
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(input)
			assert.ErrorIs(t, err, ErrInvalidShareLink)
		})
	}
}

func TestFromURLWithoutImportData(t *testing.T) {
	_, ok, err := FromURL("https://estimator.example/?foo=bar")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildLinkKeepsExistingQuery(t *testing.T) {
	link, err := BuildLink("https://estimator.example/mock-data?tab=1", types.Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, link, "tab=1")
	assert.Contains(t, link, QueryParam+"=")
}
