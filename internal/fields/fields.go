/*

Static metadata for every native and alliance field: label, grouping, whether it is an
input or a derived value, and how its value is displayed.

*/

package fields

import (
	"github.com/terra-money/alliance-estimator/internal/types"
)

// Kind distinguishes user-editable inputs from computed values.
type Kind int

const (
	KindInput Kind = iota + 1
	KindDerived
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindDerived:
		return "derived"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Field struct {
	Key            types.FieldKey `json:"name"`
	Label          string         `json:"label"`
	SecondaryLabel string         `json:"secondaryLabel,omitempty"` // may contain [text](url) links
	Kind           Kind           `json:"kind"`
	Group          string         `json:"group"`
	Advanced       bool           `json:"advanced,omitempty"`
	Format         Format         `json:"format,omitempty"`
	InputPrefix    string         `json:"inputPrefix,omitempty"`
	InputSuffix    string         `json:"inputSuffix,omitempty"`

	// ZeroRequiresInput marks fields where a zero result means an input is missing.
	ZeroRequiresInput bool `json:"-"`
}

func (f Field) IsInput() bool {
	return f.Kind == KindInput
}

// Group is a named section of fields, in display order.
type Group struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Grouped splits fields into sections, keeping the order in which groups first appear.
func Grouped(fields []Field) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, f := range fields {
		i, ok := index[f.Group]
		if !ok {
			i = len(groups)
			index[f.Group] = i
			groups = append(groups, Group{Name: f.Group})
		}
		groups[i].Fields = append(groups[i].Fields, f)
	}
	return groups
}

// ByKey finds the field metadata for key.
func ByKey(fields []Field, key types.FieldKey) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// KindOf reports whether key is an input or derived field of the given table.
func KindOf(fields []Field, key types.FieldKey) (Kind, bool) {
	f, ok := ByKey(fields, key)
	if !ok {
		return 0, false
	}
	return f.Kind, true
}

func NativeField(key types.FieldKey) (Field, bool) {
	return ByKey(NativeFields, key)
}

func AllianceField(key types.FieldKey) (Field, bool) {
	return ByKey(AllianceFields, key)
}

const (
	groupNativeChainData       = "Native Chain Data"
	groupNativeStaking         = "Native Staking Parameters"
	groupAssetData             = "Asset Data"
	groupAllianceParameters    = "Alliance Asset Parameters"
	groupRewardPool            = "Reward Pool"
	groupRewardPoolTotal       = "Reward Pool Total Value"
	groupPrincipal             = "Principal"
	groupYield                 = "Yield"
	rewardsIncludingEverything = "Value of rewards including Native assets, Alliance assets, and LSD appreciation"
)

var NativeFields = []Field{
	{Key: types.FieldTotalTokenSupply, Label: "Total Supply", Kind: KindInput, Group: groupNativeChainData},
	{Key: types.FieldInflationRate, Label: "Inflation Rate", Kind: KindInput, Group: groupNativeChainData, InputSuffix: "%"},
	{Key: types.FieldRewardPoolOnNativeChain, Label: "Reward Pool on Native Chain",
		SecondaryLabel: "Native asset issued by inflation over 1 year", Kind: KindDerived, Group: groupNativeChainData,
		Advanced: true, ZeroRequiresInput: true},
	{Key: types.FieldAssetPrice, Label: "Native Asset Price", Kind: KindInput, Group: groupNativeChainData, InputPrefix: "$"},
	{Key: types.FieldLSDAnnualEstimate, Label: "Annual Estimated LSD Growth Rate", SecondaryLabel: "Set to 0 if not an LSD",
		Kind: KindInput, Group: groupNativeChainData, Advanced: true, InputSuffix: "%"},
	{Key: types.FieldAllianceRewardWeight, Label: "Native Reward Weight", SecondaryLabel: "Native assets have a weight of 1",
		Kind: KindInput, Group: groupNativeStaking},
	{Key: types.FieldRewardPoolPercentage, Label: "Reward Weight Percentage",
		SecondaryLabel: "% of reward pool distributed to native stakers", Kind: KindDerived, Group: groupNativeStaking,
		Format: FormatPercent, ZeroRequiresInput: true},
	{Key: types.FieldAssetStakedInAlliance, Label: "Total native staked", SecondaryLabel: "Amount of native asset staked",
		Kind: KindInput, Group: groupNativeStaking},
	{Key: types.FieldRewardPoolMakeup, Label: "Native asset in reward pool",
		SecondaryLabel: "Amount of native asset in reward pool after 1 year", Kind: KindDerived, Group: groupRewardPool,
		Advanced: true, ZeroRequiresInput: true},
	{Key: types.FieldValueExcludingLSD, Label: "Value of native asset in reward pool",
		SecondaryLabel: "Value of native asset in reward pool after 1 year", Kind: KindDerived, Group: groupRewardPool,
		Advanced: true, Format: FormatCurrency, ZeroRequiresInput: true},
	{Key: types.FieldValueIncludingLSD, Label: "Value of native asset in reward pool including LSD",
		SecondaryLabel: "Value after 1 year, including LSD growth", Kind: KindDerived, Group: groupRewardPool,
		Advanced: true, Format: FormatCurrency, ZeroRequiresInput: true},
	{Key: types.FieldPercentageMakeupOfRewardPool, Label: "Percentage of reward pool value",
		SecondaryLabel: "Percentage of native asset in reward pool", Kind: KindDerived, Group: groupRewardPool,
		Advanced: true, Format: FormatPercent, ZeroRequiresInput: true},
	{Key: types.FieldPoolTotalValue, Label: "Total",
		SecondaryLabel: "Including Native assets, Alliance assets, and LSD appreciation after 1 year",
		Kind: KindDerived, Group: groupRewardPoolTotal, Format: FormatCurrency, ZeroRequiresInput: true},
	{Key: types.FieldPrincipalStakeExcludingRewards, Label: "Principal stake amount after 1 year",
		SecondaryLabel: "Native stake is not subject to a take rate", Kind: KindDerived, Group: groupPrincipal,
		Advanced: true, ZeroRequiresInput: true},
	{Key: types.FieldPrincipalStakeIncludingLSD, Label: "Principal stake value after 1 year",
		SecondaryLabel: "The value of original stake after 1 year, including LSD growth", Kind: KindDerived,
		Group: groupPrincipal, Advanced: true, Format: FormatCurrency, ZeroRequiresInput: true},
	{Key: types.FieldStakingRewardValue, Label: "Estimated rewards for native stakers",
		SecondaryLabel: rewardsIncludingEverything, Kind: KindDerived, Group: groupYield, Format: FormatCurrency,
		ZeroRequiresInput: true},
	{Key: types.FieldStakingEstimatedPercentage, Label: "Estimated percentage change over 1 year",
		SecondaryLabel: "Reward change including Native assets, Alliance assets, and LSD appreciation",
		Kind: KindDerived, Group: groupYield, Format: FormatPercent, ZeroRequiresInput: true},
}

var AllianceFields = []Field{
	{Key: types.FieldLSDAnnualEstimate, Label: "Annual Estimated LSD Growth Rate", SecondaryLabel: "Set to 0 if not an LSD",
		Kind: KindInput, Group: groupAssetData, InputSuffix: "%"},
	{Key: types.FieldAssetPrice, Label: "Asset Price", Kind: KindInput, Group: groupAssetData, InputPrefix: "$"},
	{Key: types.FieldAllianceRewardWeight, Label: "Asset Reward Weight",
		SecondaryLabel: "Weight of rewards given to stakers of this asset", Kind: KindInput, Group: groupAllianceParameters},
	{Key: types.FieldRewardPoolPercentage, Label: "Reward Weight Percentage",
		SecondaryLabel: "% of reward pool distributed to stakers of this asset", Kind: KindDerived,
		Group: groupAllianceParameters, Format: FormatPercent},
	{Key: types.FieldAnnualizedTakeRate, Label: "Annualized Take Rate (Optional)",
		SecondaryLabel: "% of this asset that will be redistributed to the reward pool after 1 year",
		Kind: KindInput, Group: groupAllianceParameters, InputSuffix: "%"},
	{Key: types.FieldTakeRateInterval, Label: "Take Rate Interval", SecondaryLabel: "In minutes", Kind: KindDerived,
		Group: groupAllianceParameters},
	{Key: types.FieldTakeRate, Label: "Take Rate Parameter", SecondaryLabel: "Used when adding an Alliance asset",
		Kind: KindDerived, Group: groupAllianceParameters, Format: FormatTakeRate},
	{Key: types.FieldAssetStakedInAlliance, Label: "Alliance Asset Staked",
		SecondaryLabel: "Amount staked using the Alliance module (AKA principal stake)", Kind: KindInput, Group: groupRewardPool},
	{Key: types.FieldRewardPoolMakeup, Label: "Amount in reward pool",
		SecondaryLabel: "Amount of Alliance asset redistributed to the reward pool after 1 year of the take rate",
		Kind: KindDerived, Group: groupRewardPool, Advanced: true},
	{Key: types.FieldValueExcludingLSD, Label: "Value of denom in reward pool excluding LSD",
		SecondaryLabel: "Value after 1 year of the take rate, without LSD growth", Kind: KindDerived,
		Group: groupRewardPool, Advanced: true, Format: FormatCurrency},
	{Key: types.FieldValueIncludingLSD, Label: "Value of denom in reward pool",
		SecondaryLabel: "Value after 1 year, including LSD growth and take rate", Kind: KindDerived,
		Group: groupRewardPool, Advanced: true, Format: FormatCurrency},
	{Key: types.FieldPercentageMakeupOfRewardPool, Label: "Percentage of reward pool value",
		SecondaryLabel: "Percentage of alliance asset in reward pool", Kind: KindDerived, Group: groupRewardPool,
		Advanced: true, Format: FormatPercent},
	{Key: types.FieldPrincipalStakeExcludingRewards, Label: "Principal stake amount after 1 year",
		SecondaryLabel: "The amount of original stake left after 1 year take rate", Kind: KindDerived,
		Group: groupPrincipal, Advanced: true},
	{Key: types.FieldPrincipalStakeIncludingLSD, Label: "Principal stake value after 1 year",
		SecondaryLabel: "The value of original stake after 1 year take rate, including LSD growth", Kind: KindDerived,
		Group: groupPrincipal, Advanced: true, Format: FormatCurrency},
	{Key: types.FieldStakingRewardValue, Label: "Estimated rewards for stakers of this asset",
		SecondaryLabel: rewardsIncludingEverything, Kind: KindDerived, Group: groupYield, Format: FormatCurrency},
	{Key: types.FieldStakingEstimatedPercentage, Label: "Estimated percentage change over 1 year",
		SecondaryLabel: "Reward change including Native assets, Alliance assets, take rate, and LSD appreciation",
		Kind: KindDerived, Group: groupYield, Format: FormatPercent},
}
