package estimator

import (
	"github.com/terra-money/alliance-estimator/internal/fields"
	"github.com/terra-money/alliance-estimator/internal/types"
)

// RequiresInput reports whether a derived value cannot be shown yet.
func RequiresInput(v float64, zeroRequiresInput bool) bool {
	return !types.IsFinite(v) || (zeroRequiresInput && v == 0)
}

// ClassifyNative lists the native derived fields that still need more input, in display order.
func ClassifyNative(d types.NativeDerivedValues) []types.FieldKey {
	return classify(d.Values(), fields.NativeFields)
}

// ClassifyAlliance lists the alliance derived fields that still need more input, in display order.
func ClassifyAlliance(d types.AllianceDerivedValues) []types.FieldKey {
	return classify(d.Values(), fields.AllianceFields)
}

func classify(values []types.FieldValue, table []fields.Field) []types.FieldKey {
	required := make([]types.FieldKey, 0)
	for _, fv := range values {
		meta, _ := fields.ByKey(table, fv.Key)
		if RequiresInput(fv.Value, meta.ZeroRequiresInput) {
			required = append(required, fv.Key)
		}
	}
	return required
}
