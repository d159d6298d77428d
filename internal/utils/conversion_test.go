package utils

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSDKIntToFloat64(t *testing.T) {
	tests := []struct {
		name      string
		amount    sdkmath.Int
		precision int
		want      float64
		wantErr   error
	}{
		{name: "micro units", amount: sdkmath.NewInt(1500000), precision: 6, want: 1.5},
		{name: "zero precision", amount: sdkmath.NewInt(42), precision: 0, want: 42},
		{name: "supply sized", amount: sdkmath.NewInt(1073271122000000), precision: 6, want: 1073271122},
		{name: "zero", amount: sdkmath.ZeroInt(), precision: 6, want: 0},
		{name: "negative", amount: sdkmath.NewInt(-1), precision: 6, wantErr: ErrAmountNegative},
		{name: "nil", amount: sdkmath.Int{}, precision: 6, wantErr: ErrAmountNil},
		{name: "precision too large", amount: sdkmath.NewInt(1), precision: 19, wantErr: ErrInvalidPrecision},
		{name: "precision negative", amount: sdkmath.NewInt(1), precision: -1, wantErr: ErrInvalidPrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SDKIntToFloat64(tt.amount, tt.precision)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLegacyDecToPercent(t *testing.T) {
	got, err := LegacyDecToPercent(sdkmath.LegacyMustNewDecFromStr("0.07"))
	require.NoError(t, err)
	assert.InDelta(t, 7.0, got, 1e-12)

	got, err = LegacyDecToPercent(sdkmath.LegacyZeroDec())
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = LegacyDecToPercent(sdkmath.LegacyMustNewDecFromStr("-0.01"))
	assert.ErrorIs(t, err, ErrAmountNegative)

	_, err = LegacyDecToPercent(sdkmath.LegacyDec{})
	assert.ErrorIs(t, err, ErrAmountNil)
}
