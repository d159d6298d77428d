/*
This file contains common utility functions for converting chain numerics
(SDK Int amounts and LegacyDec rates) into the float64 values the estimator works with.
*/

package utils

import (
	"errors"
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"
)

// Error definitions for zero-tolerance error handling
var (
	ErrInvalidPrecision = errors.New("precision is invalid")
	ErrAmountNil        = errors.New("amount is nil")
	ErrAmountNegative   = errors.New("amount is negative")
	ErrNotFinite        = errors.New("value is not finite")
	ErrConversionFailed = errors.New("conversion failed")
)

// SDKIntToFloat64 converts an SDK Int base amount to display units, e.g. 1_500_000 uluna at
// precision 6 becomes 1.5.
func SDKIntToFloat64(amount sdkmath.Int, precision int) (float64, error) {
	if precision < 0 || precision > sdkmath.LegacyPrecision {
		return 0, fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidPrecision, precision, sdkmath.LegacyPrecision)
	}
	if amount.IsNil() {
		return 0, ErrAmountNil
	}
	if amount.IsNegative() {
		return 0, ErrAmountNegative
	}

	return legacyDecToFloat64(sdkmath.LegacyNewDecFromIntWithPrec(amount, int64(precision)))
}

// LegacyDecToPercent converts a fractional rate (0.07) into a percentage (7).
func LegacyDecToPercent(rate sdkmath.LegacyDec) (float64, error) {
	if rate.IsNil() {
		return 0, ErrAmountNil
	}
	if rate.IsNegative() {
		return 0, ErrAmountNegative
	}

	return legacyDecToFloat64(rate.MulInt64(100))
}

func legacyDecToFloat64(dec sdkmath.LegacyDec) (float64, error) {
	resultFloat, err := dec.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	if math.IsNaN(resultFloat) || math.IsInf(resultFloat, 0) {
		return 0, fmt.Errorf("%w: result is %f", ErrNotFinite, resultFloat)
	}

	return resultFloat, nil
}
