package datafetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"google.golang.org/grpc"

	"github.com/terra-money/alliance-estimator/internal/logger"
	"github.com/terra-money/alliance-estimator/internal/types"
	"github.com/terra-money/alliance-estimator/internal/utils"
)

var chainLogger = logger.GetForComponent("chain_fetcher")
var ErrInvalidChainData = errors.New("invalid chain data")

const queryTimeout = 10 * time.Second

// QueryClients bundles the module query clients the fetcher needs.
type QueryClients struct {
	Bank    banktypes.QueryClient
	Mint    minttypes.QueryClient
	Staking stakingtypes.QueryClient
}

// NewQueryClients builds every query client from one gRPC connection.
func NewQueryClients(conn *grpc.ClientConn) QueryClients {
	return QueryClients{
		Bank:    banktypes.NewQueryClient(conn),
		Mint:    minttypes.NewQueryClient(conn),
		Staking: stakingtypes.NewQueryClient(conn),
	}
}

// NativeChainData holds the native inputs that can be read from chain, in display units.
type NativeChainData struct {
	TotalTokenSupply float64   `json:"totalTokenSupply"`
	InflationRate    float64   `json:"inflationRate"` // percent
	BondedTokens     float64   `json:"assetStakedInAlliance"`
	FetchedAt        time.Time `json:"fetchedAt"`
}

// Values returns the chain data as a keyed native input update.
func (d NativeChainData) Values() map[types.FieldKey]float64 {
	return map[types.FieldKey]float64{
		types.FieldTotalTokenSupply:      d.TotalTokenSupply,
		types.FieldInflationRate:         d.InflationRate,
		types.FieldAssetStakedInAlliance: d.BondedTokens,
	}
}

// ApplyToNative overwrites supply, inflation and staked amount, leaving every other input alone.
func ApplyToNative(in types.NativeInputs, data NativeChainData) types.NativeInputs {
	for key, v := range data.Values() {
		in.Set(key, v)
	}
	return in
}

// FetchNativeChainData queries total supply, inflation and bonded tokens for denom.
// All three must succeed; no partial results are returned.
func FetchNativeChainData(ctx context.Context, clients QueryClients, denom string, precision int) (NativeChainData, error) {
	if clients.Bank == nil || clients.Mint == nil || clients.Staking == nil {
		return NativeChainData{}, errors.New("query clients cannot be nil")
	}
	if denom == "" {
		return NativeChainData{}, fmt.Errorf("%w: denom is empty", ErrInvalidChainData)
	}

	chainLogger.Debug().Str("denom", denom).Msg("Fetching native chain data")

	supply, err := fetchSupply(ctx, clients.Bank, denom, precision)
	if err != nil {
		return NativeChainData{}, err
	}

	inflation, err := fetchInflation(ctx, clients.Mint)
	if err != nil {
		return NativeChainData{}, err
	}

	bonded, err := fetchBondedTokens(ctx, clients.Staking, precision)
	if err != nil {
		return NativeChainData{}, err
	}

	if bonded > supply {
		chainLogger.Error().Float64("bonded", bonded).Float64("supply", supply).Msg("Bonded tokens exceed total supply")
		return NativeChainData{}, fmt.Errorf("%w: bonded tokens %f exceed supply %f (check NATIVE_DENOM and NATIVE_PRECISION)",
			ErrInvalidChainData, bonded, supply)
	}

	data := NativeChainData{
		TotalTokenSupply: supply,
		InflationRate:    inflation,
		BondedTokens:     bonded,
		FetchedAt:        time.Now().UTC(),
	}

	chainLogger.Info().
		Str("denom", denom).
		Float64("totalSupply", supply).
		Float64("inflationRate", inflation).
		Float64("bondedTokens", bonded).
		Msg("Native chain data fetched")

	return data, nil
}

func fetchSupply(ctx context.Context, client banktypes.QueryClient, denom string, precision int) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	resp, err := client.SupplyOf(ctx, &banktypes.QuerySupplyOfRequest{Denom: denom})
	if err != nil {
		chainLogger.Error().Err(err).Str("denom", denom).Msg("Failed to query supply")
		return 0, fmt.Errorf("bank supply query failed: %w", err)
	}
	if resp == nil {
		return 0, errors.New("nil response from bank module")
	}

	supply, err := utils.SDKIntToFloat64(resp.Amount.Amount, precision)
	if err != nil {
		return 0, errors.Join(fmt.Errorf("%w: supply of %s", ErrInvalidChainData, denom), err)
	}
	if supply == 0 {
		return 0, fmt.Errorf("%w: no supply for denom %s", ErrInvalidChainData, denom)
	}
	return supply, nil
}

func fetchInflation(ctx context.Context, client minttypes.QueryClient) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	resp, err := client.Inflation(ctx, &minttypes.QueryInflationRequest{})
	if err != nil {
		chainLogger.Error().Err(err).Msg("Failed to query inflation")
		return 0, fmt.Errorf("mint inflation query failed: %w", err)
	}
	if resp == nil {
		return 0, errors.New("nil response from mint module")
	}

	inflation, err := utils.LegacyDecToPercent(resp.Inflation)
	if err != nil {
		return 0, errors.Join(fmt.Errorf("%w: inflation", ErrInvalidChainData), err)
	}
	return inflation, nil
}

func fetchBondedTokens(ctx context.Context, client stakingtypes.QueryClient, precision int) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	resp, err := client.Pool(ctx, &stakingtypes.QueryPoolRequest{})
	if err != nil {
		chainLogger.Error().Err(err).Msg("Failed to query staking pool")
		return 0, fmt.Errorf("staking pool query failed: %w", err)
	}
	if resp == nil {
		return 0, errors.New("nil response from staking module")
	}

	bonded, err := utils.SDKIntToFloat64(resp.Pool.BondedTokens, precision)
	if err != nil {
		return 0, errors.Join(fmt.Errorf("%w: bonded tokens", ErrInvalidChainData), err)
	}
	return bonded, nil
}
