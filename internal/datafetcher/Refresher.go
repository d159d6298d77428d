package datafetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/terra-money/alliance-estimator/internal/types"
)

// NativeUpdater receives keyed native input updates, typically the registry.
type NativeUpdater interface {
	UpdateNativeInputs(values map[types.FieldKey]float64) (types.NativeInputs, error)
}

// Refresher keeps the native inputs in sync with the chain.
type Refresher struct {
	clients   QueryClients
	target    NativeUpdater
	denom     string
	precision int
	logger    zerolog.Logger

	refreshCount int
}

func NewRefresher(clients QueryClients, target NativeUpdater, denom string, precision int) *Refresher {
	return &Refresher{
		clients:   clients,
		target:    target,
		denom:     denom,
		precision: precision,
		logger:    chainLogger.With().Str("denom", denom).Logger(),
	}
}

// Refresh fetches chain data once and applies it to the target.
func (r *Refresher) Refresh(ctx context.Context) (NativeChainData, error) {
	data, err := FetchNativeChainData(ctx, r.clients, r.denom, r.precision)
	if err != nil {
		return NativeChainData{}, err
	}
	if _, err := r.target.UpdateNativeInputs(data.Values()); err != nil {
		return NativeChainData{}, fmt.Errorf("failed to apply chain data: %w", err)
	}
	return data, nil
}

// RunLoop refreshes immediately and then on every tick until ctx is cancelled.
// Failed refreshes are logged and retried on the next tick.
func (r *Refresher) RunLoop(ctx context.Context, interval time.Duration) {
	r.logger.Info().
		Dur("interval", interval).
		Msg("Starting native chain refresh loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run first refresh immediately
	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Chain refresh loop stopped due to context cancellation")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Refresher) runOnce(ctx context.Context) {
	r.refreshCount++
	start := time.Now()

	if _, err := r.Refresh(ctx); err != nil {
		r.logger.Error().Err(err).Int("refresh", r.refreshCount).Msg("Native chain refresh failed")
		return
	}
	r.logger.Info().
		Int("refresh", r.refreshCount).
		Dur("took", time.Since(start)).
		Msg("Native inputs refreshed from chain")
}
