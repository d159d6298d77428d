/*

The Engine runs one computation pass over a snapshot: participation filter, weight sum,
pool total, every derived set and every classification. Passes are memoized by a
fingerprint of the snapshot so unchanged inputs are never recomputed.

*/

package estimator

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/terra-money/alliance-estimator/internal/config"
	"github.com/terra-money/alliance-estimator/internal/logger"
	"github.com/terra-money/alliance-estimator/internal/types"
)

var estimatorLogger = logger.GetForComponent("estimator")

var (
	estimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alliance_estimator_estimates_total",
		Help: "Number of estimate requests, by cache result.",
	}, []string{"cache"})

	computeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alliance_estimator_compute_duration_seconds",
		Help:    "Time spent computing an estimate that was not cached.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	})
)

type cacheEntry struct {
	snapshot types.Snapshot
	estimate types.Estimate
}

type Engine struct {
	cache            *lru.Cache[uint64, cacheEntry]
	takeRateInterval float64
}

// NewEngine creates an engine memoizing up to cacheSize snapshots.
func NewEngine(cacheSize int) (*Engine, error) {
	cache, err := lru.New[uint64, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create estimate cache: %w", err)
	}
	return &Engine{cache: cache, takeRateInterval: config.TakeRateIntervalMinutes}, nil
}

// Estimate returns the estimate for snap. The returned value is shared with the cache
// and must not be modified.
func (e *Engine) Estimate(snap types.Snapshot) types.Estimate {
	key := Fingerprint(snap)
	if entry, ok := e.cache.Get(key); ok && sameSnapshot(entry.snapshot, snap) {
		estimatesTotal.WithLabelValues("hit").Inc()
		estimatorLogger.Debug().Uint64("fingerprint", key).Msg("Estimate served from cache")
		return entry.estimate
	}
	estimatesTotal.WithLabelValues("miss").Inc()

	start := time.Now()
	estimate := Compute(snap, e.takeRateInterval)
	computeDuration.Observe(time.Since(start).Seconds())

	e.cache.Add(key, cacheEntry{snapshot: snap.Clone(), estimate: estimate})

	estimatorLogger.Debug().
		Uint64("fingerprint", key).
		Int("allianceAssets", len(snap.AllianceAssets)).
		Float64("poolTotalValue", estimate.PoolTotalValue).
		Msg("Estimate computed")

	return estimate
}

// Compute runs a full pass without memoization.
func Compute(snap types.Snapshot, takeRateInterval float64) types.Estimate {
	participating := ParticipatingAssets(snap.AllianceInputs())
	weightSum := SumAllianceWeights(participating)
	poolTotal := CalculatePoolTotalValue(snap.Native, participating)

	nativeDerived := CalculateNativeValues(snap.Native, weightSum, poolTotal)
	estimate := types.Estimate{
		PoolTotalValue: poolTotal,
		WeightSum:      weightSum + snap.Native.AllianceRewardWeight,
		Native: types.NativeEstimate{
			Inputs:        snap.Native,
			Derived:       nativeDerived,
			InputRequired: ClassifyNative(nativeDerived),
		},
		Alliance: make([]types.AllianceEstimate, 0, len(snap.AllianceAssets)),
	}

	for _, id := range snap.AllianceIDs() {
		asset := snap.AllianceAssets[id]
		_, isParticipating := participating[id]

		// An asset still being filled in is estimated as if it had joined the pool.
		assetWeightSum, assetPoolTotal := weightSum, poolTotal
		if !isParticipating {
			assetWeightSum += asset.Inputs.AllianceRewardWeight
			assetPoolTotal += AllianceContribution(asset.Inputs)
		}

		derived := CalculateAllianceValues(asset.Inputs, assetWeightSum, snap.Native.AllianceRewardWeight, assetPoolTotal, takeRateInterval)
		estimate.Alliance = append(estimate.Alliance, types.AllianceEstimate{
			ID:            id,
			Name:          asset.Name,
			Inputs:        asset.Inputs,
			Derived:       derived,
			Participating: isParticipating,
			InputRequired: ClassifyAlliance(derived),
		})
	}

	return estimate
}

// Fingerprint hashes the bit-exact contents of a snapshot.
func Fingerprint(snap types.Snapshot) uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 64)

	writeString := func(s string) {
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(len(s)))
		_, _ = h.Write(buf)
		_, _ = h.WriteString(s)
	}
	writeFloats := func(values []types.FieldValue) {
		buf = buf[:0]
		for _, fv := range values {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(fv.Value))
		}
		_, _ = h.Write(buf)
	}

	writeString(snap.Native.ColumnName)
	writeString(snap.Native.Denom)
	writeFloats(snap.Native.Values())

	for _, id := range snap.AllianceIDs() {
		asset := snap.AllianceAssets[id]
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(id))
		_, _ = h.Write(buf)
		writeString(asset.Name)
		writeFloats(asset.Inputs.Values())
	}

	return h.Sum64()
}

func sameSnapshot(a, b types.Snapshot) bool {
	if a.Native.ColumnName != b.Native.ColumnName || a.Native.Denom != b.Native.Denom {
		return false
	}
	if !sameBits(a.Native.Values(), b.Native.Values()) || len(a.AllianceAssets) != len(b.AllianceAssets) {
		return false
	}
	for id, assetA := range a.AllianceAssets {
		assetB, ok := b.AllianceAssets[id]
		if !ok || assetA.Name != assetB.Name || !sameBits(assetA.Inputs.Values(), assetB.Inputs.Values()) {
			return false
		}
	}
	return true
}

func sameBits(a, b []types.FieldValue) bool {
	for i := range a {
		if math.Float64bits(a[i].Value) != math.Float64bits(b[i].Value) {
			return false
		}
	}
	return true
}
