/*

The Registry owns the mutable estimator state: the native input set and the alliance asset
collection. Writers are serialized and readers receive deep copies, so a computation pass
never observes a partially applied update.

*/

package registry

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/terra-money/alliance-estimator/internal/config"
	"github.com/terra-money/alliance-estimator/internal/logger"
	"github.com/terra-money/alliance-estimator/internal/types"
)

var (
	ErrAssetNotFound = errors.New("alliance asset not found")
	ErrNegativeInput = errors.New("input values must not be negative")
	ErrInfiniteInput = errors.New("input values must be finite")
)

var registryLogger = logger.GetForComponent("registry")

type Registry struct {
	mu       sync.RWMutex
	native   types.NativeInputs
	alliance map[types.AssetID]types.AllianceAsset
	lastID   types.AssetID
	now      func() time.Time
}

// New creates a registry holding the default native inputs and no alliance assets.
func New() *Registry {
	return &Registry{
		native:   config.DefaultNativeInputs(),
		alliance: make(map[types.AssetID]types.AllianceAsset),
		now:      time.Now,
	}
}

// Snapshot returns a consistent deep copy of the whole state.
func (r *Registry) Snapshot() types.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return types.Snapshot{AllianceAssets: r.alliance, Native: r.native}.Clone()
}

func (r *Registry) Native() types.NativeInputs {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.native
}

// AllianceAssets returns a copy of the alliance collection keyed by asset id.
func (r *Registry) AllianceAssets() map[types.AssetID]types.AllianceAsset {
	return r.Snapshot().AllianceAssets
}

func (r *Registry) AllianceAsset(id types.AssetID) (types.AllianceAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.alliance[id]
	if !ok {
		return types.AllianceAsset{}, fmt.Errorf("%w: %d", ErrAssetNotFound, id)
	}
	return asset, nil
}

// AddAllianceAsset creates an asset with every input missing. Ids come from the clock in
// milliseconds and are bumped when two assets are added within the same millisecond, so
// an id is never reused even after its asset is removed.
func (r *Registry) AddAllianceAsset(name string) (types.AssetID, types.AllianceAsset) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := types.AssetID(r.now().UnixMilli())
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id

	asset := types.AllianceAsset{Name: name, Inputs: types.NewAllianceInputs()}
	r.alliance[id] = asset

	registryLogger.Debug().Int64("assetID", int64(id)).Str("name", name).Msg("Alliance asset added")
	return id, asset
}

func (r *Registry) RemoveAllianceAsset(id types.AssetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.alliance[id]; !ok {
		return fmt.Errorf("%w: %d", ErrAssetNotFound, id)
	}
	delete(r.alliance, id)

	registryLogger.Debug().Int64("assetID", int64(id)).Msg("Alliance asset removed")
	return nil
}

func (r *Registry) RenameAllianceAsset(id types.AssetID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.alliance[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrAssetNotFound, id)
	}
	asset.Name = name
	r.alliance[id] = asset
	return nil
}

// UpdateAllianceInputs applies a keyed update to one asset. Keys that are not alliance
// inputs are ignored. The update is all-or-nothing: a negative or infinite value rejects
// every change.
func (r *Registry) UpdateAllianceInputs(id types.AssetID, values map[types.FieldKey]float64) (types.AllianceAsset, error) {
	if err := checkValues(values); err != nil {
		return types.AllianceAsset{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.alliance[id]
	if !ok {
		return types.AllianceAsset{}, fmt.Errorf("%w: %d", ErrAssetNotFound, id)
	}
	for key, v := range values {
		if !asset.Inputs.Set(key, v) {
			registryLogger.Debug().Str("field", string(key)).Msg("Ignoring unknown alliance input")
		}
	}
	r.alliance[id] = asset
	return asset, nil
}

// UpdateNativeInputs applies a keyed update to the native inputs, ignoring unknown keys.
func (r *Registry) UpdateNativeInputs(values map[types.FieldKey]float64) (types.NativeInputs, error) {
	return r.UpdateNative(values, "", "")
}

// UpdateNativeLabels changes the native display name and denom. Empty values are left as is.
func (r *Registry) UpdateNativeLabels(columnName, denom string) types.NativeInputs {
	native, _ := r.UpdateNative(nil, columnName, denom)
	return native
}

// UpdateNative applies input values and labels under a single write, so readers see
// either none or all of them. Rejected values leave the labels untouched too.
func (r *Registry) UpdateNative(values map[types.FieldKey]float64, columnName, denom string) (types.NativeInputs, error) {
	if err := checkValues(values); err != nil {
		return types.NativeInputs{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, v := range values {
		if !r.native.Set(key, v) {
			registryLogger.Debug().Str("field", string(key)).Msg("Ignoring unknown native input")
		}
	}
	if columnName != "" {
		r.native.ColumnName = columnName
	}
	if denom != "" {
		r.native.Denom = denom
	}
	return r.native, nil
}

// Replace swaps the whole state for snap, as when importing a share link or a saved set.
func (r *Registry) Replace(snap types.Snapshot) error {
	if err := checkSnapshot(snap); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceLocked(snap)
	return nil
}

// LoadExample replaces the state with the demo data set.
func (r *Registry) LoadExample() {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := types.Snapshot{
		AllianceAssets: make(map[types.AssetID]types.AllianceAsset),
		Native:         config.ExampleNativeInputs(),
	}
	base := types.AssetID(r.now().UnixMilli())
	if base <= r.lastID {
		base = r.lastID + 1
	}
	for i, asset := range config.ExampleAllianceAssets() {
		snap.AllianceAssets[base+types.AssetID(i)] = asset
	}
	r.replaceLocked(snap)
}

func (r *Registry) replaceLocked(snap types.Snapshot) {
	clone := snap.Clone()
	if clone.Native.ColumnName == "" {
		clone.Native.ColumnName = config.DefaultNativeColumnName
	}
	if clone.Native.Denom == "" {
		clone.Native.Denom = config.DefaultNativeDenom
	}

	r.native = clone.Native
	r.alliance = clone.AllianceAssets
	for id := range r.alliance {
		if id > r.lastID {
			r.lastID = id
		}
	}

	registryLogger.Info().Int("allianceAssets", len(r.alliance)).Msg("Registry state replaced")
}

func checkSnapshot(snap types.Snapshot) error {
	for _, fv := range snap.Native.Values() {
		if err := checkValue(fv.Value); err != nil {
			return fmt.Errorf("%w: native %s", err, fv.Key)
		}
	}
	for id, asset := range snap.AllianceAssets {
		for _, fv := range asset.Inputs.Values() {
			if err := checkValue(fv.Value); err != nil {
				return fmt.Errorf("%w: asset %d %s", err, id, fv.Key)
			}
		}
	}
	return nil
}

func checkValues(values map[types.FieldKey]float64) error {
	for key, v := range values {
		if err := checkValue(v); err != nil {
			return fmt.Errorf("%w: %s", err, key)
		}
	}
	return nil
}

// checkValue accepts NaN, which marks a missing input.
func checkValue(v float64) error {
	switch {
	case v < 0:
		return ErrNegativeInput
	case math.IsInf(v, 1):
		return ErrInfiniteInput
	}
	return nil
}
