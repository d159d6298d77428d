// ./internal/state/input_sets_store.go
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // PostgreSQL driver for array support
	"github.com/rs/zerolog/log"

	"github.com/terra-money/alliance-estimator/internal/types"
)

var ErrInputSetNotFound = errors.New("input set not found")

const defaultListLimit = 50

// SaveInputSet stores a snapshot under a new id.
func SaveInputSet(ctx context.Context, name string, snap types.Snapshot) (types.InputSet, error) {
	if DB == nil {
		return types.InputSet{}, ErrStoreUnavailable
	}

	snapshotJSON, err := json.Marshal(snap)
	if err != nil {
		return types.InputSet{}, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	record := types.InputSet{
		InputSetSummary: types.InputSetSummary{
			ID:                 uuid.New(),
			Name:               name,
			CreatedAt:          time.Now().UTC(),
			AllianceAssetNames: allianceNames(snap),
		},
		Snapshot: snap,
	}

	query := `
		INSERT INTO input_sets (input_set_id, name, created_at, alliance_asset_names, snapshot)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err = DB.ExecContext(ctx, query,
		record.ID, record.Name, record.CreatedAt, pq.Array(record.AllianceAssetNames), snapshotJSON)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to save input set")
		return types.InputSet{}, fmt.Errorf("failed to save input set: %w", err)
	}

	log.Info().
		Str("input_set_id", record.ID.String()).
		Str("name", name).
		Int("alliance_assets", len(snap.AllianceAssets)).
		Msg("Input set saved to database")

	return record, nil
}

// LoadInputSet fetches one saved input set including its snapshot.
func LoadInputSet(ctx context.Context, id uuid.UUID) (types.InputSet, error) {
	if DB == nil {
		return types.InputSet{}, ErrStoreUnavailable
	}

	query := `
		SELECT input_set_id, name, created_at, alliance_asset_names, snapshot
		FROM input_sets
		WHERE input_set_id = $1;
	`
	var record types.InputSet
	var snapshotJSON []byte
	err := DB.QueryRowContext(ctx, query, id).Scan(
		&record.ID, &record.Name, &record.CreatedAt, pq.Array(&record.AllianceAssetNames), &snapshotJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return types.InputSet{}, fmt.Errorf("%w: %s", ErrInputSetNotFound, id)
	}
	if err != nil {
		log.Error().Err(err).Str("input_set_id", id.String()).Msg("Failed to load input set")
		return types.InputSet{}, fmt.Errorf("failed to load input set: %w", err)
	}

	if err := json.Unmarshal(snapshotJSON, &record.Snapshot); err != nil {
		return types.InputSet{}, fmt.Errorf("failed to unmarshal snapshot for input set %s: %w", id, err)
	}
	return record, nil
}

// ListInputSets returns the most recent input sets, newest first, without their snapshots.
func ListInputSets(ctx context.Context, limit int) ([]types.InputSetSummary, error) {
	if DB == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT input_set_id, name, created_at, alliance_asset_names
		FROM input_sets
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := DB.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list input sets")
		return nil, fmt.Errorf("failed to list input sets: %w", err)
	}
	defer rows.Close()

	summaries := make([]types.InputSetSummary, 0)
	for rows.Next() {
		var s types.InputSetSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, pq.Array(&s.AllianceAssetNames)); err != nil {
			return nil, fmt.Errorf("failed to scan input set row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating input set rows: %w", err)
	}
	return summaries, nil
}

// DeleteInputSet removes a saved input set.
func DeleteInputSet(ctx context.Context, id uuid.UUID) error {
	if DB == nil {
		return ErrStoreUnavailable
	}

	result, err := DB.ExecContext(ctx, `DELETE FROM input_sets WHERE input_set_id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("input_set_id", id.String()).Msg("Failed to delete input set")
		return fmt.Errorf("failed to delete input set: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrInputSetNotFound, id)
	}

	log.Info().Str("input_set_id", id.String()).Msg("Input set deleted")
	return nil
}

func allianceNames(snap types.Snapshot) []string {
	names := make([]string, 0, len(snap.AllianceAssets))
	for _, id := range snap.AllianceIDs() {
		names = append(names, snap.AllianceAssets[id].Name)
	}
	return names
}

// Store exposes the package-level input set functions as a value that can be injected
// into the web server.
type Store struct{}

func (Store) Save(ctx context.Context, name string, snap types.Snapshot) (types.InputSet, error) {
	return SaveInputSet(ctx, name, snap)
}

func (Store) Load(ctx context.Context, id uuid.UUID) (types.InputSet, error) {
	return LoadInputSet(ctx, id)
}

func (Store) List(ctx context.Context, limit int) ([]types.InputSetSummary, error) {
	return ListInputSets(ctx, limit)
}

func (Store) Delete(ctx context.Context, id uuid.UUID) error {
	return DeleteInputSet(ctx, id)
}
