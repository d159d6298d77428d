package state

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-money/alliance-estimator/internal/types"
)

// withMockDB points the package pool at a sqlmock connection for one test.
func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	previous := DB
	DB = db
	t.Cleanup(func() {
		DB = previous
		db.Close()
	})
	return mock
}

// snapshotArg matches a JSON snapshot argument holding the given number of alliance assets.
type snapshotArg int

func (want snapshotArg) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		return false
	}
	var snap types.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return false
	}
	return len(snap.AllianceAssets) == int(want)
}

func storedSnapshot() types.Snapshot {
	inputs := types.NewAllianceInputs()
	inputs.AssetPrice = 0.015
	return types.Snapshot{
		AllianceAssets: map[types.AssetID]types.AllianceAsset{
			2: {Name: "Alliance LSD2", Inputs: types.NewAllianceInputs()},
			1: {Name: "Alliance LSD1", Inputs: inputs},
		},
		Native: types.NativeInputs{ColumnName: "Native", Denom: "LUNA", InflationRate: 7, TotalTokenSupply: math.NaN(),
			AssetPrice: 1.3, AllianceRewardWeight: 1, AssetStakedInAlliance: math.NaN()},
	}
}

func TestStoreWithoutDatabase(t *testing.T) {
	DB = nil
	ctx := context.Background()
	store := Store{}

	_, err := store.Save(ctx, "x", types.Snapshot{})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = store.Load(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = store.List(ctx, 10)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete(ctx, uuid.New()), ErrStoreUnavailable)

	assert.ErrorIs(t, EnsureSchema(), ErrStoreUnavailable)
	assert.ErrorIs(t, ResetSchema(), ErrStoreUnavailable)
	assert.ErrorIs(t, TestDBConnection(), ErrStoreUnavailable)
}

func TestAllianceNamesFollowIDOrder(t *testing.T) {
	snap := types.Snapshot{AllianceAssets: map[types.AssetID]types.AllianceAsset{
		30: {Name: "third"},
		10: {Name: "first"},
		20: {Name: "second"},
	}}
	assert.Equal(t, []string{"first", "second", "third"}, allianceNames(snap))
	assert.Empty(t, allianceNames(types.Snapshot{}))
}

func TestDBConfigEnabled(t *testing.T) {
	assert.False(t, DBConfig{}.Enabled())
	assert.True(t, DBConfig{Host: "localhost"}.Enabled())
}

func TestDBConfigFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "estimator")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "alliance")
	t.Setenv("DB_SSLMODE", "require")

	assert.Equal(t, DBConfig{
		Host: "db.internal", Port: 6543, User: "estimator", Password: "secret", DBName: "alliance", SSLMode: "require",
	}, DBConfigFromEnv())

	t.Setenv("DB_PORT", "not-a-port")
	assert.Equal(t, 5432, DBConfigFromEnv().Port)

	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	cfg := DBConfigFromEnv()
	assert.False(t, cfg.Enabled())
	assert.Equal(t, 5432, cfg.Port)
}

func TestSaveInputSet(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectExec("INSERT INTO input_sets").
		WithArgs(sqlmock.AnyArg(), "baseline", sqlmock.AnyArg(), `{"Alliance LSD1","Alliance LSD2"}`, snapshotArg(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record, err := SaveInputSet(context.Background(), "baseline", storedSnapshot())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, "baseline", record.Name)
	assert.Equal(t, []string{"Alliance LSD1", "Alliance LSD2"}, record.AllianceAssetNames)
	assert.Equal(t, time.UTC, record.CreatedAt.Location())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveInputSetDatabaseError(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectExec("INSERT INTO input_sets").WillReturnError(errors.New("connection reset"))

	_, err := SaveInputSet(context.Background(), "baseline", storedSnapshot())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadInputSet(t *testing.T) {
	mock := withMockDB(t)
	id := uuid.New()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snapshotJSON, err := json.Marshal(storedSnapshot())
	require.NoError(t, err)

	mock.ExpectQuery("SELECT input_set_id, name, created_at, alliance_asset_names, snapshot").
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"input_set_id", "name", "created_at", "alliance_asset_names", "snapshot"}).
			AddRow(id.String(), "baseline", created, `{"Alliance LSD1","Alliance LSD2"}`, snapshotJSON))

	record, err := LoadInputSet(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, "baseline", record.Name)
	assert.True(t, created.Equal(record.CreatedAt))
	assert.Equal(t, []string{"Alliance LSD1", "Alliance LSD2"}, record.AllianceAssetNames)

	require.Len(t, record.Snapshot.AllianceAssets, 2)
	assert.Equal(t, 0.015, record.Snapshot.AllianceAssets[1].Inputs.AssetPrice)
	assert.True(t, math.IsNaN(record.Snapshot.AllianceAssets[2].Inputs.AssetPrice))
	assert.Equal(t, 7.0, record.Snapshot.Native.InflationRate)
	assert.True(t, math.IsNaN(record.Snapshot.Native.TotalTokenSupply))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadInputSetNotFound(t *testing.T) {
	mock := withMockDB(t)
	id := uuid.New()
	mock.ExpectQuery("SELECT input_set_id, name, created_at, alliance_asset_names, snapshot").
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"input_set_id", "name", "created_at", "alliance_asset_names", "snapshot"}))

	_, err := LoadInputSet(context.Background(), id)
	assert.ErrorIs(t, err, ErrInputSetNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListInputSets(t *testing.T) {
	mock := withMockDB(t)
	newer, older := uuid.New(), uuid.New()
	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs(defaultListLimit).
		WillReturnRows(sqlmock.NewRows([]string{"input_set_id", "name", "created_at", "alliance_asset_names"}).
			AddRow(newer.String(), "today", now, `{"Alliance LSD1"}`).
			AddRow(older.String(), "yesterday", now.Add(-24*time.Hour), `{}`))

	summaries, err := ListInputSets(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newer, summaries[0].ID)
	assert.Equal(t, []string{"Alliance LSD1"}, summaries[0].AllianceAssetNames)
	assert.Equal(t, "yesterday", summaries[1].Name)
	assert.Empty(t, summaries[1].AllianceAssetNames)

	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"input_set_id", "name", "created_at", "alliance_asset_names"}))

	summaries, err = ListInputSets(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteInputSet(t *testing.T) {
	mock := withMockDB(t)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM input_sets").WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM input_sets").WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, DeleteInputSet(context.Background(), id))
	assert.ErrorIs(t, DeleteInputSet(context.Background(), id), ErrInputSetNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetSchema(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectExec("DROP TABLE IF EXISTS input_sets").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS input_sets").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, ResetSchema())
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS input_sets").WillReturnError(errors.New("permission denied"))
	assert.Error(t, EnsureSchema())
}
