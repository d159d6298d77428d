package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/terra-money/alliance-estimator/internal/fields"
	"github.com/terra-money/alliance-estimator/internal/registry"
	"github.com/terra-money/alliance-estimator/internal/sharelink"
	"github.com/terra-money/alliance-estimator/internal/state"
	"github.com/terra-money/alliance-estimator/internal/types"
)

const (
	maxBodyBytes          = 1 << 20
	defaultAllianceName   = "Alliance Asset"
	defaultInputSetsLimit = 50
	maxInputSetsLimit     = 500
)

// allianceAssetView is an alliance asset together with its id.
type allianceAssetView struct {
	ID     types.AssetID        `json:"id"`
	Name   string               `json:"name"`
	Inputs types.AllianceInputs `json:"inputValues"`
}

// displayValues holds the rendered strings for every field, keyed by field name.
type displayValues struct {
	Native   map[types.FieldKey]string                   `json:"native"`
	Alliance map[types.AssetID]map[types.FieldKey]string `json:"alliance"`
}

// handleHealth returns system health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status := "HEALTHY"
	statusCode := http.StatusOK

	databaseStatus := "DISABLED"
	if ws.storeHealth != nil {
		databaseStatus = "CONNECTED"
		if err := ws.storeHealth(); err != nil {
			webLogger.Warn().Err(err).Msg("Database health check failed")
			databaseStatus = "DISCONNECTED"
			status = "DEGRADED"
			statusCode = http.StatusServiceUnavailable
		}
	}

	chainStatus := "DISABLED"
	if ws.refresher != nil {
		chainStatus = "ENABLED"
	}

	health := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(ws.startedAt).String(),
		"system": map[string]interface{}{
			"go_version":     runtime.Version(),
			"num_goroutines": runtime.NumGoroutine(),
			"memory_alloc":   m.Alloc,
			"memory_sys":     m.Sys,
			"gc_runs":        m.NumGC,
		},
		"estimator": map[string]interface{}{
			"alliance_assets": len(ws.registry.AllianceAssets()),
			"database":        databaseStatus,
			"chain_refresh":   chainStatus,
		},
	}

	ws.writeJSONResponse(w, statusCode, health)
}

// handleGetFields returns the field metadata for both tables, grouped for display
func (ws *WebServer) handleGetFields(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"native":   fields.Grouped(fields.NativeFields),
		"alliance": fields.Grouped(fields.AllianceFields),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetEstimate computes the estimate for the current state, or for the snapshot
// carried by the importData query parameter without touching the state.
func (ws *WebServer) handleGetEstimate(w http.ResponseWriter, r *http.Request) {
	snap := ws.registry.Snapshot()
	if encoded := r.URL.Query().Get(sharelink.QueryParam); encoded != "" {
		decoded, err := sharelink.Decode(encoded)
		if err != nil {
			ws.writeError(w, err, "Invalid import data")
			return
		}
		snap = decoded
	}

	ws.writeEstimate(w, http.StatusOK, snap)
}

func (ws *WebServer) handleGetNative(w http.ResponseWriter, r *http.Request) {
	ws.writeJSONResponse(w, http.StatusOK, ws.registry.Native())
}

// handlePatchNative applies a partial update to the native inputs. Besides the numeric
// inputs the body may carry columnName and denom.
func (ws *WebServer) handlePatchNative(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := ws.decodeBody(r, &body); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var columnName, denom string
	for key, target := range map[string]*string{"columnName": &columnName, "denom": &denom} {
		raw, ok := body[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			ws.writeErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("%s must be a string", key))
			return
		}
		delete(body, key)
	}

	values, err := decodeFieldValues(body)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	native, err := ws.registry.UpdateNative(values, strings.TrimSpace(columnName), strings.TrimSpace(denom))
	if err != nil {
		ws.writeError(w, err, "Failed to update native inputs")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, native)
}

// handleRefreshNative pulls supply, inflation and bonded tokens from the node
func (ws *WebServer) handleRefreshNative(w http.ResponseWriter, r *http.Request) {
	if ws.refresher == nil {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "Chain refresh is not configured")
		return
	}

	data, err := ws.refresher.Refresh(r.Context())
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to refresh native inputs from chain")
		ws.writeErrorResponse(w, http.StatusBadGateway, "Failed to refresh native inputs from chain")
		return
	}

	response := map[string]interface{}{
		"chainData": data,
		"native":    ws.registry.Native(),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleListAlliance returns every alliance asset in ascending id order
func (ws *WebServer) handleListAlliance(w http.ResponseWriter, r *http.Request) {
	snap := ws.registry.Snapshot()
	assets := make([]allianceAssetView, 0, len(snap.AllianceAssets))
	for _, id := range snap.AllianceIDs() {
		asset := snap.AllianceAssets[id]
		assets = append(assets, allianceAssetView{ID: id, Name: asset.Name, Inputs: asset.Inputs})
	}

	response := map[string]interface{}{
		"assets": assets,
		"count":  len(assets),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleAddAlliance creates an alliance asset with every input missing
func (ws *WebServer) handleAddAlliance(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 {
		if err := ws.decodeBody(r, &body); err != nil && !errors.Is(err, io.EOF) {
			ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		name = defaultAllianceName
	}

	id, asset := ws.registry.AddAllianceAsset(name)
	ws.writeJSONResponse(w, http.StatusCreated, allianceAssetView{ID: id, Name: asset.Name, Inputs: asset.Inputs})
}

// handlePatchAlliance applies a partial update to one asset's inputs
func (ws *WebServer) handlePatchAlliance(w http.ResponseWriter, r *http.Request) {
	id, ok := ws.assetID(w, r)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := ws.decodeBody(r, &body); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	values, err := decodeFieldValues(body)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	asset, err := ws.registry.UpdateAllianceInputs(id, values)
	if err != nil {
		ws.writeError(w, err, "Failed to update alliance asset")
		return
	}
	ws.writeJSONResponse(w, http.StatusOK, allianceAssetView{ID: id, Name: asset.Name, Inputs: asset.Inputs})
}

func (ws *WebServer) handleRenameAlliance(w http.ResponseWriter, r *http.Request) {
	id, ok := ws.assetID(w, r)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := ws.decodeBody(r, &body); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Name must not be empty")
		return
	}

	if err := ws.registry.RenameAllianceAsset(id, name); err != nil {
		ws.writeError(w, err, "Failed to rename alliance asset")
		return
	}
	asset, err := ws.registry.AllianceAsset(id)
	if err != nil {
		ws.writeError(w, err, "Failed to rename alliance asset")
		return
	}
	ws.writeJSONResponse(w, http.StatusOK, allianceAssetView{ID: id, Name: asset.Name, Inputs: asset.Inputs})
}

func (ws *WebServer) handleDeleteAlliance(w http.ResponseWriter, r *http.Request) {
	id, ok := ws.assetID(w, r)
	if !ok {
		return
	}

	if err := ws.registry.RemoveAllianceAsset(id); err != nil {
		ws.writeError(w, err, "Failed to remove alliance asset")
		return
	}

	response := map[string]interface{}{
		"deleted": id,
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetShare returns a link that restores the current state
func (ws *WebServer) handleGetShare(w http.ResponseWriter, r *http.Request) {
	snap := ws.registry.Snapshot()

	encoded, err := sharelink.Encode(snap)
	if err != nil {
		ws.writeError(w, err, "Failed to encode state")
		return
	}
	link, err := sharelink.BuildLink(ws.publicURL, snap)
	if err != nil {
		ws.writeError(w, err, "Failed to build share link")
		return
	}

	response := map[string]interface{}{
		"link":       link,
		"importData": encoded,
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleImport replaces the state with a shared snapshot. The snapshot may come from the
// importData query parameter, or from a body carrying importData or a full link.
func (ws *WebServer) handleImport(w http.ResponseWriter, r *http.Request) {
	encoded := r.URL.Query().Get(sharelink.QueryParam)

	var snap types.Snapshot
	switch {
	case encoded != "":
		decoded, err := sharelink.Decode(encoded)
		if err != nil {
			ws.writeError(w, err, "Invalid import data")
			return
		}
		snap = decoded
	default:
		var body struct {
			ImportData string `json:"importData"`
			Link       string `json:"link"`
		}
		if err := ws.decodeBody(r, &body); err != nil {
			ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}

		var err error
		switch {
		case body.ImportData != "":
			snap, err = sharelink.Decode(body.ImportData)
		case body.Link != "":
			var found bool
			snap, found, err = sharelink.FromURL(body.Link)
			if err == nil && !found {
				err = fmt.Errorf("%w: link has no %s parameter", sharelink.ErrInvalidShareLink, sharelink.QueryParam)
			}
		default:
			ws.writeErrorResponse(w, http.StatusBadRequest, "importData or link is required")
			return
		}
		if err != nil {
			ws.writeError(w, err, "Invalid import data")
			return
		}
	}

	if err := ws.registry.Replace(snap); err != nil {
		ws.writeError(w, err, "Failed to import state")
		return
	}
	webLogger.Info().Int("allianceAssets", len(snap.AllianceAssets)).Msg("State imported from share link")

	ws.writeEstimate(w, http.StatusOK, ws.registry.Snapshot())
}

// handleLoadExample replaces the state with the demo data set
func (ws *WebServer) handleLoadExample(w http.ResponseWriter, r *http.Request) {
	ws.registry.LoadExample()
	ws.writeEstimate(w, http.StatusOK, ws.registry.Snapshot())
}

// handleListInputSets returns saved input sets, newest first
func (ws *WebServer) handleListInputSets(w http.ResponseWriter, r *http.Request) {
	if !ws.requireStore(w) {
		return
	}

	limit := defaultInputSetsLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= maxInputSetsLimit {
			limit = parsed
		}
	}

	sets, err := ws.store.List(r.Context(), limit)
	if err != nil {
		ws.writeError(w, err, "Failed to retrieve input sets")
		return
	}

	response := map[string]interface{}{
		"inputSets": sets,
		"count":     len(sets),
		"limit":     limit,
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleSaveInputSet stores the current state under a name
func (ws *WebServer) handleSaveInputSet(w http.ResponseWriter, r *http.Request) {
	if !ws.requireStore(w) {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := ws.decodeBody(r, &body); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Name must not be empty")
		return
	}

	set, err := ws.store.Save(r.Context(), name, ws.registry.Snapshot())
	if err != nil {
		ws.writeError(w, err, "Failed to save input set")
		return
	}
	ws.writeJSONResponse(w, http.StatusCreated, set)
}

func (ws *WebServer) handleGetInputSet(w http.ResponseWriter, r *http.Request) {
	if !ws.requireStore(w) {
		return
	}
	id, ok := ws.inputSetID(w, r)
	if !ok {
		return
	}

	set, err := ws.store.Load(r.Context(), id)
	if err != nil {
		ws.writeError(w, err, "Failed to retrieve input set")
		return
	}
	ws.writeJSONResponse(w, http.StatusOK, set)
}

func (ws *WebServer) handleDeleteInputSet(w http.ResponseWriter, r *http.Request) {
	if !ws.requireStore(w) {
		return
	}
	id, ok := ws.inputSetID(w, r)
	if !ok {
		return
	}

	if err := ws.store.Delete(r.Context(), id); err != nil {
		ws.writeError(w, err, "Failed to delete input set")
		return
	}

	response := map[string]interface{}{
		"deleted": id,
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleLoadInputSet replaces the state with a saved input set
func (ws *WebServer) handleLoadInputSet(w http.ResponseWriter, r *http.Request) {
	if !ws.requireStore(w) {
		return
	}
	id, ok := ws.inputSetID(w, r)
	if !ok {
		return
	}

	set, err := ws.store.Load(r.Context(), id)
	if err != nil {
		ws.writeError(w, err, "Failed to retrieve input set")
		return
	}
	if err := ws.registry.Replace(set.Snapshot); err != nil {
		ws.writeError(w, err, "Failed to load input set")
		return
	}
	webLogger.Info().Str("inputSetID", id.String()).Str("name", set.Name).Msg("Input set loaded")

	ws.writeEstimate(w, http.StatusOK, ws.registry.Snapshot())
}

// writeEstimate computes snap and writes it together with its display strings
func (ws *WebServer) writeEstimate(w http.ResponseWriter, statusCode int, snap types.Snapshot) {
	estimate := ws.engine.Estimate(snap)

	response := map[string]interface{}{
		"snapshot": snap,
		"estimate": estimate,
		"display":  buildDisplay(estimate),
	}
	ws.writeJSONResponse(w, statusCode, response)
}

// writeError maps domain errors to status codes. Unexpected errors are logged and
// reported with the generic message.
func (ws *WebServer) writeError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, registry.ErrAssetNotFound), errors.Is(err, state.ErrInputSetNotFound):
		ws.writeErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, registry.ErrNegativeInput), errors.Is(err, registry.ErrInfiniteInput),
		errors.Is(err, sharelink.ErrInvalidShareLink):
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, state.ErrStoreUnavailable):
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, err.Error())
	default:
		webLogger.Error().Err(err).Msg(message)
		ws.writeErrorResponse(w, http.StatusInternalServerError, message)
	}
}

func (ws *WebServer) requireStore(w http.ResponseWriter) bool {
	if ws.store == nil {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, state.ErrStoreUnavailable.Error())
		return false
	}
	return true
}

func (ws *WebServer) decodeBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty: %w", err)
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (ws *WebServer) assetID(w http.ResponseWriter, r *http.Request) (types.AssetID, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid alliance asset ID")
		return 0, false
	}
	return types.AssetID(id), true
}

func (ws *WebServer) inputSetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid input set ID")
		return uuid.UUID{}, false
	}
	return id, true
}

// decodeFieldValues reads a keyed update. Values may be numbers, numeric strings or null;
// null and unparseable strings clear the field.
func decodeFieldValues(body map[string]json.RawMessage) (map[types.FieldKey]float64, error) {
	values := make(map[types.FieldKey]float64, len(body))
	for key, raw := range body {
		var v types.NullableFloat
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		values[types.FieldKey(key)] = float64(v)
	}
	return values, nil
}

func buildDisplay(estimate types.Estimate) displayValues {
	out := displayValues{
		Native:   make(map[types.FieldKey]string, len(fields.NativeFields)),
		Alliance: make(map[types.AssetID]map[types.FieldKey]string, len(estimate.Alliance)),
	}

	for _, f := range fields.NativeFields {
		var v float64
		if f.IsInput() {
			v, _ = estimate.Native.Inputs.Value(f.Key)
		} else {
			v, _ = estimate.Native.Derived.Value(f.Key)
		}
		out.Native[f.Key] = f.Display(v, slices.Contains(estimate.Native.InputRequired, f.Key))
	}

	for _, asset := range estimate.Alliance {
		rendered := make(map[types.FieldKey]string, len(fields.AllianceFields))
		for _, f := range fields.AllianceFields {
			var v float64
			if f.IsInput() {
				v, _ = asset.Inputs.Value(f.Key)
			} else {
				v, _ = asset.Derived.Value(f.Key)
			}
			rendered[f.Key] = f.Display(v, slices.Contains(asset.InputRequired, f.Key))
		}
		out.Alliance[asset.ID] = rendered
	}

	return out
}
