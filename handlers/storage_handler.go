package handlers

import (
	"net/http"

	"github.com/mlukic/matchday/services"
)

// StorageHandler exposes the storage coordinator's state and its maintenance
// operations.
type StorageHandler struct {
	syncService   *services.SyncService
	repairService *services.RepairService // nil when no remote store is configured
}

func NewStorageHandler(ss *services.SyncService, rs *services.RepairService) *StorageHandler {
	return &StorageHandler{syncService: ss, repairService: rs}
}

// StatusHandler handles GET /storage/status.
func (h *StorageHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": h.syncService.Status()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RetryHandler handles POST /storage/retry. It re-runs the startup decision,
// promoting the coordinator back to the remote store if it is reachable again.
func (h *StorageHandler) RetryHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.syncService.RetryConnection(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": h.syncService.Status()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MigrateHandler handles POST /storage/migrate.
func (h *StorageHandler) MigrateHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.syncService.MigrateNow(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": h.syncService.Status()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RepairHandler handles POST /storage/repair.
func (h *StorageHandler) RepairHandler(w http.ResponseWriter, r *http.Request) {
	if h.repairService == nil || !h.syncService.IsRemoteActive() {
		mapServiceErrorToHTTP(w, r, services.ErrRemoteUnavailable)
		return
	}

	report, err := h.repairService.Run(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
