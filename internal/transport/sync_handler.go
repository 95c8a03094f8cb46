package transport

import (
	"net/http"

	"inspirehome-sync/internal/domain"
	"inspirehome-sync/internal/middleware"
	"inspirehome-sync/internal/state"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SyncHistoryResponse bundles the last run's state with the audit history.
type SyncHistoryResponse struct {
	LastSync domain.SyncState      `json:"lastSync"`
	History  []domain.HistoryEntry `json:"history"`
}

// SyncHandler serves the read-only sync status endpoints consumed by the
// storefront admin UI.
type SyncHandler struct {
	store  *state.Store
	logger *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(store *state.Store, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers the status routes
func (h *SyncHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/sync-history", h.SyncHistory)
		r.Get("/products", h.Products)
	})
}

// SyncHistory returns the last sync state and the bounded history log.
func (h *SyncHandler) SyncHistory(w http.ResponseWriter, r *http.Request) {
	lastSync, err := h.store.LoadState()
	if err != nil {
		h.logger.Error("Failed to load sync state", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load sync state")
		return
	}

	history, err := h.store.LoadHistory()
	if err != nil {
		h.logger.Error("Failed to load sync history", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load sync history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, SyncHistoryResponse{
		LastSync: lastSync,
		History:  history,
	})
}

// Products returns the current catalog file as-is.
func (h *SyncHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.LoadCatalog()
	if err != nil {
		h.logger.Error("Failed to load catalog", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}
