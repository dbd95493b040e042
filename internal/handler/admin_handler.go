package handler

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"github.com/mailward/campaigner/internal/db"
)

// AdminHandler exposes database maintenance operations.
type AdminHandler struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func (h *AdminHandler) Vacuum(w http.ResponseWriter, r *http.Request) {
	if err := db.Vacuum(h.DB); err != nil {
		h.Logger.Error("vacuum failed", zap.Error(err))
		http.Error(w, "vacuum failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AdminHandler) Integrity(w http.ResponseWriter, r *http.Request) {
	counts, err := db.IntegrityCheck(h.DB)
	if err != nil {
		h.Logger.Error("integrity check failed", zap.Error(err))
		http.Error(w, "integrity check failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "tables": counts})
}
