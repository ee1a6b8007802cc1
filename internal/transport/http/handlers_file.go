package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "waangu/pkg/domain"
	"waangu/pkg/platform/httputil"
)

func (h *Handler) handleGetFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := id.ParseFileID(chi.URLParam(r, "fileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	download, err := h.service.GetFile(r.Context(), fileID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, download)
}

func (h *Handler) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := id.ParseFileID(chi.URLParam(r, "fileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteFile(r.Context(), fileID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
