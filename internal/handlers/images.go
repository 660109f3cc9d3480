package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/megalink-ti/fatura-tracker/internal/storage"
)

// HandleImage serves a tracked invoice image. The view is recorded before
// the existence check, so a request for a missing file still produces a
// log row.
func (h *TrackerHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	invoiceID := r.URL.Query().Get("invoiceId")
	if invoiceID == "" {
		invoiceID = r.URL.Query().Get("id_fatura")
	}
	if invoiceID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Parâmetro invoiceId é obrigatório",
		})
		return
	}

	h.tracker.RecordImageView(r.Context(), invoiceID, h.requestMeta(r))

	content, err := h.images.Get(r.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "Imagem não encontrada",
			})
			return
		}
		h.log.WithError(err).WithField("filename", filename).Error("Image fetch failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Erro ao carregar imagem",
		})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
