package api

import (
	"net/http"
	"strings"

	"tycoon/internal/saves"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"saves": s.saves.ListSummaries(r.Context())})
}

func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PlayerID string `json:"playerId"`
		Label    string `json:"label"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slot := chi.URLParam(r, "slot")
	if !saves.ValidSlotID(slot) {
		writeDomainError(w, saves.ErrInvalidSlot)
		return
	}
	st, err := s.game.State(strings.TrimSpace(in.PlayerID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !s.saves.Save(r.Context(), st, slot, in.Label) {
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "slotId": slot})
}

func (s *Server) handleLoadSave(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st := s.saves.Load(r.Context(), chi.URLParam(r, "slot"))
	if st == nil {
		writeDomainError(w, saves.ErrNotFound)
		return
	}
	if id := strings.TrimSpace(in.PlayerID); id != "" {
		if !saves.ValidSlotID(id) {
			writeError(w, http.StatusBadRequest, "player id may only use letters, digits, '-' and '_'")
			return
		}
		st.PlayerID = id
	}
	s.game.Put(*st)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleRenameSave(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Label string `json:"label"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.saves.Rename(r.Context(), chi.URLParam(r, "slot"), in.Label) {
		writeDomainError(w, saves.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if !s.saves.Delete(r.Context(), chi.URLParam(r, "slot")) {
		writeDomainError(w, saves.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportSave(w http.ResponseWriter, r *http.Request) {
	payload := s.saves.Export(r.Context(), chi.URLParam(r, "slot"))
	if payload == "" {
		writeDomainError(w, saves.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payload": payload})
}

func (s *Server) handleImportSave(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Payload string `json:"payload"`
		SlotID  string `json:"slotId"`
		Label   string `json:"label"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !saves.ValidSlotID(in.SlotID) {
		writeDomainError(w, saves.ErrInvalidSlot)
		return
	}
	if !s.saves.Import(r.Context(), strings.TrimSpace(in.Payload), in.SlotID, in.Label) {
		writeDomainError(w, saves.ErrCorrupt)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "slotId": in.SlotID})
}
