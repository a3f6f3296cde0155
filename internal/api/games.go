package api

import (
	"net/http"
	"strings"
	"time"

	"tycoon/internal/game"
	"tycoon/internal/saves"

	"github.com/go-chi/chi/v5"
)

type contentEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost int64  `json:"cost,omitempty"`
	Mode string `json:"mode,omitempty"`
}

func (s *Server) handleContent(w http.ResponseWriter, _ *http.Request) {
	cat := s.game.Catalog()
	out := map[string][]contentEntry{}
	for _, c := range cat.Characters {
		out["characters"] = append(out["characters"], contentEntry{ID: c.ID, Name: c.Name, Mode: c.Mode})
	}
	for _, d := range cat.Difficulties {
		out["difficulties"] = append(out["difficulties"], contentEntry{ID: d.ID, Name: d.Name})
	}
	for _, e := range cat.Educations {
		out["educations"] = append(out["educations"], contentEntry{ID: e.ID, Name: e.Name, Cost: e.Cost.Int64()})
	}
	for _, h := range cat.SideHustles {
		out["sideHustles"] = append(out["sideHustles"], contentEntry{ID: h.ID, Name: h.Name, Cost: h.StartCost.Int64()})
	}
	for _, c := range cat.Courses {
		out["courses"] = append(out["courses"], contentEntry{ID: c.ID, Name: c.Title})
	}
	for _, a := range cat.MonthlyActions {
		out["monthlyActions"] = append(out["monthlyActions"], contentEntry{ID: a.ID, Name: a.Name, Cost: a.Cost.Int64(), Mode: a.Mode})
	}
	for _, it := range cat.MarketItems {
		out["marketItems"] = append(out["marketItems"], contentEntry{ID: it.ID, Name: it.Name, Cost: it.Price.Int64()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"digest": cat.Digest, "content": out})
}

func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"players": s.game.Players()})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var in game.NewGameInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.PlayerID = strings.TrimSpace(in.PlayerID)
	if in.PlayerID == "" {
		in.PlayerID = newPlayerID()
	}
	if !saves.ValidSlotID(in.PlayerID) {
		writeError(w, http.StatusBadRequest, "player id may only use letters, digits, '-' and '_'")
		return
	}
	if in.Difficulty == "" {
		in.Difficulty = "normal"
	}
	if in.Seed == 0 {
		in.Seed = s.cfg.DefaultSeed
	}
	if in.Seed == 0 {
		in.Seed = time.Now().UnixNano()
	}
	st, err := s.game.NewGame(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	st, err := s.game.State(chi.URLParam(r, "player"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if !s.game.Remove(chi.URLParam(r, "player")) {
		writeDomainError(w, game.ErrPlayerNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	est, err := s.game.CashFlow(chi.URLParam(r, "player"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"estimate": est, "net": est.Net()})
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	st, err := s.game.State(chi.URLParam(r, "player"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"breakdown": game.NetWorthParts(st),
		"history":   st.NetWorthHistory,
	})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	st, rep, err := s.game.Advance(chi.URLParam(r, "player"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "report": rep})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Months int `json:"months"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Months <= 0 || in.Months > 600 {
		writeError(w, http.StatusBadRequest, "months must be between 1 and 600")
		return
	}
	st, reports, err := s.game.Simulate(chi.URLParam(r, "player"), in.Months)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "reports": reports})
}

func (s *Server) handleChooseOption(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Option int `json:"option"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, res, err := s.game.ChooseOption(chi.URLParam(r, "player"), in.Option)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "result": res})
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var in struct {
		EducationID string `json:"educationId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondState(w, func(player string) (game.GameState, error) {
		return s.game.Enroll(player, in.EducationID)
	}, chi.URLParam(r, "player"))
}

func (s *Server) handleStartHustle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.respondState(w, func(player string) (game.GameState, error) {
		return s.game.StartHustle(player, id)
	}, chi.URLParam(r, "player"))
}

func (s *Server) handleStopHustle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.respondState(w, func(player string) (game.GameState, error) {
		return s.game.StopHustle(player, id)
	}, chi.URLParam(r, "player"))
}

func (s *Server) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UpgradeID string `json:"upgradeId"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	s.respondState(w, func(player string) (game.GameState, error) {
		return s.game.BuyUpgrade(player, id, in.UpgradeID)
	}, chi.URLParam(r, "player"))
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	st, res, err := s.game.Promote(chi.URLParam(r, "player"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "promotion": res})
}

func (s *Server) handleUseAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.respondState(w, func(player string) (game.GameState, error) {
		return s.game.UseAction(player, id)
	}, chi.URLParam(r, "player"))
}

func (s *Server) handleQuests(w http.ResponseWriter, r *http.Request) {
	st, err := s.game.State(chi.URLParam(r, "player"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	cat := s.game.Catalog()
	progress := func(ids []string) []game.QuestProgress {
		out := []game.QuestProgress{}
		for _, id := range ids {
			if p := game.GetQuestProgress(st, cat, id); p != nil {
				out = append(out, *p)
			}
		}
		return out
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":       progress(st.Quests.Active),
		"readyToClaim": progress(st.Quests.ReadyToClaim),
		"completed":    st.Quests.Completed,
	})
}

func (s *Server) handleClaimQuest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.game.Catalog().Quest(id); !ok {
		writeDomainError(w, game.ErrUnknownQuest)
		return
	}
	st, claimed, err := s.game.ClaimQuest(chi.URLParam(r, "player"), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "claimed": claimed})
}

func (s *Server) handleClaimAllQuests(w http.ResponseWriter, r *http.Request) {
	st, n, err := s.game.ClaimAllQuests(chi.URLParam(r, "player"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "claimed": n})
}

func (s *Server) handleStartCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.game.StartCourse(chi.URLParam(r, "player"), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "quiz": st.ActiveQuiz})
}

func (s *Server) handleAnswerQuiz(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Option int `json:"option"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, attempt, err := s.game.AnswerQuiz(chi.URLParam(r, "player"), in.Option)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "quiz": st.ActiveQuiz, "attempt": attempt})
}

func (s *Server) handleBuyAsset(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ItemID   string  `json:"itemId"`
		Quantity float64 `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	s.respondState(w, func(player string) (game.GameState, error) {
		return s.game.BuyAsset(player, in.ItemID, in.Quantity)
	}, chi.URLParam(r, "player"))
}

func (s *Server) handleSellAsset(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AssetID  string  `json:"assetId"`
		Quantity float64 `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, res, err := s.game.SellAsset(chi.URLParam(r, "player"), in.AssetID, in.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "sale": res})
}

func (s *Server) handleRepay(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AmountCents int64 `json:"amountCents"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	s.respondState(w, func(player string) (game.GameState, error) {
		return s.game.Repay(player, id, in.AmountCents)
	}, chi.URLParam(r, "player"))
}

func (s *Server) respondState(w http.ResponseWriter, fn func(player string) (game.GameState, error), player string) {
	st, err := fn(player)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
