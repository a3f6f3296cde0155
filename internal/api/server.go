package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/saves"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

type Server struct {
	cfg   config.APIConfig
	log   *slog.Logger
	game  *game.Service
	saves *saves.Manager
	mux   *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, gameSvc *game.Service, saveMgr *saves.Manager) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if saveMgr == nil {
		saveMgr = saves.NewManager(saves.NewMemoryStore(), logger)
	}
	s := &Server{
		cfg:   cfg,
		log:   logger,
		game:  gameSvc,
		saves: saveMgr,
		mux:   chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/content", s.handleContent)

		r.Get("/games", s.handleListGames)
		r.Post("/games", s.handleNewGame)
		r.Route("/games/{player}", func(r chi.Router) {
			r.Get("/", s.handleGameState)
			r.Delete("/", s.handleDeleteGame)
			r.Get("/cashflow", s.handleCashFlow)
			r.Get("/networth", s.handleNetWorth)
			r.Post("/advance", s.handleAdvance)
			r.Post("/simulate", s.handleSimulate)
			r.Post("/events/choose", s.handleChooseOption)
			r.Post("/education/enroll", s.handleEnroll)
			r.Post("/hustles/{id}/start", s.handleStartHustle)
			r.Post("/hustles/{id}/stop", s.handleStopHustle)
			r.Post("/hustles/{id}/upgrade", s.handleBuyUpgrade)
			r.Post("/career/promote", s.handlePromote)
			r.Post("/actions/{id}", s.handleUseAction)
			r.Get("/quests", s.handleQuests)
			r.Post("/quests/claim-all", s.handleClaimAllQuests)
			r.Post("/quests/{id}/claim", s.handleClaimQuest)
			r.Post("/courses/{id}/start", s.handleStartCourse)
			r.Post("/courses/answer", s.handleAnswerQuiz)
			r.Post("/assets/buy", s.handleBuyAsset)
			r.Post("/assets/sell", s.handleSellAsset)
			r.Post("/liabilities/{id}/repay", s.handleRepay)
		})

		r.Get("/saves", s.handleListSaves)
		r.Post("/saves/import", s.handleImportSave)
		r.Route("/saves/{slot}", func(r chi.Router) {
			r.Post("/", s.handleSaveGame)
			r.Patch("/", s.handleRenameSave)
			r.Delete("/", s.handleDeleteSave)
			r.Post("/load", s.handleLoadSave)
			r.Get("/export", s.handleExportSave)
		})
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrUnknownQuest),
		errors.Is(err, game.ErrUnknownAsset),
		errors.Is(err, game.ErrUnknownLiability),
		errors.Is(err, saves.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrPlayerExists),
		errors.Is(err, game.ErrScenarioPending),
		errors.Is(err, game.ErrNoPendingScenario),
		errors.Is(err, game.ErrQuizActive),
		errors.Is(err, game.ErrNoActiveQuiz),
		errors.Is(err, game.ErrAlreadyEnrolled),
		errors.Is(err, game.ErrAlreadyHaveDegree),
		errors.Is(err, game.ErrHustleActive),
		errors.Is(err, game.ErrHustleNotActive),
		errors.Is(err, game.ErrUpgradeOwned),
		errors.Is(err, game.ErrActionUsed),
		errors.Is(err, game.ErrPromotionCooldown):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrModeRestricted),
		errors.Is(err, game.ErrUpgradeLocked),
		errors.Is(err, game.ErrNoNextLevel),
		errors.Is(err, game.ErrNotEnoughExperience),
		errors.Is(err, game.ErrEducationRequired):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrInsufficientCash),
		errors.Is(err, game.ErrUnknownCharacter),
		errors.Is(err, game.ErrUnknownDifficulty),
		errors.Is(err, game.ErrUnknownEducation),
		errors.Is(err, game.ErrUnknownHustle),
		errors.Is(err, game.ErrUnknownUpgrade),
		errors.Is(err, game.ErrUnknownAction),
		errors.Is(err, game.ErrUnknownCourse),
		errors.Is(err, game.ErrUnknownMarketItem),
		errors.Is(err, game.ErrInvalidOption),
		errors.Is(err, game.ErrInvalidQuantity),
		errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, saves.ErrInvalidSlot),
		errors.Is(err, saves.ErrCorrupt):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON tolerates an empty body so optional payloads can be omitted.
func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func newPlayerID() string {
	return uuid.NewString()
}
