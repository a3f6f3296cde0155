package game

import (
	"log/slog"
	"sort"
	"sync"

	"tycoon/internal/content"
)

// Service hosts one isolated GameState per player id. Every call copies the
// player's state, runs a pure operation on it and stores the result only
// when the operation succeeds.
type Service struct {
	catalog *content.Catalog
	log     *slog.Logger

	mu    sync.Mutex
	games map[string]GameState
}

func NewService(catalog *content.Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if catalog == nil {
		catalog = content.Default()
	}
	return &Service{
		catalog: catalog,
		log:     logger,
		games:   map[string]GameState{},
	}
}

func (s *Service) Catalog() *content.Catalog { return s.catalog }

func (s *Service) NewGame(in NewGameInput) (GameState, error) {
	st, err := NewGame(s.catalog, in)
	if err != nil {
		return GameState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[in.PlayerID]; exists {
		return GameState{}, ErrPlayerExists
	}
	s.games[in.PlayerID] = st
	s.log.Info("game started", "player", in.PlayerID, "character", st.CharacterID, "difficulty", st.Difficulty)
	return st, nil
}

// Put installs a state, replacing whatever the player had. Used when a
// save is loaded.
func (s *Service) Put(st GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[st.PlayerID] = st.Clone()
}

func (s *Service) Remove(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.games[playerID]
	delete(s.games, playerID)
	return ok
}

func (s *Service) State(playerID string) (GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.games[playerID]
	if !ok {
		return GameState{}, ErrPlayerNotFound
	}
	return st.Clone(), nil
}

func (s *Service) Players() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot copies every hosted game, for autosave.
func (s *Service) Snapshot() []GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GameState, 0, len(s.games))
	for _, st := range s.games {
		out = append(out, st.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

func (s *Service) mutate(playerID, salt string, fn func(GameState, RNG) (GameState, error)) (GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.games[playerID]
	if !ok {
		return GameState{}, ErrPlayerNotFound
	}
	next, err := fn(cur, DeriveRNG(cur.Seed, cur.Month, cur.NextID, salt))
	if err != nil {
		return cur.Clone(), err
	}
	s.games[playerID] = next
	return next.Clone(), nil
}

func (s *Service) CashFlow(playerID string) (CashFlowEstimate, error) {
	st, err := s.State(playerID)
	if err != nil {
		return CashFlowEstimate{}, err
	}
	return CalculateMonthlyCashFlowEstimate(st, s.catalog), nil
}

func (s *Service) Advance(playerID string) (GameState, MonthlyReport, error) {
	var rep MonthlyReport
	st, err := s.mutate(playerID, "turn", func(cur GameState, rng RNG) (GameState, error) {
		next, r, err := ProcessTurn(cur, s.catalog, rng)
		rep = r
		return next, err
	})
	if err != nil {
		return st, rep, err
	}
	s.log.Info("turn processed",
		"player", playerID,
		"month", rep.Month,
		"cash", rep.CashAfter,
		"net_worth", rep.NetWorthAfter,
		"credit", rep.CreditScore,
		"event", rep.Event,
	)
	return st, rep, nil
}

func (s *Service) ChooseOption(playerID string, index int) (GameState, ScenarioResult, error) {
	var res ScenarioResult
	st, err := s.mutate(playerID, "choice", func(cur GameState, rng RNG) (GameState, error) {
		next, r, err := ChooseEventOption(cur, s.catalog, index, rng)
		res = r
		return next, err
	})
	return st, res, err
}

func (s *Service) Enroll(playerID, educationID string) (GameState, error) {
	return s.mutate(playerID, "enroll", func(cur GameState, _ RNG) (GameState, error) {
		return EnrollEducation(cur, s.catalog, educationID)
	})
}

func (s *Service) StartHustle(playerID, hustleID string) (GameState, error) {
	return s.mutate(playerID, "hustle", func(cur GameState, _ RNG) (GameState, error) {
		return StartSideHustle(cur, s.catalog, hustleID)
	})
}

func (s *Service) StopHustle(playerID, hustleID string) (GameState, error) {
	return s.mutate(playerID, "hustle", func(cur GameState, _ RNG) (GameState, error) {
		return StopSideHustle(cur, hustleID)
	})
}

func (s *Service) BuyUpgrade(playerID, hustleID, upgradeID string) (GameState, error) {
	return s.mutate(playerID, "upgrade", func(cur GameState, _ RNG) (GameState, error) {
		return BuyHustleUpgrade(cur, s.catalog, hustleID, upgradeID)
	})
}

func (s *Service) Promote(playerID string) (GameState, PromotionResult, error) {
	var res PromotionResult
	st, err := s.mutate(playerID, "promote", func(cur GameState, rng RNG) (GameState, error) {
		next, r, err := PromoteCareer(cur, s.catalog, rng)
		res = r
		return next, err
	})
	return st, res, err
}

func (s *Service) UseAction(playerID, actionID string) (GameState, error) {
	return s.mutate(playerID, "action", func(cur GameState, _ RNG) (GameState, error) {
		return UseMonthlyAction(cur, s.catalog, actionID)
	})
}

// ClaimQuest reports false when the quest was not ready; the state is then
// unchanged.
func (s *Service) ClaimQuest(playerID, questID string) (GameState, bool, error) {
	var claimed bool
	st, err := s.mutate(playerID, "quest", func(cur GameState, _ RNG) (GameState, error) {
		next, ok := ClaimQuestReward(cur, s.catalog, questID)
		claimed = ok
		return next, nil
	})
	return st, claimed, err
}

func (s *Service) ClaimAllQuests(playerID string) (GameState, int, error) {
	var n int
	st, err := s.mutate(playerID, "quest", func(cur GameState, _ RNG) (GameState, error) {
		next, claimed := ClaimAllQuestRewards(cur, s.catalog)
		n = claimed
		return next, nil
	})
	return st, n, err
}

func (s *Service) StartCourse(playerID, courseID string) (GameState, error) {
	return s.mutate(playerID, "course:"+courseID, func(cur GameState, rng RNG) (GameState, error) {
		return StartCourseQuiz(cur, s.catalog, courseID, rng)
	})
}

func (s *Service) AnswerQuiz(playerID string, option int) (GameState, *CourseAttempt, error) {
	var attempt *CourseAttempt
	st, err := s.mutate(playerID, "quiz", func(cur GameState, _ RNG) (GameState, error) {
		next, at, err := SubmitQuizAnswer(cur, s.catalog, option)
		attempt = at
		return next, err
	})
	if attempt != nil {
		s.log.Info("course attempt", "player", playerID, "course", attempt.CourseID, "score", attempt.Score, "passed", attempt.Passed)
	}
	return st, attempt, err
}

func (s *Service) BuyAsset(playerID, itemID string, quantity float64) (GameState, error) {
	return s.mutate(playerID, "buy", func(cur GameState, _ RNG) (GameState, error) {
		return BuyAsset(cur, s.catalog, itemID, quantity)
	})
}

func (s *Service) SellAsset(playerID, assetID string, quantity float64) (GameState, SaleResult, error) {
	var res SaleResult
	st, err := s.mutate(playerID, "sell", func(cur GameState, _ RNG) (GameState, error) {
		next, r, err := SellAsset(cur, assetID, quantity)
		res = r
		return next, err
	})
	return st, res, err
}

func (s *Service) Repay(playerID, liabilityID string, amount int64) (GameState, error) {
	return s.mutate(playerID, "repay", func(cur GameState, _ RNG) (GameState, error) {
		return RepayLiability(cur, liabilityID, amount)
	})
}

// Simulate previews months ahead without storing the result.
func (s *Service) Simulate(playerID string, months int) (GameState, []MonthlyReport, error) {
	st, err := s.State(playerID)
	if err != nil {
		return GameState{}, nil, err
	}
	return SimulateMonths(st, s.catalog, months, DeriveRNG(st.Seed, st.Month, st.NextID, "simulate"))
}
