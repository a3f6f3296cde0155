package game

import (
	"slices"

	"tycoon/internal/content"
)

type QuestProgress struct {
	QuestID  string        `json:"questId"`
	Current  float64       `json:"current"`
	Target   float64       `json:"target"`
	Progress float64       `json:"progress"`
	Unit     string        `json:"unit"`
	Quest    content.Quest `json:"quest"`
}

func questApplies(s GameState, q content.Quest) bool {
	return q.Track == s.Quests.Track && q.AppliesTo(s.CharacterID)
}

// GetQuestProgress measures one quest against state. It returns nil for an
// unknown id or a quest this character never gets.
func GetQuestProgress(s GameState, cat *content.Catalog, questID string) *QuestProgress {
	q, ok := cat.Quest(questID)
	if !ok || !questApplies(s, q) {
		return nil
	}
	current := questMetric(s, cat, q.Metric)
	return &QuestProgress{
		QuestID:  q.ID,
		Current:  current,
		Target:   q.Target,
		Progress: clampFloat(current/q.Target, 0, 1),
		Unit:     q.Unit,
		Quest:    q,
	}
}

// questMetric reads a metric in display units: dollars for money, counts
// and months as plain numbers.
func questMetric(s GameState, cat *content.Catalog, metric string) float64 {
	switch metric {
	case "netWorth":
		return CentsToDollars(CalculateNetWorth(s))
	case "cash":
		return CentsToDollars(s.Cash)
	case "monthsPlayed":
		return float64(max(0, s.Month-1))
	case "creditRating":
		return float64(s.CreditRating)
	case "passiveIncome":
		return CentsToDollars(passiveIncome(s))
	case "emergencyFundMonths":
		return emergencyFundMonths(s, cat)
	case "debtFree":
		if len(s.Liabilities) == 0 && len(s.Mortgages) == 0 {
			return 1
		}
		return 0
	case "degrees":
		return float64(len(s.Education.Degrees))
	case "activeHustles":
		return float64(len(s.ActiveSideHustles))
	case "careerLevel":
		return float64(s.Career.Level)
	case "certifications":
		n := 0
		for _, rec := range s.Courses {
			if rec.Certified {
				n++
			}
		}
		return float64(n)
	}
	return 0
}

func emergencyFundMonths(s GameState, cat *content.Catalog) float64 {
	expenses := CalculateMonthlyCashFlowEstimate(s, cat).Expenses
	if expenses <= 0 {
		if s.Cash > 0 {
			return 99
		}
		return 0
	}
	return float64(s.Cash) / float64(expenses)
}

// UpdateQuests promotes finished active quests to ready-to-claim and then
// backfills open slots. Ready quests are never completed here.
func UpdateQuests(s GameState, cat *content.Catalog) GameState {
	next := s.Clone()
	next.updateQuests(cat)
	return next
}

func (s *GameState) updateQuests(cat *content.Catalog) []string {
	var ready []string
	still := make([]string, 0, len(s.Quests.Active))
	for _, id := range s.Quests.Active {
		p := GetQuestProgress(*s, cat, id)
		if p != nil && p.Progress >= 1 {
			s.Quests.ReadyToClaim = append(s.Quests.ReadyToClaim, id)
			ready = append(ready, p.Quest.Title)
			continue
		}
		still = append(still, id)
	}
	s.Quests.Active = still
	s.backfillQuests(cat)
	return ready
}

func (s *GameState) backfillQuests(cat *content.Catalog) {
	for _, q := range cat.Quests {
		if len(s.Quests.Active) >= MaxActiveQuests {
			return
		}
		if !questApplies(*s, q) || s.questTracked(q.ID) {
			continue
		}
		unlocked := true
		for _, dep := range q.UnlockAfter {
			if !slices.Contains(s.Quests.Completed, dep) {
				unlocked = false
				break
			}
		}
		if unlocked {
			s.Quests.Active = append(s.Quests.Active, q.ID)
		}
	}
}

func (s *GameState) questTracked(id string) bool {
	return slices.Contains(s.Quests.Active, id) ||
		slices.Contains(s.Quests.ReadyToClaim, id) ||
		slices.Contains(s.Quests.Completed, id)
}

// ClaimQuestReward pays out a ready quest and completes it. Anything not in
// ready-to-claim is a silent no-op reported by the bool.
func ClaimQuestReward(s GameState, cat *content.Catalog, questID string) (GameState, bool) {
	idx := slices.Index(s.Quests.ReadyToClaim, questID)
	if idx < 0 {
		return s, false
	}
	q, ok := cat.Quest(questID)
	if !ok {
		return s, false
	}
	next := s.Clone()
	next.Quests.ReadyToClaim = slices.Delete(next.Quests.ReadyToClaim, idx, idx+1)
	next.Quests.Completed = append(next.Quests.Completed, questID)
	next.Cash += q.Reward.Cash.Int64()
	next.addStats(statsFrom(q.Reward.Stats))
	next.adjustCredit(q.Reward.Credit)
	next.logEvent("quest", "Completed "+q.Title)
	next.backfillQuests(cat)
	return next, true
}

func ClaimAllQuestRewards(s GameState, cat *content.Catalog) (GameState, int) {
	claimed := 0
	for _, id := range slices.Clone(s.Quests.ReadyToClaim) {
		var ok bool
		s, ok = ClaimQuestReward(s, cat, id)
		if ok {
			claimed++
		}
	}
	return s, claimed
}
