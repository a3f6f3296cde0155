package game

import (
	"testing"

	"tycoon/internal/content"
)

const flatYAML = `
characters:
  - id: tester
    name: Tester
    career_path: desk
    starting_cash: 10000
    lifestyle_cost: 0
    credit_rating: 700
    stats: {happiness: 50, health: 50, energy: 50, stress: 50, networking: 50, financial_iq: 50}
    liabilities:
      - {name: Personal Loan, type: personal_loan, balance: 5000, interest_rate: 0.08, monthly_payment: 200}
difficulties:
  - {id: flat, name: Flat, cash_multiplier: 1, expense_multiplier: 1, event_chance: 0, volatility: calm}
career_paths:
  - id: desk
    name: Desk Job
    levels:
      - {title: Clerk, salary: 5000, experience_required: 0}
      - {title: Senior Clerk, salary: 6000, experience_required: 3}
`

// flatCatalog has no events, quests, children or living costs, so a turn
// moves cash only through salary and debt service.
func flatCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	cat, err := content.Parse([]byte(flatYAML))
	if err != nil {
		t.Fatalf("parse flat catalog: %v", err)
	}
	return cat
}

func newFlatGame(t *testing.T) (GameState, *content.Catalog) {
	t.Helper()
	cat := flatCatalog(t)
	st, err := NewGame(cat, NewGameInput{PlayerID: "p1", CharacterID: "tester", Difficulty: "flat", Seed: 7})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return st, cat
}

func newDefaultGame(t *testing.T, character, difficulty string, seed int64) GameState {
	t.Helper()
	st, err := NewGame(content.Default(), NewGameInput{PlayerID: "p1", CharacterID: character, Difficulty: difficulty, Seed: seed})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return st
}

// fixedRNG returns the same draw every time.
type fixedRNG struct{ f float64 }

func (r fixedRNG) Float64() float64 { return r.f }
func (r fixedRNG) Intn(n int) int   { return int(r.f * float64(n)) }

func checkInvariants(t *testing.T, st GameState) {
	t.Helper()
	stats := map[string]int{
		"happiness":   st.Stats.Happiness,
		"health":      st.Stats.Health,
		"energy":      st.Stats.Energy,
		"stress":      st.Stats.Stress,
		"networking":  st.Stats.Networking,
		"financialIQ": st.Stats.FinancialIQ,
	}
	for name, v := range stats {
		if v < StatMin || v > StatMax {
			t.Fatalf("month %d: %s=%d out of range", st.Month, name, v)
		}
	}
	if st.Cash < 0 {
		t.Fatalf("month %d: negative cash %d", st.Month, st.Cash)
	}
	if st.CreditRating < CreditMin || st.CreditRating > CreditMax {
		t.Fatalf("month %d: credit %d out of range", st.Month, st.CreditRating)
	}
	seen := map[string]string{}
	lists := map[string][]string{
		"active":       st.Quests.Active,
		"readyToClaim": st.Quests.ReadyToClaim,
		"completed":    st.Quests.Completed,
	}
	for list, ids := range lists {
		for _, id := range ids {
			if other, dup := seen[id]; dup {
				t.Fatalf("month %d: quest %q in both %s and %s", st.Month, id, other, list)
			}
			seen[id] = list
		}
	}
	if len(st.Quests.Active) > MaxActiveQuests {
		t.Fatalf("month %d: %d active quests", st.Month, len(st.Quests.Active))
	}
}
