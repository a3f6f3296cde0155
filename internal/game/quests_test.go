package game

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"tycoon/internal/content"
)

func TestNewGameFillsQuestSlots(t *testing.T) {
	st := newDefaultGame(t, "graduate", "normal", 1)
	require.Equal(t, []string{"first_budget", "emergency_fund_starter", "credit_builder"}, st.Quests.Active)

	kid := newDefaultGame(t, "kid_saver", "normal", 1)
	require.Equal(t, []string{"kids_piggy_bank", "kids_first_hustle"}, kid.Quests.Active)
}

func TestQuestProgressAndClaim(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)

	st.Cash = 150_000
	p := GetQuestProgress(st, cat, "emergency_fund_starter")
	require.NotNil(t, p)
	require.InDelta(t, 0.75, p.Progress, 1e-9)
	require.InDelta(t, 1500, p.Current, 1e-9)

	st.Cash = 200_000
	st = UpdateQuests(st, cat)
	require.Contains(t, st.Quests.ReadyToClaim, "emergency_fund_starter")
	require.NotContains(t, st.Quests.Completed, "emergency_fund_starter")
	require.NotContains(t, st.Quests.Active, "emergency_fund_starter")
	// the freed slot is backfilled
	require.Len(t, st.Quests.Active, MaxActiveQuests)
	checkInvariants(t, st)

	claimed, ok := ClaimQuestReward(st, cat, "emergency_fund_starter")
	require.True(t, ok)
	require.Equal(t, st.Cash+20_000, claimed.Cash)
	require.Equal(t, st.Stats.Stress-5, claimed.Stats.Stress)
	require.Contains(t, claimed.Quests.Completed, "emergency_fund_starter")
	require.Empty(t, claimed.Quests.ReadyToClaim)
	checkInvariants(t, claimed)

	again, ok := ClaimQuestReward(claimed, cat, "emergency_fund_starter")
	require.False(t, ok)
	require.Equal(t, claimed.Cash, again.Cash)
}

func TestClaimNotReadyIsNoop(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)
	for _, id := range []string{"first_budget", "no_such_quest", "net_worth_100k"} {
		got, ok := ClaimQuestReward(st, cat, id)
		if ok {
			t.Fatalf("%s: claim should fail", id)
		}
		if got.Cash != st.Cash || !slices.Equal(got.Quests.Active, st.Quests.Active) {
			t.Fatalf("%s: state changed", id)
		}
	}
}

func TestUnlockAfterCompletion(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "kid_saver", "normal", 1)
	require.NotContains(t, st.Quests.Active, "kids_big_saver")

	st.Cash = 10_000
	st = UpdateQuests(st, cat)
	require.Contains(t, st.Quests.ReadyToClaim, "kids_piggy_bank")
	require.NotContains(t, st.Quests.Active, "kids_big_saver")

	st, n := ClaimAllQuestRewards(st, cat)
	require.Equal(t, 1, n)
	require.Contains(t, st.Quests.Active, "kids_big_saver")
	checkInvariants(t, st)
}

func TestQuestTracksAreSeparate(t *testing.T) {
	cat := content.Default()
	adult := newDefaultGame(t, "graduate", "normal", 1)
	if GetQuestProgress(adult, cat, "kids_piggy_bank") != nil {
		t.Fatalf("kids quest should not apply to an adult")
	}
	kid := newDefaultGame(t, "kid_saver", "normal", 1)
	if GetQuestProgress(kid, cat, "first_budget") != nil {
		t.Fatalf("adult quest should not apply to a kid")
	}
	if GetQuestProgress(adult, cat, "missing") != nil {
		t.Fatalf("unknown quest should be nil")
	}
}

func TestQuestMetrics(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)
	st.Month = 4
	st.Liabilities = nil
	st.Career.Level = 2

	tests := []struct {
		metric string
		want   float64
	}{
		{metric: "monthsPlayed", want: 3},
		{metric: "debtFree", want: 1},
		{metric: "careerLevel", want: 2},
		{metric: "creditRating", want: float64(st.CreditRating)},
		{metric: "cash", want: CentsToDollars(st.Cash)},
		{metric: "unknown", want: 0},
	}
	for _, tc := range tests {
		if got := questMetric(st, cat, tc.metric); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.metric, got, tc.want)
		}
	}
}
