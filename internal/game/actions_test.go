package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tycoon/internal/content"
)

func TestUseMonthlyAction(t *testing.T) {
	cat := content.Default()
	adult := newDefaultGame(t, "graduate", "normal", 1)
	kid := newDefaultGame(t, "kid_saver", "normal", 1)
	broke := adult
	broke.Cash = 0

	cases := []struct {
		name   string
		st     GameState
		action string
		want   error
	}{
		{name: "unknown", st: adult, action: "skydiving", want: ErrUnknownAction},
		{name: "kids only", st: adult, action: "chores", want: ErrModeRestricted},
		{name: "adults only", st: kid, action: "date_night", want: ErrModeRestricted},
		{name: "too expensive", st: broke, action: "gym", want: ErrInsufficientCash},
		{name: "free with no cash", st: broke, action: "meditation"},
		{name: "kid chores", st: kid, action: "chores"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := UseMonthlyAction(tc.st, cat, tc.action)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
				require.Equal(t, tc.st.Cash, next.Cash)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.st.Month, next.ActionsUsed[tc.action])
		})
	}

	next, err := UseMonthlyAction(adult, cat, "gym")
	require.NoError(t, err)
	require.Equal(t, adult.Cash-5_000, next.Cash)
	require.Equal(t, clampStat(adult.Stats.Health+5), next.Stats.Health)
	require.Equal(t, clampStat(adult.Stats.Stress-3), next.Stats.Stress)
	require.Empty(t, adult.ActionsUsed)

	_, err = UseMonthlyAction(next, cat, "gym")
	require.ErrorIs(t, err, ErrActionUsed)

	// other actions stay open the same month, and gym reopens next month
	_, err = UseMonthlyAction(next, cat, "meditation")
	require.NoError(t, err)
	next.Month++
	_, err = UseMonthlyAction(next, cat, "gym")
	require.NoError(t, err)
}

func TestBuyHustleUpgrade(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)
	st, err := StartSideHustle(st, cat, "rideshare")
	require.NoError(t, err)

	cases := []struct {
		name    string
		hustle  string
		upgrade string
		months  int
		cash    int64
		want    error
	}{
		{name: "unknown hustle", hustle: "llama_rental", upgrade: "hybrid_rental", months: 3, cash: 300_000, want: ErrUnknownHustle},
		{name: "not running", hustle: "tutoring", upgrade: "hybrid_rental", months: 3, cash: 300_000, want: ErrHustleNotActive},
		{name: "unknown upgrade", hustle: "rideshare", upgrade: "jetpack", months: 3, cash: 300_000, want: ErrUnknownUpgrade},
		{name: "before first milestone", hustle: "rideshare", upgrade: "hybrid_rental", months: 2, cash: 300_000, want: ErrUpgradeLocked},
		{name: "before later milestone", hustle: "rideshare", upgrade: "premium_tier", months: 11, cash: 300_000, want: ErrUpgradeLocked},
		{name: "cannot afford", hustle: "rideshare", upgrade: "hybrid_rental", months: 3, cash: 149_999, want: ErrInsufficientCash},
		{name: "at threshold", hustle: "rideshare", upgrade: "hybrid_rental", months: 3, cash: 300_000},
		{name: "later milestone", hustle: "rideshare", upgrade: "premium_tier", months: 12, cash: 300_000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := st.Clone()
			in.ActiveSideHustles[0].MonthsActive = tc.months
			in.Cash = tc.cash
			next, err := BuyHustleUpgrade(in, cat, tc.hustle, tc.upgrade)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
				require.Empty(t, in.ActiveSideHustles[0].Upgrades)
				return
			}
			require.NoError(t, err)
			def, _ := cat.SideHustle(tc.hustle)
			up, _, _ := def.Upgrade(tc.upgrade)
			require.Equal(t, tc.cash-up.Cost.Int64(), next.Cash)
			require.True(t, next.ActiveSideHustles[0].HasUpgrade(tc.upgrade))
			require.Empty(t, in.ActiveSideHustles[0].Upgrades)

			_, err = BuyHustleUpgrade(next, cat, tc.hustle, tc.upgrade)
			require.ErrorIs(t, err, ErrUpgradeOwned)
		})
	}
}

func TestUpgradeMultiplierReachesMonthlyIncome(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)
	st.Economy.AIDisruption = 0
	st, err := StartSideHustle(st, cat, "rideshare")
	require.NoError(t, err)
	st.ActiveSideHustles[0].MonthsActive = 3

	plain := st.Clone()
	income, _ := plain.runHustles(cat, fixedRNG{0})
	require.Equal(t, int64(40_000), income)

	upgraded, err := BuyHustleUpgrade(st, cat, "rideshare", "hybrid_rental")
	require.NoError(t, err)
	cash := upgraded.Cash
	income, _ = upgraded.runHustles(cat, fixedRNG{0})
	require.Equal(t, int64(44_000), income)
	require.Equal(t, int64(44_000), upgraded.ActiveSideHustles[0].LastIncome)
	require.Equal(t, 4, upgraded.ActiveSideHustles[0].MonthsActive)
	require.Equal(t, cash+44_000, upgraded.Cash)

	est := CalculateMonthlyCashFlowEstimate(upgraded, cat)
	require.Equal(t, int64(88_000), est.SideHustleIncome)
}

func TestBuyAssetAppliesDealDiscount(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)

	cases := []struct {
		name     string
		discount float64
		want     int64
	}{
		{name: "list price", discount: 0, want: 20_000},
		{name: "course discount", discount: 0.1, want: 18_000},
		{name: "capped discount", discount: 0.9, want: 10_000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := st.Clone()
			in.Modifiers.DealDiscountPct = tc.discount
			next, err := BuyAsset(in, cat, "index_fund", 2)
			require.NoError(t, err)
			require.Equal(t, in.Cash-tc.want, next.Cash)
			a := next.Assets[len(next.Assets)-1]
			require.Equal(t, "index_fund", a.ItemID)
			require.Equal(t, tc.want, a.CostBasis)
			require.Equal(t, 2.0, a.Units())
		})
	}

	_, err := BuyAsset(st, cat, "beanie_babies", 1)
	require.ErrorIs(t, err, ErrUnknownMarketItem)
	_, err = BuyAsset(st, cat, "index_fund", 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = BuyAsset(st, cat, "treasury_bond", 10)
	require.ErrorIs(t, err, ErrInsufficientCash)
}

func TestBuyAssetMergesPosition(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)
	st, err := BuyAsset(st, cat, "index_fund", 1)
	require.NoError(t, err)
	st, err = BuyAsset(st, cat, "index_fund", 1.5)
	require.NoError(t, err)

	var held []Asset
	for _, a := range st.Assets {
		if a.ItemID == "index_fund" {
			held = append(held, a)
		}
	}
	require.Len(t, held, 1)
	require.Equal(t, 2.5, held[0].Units())
	require.Equal(t, int64(25_000), held[0].CostBasis)
}

// buyCondo returns a graduate who owns the rental condo on a mortgage.
func buyCondo(t *testing.T, cat *content.Catalog) (GameState, Asset) {
	t.Helper()
	st := newDefaultGame(t, "graduate", "normal", 1)
	st.Cash = 5_000_000
	next, err := BuyAsset(st, cat, "rental_condo", 1)
	require.NoError(t, err)
	return next, next.Assets[len(next.Assets)-1]
}

func TestBuyRealEstateTakesMortgage(t *testing.T) {
	cat := content.Default()
	st, condo := buyCondo(t, cat)

	require.Equal(t, int64(1_400_000), st.Cash)
	require.Equal(t, AssetRealEstate, condo.Type)
	require.Equal(t, int64(18_000_000), condo.CostBasis)
	require.Len(t, st.Mortgages, 1)
	m := st.Mortgages[0]
	require.Equal(t, LiabilityMortgage, m.Type)
	require.Equal(t, condo.ID, m.SourceAssetID)
	require.Equal(t, int64(14_400_000), m.Balance)
	require.Equal(t, 360, m.TermMonths)
	require.Equal(t, annuityPayment(14_400_000, 0.065, 360), m.MonthlyPayment)
	require.Positive(t, m.MonthlyPayment)

	// property and its loan cancel out apart from the down payment
	before := newDefaultGame(t, "graduate", "normal", 1)
	before.Cash = 5_000_000
	require.Equal(t, CalculateNetWorth(before), CalculateNetWorth(st))

	poor := newDefaultGame(t, "graduate", "normal", 1)
	poor.Cash = 3_599_999
	_, err := BuyAsset(poor, cat, "rental_condo", 1)
	require.ErrorIs(t, err, ErrInsufficientCash)

	// a discount lowers both the down payment and the loan
	disc := newDefaultGame(t, "graduate", "normal", 1)
	disc.Cash = 5_000_000
	disc.Modifiers.DealDiscountPct = 0.1
	disc, err = BuyAsset(disc, cat, "rental_condo", 1)
	require.NoError(t, err)
	require.Equal(t, int64(5_000_000-3_240_000), disc.Cash)
	require.Equal(t, int64(12_960_000), disc.Mortgages[0].Balance)
}

func TestSellAsset(t *testing.T) {
	cat := content.Default()

	t.Run("property retires its mortgage", func(t *testing.T) {
		st, condo := buyCondo(t, cat)
		next, sale, err := SellAsset(st, condo.ID, 0)
		require.NoError(t, err)
		require.Equal(t, int64(18_000_000), sale.Proceeds)
		require.Equal(t, int64(14_400_000), sale.MortgageRepaid)
		require.Equal(t, int64(0), sale.Gain)
		require.Equal(t, int64(5_000_000), next.Cash)
		require.Empty(t, next.Mortgages)
		for _, a := range next.Assets {
			require.NotEqual(t, condo.ID, a.ID)
		}
		require.Len(t, st.Mortgages, 1)
	})

	t.Run("other mortgages survive", func(t *testing.T) {
		st, condo := buyCondo(t, cat)
		st.Mortgages = append(st.Mortgages, Liability{ID: "mort-other", Type: LiabilityMortgage, Balance: 1_000, SourceAssetID: "asset-other"})
		next, _, err := SellAsset(st, condo.ID, 0)
		require.NoError(t, err)
		require.Len(t, next.Mortgages, 1)
		require.Equal(t, "mort-other", next.Mortgages[0].ID)
	})

	t.Run("partial sale keeps the rest", func(t *testing.T) {
		st := newDefaultGame(t, "graduate", "normal", 1)
		st, err := BuyAsset(st, cat, "index_fund", 4)
		require.NoError(t, err)
		fund := st.Assets[len(st.Assets)-1]

		next, sale, err := SellAsset(st, fund.ID, 1)
		require.NoError(t, err)
		require.Equal(t, int64(10_000), sale.Proceeds)
		require.Equal(t, int64(0), sale.Gain)
		require.Equal(t, st.Cash+10_000, next.Cash)
		left := next.Assets[len(next.Assets)-1]
		require.Equal(t, 3.0, left.Units())
		require.Equal(t, int64(30_000), left.CostBasis)

		_, _, err = SellAsset(st, fund.ID, 5)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		_, _, err = SellAsset(st, fund.ID, -1)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		_, _, err = SellAsset(st, "asset-missing", 1)
		require.ErrorIs(t, err, ErrUnknownAsset)
	})
}

func TestRepayLiability(t *testing.T) {
	st, _ := newFlatGame(t)
	loan := st.Liabilities[0]
	require.Equal(t, int64(500_000), loan.Balance)

	cases := []struct {
		name        string
		cash        int64
		amount      int64
		want        error
		wantBalance int64
		paidOff     bool
	}{
		{name: "partial", cash: 1_000_000, amount: 100_000, wantBalance: 400_000},
		{name: "exact payoff", cash: 1_000_000, amount: 500_000, paidOff: true},
		{name: "zero pays in full", cash: 1_000_000, amount: 0, paidOff: true},
		{name: "overpayment is capped", cash: 1_000_000, amount: 900_000, paidOff: true},
		{name: "negative", cash: 1_000_000, amount: -1, want: ErrInvalidAmount},
		{name: "short of cash", cash: 1_000, amount: 0, want: ErrInsufficientCash},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := st.Clone()
			in.Cash = tc.cash
			next, err := RepayLiability(in, loan.ID, tc.amount)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
				require.Equal(t, loan.Balance, next.Liabilities[0].Balance)
				require.Equal(t, tc.cash, next.Cash)
				return
			}
			require.NoError(t, err)
			if tc.paidOff {
				require.Empty(t, next.Liabilities)
				require.Equal(t, tc.cash-loan.Balance, next.Cash)
				return
			}
			require.Equal(t, tc.wantBalance, next.Liabilities[0].Balance)
			require.Equal(t, tc.cash-(loan.Balance-tc.wantBalance), next.Cash)
		})
	}

	_, err := RepayLiability(st, "loan-missing", 1)
	require.ErrorIs(t, err, ErrUnknownLiability)
}

func TestRepayMortgage(t *testing.T) {
	st, _ := buyCondo(t, content.Default())
	m := st.Mortgages[0]
	next, err := RepayLiability(st, m.ID, 400_000)
	require.NoError(t, err)
	require.Equal(t, m.Balance-400_000, next.Mortgages[0].Balance)
	require.Equal(t, st.Cash-400_000, next.Cash)
}
