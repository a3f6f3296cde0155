package game

import (
	"fmt"

	"tycoon/internal/content"
)

type MonthlyReport struct {
	Month int `json:"month"`
	Year  int `json:"year"`

	CashBefore     int64 `json:"cashBefore"`
	CashAfter      int64 `json:"cashAfter"`
	NetWorthBefore int64 `json:"netWorthBefore"`
	NetWorthAfter  int64 `json:"netWorthAfter"`
	NetWorthDelta  int64 `json:"netWorthDelta"`

	Salary        int64 `json:"salary"`
	SpouseIncome  int64 `json:"spouseIncome"`
	HustleIncome  int64 `json:"hustleIncome"`
	PassiveIncome int64 `json:"passiveIncome"`
	LivingCosts   int64 `json:"livingCosts"`
	DebtPaid      int64 `json:"debtPaid"`
	InterestPaid  int64 `json:"interestPaid"`
	CardShortfall int64 `json:"cardShortfall"`
	SalaryRaise   int64 `json:"salaryRaise"`

	Delinquent    bool     `json:"delinquent"`
	CreditScore   int      `json:"creditScore"`
	CreditDelta   int      `json:"creditDelta"`
	CreditReasons []string `json:"creditReasons"`
	Phase         string   `json:"phase"`
	Recession     bool     `json:"recession"`

	Event           string   `json:"event,omitempty"`
	ScenarioPending bool     `json:"scenarioPending"`
	QuestsReady     []string `json:"questsReady,omitempty"`
	Notes           []string `json:"notes"`
}

func (r *MonthlyReport) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// ProcessTurn resolves one month. It refuses to run while a scenario is
// waiting for the player, and on error the caller keeps the old state.
func ProcessTurn(s GameState, cat *content.Catalog, rng RNG) (GameState, MonthlyReport, error) {
	if s.PendingScenario != nil {
		return s, MonthlyReport{}, ErrScenarioPending
	}
	diff, ok := cat.Difficulty(s.Difficulty)
	if !ok {
		return s, MonthlyReport{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s.Difficulty)
	}
	params := volatilityParams(diff.Volatility)

	prev := s
	next := s.Clone()
	rep := MonthlyReport{
		CashBefore:     s.Cash,
		NetWorthBefore: CalculateNetWorth(s),
		Notes:          []string{},
	}

	// 1. calendar
	next.Month++
	next.Year = yearFor(next.Month)
	rep.Month, rep.Year = next.Month, next.Year

	// 2. education
	if done := next.advanceEducation(cat); done != "" {
		rep.note("Completed %s", done)
	}

	// 3. paycheck, living costs, then debt service
	due := CalculateMonthlyCashFlowEstimate(next, cat)
	rep.Salary = next.Career.Salary
	rep.SpouseIncome = due.SpouseIncome
	next.Cash += rep.Salary + rep.SpouseIncome
	rep.LivingCosts = due.LifestyleCost + due.ChildrenExpenses + due.VehicleCosts
	if short := next.charge(rep.LivingCosts); short > 0 {
		rep.CardShortfall = short
		rep.note("Put %s of living costs on a credit card", formatCents(short))
	}
	delinquent := next.serviceDebt(&rep)

	// 4. side hustles
	var hustleNotes []string
	rep.HustleIncome, hustleNotes = next.runHustles(cat, rng)
	rep.Notes = append(rep.Notes, hustleNotes...)

	// 5. career
	rep.SalaryRaise = next.applyCareerGrowth(cat)

	// 6. assets and vehicles
	rep.PassiveIncome = next.stepAssets(params, rng)

	// 7. economy
	var econNotes []string
	next.Economy, econNotes = stepEconomy(next.Economy, params, rng)
	rep.Notes = append(rep.Notes, econNotes...)
	rep.Phase, rep.Recession = next.Economy.Phase, next.Economy.Recession

	// 8. credit
	snap := CashFlowSnapshot{
		Income:       rep.Salary + rep.SpouseIncome + rep.HustleIncome + rep.PassiveIncome,
		DebtPayments: due.DebtPayments + due.EducationPayment,
	}
	cu := CalculateCreditScoreUpdate(prev, next, snap, delinquent)
	next.CreditRating = cu.Score
	next.CreditLastChangeReasons = cu.Reasons
	next.CreditHistory = appendCapped(next.CreditHistory, CreditEntry{
		Month:   next.Month,
		Score:   cu.Score,
		Delta:   cu.Delta,
		Reasons: cu.Reasons,
	}, creditHistoryCap)
	rep.Delinquent = delinquent
	rep.CreditScore, rep.CreditDelta, rep.CreditReasons = cu.Score, cu.Delta, cu.Reasons

	// 9. life events
	if ev, fired := next.pickEvent(cat, diff.EventChance, rng); fired {
		rep.Event = next.fireEvent(ev, rng)
		rep.ScenarioPending = next.PendingScenario != nil
	}

	// 10. quests
	rep.QuestsReady = next.updateQuests(cat)

	// 11. invariants
	next.clampStats()
	if next.Cash < 0 {
		short := -next.Cash
		next.Cash = 0
		next.borrowOnCard(short)
	}
	nw := CalculateNetWorth(next)
	next.NetWorthHistory = appendCapped(next.NetWorthHistory, NetWorthPoint{Month: next.Month, NetWorth: nw}, netWorthHistoryCap)

	rep.CashAfter = next.Cash
	rep.NetWorthAfter = nw
	rep.NetWorthDelta = nw - rep.NetWorthBefore
	return next, rep, nil
}

// serviceDebt amortizes every liability and mortgage in order, removing
// anything paid off. It reports whether any payment fell short.
func (s *GameState) serviceDebt(rep *MonthlyReport) bool {
	delinquent := false
	service := func(in []Liability) []Liability {
		out := in[:0:0]
		for _, l := range in {
			var res amortization
			l, s.Cash, res = amortize(l, s.Cash)
			rep.DebtPaid += res.Paid
			rep.InterestPaid += res.Interest
			if res.Delinquent {
				delinquent = true
				s.PaymentHistory.Late++
				rep.note("Missed part of the %s payment", l.Name)
			} else {
				s.PaymentHistory.OnTime++
			}
			if res.PaidOff {
				rep.note("Paid off %s", l.Name)
				s.logEvent("debt", "Paid off "+l.Name)
				continue
			}
			out = append(out, l)
		}
		return out
	}
	s.Liabilities = service(s.Liabilities)
	s.Mortgages = service(s.Mortgages)
	return delinquent
}

func formatCents(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/CentsPerDollar, v%CentsPerDollar)
}
