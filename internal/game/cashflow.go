package game

import (
	"tycoon/internal/content"
)

type CashFlowEstimate struct {
	Salary           int64 `json:"salary"`
	SpouseIncome     int64 `json:"spouseIncome"`
	SideHustleIncome int64 `json:"sideHustleIncome"`
	Passive          int64 `json:"passive"`
	LifestyleCost    int64 `json:"lifestyleCost"`
	ChildrenExpenses int64 `json:"childrenExpenses"`
	VehicleCosts     int64 `json:"vehicleCosts"`
	DebtPayments     int64 `json:"debtPayments"`
	EducationPayment int64 `json:"educationPayment"`
	Income           int64 `json:"income"`
	Expenses         int64 `json:"expenses"`
}

func (e CashFlowEstimate) Net() int64 { return e.Income - e.Expenses }

// CalculateMonthlyCashFlowEstimate projects next month's budget lines from
// state without rolling any dice. Hustle income is the midpoint of each
// AI-adjusted range.
func CalculateMonthlyCashFlowEstimate(s GameState, cat *content.Catalog) CashFlowEstimate {
	var e CashFlowEstimate
	e.Salary = s.Career.Salary
	if s.Family.Married {
		e.SpouseIncome = s.Family.SpouseIncome
	}
	for _, h := range s.ActiveSideHustles {
		def, ok := cat.SideHustle(h.HustleID)
		if !ok {
			continue
		}
		lo, hi := hustleRange(def, s.Economy.AIDisruption)
		e.SideHustleIncome += scaleCents((lo+hi)/2, upgradeMultiplier(def, h))
	}
	e.Passive = passiveIncome(s)
	e.LifestyleCost = s.LifestyleCost
	e.ChildrenExpenses = childrenCost(s, cat)
	for _, v := range s.Vehicles {
		e.VehicleCosts += v.MonthlyUpkeep
	}
	for _, l := range s.Liabilities {
		if l.SourceEducationID != "" || l.Type == LiabilityStudentLoan {
			e.EducationPayment += scheduledPayment(l)
			continue
		}
		e.DebtPayments += scheduledPayment(l)
	}
	for _, m := range s.Mortgages {
		e.DebtPayments += scheduledPayment(m)
	}
	e.Income = e.Salary + e.SpouseIncome + e.SideHustleIncome + e.Passive
	e.Expenses = e.LifestyleCost + e.ChildrenExpenses + e.VehicleCosts + e.DebtPayments + e.EducationPayment
	return e
}

// aiPenalty is the fraction shaved off a hustle's income range.
func aiPenalty(exposure, disruption float64) float64 {
	return clampFloat(exposure*disruption, 0, 0.9)
}

// hustleRange applies the AI penalty multiplicatively to both bounds.
func hustleRange(h content.SideHustle, disruption float64) (int64, int64) {
	keep := 1 - aiPenalty(h.AIExposure, disruption)
	return scaleCents(h.MinIncome.Int64(), keep), scaleCents(h.MaxIncome.Int64(), keep)
}

func upgradeMultiplier(def content.SideHustle, h ActiveHustle) float64 {
	m := 1.0
	for _, id := range h.Upgrades {
		if u, _, ok := def.Upgrade(id); ok && u.IncomeMultiplier > 0 {
			m *= u.IncomeMultiplier
		}
	}
	return m
}

func passiveIncome(s GameState) int64 {
	var total int64
	rate := savingsMonthlyRate(s.Economy)
	for _, a := range s.Assets {
		if a.Type == AssetSavings {
			total += scaleCents(a.MarketValue(), rate)
			continue
		}
		total += scaleCents(a.MonthlyCashFlow, a.Units())
	}
	return total
}

func savingsMonthlyRate(e Economy) float64 {
	if e.InterestRate <= 0 {
		return 0
	}
	return e.InterestRate * savingsRateShare / 12
}

func childrenCost(s GameState, cat *content.Catalog) int64 {
	if s.Family.Children <= 0 {
		return 0
	}
	per := cat.ChildMonthlyCost.Int64()
	if d, ok := cat.Difficulty(s.Difficulty); ok && d.ExpenseMultiplier > 0 {
		per = scaleCents(per, d.ExpenseMultiplier)
	}
	return per * int64(s.Family.Children)
}

// enrollmentDeposit is the upfront charge for a program. Costs above the
// threshold take a 10% deposit; anything else is paid in full.
func enrollmentDeposit(cost int64) int64 {
	if cost > enrollmentDepositThreshold {
		return scaleCents(cost, enrollmentDepositPct)
	}
	return cost
}
