package game

import (
	"tycoon/internal/content"
)

// charge takes amount out of cash. Whatever cash cannot cover lands on a
// credit card so cash never goes negative. It returns the shortfall.
func (s *GameState) charge(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if s.Cash >= amount {
		s.Cash -= amount
		return 0
	}
	short := amount - s.Cash
	s.Cash = 0
	s.borrowOnCard(short)
	return short
}

// chargeFloored takes up to amount from cash and forgives the rest.
func (s *GameState) chargeFloored(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if amount > s.Cash {
		amount = s.Cash
	}
	s.Cash -= amount
	return amount
}

func (s *GameState) borrowOnCard(amount int64) {
	for i := range s.Liabilities {
		if s.Liabilities[i].Type == LiabilityCreditCard {
			s.Liabilities[i].Balance += amount
			return
		}
	}
	limit := defaultCardLimit
	if amount*2 > limit {
		limit = amount * 2
	}
	s.Liabilities = append(s.Liabilities, Liability{
		ID:           s.newID("liab"),
		Name:         "Credit Card",
		Type:         LiabilityCreditCard,
		Balance:      amount,
		InterestRate: creditCardRate,
		CreditLimit:  limit,
	})
}

func (s *GameState) addLiability(t content.LiabilityTemplate) Liability {
	l := Liability{
		ID:             s.newID("liab"),
		Name:           t.Name,
		Type:           t.Type,
		Balance:        t.Balance.Int64(),
		InterestRate:   t.InterestRate,
		MonthlyPayment: t.MonthlyPayment.Int64(),
		TermMonths:     t.TermMonths,
		CreditLimit:    t.CreditLimit.Int64(),
	}
	if l.MonthlyPayment == 0 && l.TermMonths > 0 {
		l.MonthlyPayment = annuityPayment(l.Balance, l.InterestRate, l.TermMonths)
	}
	s.Liabilities = append(s.Liabilities, l)
	return l
}

func (s *GameState) addAsset(t content.AssetTemplate) {
	a := Asset{
		ID:              s.newID("asset"),
		Name:            t.Name,
		Type:            t.Type,
		Value:           t.Value.Int64(),
		MonthlyCashFlow: t.MonthlyCashFlow.Int64(),
		Volatility:      t.Volatility,
		ExpectedReturn:  t.ExpectedReturn,
	}
	if t.Quantity > 0 {
		q := t.Quantity
		a.Quantity = &q
	}
	a.CostBasis = a.MarketValue()
	a.PriceHistory = []int64{a.Value}
	s.Assets = append(s.Assets, a)
}

func (s *GameState) addVehicle(t content.VehicleTemplate) {
	s.Vehicles = append(s.Vehicles, Vehicle{
		ID:               s.newID("veh"),
		Name:             t.Name,
		Value:            t.Value.Int64(),
		MonthlyUpkeep:    t.MonthlyUpkeep.Int64(),
		DepreciationRate: t.DepreciationRate,
	})
}

func statsFrom(b content.StatBlock) Stats {
	return Stats{
		Happiness:   b.Happiness,
		Health:      b.Health,
		Energy:      b.Energy,
		Stress:      b.Stress,
		Networking:  b.Networking,
		FinancialIQ: b.FinancialIQ,
	}
}

func (s *GameState) adjustCredit(delta int) {
	if delta == 0 {
		return
	}
	s.CreditRating = clampCredit(s.CreditRating + delta)
}
