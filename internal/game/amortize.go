package game

import (
	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// monthlyInterest is balance × APR / 12, rounded to the cent.
func monthlyInterest(balance int64, apr float64) int64 {
	if balance <= 0 || apr <= 0 {
		return 0
	}
	return decimal.NewFromInt(balance).
		Mul(decimal.NewFromFloat(apr)).
		Div(twelve).
		Round(0).
		IntPart()
}

// annuityPayment is the level monthly payment that retires principal over
// months at the given APR.
func annuityPayment(principal int64, apr float64, months int) int64 {
	if principal <= 0 {
		return 0
	}
	if months <= 0 {
		return principal
	}
	p := decimal.NewFromInt(principal)
	n := decimal.NewFromInt(int64(months))
	if apr <= 0 {
		return p.Div(n).RoundCeil(0).IntPart()
	}
	r := decimal.NewFromFloat(apr).Div(twelve)
	f := decimal.NewFromInt(1).Add(r).Pow(n)
	return p.Mul(r).Mul(f).Div(f.Sub(decimal.NewFromInt(1))).RoundCeil(0).IntPart()
}

// scheduledPayment is what falls due this month before interest is added.
// Revolving balances without a fixed payment owe a percentage minimum.
func scheduledPayment(l Liability) int64 {
	if l.Balance <= 0 {
		return 0
	}
	due := l.MonthlyPayment
	if due <= 0 {
		due = decimal.NewFromInt(l.Balance).
			Mul(decimal.NewFromFloat(cardMinPaymentPct)).
			RoundCeil(0).
			IntPart()
		if due < cardMinPayment {
			due = cardMinPayment
		}
	}
	owed := l.Balance + monthlyInterest(l.Balance, l.InterestRate)
	if due > owed {
		due = owed
	}
	return due
}

type amortization struct {
	Interest   int64
	Paid       int64
	Delinquent bool
	PaidOff    bool
}

// amortize accrues one month of interest and pays the scheduled amount out
// of cash. When cash is short the available amount is paid and the loan is
// marked delinquent.
func amortize(l Liability, cash int64) (Liability, int64, amortization) {
	var res amortization
	if l.Balance <= 0 {
		res.PaidOff = true
		return l, cash, res
	}
	due := scheduledPayment(l)
	res.Interest = monthlyInterest(l.Balance, l.InterestRate)
	l.Balance += res.Interest
	pay := due
	if cash < due {
		pay = cash
		res.Delinquent = true
	}
	l.Balance -= pay
	cash -= pay
	res.Paid = pay
	if l.TermMonths > 0 && !res.Delinquent {
		l.TermMonths--
	}
	if l.Balance <= 0 {
		l.Balance = 0
		res.PaidOff = true
	}
	return l, cash, res
}
