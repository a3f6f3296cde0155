package game

const (
	ReasonDelinquent     = "Missed or late payments"
	ReasonLowDTI         = "Low debt-to-income ratio"
	ReasonHighDTI        = "High debt-to-income ratio"
	ReasonLowUtilization = "Low credit utilization"
	ReasonHighUtil       = "High credit utilization"
	ReasonOnTime         = "On-time payments"
	ReasonNewDebt        = "New debt opened"
)

// CashFlowSnapshot is the slice of a month's budget credit scoring reads.
type CashFlowSnapshot struct {
	Income       int64
	DebtPayments int64
}

type CreditUpdate struct {
	Score   int      `json:"score"`
	Delta   int      `json:"delta"`
	Reasons []string `json:"reasons"`
}

// CalculateCreditScoreUpdate scores the move from prev to next. Factors add
// into one delta and the result stays within [300, 850].
func CalculateCreditScoreUpdate(prev, next GameState, snap CashFlowSnapshot, hadDelinquency bool) CreditUpdate {
	delta := 0
	reasons := []string{}
	add := func(d int, reason string) {
		delta += d
		reasons = append(reasons, reason)
	}

	if hadDelinquency {
		add(-35, ReasonDelinquent)
	}

	switch {
	case snap.Income > 0:
		dti := float64(snap.DebtPayments) / float64(snap.Income)
		if dti < 0.20 {
			add(3, ReasonLowDTI)
		} else if dti > 0.43 {
			add(-6, ReasonHighDTI)
		}
	case snap.DebtPayments > 0:
		add(-6, ReasonHighDTI)
	}

	if util, ok := utilization(next); ok {
		switch {
		case util < 0.10:
			add(2, ReasonLowUtilization)
		case util > 0.90:
			add(-8, ReasonHighUtil)
		case util > 0.50:
			add(-4, ReasonHighUtil)
		}
	}

	if !hadDelinquency && next.PaymentHistory.OnTime > prev.PaymentHistory.OnTime {
		add(1, ReasonOnTime)
	}

	before, after := prev.totalDebt(), next.totalDebt()
	grew := after - before
	if grew > newDebtThresholdCents && float64(grew) > float64(before)*newDebtThresholdGrowth {
		add(-3, ReasonNewDebt)
	}

	start := next.CreditRating
	if start == 0 {
		start = prev.CreditRating
	}
	score := clampCredit(start + delta)
	return CreditUpdate{Score: score, Delta: score - start, Reasons: reasons}
}

// utilization is revolving balance over total limit. Cards without a limit
// are assumed to carry the default one.
func utilization(s GameState) (float64, bool) {
	var balance, limit int64
	for _, l := range s.Liabilities {
		if l.Type != LiabilityCreditCard {
			continue
		}
		balance += l.Balance
		if l.CreditLimit > 0 {
			limit += l.CreditLimit
		} else {
			limit += defaultCardLimit
		}
	}
	if limit == 0 {
		return 0, false
	}
	return float64(balance) / float64(limit), true
}
