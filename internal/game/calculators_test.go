package game

import (
	"slices"
	"testing"

	"tycoon/internal/content"
)

func qty(v float64) *float64 { return &v }

func TestCalculateNetWorth(t *testing.T) {
	tests := []struct {
		name string
		st   GameState
		want int64
	}{
		{
			name: "nil slices",
			st:   GameState{Cash: 12_345},
			want: 12_345,
		},
		{
			name: "missing quantity counts as one",
			st: GameState{
				Cash:   1_000,
				Assets: []Asset{{Value: 500}},
			},
			want: 1_500,
		},
		{
			name: "quantity multiplies value",
			st: GameState{
				Cash:        0,
				Assets:      []Asset{{Value: 250, Quantity: qty(4)}, {Value: 100}},
				Vehicles:    []Vehicle{{Value: 2_000}},
				Liabilities: []Liability{{Balance: 700}, {Balance: 300}},
			},
			want: 1_000 + 100 + 2_000 - 1_000,
		},
		{
			name: "mortgages are subtracted",
			st: GameState{
				Cash:      100,
				Assets:    []Asset{{Value: 10_000, Type: AssetRealEstate}},
				Mortgages: []Liability{{Balance: 8_000}},
			},
			want: 2_100,
		},
	}
	for _, tc := range tests {
		if got := CalculateNetWorth(tc.st); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestNetWorthMatchesParts(t *testing.T) {
	st := newDefaultGame(t, "nurse", "normal", 3)
	var sum int64 = st.Cash
	for _, a := range st.Assets {
		sum += a.MarketValue()
	}
	for _, v := range st.Vehicles {
		sum += v.Value
	}
	for _, l := range st.Liabilities {
		sum -= l.Balance
	}
	if got := CalculateNetWorth(st); got != sum {
		t.Fatalf("got %d want %d", got, sum)
	}
}

func TestMonthlyInterest(t *testing.T) {
	if got := monthlyInterest(500_000, 0.08); got != 3_333 {
		t.Fatalf("got %d want 3333", got)
	}
	if got := monthlyInterest(500_000, 0); got != 0 {
		t.Fatalf("zero rate: got %d", got)
	}
}

func TestAnnuityPayment(t *testing.T) {
	tests := []struct {
		principal int64
		apr       float64
		months    int
		want      int64
	}{
		{principal: 120_000, apr: 0, months: 12, want: 10_000},
		{principal: 100_000, apr: 0.12, months: 12, want: 8_885},
		{principal: 2_800_000, apr: 0.055, months: 120, want: 30_388},
		{principal: 0, apr: 0.1, months: 12, want: 0},
	}
	for _, tc := range tests {
		if got := annuityPayment(tc.principal, tc.apr, tc.months); got != tc.want {
			t.Fatalf("annuity(%d, %v, %d)=%d want %d", tc.principal, tc.apr, tc.months, got, tc.want)
		}
	}
}

func TestAmortizeShortCashIsDelinquent(t *testing.T) {
	l := Liability{Balance: 100_000, InterestRate: 0.12, MonthlyPayment: 5_000}
	next, cash, res := amortize(l, 2_000)
	if !res.Delinquent {
		t.Fatalf("expected delinquency")
	}
	if cash != 0 || res.Paid != 2_000 {
		t.Fatalf("cash=%d paid=%d", cash, res.Paid)
	}
	if next.Balance != 100_000+1_000-2_000 {
		t.Fatalf("balance=%d", next.Balance)
	}
}

func TestAmortizePaysOff(t *testing.T) {
	l := Liability{Balance: 1_000, MonthlyPayment: 5_000}
	next, cash, res := amortize(l, 10_000)
	if !res.PaidOff || next.Balance != 0 {
		t.Fatalf("expected paid off, balance=%d", next.Balance)
	}
	if cash != 9_000 {
		t.Fatalf("cash=%d want 9000", cash)
	}
}

func TestCardMinimumPayment(t *testing.T) {
	card := Liability{Type: LiabilityCreditCard, Balance: 100_000}
	if got := scheduledPayment(card); got != 2_500 {
		t.Fatalf("small card: got %d want the $25 floor", got)
	}
	card.Balance = 1_000_000
	if got := scheduledPayment(card); got != 20_000 {
		t.Fatalf("large card: got %d want 2%%", got)
	}
}

func TestCreditScoreFactors(t *testing.T) {
	base := GameState{CreditRating: 700}

	t.Run("delinquency", func(t *testing.T) {
		u := CalculateCreditScoreUpdate(base, base, CashFlowSnapshot{Income: 100_000, DebtPayments: 30_000}, true)
		if !slices.Contains(u.Reasons, ReasonDelinquent) {
			t.Fatalf("reasons=%v", u.Reasons)
		}
		if u.Delta != -35 {
			t.Fatalf("delta=%d want -35", u.Delta)
		}
	})

	t.Run("low dti and on-time", func(t *testing.T) {
		next := base
		next.PaymentHistory.OnTime = 1
		u := CalculateCreditScoreUpdate(base, next, CashFlowSnapshot{Income: 100_000, DebtPayments: 10_000}, false)
		if u.Score != 704 {
			t.Fatalf("score=%d want 704 (%v)", u.Score, u.Reasons)
		}
		if !slices.Contains(u.Reasons, ReasonLowDTI) || !slices.Contains(u.Reasons, ReasonOnTime) {
			t.Fatalf("reasons=%v", u.Reasons)
		}
	})

	t.Run("high utilization and dti", func(t *testing.T) {
		next := base
		next.Liabilities = []Liability{{Type: LiabilityCreditCard, Balance: 95_000, CreditLimit: 100_000}}
		u := CalculateCreditScoreUpdate(next, next, CashFlowSnapshot{Income: 100_000, DebtPayments: 50_000}, false)
		if u.Delta != -14 {
			t.Fatalf("delta=%d want -14 (%v)", u.Delta, u.Reasons)
		}
	})

	t.Run("new debt", func(t *testing.T) {
		next := base
		next.Liabilities = []Liability{{Balance: 500_000}}
		u := CalculateCreditScoreUpdate(base, next, CashFlowSnapshot{}, false)
		if !slices.Contains(u.Reasons, ReasonNewDebt) {
			t.Fatalf("reasons=%v", u.Reasons)
		}
	})

	t.Run("clamped", func(t *testing.T) {
		low := GameState{CreditRating: 310}
		u := CalculateCreditScoreUpdate(low, low, CashFlowSnapshot{DebtPayments: 1}, true)
		if u.Score != CreditMin {
			t.Fatalf("score=%d want %d", u.Score, CreditMin)
		}
		high := GameState{CreditRating: 849}
		high.PaymentHistory.OnTime = 1
		u = CalculateCreditScoreUpdate(GameState{CreditRating: 849}, high, CashFlowSnapshot{Income: 10, DebtPayments: 0}, false)
		if u.Score != CreditMax {
			t.Fatalf("score=%d want %d", u.Score, CreditMax)
		}
	})
}

func TestHustleRangeAIPenaltyIsMultiplicative(t *testing.T) {
	def := content.SideHustle{MinIncome: 30_000, MaxIncome: 90_000, AIExposure: 0.7}
	lo, hi := hustleRange(def, 0.5)
	if lo != 19_500 || hi != 58_500 {
		t.Fatalf("range=%d..%d want 19500..58500", lo, hi)
	}
	lo, hi = hustleRange(def, 5)
	if lo != 3_000 || hi != 9_000 {
		t.Fatalf("penalty should cap at 90%%: %d..%d", lo, hi)
	}
}

func TestCashFlowEstimate(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "nurse", "normal", 1)
	st.Economy.AIDisruption = 0.5
	st, err := StartSideHustle(st, cat, "freelance_writing")
	if err != nil {
		t.Fatalf("start hustle: %v", err)
	}
	st.Liabilities = append(st.Liabilities, Liability{
		ID: "edu", Balance: 1_000_000, MonthlyPayment: 12_000, InterestRate: 0.05, SourceEducationID: "mba",
	})

	e := CalculateMonthlyCashFlowEstimate(st, cat)
	if e.SideHustleIncome != 39_000 {
		t.Fatalf("hustle income=%d want 39000", e.SideHustleIncome)
	}
	if e.EducationPayment != 12_000 {
		t.Fatalf("education payment=%d want 12000", e.EducationPayment)
	}
	if e.ChildrenExpenses != 80_000 {
		t.Fatalf("children=%d want 80000", e.ChildrenExpenses)
	}
	if e.SpouseIncome != 300_000 {
		t.Fatalf("spouse=%d", e.SpouseIncome)
	}
	if e.Income != e.Salary+e.SpouseIncome+e.SideHustleIncome+e.Passive {
		t.Fatalf("income lines do not add up")
	}
	if e.Expenses != e.LifestyleCost+e.ChildrenExpenses+e.VehicleCosts+e.DebtPayments+e.EducationPayment {
		t.Fatalf("expense lines do not add up")
	}
}

func TestEnrollmentDeposit(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)
	st.Cash = 2_000_000

	next, err := EnrollEducation(st, cat, "cs_degree")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if st.Cash-next.Cash != 480_000 {
		t.Fatalf("deposit=%d want 10%% of $48,000", st.Cash-next.Cash)
	}
	var loan *Liability
	for i := range next.Liabilities {
		if next.Liabilities[i].SourceEducationID == "cs_degree" {
			loan = &next.Liabilities[i]
		}
	}
	if loan == nil || loan.Balance != 4_320_000 {
		t.Fatalf("expected tagged loan for the remainder, got %+v", loan)
	}

	cheap, err := EnrollEducation(st, cat, "coding_bootcamp")
	if err != nil {
		t.Fatalf("enroll bootcamp: %v", err)
	}
	if st.Cash-cheap.Cash != 1_200_000 {
		t.Fatalf("bootcamp charged %d", st.Cash-cheap.Cash)
	}
	if len(cheap.Liabilities) != len(st.Liabilities) {
		t.Fatalf("cheap program should not open a loan")
	}

	if _, err := EnrollEducation(next, cat, "coding_bootcamp"); err != ErrAlreadyEnrolled {
		t.Fatalf("err=%v want ErrAlreadyEnrolled", err)
	}
	poor := st
	poor.Cash = 100
	got, err := EnrollEducation(poor, cat, "coding_bootcamp")
	if err == nil || got.Cash != poor.Cash {
		t.Fatalf("expected insufficient cash no-op, err=%v", err)
	}
}

func TestStartingStudentLoanIsEducationPayment(t *testing.T) {
	st := newDefaultGame(t, "graduate", "normal", 1)
	e := CalculateMonthlyCashFlowEstimate(st, content.Default())
	if e.EducationPayment != 30_400 {
		t.Fatalf("education payment=%d want 30400", e.EducationPayment)
	}
	if e.DebtPayments != 5_000 {
		t.Fatalf("debt payments=%d want only the card minimum", e.DebtPayments)
	}
}

func TestApplyCareerGrowth(t *testing.T) {
	cat := content.Default()
	base := newDefaultGame(t, "graduate", "normal", 1)
	base.Economy.AIDisruption = 0

	tests := []struct {
		name   string
		edit   func(*GameState)
		salary int64
	}{
		{name: "steady", edit: func(*GameState) {}, salary: 450_450},
		{name: "recession halves raise", edit: func(s *GameState) { s.Economy.Recession = true }, salary: 450_225},
		{name: "burned out", edit: func(s *GameState) { s.Stats.Stress = 80 }, salary: 450_000},
		{name: "rested and calm", edit: func(s *GameState) { s.Stats.Stress = 20 }, salary: 451_125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base.Clone()
			tt.edit(&in)
			next := ApplyCareerGrowth(in, cat)
			if next.Career.Salary != tt.salary {
				t.Fatalf("salary=%d want %d", next.Career.Salary, tt.salary)
			}
			if next.Career.Experience != in.Career.Experience+1 {
				t.Fatalf("experience=%v want %v", next.Career.Experience, in.Career.Experience+1)
			}
			if in.Career.Salary != 450_000 {
				t.Fatalf("input mutated: salary=%d", in.Career.Salary)
			}
		})
	}
}
