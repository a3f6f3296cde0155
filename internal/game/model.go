package game

import (
	"errors"
	"math"
)

const (
	CentsPerDollar = int64(100)

	StatMin = 0
	StatMax = 100

	CreditMin = 300
	CreditMax = 850

	MaxActiveQuests = 3

	creditHistoryCap   = 120
	netWorthHistoryCap = 120
	eventLogCap        = 50
	priceHistoryCap    = 24

	// Programs above this cost are financed: 10% deposit, the rest as a loan.
	enrollmentDepositThreshold = int64(20_000) * CentsPerDollar
	enrollmentDepositPct       = 0.10
	studentLoanRate            = 0.055
	studentLoanTermMonths      = 120

	creditCardRate         = 0.24
	defaultCardLimit       = int64(5_000) * CentsPerDollar
	cardMinPaymentPct      = 0.02
	cardMinPayment         = int64(25) * CentsPerDollar
	penaltyFeeTermMonths   = 12
	maxDealDiscountPct     = 0.5
	startingAIDisruption   = 0.05
	startingInterestRate   = 0.04
	startingInflationRate  = 0.025
	savingsRateShare       = 0.8
	promotionBonusChance   = 0.30
	newDebtThresholdCents  = int64(1_000) * CentsPerDollar
	newDebtThresholdGrowth = 0.10
)

const (
	ModeAdult = "adult"
	ModeKids  = "kids"
)

const (
	LiabilityCreditCard  = "credit_card"
	LiabilityStudentLoan = "student_loan"
	LiabilityMortgage    = "mortgage"
	LiabilityFee         = "fee"
)

const (
	AssetSavings    = "savings"
	AssetRealEstate = "real_estate"
	AssetVehicle    = "vehicle"
)

var (
	ErrUnknownCharacter    = errors.New("unknown character")
	ErrUnknownDifficulty   = errors.New("unknown difficulty")
	ErrUnknownEducation    = errors.New("unknown education program")
	ErrAlreadyEnrolled     = errors.New("already enrolled in a program")
	ErrAlreadyHaveDegree   = errors.New("degree already earned")
	ErrUnknownHustle       = errors.New("unknown side hustle")
	ErrHustleActive        = errors.New("side hustle already active")
	ErrHustleNotActive     = errors.New("side hustle not active")
	ErrUnknownUpgrade      = errors.New("unknown hustle upgrade")
	ErrUpgradeLocked       = errors.New("hustle upgrade not unlocked yet")
	ErrUpgradeOwned        = errors.New("hustle upgrade already owned")
	ErrInsufficientCash    = errors.New("insufficient cash")
	ErrNoNextLevel         = errors.New("already at the top career level")
	ErrNotEnoughExperience = errors.New("not enough experience for promotion")
	ErrEducationRequired   = errors.New("promotion requires additional education")
	ErrPromotionCooldown   = errors.New("already asked for a promotion this month")
	ErrUnknownAction       = errors.New("unknown monthly action")
	ErrActionUsed          = errors.New("monthly action already used this month")
	ErrModeRestricted      = errors.New("not available in this game mode")
	ErrUnknownQuest        = errors.New("unknown quest")
	ErrNoPendingScenario   = errors.New("no scenario awaiting a choice")
	ErrScenarioPending     = errors.New("a scenario is awaiting a choice")
	ErrInvalidOption       = errors.New("invalid option")
	ErrUnknownCourse       = errors.New("unknown course")
	ErrQuizActive          = errors.New("a quiz is already in progress")
	ErrNoActiveQuiz        = errors.New("no quiz in progress")
	ErrUnknownMarketItem   = errors.New("unknown market item")
	ErrUnknownAsset        = errors.New("asset not found")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
	ErrUnknownLiability    = errors.New("liability not found")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerExists        = errors.New("player already has a game")
)

func CentsToDollars(v int64) float64 {
	return float64(v) / float64(CentsPerDollar)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampStat(v int) int { return clampInt(v, StatMin, StatMax) }

func clampCredit(v int) int { return clampInt(v, CreditMin, CreditMax) }

func scaleCents(v int64, f float64) int64 {
	return int64(math.Round(float64(v) * f))
}

// yearFor derives the 1-based calendar year from a 1-based month counter.
func yearFor(month int) int {
	if month < 1 {
		return 1
	}
	return (month + 11) / 12
}
