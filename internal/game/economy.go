package game

import (
	"math"
	"strings"
)

const (
	PhaseBoom   = "BOOM"
	PhaseBull   = "BULL"
	PhaseStable = "STABLE"
	PhaseBear   = "BEAR"
	PhaseCrash  = "CRASH"
)

func newEconomy() Economy {
	return Economy{
		Phase:         PhaseStable,
		MarketTrend:   phaseDrift(PhaseStable) * 12,
		InterestRate:  startingInterestRate,
		InflationRate: startingInflationRate,
		AIDisruption:  startingAIDisruption,
	}
}

func randomPhase(seed float64) string {
	switch {
	case seed < 0.08:
		return PhaseCrash
	case seed < 0.30:
		return PhaseBear
	case seed < 0.65:
		return PhaseStable
	case seed < 0.90:
		return PhaseBull
	default:
		return PhaseBoom
	}
}

// phaseDrift is the monthly log-return tilt each phase adds to risk assets.
func phaseDrift(phase string) float64 {
	switch phase {
	case PhaseBoom:
		return 0.012
	case PhaseBull:
		return 0.006
	case PhaseBear:
		return -0.006
	case PhaseCrash:
		return -0.02
	default:
		return 0.002
	}
}

func phaseRateTarget(phase string) (interest, inflation float64) {
	switch phase {
	case PhaseBoom:
		return 0.055, 0.04
	case PhaseBull:
		return 0.045, 0.03
	case PhaseBear:
		return 0.03, 0.02
	case PhaseCrash:
		return 0.02, 0.015
	default:
		return 0.04, 0.025
	}
}

type marketDynamics struct {
	NoiseScale       float64
	ShockProb        float64
	ShockScale       float64
	RegimeSwitchProb float64
	MaxDropPerTick   float64
	RecessionChance  float64
}

func volatilityParams(mode string) marketDynamics {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "calm":
		return marketDynamics{
			NoiseScale:       0.6,
			ShockProb:        0.03,
			ShockScale:       0.5,
			RegimeSwitchProb: 0.06,
			MaxDropPerTick:   1.2,
			RecessionChance:  0.25,
		}
	case "wild":
		return marketDynamics{
			NoiseScale:       1.5,
			ShockProb:        0.10,
			ShockScale:       1.2,
			RegimeSwitchProb: 0.14,
			MaxDropPerTick:   2.6,
			RecessionChance:  0.5,
		}
	default:
		return marketDynamics{
			NoiseScale:       1.0,
			ShockProb:        0.06,
			ShockScale:       0.8,
			RegimeSwitchProb: 0.10,
			MaxDropPerTick:   2.0,
			RecessionChance:  0.35,
		}
	}
}

// stepEconomy moves the macro cycle forward one month and returns a note
// when the phase or recession status changes.
func stepEconomy(e Economy, params marketDynamics, rng RNG) (Economy, []string) {
	var notes []string
	if chance(rng, params.RegimeSwitchProb) {
		phase := randomPhase(rng.Float64())
		if phase != e.Phase {
			notes = append(notes, "Market shifted to "+phase)
			e.Phase = phase
			if !e.Recession && (phase == PhaseBear || phase == PhaseCrash) && chance(rng, params.RecessionChance) {
				e.Recession = true
				e.RecessionMonths = 6 + rng.Intn(7)
				notes = append(notes, "A recession has started")
			}
		}
	}
	if e.Recession {
		e.RecessionMonths--
		if e.RecessionMonths <= 0 {
			e.Recession = false
			e.RecessionMonths = 0
			notes = append(notes, "The recession is over")
		}
	}

	rateTarget, inflTarget := phaseRateTarget(e.Phase)
	if e.Recession {
		rateTarget -= 0.01
	}
	e.InterestRate += (rateTarget-e.InterestRate)*0.1 + 0.001*normalish(rng.Float64())
	e.InterestRate = clampFloat(e.InterestRate, 0.005, 0.12)
	e.InflationRate += (inflTarget-e.InflationRate)*0.1 + 0.001*normalish(rng.Float64())
	e.InflationRate = clampFloat(e.InflationRate, -0.01, 0.12)
	e.MarketTrend = phaseDrift(e.Phase) * 12
	e.AIDisruption = clampFloat(e.AIDisruption+0.002+0.003*rng.Float64(), 0, 1)
	return e, notes
}

// assetBeta scales how strongly an asset class follows the market phase.
func assetBeta(assetType string) float64 {
	switch assetType {
	case "crypto":
		return 2
	case "stock", "index_fund":
		return 1
	case AssetRealEstate:
		return 0.4
	case "bond":
		return 0.1
	default:
		return 0
	}
}

func evolvePrice(price int64, ret, maxDrop float64) int64 {
	if price <= 0 {
		return 1
	}
	// Bound only the downside; upside can run.
	if ret < -maxDrop {
		ret = -maxDrop
	}
	next := int64(math.Round(float64(price) * math.Exp(ret)))
	if next < 1 {
		next = 1
	}
	return next
}

// stepAssets walks each asset's price, pays its yield into cash and
// depreciates vehicles. It returns the passive income paid.
func (s *GameState) stepAssets(params marketDynamics, rng RNG) int64 {
	var paid int64
	drift := phaseDrift(s.Economy.Phase)
	savingsRate := savingsMonthlyRate(s.Economy)
	for i := range s.Assets {
		a := &s.Assets[i]
		if a.Type == AssetSavings {
			paid += scaleCents(a.MarketValue(), savingsRate)
			continue
		}
		if a.Volatility > 0 || a.ExpectedReturn != 0 {
			monthlyVol := a.Volatility / math.Sqrt(12)
			ret := a.ExpectedReturn/12 + assetBeta(a.Type)*drift + params.NoiseScale*monthlyVol*1.7*normalish(rng.Float64())
			if chance(rng, params.ShockProb) {
				ret += signedShock(rng.Float64(), rng.Float64(), params.ShockScale*monthlyVol)
			}
			a.Value = evolvePrice(a.Value, ret, math.Min(0.9, a.Volatility*params.MaxDropPerTick*0.5))
			a.PriceHistory = appendCapped(a.PriceHistory, a.Value, priceHistoryCap)
		}
		paid += scaleCents(a.MonthlyCashFlow, a.Units())
	}
	for i := range s.Vehicles {
		v := &s.Vehicles[i]
		v.Value = scaleCents(v.Value, 1-v.DepreciationRate/12)
	}
	s.Cash += paid
	return paid
}
