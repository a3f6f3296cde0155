package game

import (
	"math"

	"tycoon/internal/content"
)

type PromotionResult struct {
	Promoted bool    `json:"promoted"`
	Chance   float64 `json:"chance"`
	Level    int     `json:"level"`
	Title    string  `json:"title"`
	Salary   int64   `json:"salary"`
	Bonus    int64   `json:"bonus"`
}

// salaryGrowthRate is the monthly multiplicative raise for the current stats.
func salaryGrowthRate(st Stats, vulnerability, disruption float64, recession bool) float64 {
	if st.Stress > 75 {
		return 0
	}
	rate := 0.001
	if st.Networking >= 60 {
		rate += 0.0005
	}
	if st.Happiness >= 70 {
		rate += 0.0005
	}
	if st.Energy >= 70 && st.Stress <= 30 {
		rate += 0.0015
	}
	rate -= 0.002 * vulnerability * disruption
	if recession {
		rate /= 2
	}
	if rate < 0 {
		return 0
	}
	return rate
}

// ApplyCareerGrowth runs one month of raises and experience.
func ApplyCareerGrowth(s GameState, cat *content.Catalog) GameState {
	next := s.Clone()
	next.applyCareerGrowth(cat)
	return next
}

func (s *GameState) applyCareerGrowth(cat *content.Catalog) int64 {
	before := s.Career.Salary
	rate := salaryGrowthRate(s.Stats, s.Career.AIVulnerability, s.Economy.AIDisruption, s.Economy.Recession)
	s.Career.Salary = int64(math.Round(float64(s.Career.Salary) * (1 + rate)))
	s.Career.Experience += 1 + s.Modifiers.CareerXPBoost
	s.Career.FutureProofScore = futureProofScore(s, cat)
	return s.Career.Salary - before
}

// futureProofScore rates how exposed the career is to automation, softened
// by finished education.
func futureProofScore(s *GameState, cat *content.Catalog) int {
	score := (1 - s.Career.AIVulnerability*(0.5+s.Economy.AIDisruption)) * 70
	relevant := 0
	for _, d := range s.Education.Degrees {
		if e, ok := cat.Education(d.EducationID); ok && e.RelevantTo(s.Career.Path) {
			relevant++
		}
	}
	score += float64(min(relevant, 3)) * 10
	return clampStat(int(math.Round(score)))
}

func meetsEducation(s GameState, req *content.EducationRequirement) bool {
	if req == nil {
		return true
	}
	for _, d := range s.Education.Degrees {
		if d.Category == req.Category && d.Tier >= req.MinTier {
			return true
		}
	}
	return false
}

// degreeMultiplier is the best salary multiplier among degrees relevant to
// the current path. Irrelevant degrees count for nothing.
func degreeMultiplier(s GameState, cat *content.Catalog) float64 {
	best := 1.0
	for _, d := range s.Education.Degrees {
		e, ok := cat.Education(d.EducationID)
		if !ok || !e.RelevantTo(s.Career.Path) {
			continue
		}
		if e.SalaryMultiplier > best {
			best = e.SalaryMultiplier
		}
	}
	return best
}

func promotionChance(st Stats) float64 {
	p := 0.55 + float64(st.Networking-50)/200
	if st.Happiness >= 70 {
		p += 0.1
	}
	if st.Stress > 70 {
		p -= 0.2
	}
	return clampFloat(p, 0.05, 0.95)
}

// PromoteCareer is the player asking for a promotion. Eligibility failures
// return the state unchanged with an error; a denied request is a normal
// outcome that costs some stress and happiness.
func PromoteCareer(s GameState, cat *content.Catalog, rng RNG) (GameState, PromotionResult, error) {
	path, ok := cat.CareerPath(s.Career.Path)
	if !ok {
		return s, PromotionResult{}, ErrNoNextLevel
	}
	target, ok := path.Level(s.Career.Level + 1)
	if !ok {
		return s, PromotionResult{}, ErrNoNextLevel
	}
	if s.Career.LastPromotionAsk == s.Month {
		return s, PromotionResult{}, ErrPromotionCooldown
	}
	if s.Career.Experience < target.ExperienceRequired {
		return s, PromotionResult{}, ErrNotEnoughExperience
	}
	if !meetsEducation(s, target.RequiredEducation) {
		return s, PromotionResult{}, ErrEducationRequired
	}

	next := s.Clone()
	next.Career.LastPromotionAsk = s.Month
	res := PromotionResult{Chance: promotionChance(s.Stats), Level: s.Career.Level}
	if !chance(rng, res.Chance) {
		next.addStats(Stats{Stress: 5, Happiness: -3})
		next.logEvent("career", "Promotion request denied")
		res.Title = next.Career.Title
		res.Salary = next.Career.Salary
		return next, res, nil
	}

	next.Career.Level++
	next.Career.Experience = math.Max(0, next.Career.Experience-target.ExperienceRequired)
	next.Career.Title = target.Title
	salary := scaleCents(target.Salary.Int64(), degreeMultiplier(next, cat))
	if salary > next.Career.Salary {
		next.Career.Salary = salary
	}
	if chance(rng, promotionBonusChance) {
		res.Bonus = scaleCents(next.Career.Salary, 0.5+0.5*rng.Float64())
		next.Cash += res.Bonus
	}
	next.addStats(Stats{Happiness: 5})
	next.logEvent("career", "Promoted to "+target.Title)

	res.Promoted = true
	res.Level = next.Career.Level
	res.Title = next.Career.Title
	res.Salary = next.Career.Salary
	return next, res, nil
}

// demote drops the career to the first row of the path table. Relevant
// degrees still lift the entry salary.
func (s *GameState) demote(cat *content.Catalog) {
	path, ok := cat.CareerPath(s.Career.Path)
	if !ok {
		return
	}
	first, ok := path.Level(1)
	if !ok {
		return
	}
	s.Career.Level = 1
	s.Career.Title = first.Title
	s.Career.Salary = scaleCents(first.Salary.Int64(), degreeMultiplier(*s, cat))
	s.Career.Experience = 0
}
