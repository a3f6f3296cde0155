package game

import (
	"fmt"

	"tycoon/internal/content"
)

func StartSideHustle(s GameState, cat *content.Catalog, hustleID string) (GameState, error) {
	def, ok := cat.SideHustle(hustleID)
	if !ok {
		return s, ErrUnknownHustle
	}
	if _, active := s.hustle(hustleID); active {
		return s, ErrHustleActive
	}
	if s.Cash < def.StartCost.Int64() {
		return s, ErrInsufficientCash
	}
	next := s.Clone()
	next.Cash -= def.StartCost.Int64()
	next.ActiveSideHustles = append(next.ActiveSideHustles, ActiveHustle{
		HustleID: def.ID,
		Name:     def.Name,
		Upgrades: []string{},
	})
	next.logEvent("hustle", "Started "+def.Name)
	return next, nil
}

func StopSideHustle(s GameState, hustleID string) (GameState, error) {
	i, active := s.hustle(hustleID)
	if !active {
		return s, ErrHustleNotActive
	}
	next := s.Clone()
	name := next.ActiveSideHustles[i].Name
	next.ActiveSideHustles = append(next.ActiveSideHustles[:i], next.ActiveSideHustles[i+1:]...)
	next.logEvent("hustle", "Stopped "+name)
	return next, nil
}

// BuyHustleUpgrade purchases an upgrade once the hustle has run long enough
// to unlock it.
func BuyHustleUpgrade(s GameState, cat *content.Catalog, hustleID, upgradeID string) (GameState, error) {
	def, ok := cat.SideHustle(hustleID)
	if !ok {
		return s, ErrUnknownHustle
	}
	i, active := s.hustle(hustleID)
	if !active {
		return s, ErrHustleNotActive
	}
	up, unlockAt, ok := def.Upgrade(upgradeID)
	if !ok {
		return s, ErrUnknownUpgrade
	}
	h := s.ActiveSideHustles[i]
	if h.HasUpgrade(upgradeID) {
		return s, ErrUpgradeOwned
	}
	if h.MonthsActive < unlockAt {
		return s, fmt.Errorf("%w: unlocks after %d months", ErrUpgradeLocked, unlockAt)
	}
	if s.Cash < up.Cost.Int64() {
		return s, ErrInsufficientCash
	}
	next := s.Clone()
	next.Cash -= up.Cost.Int64()
	next.ActiveSideHustles[i].Upgrades = append(next.ActiveSideHustles[i].Upgrades, up.ID)
	next.logEvent("hustle", fmt.Sprintf("Bought %s for %s", up.Name, def.Name))
	return next, nil
}

// runHustles rolls each hustle's income for the month and returns the total.
func (s *GameState) runHustles(cat *content.Catalog, rng RNG) (int64, []string) {
	var total int64
	var notes []string
	for i := range s.ActiveSideHustles {
		h := &s.ActiveSideHustles[i]
		def, ok := cat.SideHustle(h.HustleID)
		if !ok {
			continue
		}
		lo, hi := hustleRange(def, s.Economy.AIDisruption)
		income := scaleCents(rollRange(rng, lo, hi), upgradeMultiplier(def, *h))
		h.LastIncome = income
		h.MonthsActive++
		total += income
		s.Stats.Energy -= def.EnergyCost
		s.Stats.Stress += def.StressCost
		for _, m := range def.Milestones {
			if m.Month == h.MonthsActive && len(m.Upgrades) > 0 {
				notes = append(notes, fmt.Sprintf("%s: %d new upgrades available", def.Name, len(m.Upgrades)))
			}
		}
	}
	s.Cash += total
	s.clampStats()
	return total, notes
}
