package game

import (
	"tycoon/internal/content"
)

type ScenarioResult struct {
	EventID string `json:"eventId"`
	Option  string `json:"option"`
	Message string `json:"message"`
}

// ResolveOutcome settles a chance-gated outcome into the branch that
// happened. Outcomes without a chance come back unchanged.
func ResolveOutcome(o content.Outcome, rng RNG) content.Outcome {
	if o.Chance <= 0 || (o.Success == nil && o.Failure == nil) {
		return o
	}
	if chance(rng, o.Chance) {
		if o.Success == nil {
			return content.Outcome{}
		}
		return ResolveOutcome(*o.Success, rng)
	}
	if o.Failure == nil {
		return content.Outcome{}
	}
	return ResolveOutcome(*o.Failure, rng)
}

// ApplyScenarioOutcome applies a resolved outcome. Costs the player cannot
// cover are moved onto a credit card.
func ApplyScenarioOutcome(s GameState, o content.Outcome) GameState {
	next := s.Clone()
	next.applyOutcome(o)
	return next
}

func (s *GameState) applyOutcome(o content.Outcome) {
	if d := o.CashDelta.Int64(); d > 0 {
		s.Cash += d
	} else if d < 0 {
		s.charge(-d)
	}
	s.addStats(statsFrom(o.Stats))
	s.adjustCredit(o.CreditDelta)
	if o.SalaryMultiplier > 0 {
		s.Career.Salary = scaleCents(s.Career.Salary, o.SalaryMultiplier)
	}
	if o.AddLiability != nil {
		s.addLiability(*o.AddLiability)
	}
	if o.AddAsset != nil {
		s.addAsset(*o.AddAsset)
	}
	if o.AddVehicle != nil {
		s.addVehicle(*o.AddVehicle)
	}
	if o.RemoveVehicle && len(s.Vehicles) > 0 {
		s.Vehicles = s.Vehicles[1:]
	}
	if o.Marry {
		s.Family.Married = true
		s.Family.SpouseIncome = o.SpouseIncome.Int64()
	}
	if o.ChildrenDelta != 0 {
		s.Family.Children = max(0, s.Family.Children+o.ChildrenDelta)
	}
	for _, f := range o.Followups {
		s.EventQueue = append(s.EventQueue, QueuedEvent{ID: f.ID, MinMonth: s.Month + f.DelayMonths})
	}
	if o.Message != "" {
		s.logEvent("event", o.Message)
	}
}

// ChooseEventOption resolves the pending scenario with the option at index.
func ChooseEventOption(s GameState, cat *content.Catalog, index int, rng RNG) (GameState, ScenarioResult, error) {
	if s.PendingScenario == nil {
		return s, ScenarioResult{}, ErrNoPendingScenario
	}
	ev, ok := cat.Event(s.PendingScenario.EventID)
	if !ok {
		return s, ScenarioResult{}, ErrNoPendingScenario
	}
	if index < 0 || index >= len(ev.Options) {
		return s, ScenarioResult{}, ErrInvalidOption
	}
	opt := ev.Options[index]
	if s.Cash < opt.MinCash.Int64() {
		return s, ScenarioResult{}, ErrInsufficientCash
	}
	out := ResolveOutcome(opt.Outcome, rng)
	next := s.Clone()
	next.PendingScenario = nil
	next.applyOutcome(out)
	next.logEvent("choice", ev.Title+": "+opt.Label)
	return next, ScenarioResult{EventID: ev.ID, Option: opt.Label, Message: out.Message}, nil
}

func eventEligible(s *GameState, ev content.Event) bool {
	if ev.FollowupOnly {
		return false
	}
	if s.Month < ev.MinMonth || s.Month*4 < ev.MinWeek {
		return false
	}
	seen := s.EventTracker.Occurrences[ev.ID]
	if ev.OneTime && seen > 0 {
		return false
	}
	if last, ok := s.EventTracker.LastMonth[ev.ID]; ok && ev.CooldownMonths > 0 && s.Month-last < ev.CooldownMonths {
		return false
	}
	c := ev.Conditions
	switch {
	case c.Mode != "" && c.Mode != s.Mode:
		return false
	case s.Cash < c.MinCash.Int64():
		return false
	case c.RequiresVehicle && len(s.Vehicles) == 0:
		return false
	case c.RequiresDebt && len(s.Liabilities) == 0:
		return false
	case c.RequiresMarried && !s.Family.Married:
		return false
	case c.RequiresSingle && s.Family.Married:
		return false
	case c.RequiresHustle && len(s.ActiveSideHustles) == 0:
		return false
	}
	return true
}

// pickEvent returns a due followup if one is queued, otherwise rolls the
// difficulty's event chance and draws from the eligible pool by weight.
func (s *GameState) pickEvent(cat *content.Catalog, eventChance float64, rng RNG) (content.Event, bool) {
	for i, q := range s.EventQueue {
		if s.Month < q.MinMonth {
			continue
		}
		s.EventQueue = append(s.EventQueue[:i:i], s.EventQueue[i+1:]...)
		if ev, ok := cat.Event(q.ID); ok {
			return ev, true
		}
		return content.Event{}, false
	}
	if !chance(rng, eventChance) {
		return content.Event{}, false
	}
	var pool []content.Event
	var total float64
	for _, ev := range cat.Events {
		if !eventEligible(s, ev) {
			continue
		}
		pool = append(pool, ev)
		total += eventWeight(ev)
	}
	if len(pool) == 0 {
		return content.Event{}, false
	}
	roll := rng.Float64() * total
	for _, ev := range pool {
		roll -= eventWeight(ev)
		if roll < 0 {
			return ev, true
		}
	}
	return pool[len(pool)-1], true
}

func eventWeight(ev content.Event) float64 {
	if ev.Weight <= 0 {
		return 1
	}
	return ev.Weight
}

// fireEvent records the event and either parks it as the pending scenario
// or applies its outcome straight away.
func (s *GameState) fireEvent(ev content.Event, rng RNG) string {
	if s.EventTracker.Occurrences == nil {
		s.EventTracker.Occurrences = map[string]int{}
	}
	if s.EventTracker.LastMonth == nil {
		s.EventTracker.LastMonth = map[string]int{}
	}
	s.EventTracker.Occurrences[ev.ID]++
	s.EventTracker.LastMonth[ev.ID] = s.Month

	if ev.RequiresChoice() {
		p := &PendingScenario{
			EventID:     ev.ID,
			Title:       ev.Title,
			Description: ev.Description,
			Month:       s.Month,
		}
		for _, o := range ev.Options {
			p.Options = append(p.Options, ScenarioOption{Label: o.Label, MinCash: o.MinCash.Int64()})
		}
		s.PendingScenario = p
		s.logEvent("event", ev.Title)
		return ev.Title
	}
	if ev.Outcome != nil {
		out := ResolveOutcome(*ev.Outcome, rng)
		s.logEvent("event", ev.Title)
		s.applyOutcome(out)
		if out.Message != "" {
			return ev.Title + ": " + out.Message
		}
	}
	return ev.Title
}
