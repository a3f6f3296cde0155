package content

import (
	"errors"
	"fmt"
)

var validVolatility = map[string]bool{"calm": true, "normal": true, "wild": true}

var validMetrics = map[string]bool{
	"netWorth":            true,
	"cash":                true,
	"monthsPlayed":        true,
	"creditRating":        true,
	"passiveIncome":       true,
	"emergencyFundMonths": true,
	"debtFree":            true,
	"degrees":             true,
	"activeHustles":       true,
	"careerLevel":         true,
	"certifications":      true,
}

// Validate checks referential integrity between tables. Content is trusted
// at runtime once it passes here.
func (c *Catalog) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if len(c.Characters) == 0 {
		fail("content has no characters")
	}
	if len(c.Difficulties) == 0 {
		fail("content has no difficulties")
	}
	for _, ch := range c.Characters {
		if _, ok := c.CareerPath(ch.CareerPath); !ok {
			fail("character %q: unknown career path %q", ch.ID, ch.CareerPath)
		}
	}
	for _, d := range c.Difficulties {
		if !validVolatility[d.Volatility] {
			fail("difficulty %q: volatility must be calm, normal or wild", d.ID)
		}
		if d.EventChance < 0 || d.EventChance > 1 {
			fail("difficulty %q: event_chance out of range", d.ID)
		}
	}
	for _, p := range c.CareerPaths {
		if len(p.Levels) == 0 {
			fail("career path %q: no levels", p.ID)
		}
		for i, lvl := range p.Levels {
			if lvl.RequiredEducation == nil {
				continue
			}
			if lvl.RequiredEducation.MinTier <= 0 {
				fail("career path %q level %d: required education needs min_tier", p.ID, i+1)
			}
		}
	}
	for _, e := range c.Educations {
		if e.Months <= 0 {
			fail("education %q: months must be > 0", e.ID)
		}
		for _, p := range e.RelevantPaths {
			if _, ok := c.CareerPath(p); !ok {
				fail("education %q: unknown relevant path %q", e.ID, p)
			}
		}
	}
	for _, h := range c.SideHustles {
		if h.MaxIncome < h.MinIncome {
			fail("side hustle %q: max_income below min_income", h.ID)
		}
	}
	for _, ev := range c.Events {
		if ev.Outcome == nil && len(ev.Options) == 0 {
			fail("event %q: needs an outcome or options", ev.ID)
		}
		if ev.Outcome != nil {
			errs = append(errs, c.validateOutcome(ev.ID, *ev.Outcome)...)
		}
		for _, opt := range ev.Options {
			errs = append(errs, c.validateOutcome(ev.ID, opt.Outcome)...)
		}
	}
	for _, q := range c.Quests {
		if !validMetrics[q.Metric] {
			fail("quest %q: unknown metric %q", q.ID, q.Metric)
		}
		if q.Target <= 0 {
			fail("quest %q: target must be > 0", q.ID)
		}
		for _, dep := range q.UnlockAfter {
			if _, ok := c.Quest(dep); !ok {
				fail("quest %q: unknown unlock_after %q", q.ID, dep)
			}
		}
		for _, ch := range q.Characters {
			if _, ok := c.Character(ch); !ok {
				fail("quest %q: unknown character %q", q.ID, ch)
			}
		}
	}
	for _, co := range c.Courses {
		if len(co.Questions) == 0 {
			fail("course %q: no questions", co.ID)
		}
		for i, q := range co.Questions {
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				fail("course %q question %d: correct index out of range", co.ID, i+1)
			}
		}
	}
	for _, it := range c.MarketItems {
		if it.Price <= 0 {
			fail("market item %q: price must be > 0", it.ID)
		}
		if it.DownPaymentPct < 0 || it.DownPaymentPct > 1 {
			fail("market item %q: down_payment_pct out of range", it.ID)
		}
	}
	return errors.Join(errs...)
}

func (c *Catalog) validateOutcome(eventID string, o Outcome) []error {
	var errs []error
	for _, f := range o.Followups {
		if _, ok := c.Event(f.ID); !ok {
			errs = append(errs, fmt.Errorf("event %q: unknown followup %q", eventID, f.ID))
		}
		if f.DelayMonths < 0 {
			errs = append(errs, fmt.Errorf("event %q: negative followup delay", eventID))
		}
	}
	if o.Chance < 0 || o.Chance > 1 {
		errs = append(errs, fmt.Errorf("event %q: chance out of range", eventID))
	}
	if o.Success != nil {
		errs = append(errs, c.validateOutcome(eventID, *o.Success)...)
	}
	if o.Failure != nil {
		errs = append(errs, c.validateOutcome(eventID, *o.Failure)...)
	}
	return errs
}
