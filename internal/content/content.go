// Package content holds the static lookup tables the simulation reads:
// characters, difficulties, career paths, education programs, side hustles,
// life events, quests, certification courses, monthly actions and market
// items. Tables are immutable after Load and keyed by string id.
package content

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Cents is a money amount in cents. YAML carries dollars.
type Cents int64

func (c *Cents) UnmarshalYAML(n *yaml.Node) error {
	var dollars float64
	if err := n.Decode(&dollars); err != nil {
		return fmt.Errorf("money %q: %w", n.Value, err)
	}
	*c = Cents(math.Round(dollars * 100))
	return nil
}

func (c Cents) Int64() int64 { return int64(c) }

type StatBlock struct {
	Happiness   int `yaml:"happiness"`
	Health      int `yaml:"health"`
	Energy      int `yaml:"energy"`
	Stress      int `yaml:"stress"`
	Networking  int `yaml:"networking"`
	FinancialIQ int `yaml:"financial_iq"`
}

type Character struct {
	ID            string              `yaml:"id"`
	Name          string              `yaml:"name"`
	Mode          string              `yaml:"mode"`
	QuestTrack    string              `yaml:"quest_track"`
	CareerPath    string              `yaml:"career_path"`
	StartingCash  Cents               `yaml:"starting_cash"`
	LifestyleCost Cents               `yaml:"lifestyle_cost"`
	CreditRating  int                 `yaml:"credit_rating"`
	Stats         StatBlock           `yaml:"stats"`
	Married       bool                `yaml:"married"`
	SpouseIncome  Cents               `yaml:"spouse_income"`
	Children      int                 `yaml:"children"`
	Liabilities   []LiabilityTemplate `yaml:"liabilities"`
	Assets        []AssetTemplate     `yaml:"assets"`
	Vehicles      []VehicleTemplate   `yaml:"vehicles"`
}

type Difficulty struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	CashMultiplier    float64 `yaml:"cash_multiplier"`
	ExpenseMultiplier float64 `yaml:"expense_multiplier"`
	EventChance       float64 `yaml:"event_chance"`
	Volatility        string  `yaml:"volatility"`
}

type EducationRequirement struct {
	Category string `yaml:"category"`
	MinTier  int    `yaml:"min_tier"`
}

type CareerLevel struct {
	Title              string                `yaml:"title"`
	Salary             Cents                 `yaml:"salary"`
	ExperienceRequired float64               `yaml:"experience_required"`
	RequiredEducation  *EducationRequirement `yaml:"required_education"`
}

type CareerPath struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	AIVulnerability float64       `yaml:"ai_vulnerability"`
	Skills          []string      `yaml:"skills"`
	Levels          []CareerLevel `yaml:"levels"`
}

// Level returns the table entry for a 1-based career level.
func (p CareerPath) Level(level int) (CareerLevel, bool) {
	if level < 1 || level > len(p.Levels) {
		return CareerLevel{}, false
	}
	return p.Levels[level-1], true
}

type Education struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Category         string   `yaml:"category"`
	Tier             int      `yaml:"tier"`
	Cost             Cents    `yaml:"cost"`
	Months           int      `yaml:"months"`
	SalaryMultiplier float64  `yaml:"salary_multiplier"`
	FinancialIQ      int      `yaml:"financial_iq"`
	RelevantPaths    []string `yaml:"relevant_paths"`
}

// RelevantTo reports whether the program counts toward a career path.
func (e Education) RelevantTo(path string) bool {
	for _, p := range e.RelevantPaths {
		if p == path {
			return true
		}
	}
	return false
}

type HustleUpgrade struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	Cost             Cents   `yaml:"cost"`
	IncomeMultiplier float64 `yaml:"income_multiplier"`
}

type HustleMilestone struct {
	Month    int             `yaml:"month"`
	Upgrades []HustleUpgrade `yaml:"upgrades"`
}

type SideHustle struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	StartCost  Cents             `yaml:"start_cost"`
	MinIncome  Cents             `yaml:"min_income"`
	MaxIncome  Cents             `yaml:"max_income"`
	EnergyCost int               `yaml:"energy_cost"`
	StressCost int               `yaml:"stress_cost"`
	AIExposure float64           `yaml:"ai_exposure"`
	Milestones []HustleMilestone `yaml:"milestones"`
}

// Upgrade finds an upgrade and the month it unlocks at.
func (h SideHustle) Upgrade(id string) (HustleUpgrade, int, bool) {
	for _, m := range h.Milestones {
		for _, u := range m.Upgrades {
			if u.ID == id {
				return u, m.Month, true
			}
		}
	}
	return HustleUpgrade{}, 0, false
}

type LiabilityTemplate struct {
	Name           string  `yaml:"name"`
	Type           string  `yaml:"type"`
	Balance        Cents   `yaml:"balance"`
	InterestRate   float64 `yaml:"interest_rate"`
	MonthlyPayment Cents   `yaml:"monthly_payment"`
	TermMonths     int     `yaml:"term_months"`
	CreditLimit    Cents   `yaml:"credit_limit"`
}

type AssetTemplate struct {
	Name            string  `yaml:"name"`
	Type            string  `yaml:"type"`
	Value           Cents   `yaml:"value"`
	Quantity        float64 `yaml:"quantity"`
	MonthlyCashFlow Cents   `yaml:"monthly_cash_flow"`
	Volatility      float64 `yaml:"volatility"`
	ExpectedReturn  float64 `yaml:"expected_return"`
}

type VehicleTemplate struct {
	Name             string  `yaml:"name"`
	Value            Cents   `yaml:"value"`
	MonthlyUpkeep    Cents   `yaml:"monthly_upkeep"`
	DepreciationRate float64 `yaml:"depreciation_rate"`
}

type Followup struct {
	ID          string `yaml:"id"`
	DelayMonths int    `yaml:"delay_months"`
}

// Outcome is what a life-event option does to the player. When Chance is
// set, Success applies with that probability and Failure otherwise.
type Outcome struct {
	Message          string             `yaml:"message"`
	CashDelta        Cents              `yaml:"cash_delta"`
	Stats            StatBlock          `yaml:"stats"`
	CreditDelta      int                `yaml:"credit_delta"`
	SalaryMultiplier float64            `yaml:"salary_multiplier"`
	AddLiability     *LiabilityTemplate `yaml:"add_liability"`
	AddAsset         *AssetTemplate     `yaml:"add_asset"`
	AddVehicle       *VehicleTemplate   `yaml:"add_vehicle"`
	RemoveVehicle    bool               `yaml:"remove_vehicle"`
	Marry            bool               `yaml:"marry"`
	SpouseIncome     Cents              `yaml:"spouse_income"`
	ChildrenDelta    int                `yaml:"children_delta"`
	Followups        []Followup         `yaml:"followups"`

	Chance  float64  `yaml:"chance"`
	Success *Outcome `yaml:"success"`
	Failure *Outcome `yaml:"failure"`
}

type EventOption struct {
	Label   string  `yaml:"label"`
	MinCash Cents   `yaml:"min_cash"`
	Outcome Outcome `yaml:"outcome"`
}

type EventConditions struct {
	MinCash         Cents  `yaml:"min_cash"`
	RequiresVehicle bool   `yaml:"requires_vehicle"`
	RequiresDebt    bool   `yaml:"requires_debt"`
	RequiresMarried bool   `yaml:"requires_married"`
	RequiresSingle  bool   `yaml:"requires_single"`
	RequiresHustle  bool   `yaml:"requires_hustle"`
	Mode            string `yaml:"mode"`
}

type Event struct {
	ID             string          `yaml:"id"`
	Title          string          `yaml:"title"`
	Description    string          `yaml:"description"`
	Weight         float64         `yaml:"weight"`
	MinMonth       int             `yaml:"min_month"`
	MinWeek        int             `yaml:"min_week"`
	OneTime        bool            `yaml:"one_time"`
	CooldownMonths int             `yaml:"cooldown_months"`
	FollowupOnly   bool            `yaml:"followup_only"`
	Conditions     EventConditions `yaml:"conditions"`
	Outcome        *Outcome        `yaml:"outcome"`
	Options        []EventOption   `yaml:"options"`
}

// RequiresChoice reports whether the event blocks the turn on a player choice.
func (e Event) RequiresChoice() bool { return len(e.Options) > 0 }

type QuestReward struct {
	Cash   Cents     `yaml:"cash"`
	Stats  StatBlock `yaml:"stats"`
	Credit int       `yaml:"credit"`
}

type Quest struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Metric      string      `yaml:"metric"`
	Target      float64     `yaml:"target"`
	Unit        string      `yaml:"unit"`
	Track       string      `yaml:"track"`
	UnlockAfter []string    `yaml:"unlock_after"`
	Characters  []string    `yaml:"characters"`
	Reward      QuestReward `yaml:"reward"`
}

// AppliesTo reports whether a character may receive the quest.
func (q Quest) AppliesTo(characterID string) bool {
	if len(q.Characters) == 0 {
		return true
	}
	for _, c := range q.Characters {
		if c == characterID {
			return true
		}
	}
	return false
}

type Question struct {
	Prompt  string   `yaml:"prompt"`
	Options []string `yaml:"options"`
	Correct int      `yaml:"correct"`
}

type CourseReward struct {
	Cash            Cents     `yaml:"cash"`
	Stats           StatBlock `yaml:"stats"`
	CareerXPBoost   float64   `yaml:"career_xp_boost"`
	DealDiscountPct float64   `yaml:"deal_discount_pct"`
}

type CoursePenalty struct {
	Cash   Cents `yaml:"cash"`
	Demote bool  `yaml:"demote"`
	Fee    Cents `yaml:"fee"`
}

type Course struct {
	ID            string        `yaml:"id"`
	Title         string        `yaml:"title"`
	Questions     []Question    `yaml:"questions"`
	PassThreshold int           `yaml:"pass_threshold"`
	FailCap       int           `yaml:"fail_cap"`
	Reward        CourseReward  `yaml:"reward"`
	Penalty       CoursePenalty `yaml:"penalty"`
}

// RequiredCorrect is the number of correct answers needed to pass.
func (c Course) RequiredCorrect() int {
	if c.PassThreshold <= 0 || c.PassThreshold > len(c.Questions) {
		return len(c.Questions)
	}
	return c.PassThreshold
}

// FailureCap is the number of failed attempts that triggers the penalty.
func (c Course) FailureCap() int {
	if c.FailCap <= 0 {
		return 3
	}
	return c.FailCap
}

type MonthlyAction struct {
	ID    string    `yaml:"id"`
	Name  string    `yaml:"name"`
	Cost  Cents     `yaml:"cost"`
	Stats StatBlock `yaml:"stats"`
	Mode  string    `yaml:"mode"`
}

type MarketItem struct {
	ID                 string  `yaml:"id"`
	Name               string  `yaml:"name"`
	Type               string  `yaml:"type"`
	Price              Cents   `yaml:"price"`
	Volatility         float64 `yaml:"volatility"`
	ExpectedReturn     float64 `yaml:"expected_return"`
	MonthlyCashFlow    Cents   `yaml:"monthly_cash_flow"`
	DownPaymentPct     float64 `yaml:"down_payment_pct"`
	MortgageRate       float64 `yaml:"mortgage_rate"`
	MortgageTermMonths int     `yaml:"mortgage_term_months"`
	MonthlyUpkeep      Cents   `yaml:"monthly_upkeep"`
	DepreciationRate   float64 `yaml:"depreciation_rate"`
}

type Catalog struct {
	ChildMonthlyCost Cents           `yaml:"child_monthly_cost"`
	Characters       []Character     `yaml:"characters"`
	Difficulties     []Difficulty    `yaml:"difficulties"`
	CareerPaths      []CareerPath    `yaml:"career_paths"`
	Educations       []Education     `yaml:"educations"`
	SideHustles      []SideHustle    `yaml:"side_hustles"`
	Events           []Event         `yaml:"events"`
	Quests           []Quest         `yaml:"quests"`
	Courses          []Course        `yaml:"courses"`
	MonthlyActions   []MonthlyAction `yaml:"monthly_actions"`
	MarketItems      []MarketItem    `yaml:"market_items"`

	Digest string `yaml:"-"`

	characters   map[string]int
	difficulties map[string]int
	paths        map[string]int
	educations   map[string]int
	hustles      map[string]int
	events       map[string]int
	quests       map[string]int
	courses      map[string]int
	actions      map[string]int
	items        map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded content pack. It panics if the embedded
// YAML is invalid, which can only happen at authoring time.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded content: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads a content pack from disk. An empty path yields the default pack.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	sum := sha256.Sum256(raw)
	c.Digest = hex.EncodeToString(sum[:])
	if err := c.index(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	var errs []error
	build := func(kind string, n int, id func(int) string) map[string]int {
		m := make(map[string]int, n)
		for i := 0; i < n; i++ {
			key := id(i)
			if key == "" {
				errs = append(errs, fmt.Errorf("%s #%d: missing id", kind, i))
				continue
			}
			if _, dup := m[key]; dup {
				errs = append(errs, fmt.Errorf("%s %q: duplicate id", kind, key))
				continue
			}
			m[key] = i
		}
		return m
	}
	c.characters = build("character", len(c.Characters), func(i int) string { return c.Characters[i].ID })
	c.difficulties = build("difficulty", len(c.Difficulties), func(i int) string { return c.Difficulties[i].ID })
	c.paths = build("career path", len(c.CareerPaths), func(i int) string { return c.CareerPaths[i].ID })
	c.educations = build("education", len(c.Educations), func(i int) string { return c.Educations[i].ID })
	c.hustles = build("side hustle", len(c.SideHustles), func(i int) string { return c.SideHustles[i].ID })
	c.events = build("event", len(c.Events), func(i int) string { return c.Events[i].ID })
	c.quests = build("quest", len(c.Quests), func(i int) string { return c.Quests[i].ID })
	c.courses = build("course", len(c.Courses), func(i int) string { return c.Courses[i].ID })
	c.actions = build("monthly action", len(c.MonthlyActions), func(i int) string { return c.MonthlyActions[i].ID })
	c.items = build("market item", len(c.MarketItems), func(i int) string { return c.MarketItems[i].ID })
	return errors.Join(errs...)
}

func (c *Catalog) Character(id string) (Character, bool) {
	i, ok := c.characters[id]
	if !ok {
		return Character{}, false
	}
	return c.Characters[i], true
}

func (c *Catalog) Difficulty(id string) (Difficulty, bool) {
	i, ok := c.difficulties[id]
	if !ok {
		return Difficulty{}, false
	}
	return c.Difficulties[i], true
}

func (c *Catalog) CareerPath(id string) (CareerPath, bool) {
	i, ok := c.paths[id]
	if !ok {
		return CareerPath{}, false
	}
	return c.CareerPaths[i], true
}

func (c *Catalog) Education(id string) (Education, bool) {
	i, ok := c.educations[id]
	if !ok {
		return Education{}, false
	}
	return c.Educations[i], true
}

func (c *Catalog) SideHustle(id string) (SideHustle, bool) {
	i, ok := c.hustles[id]
	if !ok {
		return SideHustle{}, false
	}
	return c.SideHustles[i], true
}

func (c *Catalog) Event(id string) (Event, bool) {
	i, ok := c.events[id]
	if !ok {
		return Event{}, false
	}
	return c.Events[i], true
}

func (c *Catalog) Quest(id string) (Quest, bool) {
	i, ok := c.quests[id]
	if !ok {
		return Quest{}, false
	}
	return c.Quests[i], true
}

func (c *Catalog) Course(id string) (Course, bool) {
	i, ok := c.courses[id]
	if !ok {
		return Course{}, false
	}
	return c.Courses[i], true
}

func (c *Catalog) MonthlyAction(id string) (MonthlyAction, bool) {
	i, ok := c.actions[id]
	if !ok {
		return MonthlyAction{}, false
	}
	return c.MonthlyActions[i], true
}

func (c *Catalog) MarketItem(id string) (MarketItem, bool) {
	i, ok := c.items[id]
	if !ok {
		return MarketItem{}, false
	}
	return c.MarketItems[i], true
}
