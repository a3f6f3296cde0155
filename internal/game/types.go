package game

import (
	"maps"
	"strconv"
)

type Stats struct {
	Happiness   int `json:"happiness"`
	Health      int `json:"health"`
	Energy      int `json:"energy"`
	Stress      int `json:"stress"`
	Networking  int `json:"networking"`
	FinancialIQ int `json:"financialIQ"`
}

type Career struct {
	Path             string   `json:"path"`
	Level            int      `json:"level"`
	Title            string   `json:"title"`
	Salary           int64    `json:"salary"`
	Experience       float64  `json:"experience"`
	Skills           []string `json:"skills"`
	AIVulnerability  float64  `json:"aiVulnerability"`
	FutureProofScore int      `json:"futureProofScore"`
	LastPromotionAsk int      `json:"lastPromotionAsk,omitempty"`
}

type Degree struct {
	EducationID    string `json:"educationId"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Tier           int    `json:"tier"`
	CompletedMonth int    `json:"completedMonth"`
}

type Enrollment struct {
	EducationID     string `json:"educationId"`
	MonthsRemaining int    `json:"monthsRemaining"`
}

type EducationRecord struct {
	Degrees           []Degree    `json:"degrees"`
	CurrentlyEnrolled *Enrollment `json:"currentlyEnrolled"`
}

type Family struct {
	Married      bool  `json:"married"`
	SpouseIncome int64 `json:"spouseIncome"`
	Children     int   `json:"children"`
}

// Asset values are per unit. A nil Quantity counts as one unit.
type Asset struct {
	ID              string   `json:"id"`
	ItemID          string   `json:"itemId,omitempty"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Value           int64    `json:"value"`
	Quantity        *float64 `json:"quantity,omitempty"`
	CostBasis       int64    `json:"costBasis"`
	MonthlyCashFlow int64    `json:"monthlyCashFlow"`
	Volatility      float64  `json:"volatility"`
	ExpectedReturn  float64  `json:"expectedReturn"`
	PriceHistory    []int64  `json:"priceHistory"`
}

func (a Asset) Units() float64 {
	if a.Quantity == nil {
		return 1
	}
	return *a.Quantity
}

func (a Asset) MarketValue() int64 {
	return scaleCents(a.Value, a.Units())
}

// Liability covers consumer debt and mortgages. Source tags link a loan to
// the program or property that created it.
type Liability struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Balance           int64   `json:"balance"`
	InterestRate      float64 `json:"interestRate"`
	MonthlyPayment    int64   `json:"monthlyPayment"`
	TermMonths        int     `json:"termMonths,omitempty"`
	CreditLimit       int64   `json:"creditLimit,omitempty"`
	SourceEducationID string  `json:"sourceEducationId,omitempty"`
	SourceAssetID     string  `json:"sourceAssetId,omitempty"`
}

type Vehicle struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Value            int64   `json:"value"`
	MonthlyUpkeep    int64   `json:"monthlyUpkeep"`
	DepreciationRate float64 `json:"depreciationRate"`
}

type ActiveHustle struct {
	HustleID     string   `json:"hustleId"`
	Name         string   `json:"name"`
	MonthsActive int      `json:"monthsActive"`
	Upgrades     []string `json:"upgrades"`
	LastIncome   int64    `json:"lastIncome"`
}

func (h ActiveHustle) HasUpgrade(id string) bool {
	for _, u := range h.Upgrades {
		if u == id {
			return true
		}
	}
	return false
}

type QuestLog struct {
	Active       []string `json:"active"`
	ReadyToClaim []string `json:"readyToClaim"`
	Completed    []string `json:"completed"`
	Track        string   `json:"track,omitempty"`
}

type CreditEntry struct {
	Month   int      `json:"month"`
	Score   int      `json:"score"`
	Delta   int      `json:"delta"`
	Reasons []string `json:"reasons,omitempty"`
}

type PaymentHistory struct {
	OnTime int `json:"onTime"`
	Late   int `json:"late"`
}

type EventTracker struct {
	Occurrences map[string]int `json:"occurrences"`
	LastMonth   map[string]int `json:"lastMonth"`
}

type QueuedEvent struct {
	ID       string `json:"id"`
	MinMonth int    `json:"minMonth"`
}

type Economy struct {
	Phase           string  `json:"phase"`
	MarketTrend     float64 `json:"marketTrend"`
	InterestRate    float64 `json:"interestRate"`
	InflationRate   float64 `json:"inflationRate"`
	Recession       bool    `json:"recession"`
	RecessionMonths int     `json:"recessionMonths"`
	AIDisruption    float64 `json:"aiDisruption"`
}

type ScenarioOption struct {
	Label   string `json:"label"`
	MinCash int64  `json:"minCash,omitempty"`
}

type PendingScenario struct {
	EventID     string           `json:"eventId"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Options     []ScenarioOption `json:"options"`
	Month       int              `json:"month"`
}

type CourseRecord struct {
	Certified      bool `json:"certified"`
	RewardClaimed  bool `json:"rewardClaimed"`
	FailedAttempts int  `json:"failedAttempts"`
	BestScore      int  `json:"bestScore"`
}

// QuizQuestion is one shuffled question. SourceIndex maps each displayed
// option back to its position in the course table.
type QuizQuestion struct {
	QuestionIndex int      `json:"questionIndex"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	SourceIndex   []int    `json:"sourceIndex"`
}

type Quiz struct {
	CourseID  string         `json:"courseId"`
	Questions []QuizQuestion `json:"questions"`
	Current   int            `json:"current"`
	Score     int            `json:"score"`
}

type Modifiers struct {
	CareerXPBoost   float64 `json:"careerXpBoost"`
	DealDiscountPct float64 `json:"dealDiscountPct"`
}

type NetWorthPoint struct {
	Month    int   `json:"month"`
	NetWorth int64 `json:"netWorth"`
}

type LogEntry struct {
	Month   int    `json:"month"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// GameState is the whole per-player record. Operations never modify a
// state in place; they return a new one built from Clone.
type GameState struct {
	PlayerID    string `json:"playerId"`
	CharacterID string `json:"characterId"`
	Difficulty  string `json:"difficulty"`
	Mode        string `json:"mode"`
	Seed        int64  `json:"seed"`
	NextID      int64  `json:"nextId"`

	Month int   `json:"month"`
	Year  int   `json:"year"`
	Cash  int64 `json:"cash"`
	Stats Stats `json:"stats"`

	Career        Career          `json:"career"`
	Education     EducationRecord `json:"education"`
	Family        Family          `json:"family"`
	LifestyleCost int64           `json:"lifestyleCost"`

	Assets            []Asset        `json:"assets"`
	Liabilities       []Liability    `json:"liabilities"`
	Mortgages         []Liability    `json:"mortgages"`
	Vehicles          []Vehicle      `json:"vehicles"`
	ActiveSideHustles []ActiveHustle `json:"activeSideHustles"`

	Quests QuestLog `json:"quests"`

	CreditRating            int            `json:"creditRating"`
	CreditHistory           []CreditEntry  `json:"creditHistory"`
	CreditLastChangeReasons []string       `json:"creditLastChangeReasons"`
	PaymentHistory          PaymentHistory `json:"paymentHistory"`

	EventTracker    EventTracker     `json:"eventTracker"`
	EventQueue      []QueuedEvent    `json:"eventQueue"`
	Economy         Economy          `json:"economy"`
	PendingScenario *PendingScenario `json:"pendingScenario"`

	Courses     map[string]CourseRecord `json:"courses"`
	ActiveQuiz  *Quiz                   `json:"activeQuiz"`
	Modifiers   Modifiers               `json:"modifiers"`
	ActionsUsed map[string]int          `json:"actionsUsed"`

	NetWorthHistory []NetWorthPoint `json:"netWorthHistory"`
	EventLog        []LogEntry      `json:"eventLog"`
}

// Clone returns a deep copy that shares no slices, maps or pointers with s.
func (s GameState) Clone() GameState {
	c := s
	c.Career.Skills = cloneSlice(s.Career.Skills)
	c.Education.Degrees = cloneSlice(s.Education.Degrees)
	if s.Education.CurrentlyEnrolled != nil {
		e := *s.Education.CurrentlyEnrolled
		c.Education.CurrentlyEnrolled = &e
	}
	if s.Assets != nil {
		c.Assets = make([]Asset, len(s.Assets))
		for i, a := range s.Assets {
			if a.Quantity != nil {
				q := *a.Quantity
				a.Quantity = &q
			}
			a.PriceHistory = cloneSlice(a.PriceHistory)
			c.Assets[i] = a
		}
	}
	c.Liabilities = cloneSlice(s.Liabilities)
	c.Mortgages = cloneSlice(s.Mortgages)
	c.Vehicles = cloneSlice(s.Vehicles)
	if s.ActiveSideHustles != nil {
		c.ActiveSideHustles = make([]ActiveHustle, len(s.ActiveSideHustles))
		for i, h := range s.ActiveSideHustles {
			h.Upgrades = cloneSlice(h.Upgrades)
			c.ActiveSideHustles[i] = h
		}
	}
	c.Quests.Active = cloneSlice(s.Quests.Active)
	c.Quests.ReadyToClaim = cloneSlice(s.Quests.ReadyToClaim)
	c.Quests.Completed = cloneSlice(s.Quests.Completed)
	if s.CreditHistory != nil {
		c.CreditHistory = make([]CreditEntry, len(s.CreditHistory))
		for i, e := range s.CreditHistory {
			e.Reasons = cloneSlice(e.Reasons)
			c.CreditHistory[i] = e
		}
	}
	c.CreditLastChangeReasons = cloneSlice(s.CreditLastChangeReasons)
	c.EventTracker.Occurrences = maps.Clone(s.EventTracker.Occurrences)
	c.EventTracker.LastMonth = maps.Clone(s.EventTracker.LastMonth)
	c.EventQueue = cloneSlice(s.EventQueue)
	if s.PendingScenario != nil {
		p := *s.PendingScenario
		p.Options = cloneSlice(p.Options)
		c.PendingScenario = &p
	}
	c.Courses = maps.Clone(s.Courses)
	if s.ActiveQuiz != nil {
		q := *s.ActiveQuiz
		q.Questions = make([]QuizQuestion, len(s.ActiveQuiz.Questions))
		for i, qq := range s.ActiveQuiz.Questions {
			qq.Options = cloneSlice(qq.Options)
			qq.SourceIndex = cloneSlice(qq.SourceIndex)
			q.Questions[i] = qq
		}
		c.ActiveQuiz = &q
	}
	c.ActionsUsed = maps.Clone(s.ActionsUsed)
	c.NetWorthHistory = cloneSlice(s.NetWorthHistory)
	c.EventLog = cloneSlice(s.EventLog)
	return c
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// appendCapped appends v and drops the oldest entries beyond max.
func appendCapped[T any](in []T, v T, max int) []T {
	in = append(in, v)
	if len(in) > max {
		in = append(in[:0:0], in[len(in)-max:]...)
	}
	return in
}

func (s *GameState) newID(prefix string) string {
	s.NextID++
	return prefix + "-" + strconv.FormatInt(s.NextID, 10)
}

func (s *GameState) logEvent(kind, msg string) {
	s.EventLog = appendCapped(s.EventLog, LogEntry{Month: s.Month, Kind: kind, Message: msg}, eventLogCap)
}

func (s *GameState) hustle(id string) (int, bool) {
	for i, h := range s.ActiveSideHustles {
		if h.HustleID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *GameState) course(id string) CourseRecord {
	return s.Courses[id]
}

func (s *GameState) setCourse(id string, rec CourseRecord) {
	if s.Courses == nil {
		s.Courses = map[string]CourseRecord{}
	}
	s.Courses[id] = rec
}

func (s *GameState) hasDegree(educationID string) bool {
	for _, d := range s.Education.Degrees {
		if d.EducationID == educationID {
			return true
		}
	}
	return false
}

func (s *GameState) addStats(d Stats) {
	s.Stats.Happiness += d.Happiness
	s.Stats.Health += d.Health
	s.Stats.Energy += d.Energy
	s.Stats.Stress += d.Stress
	s.Stats.Networking += d.Networking
	s.Stats.FinancialIQ += d.FinancialIQ
	s.clampStats()
}

func (s *GameState) clampStats() {
	s.Stats.Happiness = clampStat(s.Stats.Happiness)
	s.Stats.Health = clampStat(s.Stats.Health)
	s.Stats.Energy = clampStat(s.Stats.Energy)
	s.Stats.Stress = clampStat(s.Stats.Stress)
	s.Stats.Networking = clampStat(s.Stats.Networking)
	s.Stats.FinancialIQ = clampStat(s.Stats.FinancialIQ)
}

func (s *GameState) totalDebt() int64 {
	var total int64
	for _, l := range s.Liabilities {
		total += l.Balance
	}
	for _, m := range s.Mortgages {
		total += m.Balance
	}
	return total
}
