package game

import (
	"fmt"

	"tycoon/internal/content"
)

type NewGameInput struct {
	PlayerID    string `json:"playerId"`
	CharacterID string `json:"characterId"`
	Difficulty  string `json:"difficulty"`
	Seed        int64  `json:"seed"`
}

// NewGame builds month 1 for a character on a difficulty.
func NewGame(cat *content.Catalog, in NewGameInput) (GameState, error) {
	ch, ok := cat.Character(in.CharacterID)
	if !ok {
		return GameState{}, fmt.Errorf("%w: %q", ErrUnknownCharacter, in.CharacterID)
	}
	diff, ok := cat.Difficulty(in.Difficulty)
	if !ok {
		return GameState{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, in.Difficulty)
	}
	path, ok := cat.CareerPath(ch.CareerPath)
	if !ok {
		return GameState{}, fmt.Errorf("character %q: unknown career path %q", ch.ID, ch.CareerPath)
	}
	first, _ := path.Level(1)

	mode := ch.Mode
	if mode == "" {
		mode = ModeAdult
	}
	s := GameState{
		PlayerID:      in.PlayerID,
		CharacterID:   ch.ID,
		Difficulty:    diff.ID,
		Mode:          mode,
		Seed:          in.Seed,
		Month:         1,
		Year:          1,
		Cash:          scaleCents(ch.StartingCash.Int64(), diff.CashMultiplier),
		Stats:         statsFrom(ch.Stats),
		LifestyleCost: scaleCents(ch.LifestyleCost.Int64(), diff.ExpenseMultiplier),
		Career: Career{
			Path:            path.ID,
			Level:           1,
			Title:           first.Title,
			Salary:          first.Salary.Int64(),
			Skills:          cloneSlice(path.Skills),
			AIVulnerability: path.AIVulnerability,
		},
		Education: EducationRecord{Degrees: []Degree{}},
		Family: Family{
			Married:      ch.Married,
			SpouseIncome: ch.SpouseIncome.Int64(),
			Children:     ch.Children,
		},
		Assets:            []Asset{},
		Liabilities:       []Liability{},
		Mortgages:         []Liability{},
		Vehicles:          []Vehicle{},
		ActiveSideHustles: []ActiveHustle{},
		Quests: QuestLog{
			Active:       []string{},
			ReadyToClaim: []string{},
			Completed:    []string{},
			Track:        ch.QuestTrack,
		},
		CreditRating:            ch.CreditRating,
		CreditLastChangeReasons: []string{},
		EventTracker: EventTracker{
			Occurrences: map[string]int{},
			LastMonth:   map[string]int{},
		},
		EventQueue:  []QueuedEvent{},
		Economy:     newEconomy(),
		Courses:     map[string]CourseRecord{},
		ActionsUsed: map[string]int{},
		EventLog:    []LogEntry{},
	}
	if s.CreditRating == 0 {
		s.CreditRating = 650
	}
	s.CreditRating = clampCredit(s.CreditRating)
	s.clampStats()
	for _, t := range ch.Liabilities {
		s.addLiability(t)
	}
	for _, t := range ch.Assets {
		s.addAsset(t)
	}
	for _, t := range ch.Vehicles {
		s.addVehicle(t)
	}
	s.Career.FutureProofScore = futureProofScore(&s, cat)
	s.CreditHistory = []CreditEntry{{Month: 1, Score: s.CreditRating}}
	s.NetWorthHistory = []NetWorthPoint{{Month: 1, NetWorth: CalculateNetWorth(s)}}
	s.backfillQuests(cat)
	s.logEvent("game", "Started as "+ch.Name)
	return s, nil
}

// UseMonthlyAction spends cash on a once-a-month activity.
func UseMonthlyAction(s GameState, cat *content.Catalog, actionID string) (GameState, error) {
	act, ok := cat.MonthlyAction(actionID)
	if !ok {
		return s, ErrUnknownAction
	}
	if act.Mode != "" && act.Mode != s.Mode {
		return s, ErrModeRestricted
	}
	if used, ok := s.ActionsUsed[actionID]; ok && used == s.Month {
		return s, ErrActionUsed
	}
	if s.Cash < act.Cost.Int64() {
		return s, ErrInsufficientCash
	}
	next := s.Clone()
	if next.ActionsUsed == nil {
		next.ActionsUsed = map[string]int{}
	}
	next.ActionsUsed[actionID] = s.Month
	next.Cash -= act.Cost.Int64()
	next.addStats(statsFrom(act.Stats))
	return next, nil
}

func discounted(price int64, pct float64) int64 {
	if pct <= 0 {
		return price
	}
	return scaleCents(price, 1-clampFloat(pct, 0, maxDealDiscountPct))
}

// BuyAsset buys quantity units of a market item at its current list price
// less any earned deal discount. Property is bought one unit at a time on
// a down payment with the rest as a mortgage. Vehicles land in the garage.
func BuyAsset(s GameState, cat *content.Catalog, itemID string, quantity float64) (GameState, error) {
	item, ok := cat.MarketItem(itemID)
	if !ok {
		return s, ErrUnknownMarketItem
	}
	if quantity <= 0 {
		return s, ErrInvalidQuantity
	}
	price := discounted(item.Price.Int64(), s.Modifiers.DealDiscountPct)

	switch item.Type {
	case AssetVehicle:
		if s.Cash < price {
			return s, ErrInsufficientCash
		}
		next := s.Clone()
		next.Cash -= price
		next.addVehicle(content.VehicleTemplate{
			Name:             item.Name,
			Value:            content.Cents(price),
			MonthlyUpkeep:    item.MonthlyUpkeep,
			DepreciationRate: item.DepreciationRate,
		})
		next.logEvent("market", "Bought "+item.Name)
		return next, nil

	case AssetRealEstate:
		down := scaleCents(price, item.DownPaymentPct)
		if item.DownPaymentPct == 0 {
			down = price
		}
		if s.Cash < down {
			return s, fmt.Errorf("%w: down payment %s", ErrInsufficientCash, formatCents(down))
		}
		next := s.Clone()
		next.Cash -= down
		a := next.newMarketAsset(item, 1, price)
		if loan := price - down; loan > 0 {
			next.Mortgages = append(next.Mortgages, Liability{
				ID:             next.newID("mort"),
				Name:           item.Name + " Mortgage",
				Type:           LiabilityMortgage,
				Balance:        loan,
				InterestRate:   item.MortgageRate,
				MonthlyPayment: annuityPayment(loan, item.MortgageRate, item.MortgageTermMonths),
				TermMonths:     item.MortgageTermMonths,
				SourceAssetID:  a.ID,
			})
		}
		next.logEvent("market", "Bought "+item.Name)
		return next, nil
	}

	total := scaleCents(price, quantity)
	if total <= 0 {
		return s, ErrInvalidQuantity
	}
	if s.Cash < total {
		return s, ErrInsufficientCash
	}
	next := s.Clone()
	next.Cash -= total
	merged := false
	for i := range next.Assets {
		a := &next.Assets[i]
		if a.ItemID != item.ID {
			continue
		}
		q := a.Units() + quantity
		a.Quantity = &q
		a.CostBasis += total
		merged = true
		break
	}
	if !merged {
		next.newMarketAsset(item, quantity, total)
	}
	next.logEvent("market", fmt.Sprintf("Bought %g x %s", quantity, item.Name))
	return next, nil
}

func (s *GameState) newMarketAsset(item content.MarketItem, quantity float64, cost int64) Asset {
	q := quantity
	a := Asset{
		ID:              s.newID("asset"),
		ItemID:          item.ID,
		Name:            item.Name,
		Type:            item.Type,
		Value:           item.Price.Int64(),
		Quantity:        &q,
		CostBasis:       cost,
		MonthlyCashFlow: item.MonthlyCashFlow.Int64(),
		Volatility:      item.Volatility,
		ExpectedReturn:  item.ExpectedReturn,
		PriceHistory:    []int64{item.Price.Int64()},
	}
	s.Assets = append(s.Assets, a)
	return a
}

type SaleResult struct {
	Proceeds       int64 `json:"proceeds"`
	MortgageRepaid int64 `json:"mortgageRepaid"`
	Gain           int64 `json:"gain"`
}

// SellAsset sells quantity units at market value; zero sells the whole
// position. Selling property also retires its mortgage.
func SellAsset(s GameState, assetID string, quantity float64) (GameState, SaleResult, error) {
	idx := -1
	for i, a := range s.Assets {
		if a.ID == assetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, SaleResult{}, ErrUnknownAsset
	}
	a := s.Assets[idx]
	held := a.Units()
	if quantity < 0 || quantity > held {
		return s, SaleResult{}, ErrInvalidQuantity
	}
	if quantity == 0 || a.Type == AssetRealEstate {
		quantity = held
	}

	next := s.Clone()
	var res SaleResult
	res.Proceeds = scaleCents(a.Value, quantity)
	basis := scaleCents(a.CostBasis, quantity/held)
	res.Gain = res.Proceeds - basis
	next.Cash += res.Proceeds

	if quantity >= held {
		next.Assets = append(next.Assets[:idx], next.Assets[idx+1:]...)
		kept := next.Mortgages[:0:0]
		for _, m := range next.Mortgages {
			if m.SourceAssetID == a.ID {
				res.MortgageRepaid += m.Balance
				continue
			}
			kept = append(kept, m)
		}
		next.Mortgages = kept
		next.charge(res.MortgageRepaid)
	} else {
		left := held - quantity
		next.Assets[idx].Quantity = &left
		next.Assets[idx].CostBasis -= basis
	}
	next.logEvent("market", "Sold "+a.Name)
	return next, res, nil
}

// RepayLiability pays amount toward a liability or mortgage. Zero pays it
// off entirely.
func RepayLiability(s GameState, liabilityID string, amount int64) (GameState, error) {
	if amount < 0 {
		return s, ErrInvalidAmount
	}
	next := s.Clone()
	pay := func(list []Liability) ([]Liability, bool, error) {
		for i := range list {
			if list[i].ID != liabilityID {
				continue
			}
			amt := amount
			if amt == 0 || amt > list[i].Balance {
				amt = list[i].Balance
			}
			if next.Cash < amt {
				return list, true, ErrInsufficientCash
			}
			next.Cash -= amt
			list[i].Balance -= amt
			if list[i].Balance <= 0 {
				next.logEvent("debt", "Paid off "+list[i].Name)
				return append(list[:i], list[i+1:]...), true, nil
			}
			return list, true, nil
		}
		return list, false, nil
	}
	var found bool
	var err error
	if next.Liabilities, found, err = pay(next.Liabilities); found {
		if err != nil {
			return s, err
		}
		return next, nil
	}
	if next.Mortgages, found, err = pay(next.Mortgages); found {
		if err != nil {
			return s, err
		}
		return next, nil
	}
	return s, ErrUnknownLiability
}

// SimulateMonths previews several turns. Pending scenarios are settled with
// the first option the player can afford. The input state is untouched.
func SimulateMonths(s GameState, cat *content.Catalog, months int, rng RNG) (GameState, []MonthlyReport, error) {
	reports := make([]MonthlyReport, 0, months)
	cur := s
	for i := 0; i < months; i++ {
		if cur.PendingScenario != nil {
			var err error
			cur, _, err = ChooseEventOption(cur, cat, affordableOption(cur), rng)
			if err != nil {
				return s, reports, err
			}
		}
		next, rep, err := ProcessTurn(cur, cat, rng)
		if err != nil {
			return s, reports, err
		}
		cur = next
		reports = append(reports, rep)
	}
	return cur, reports, nil
}

func affordableOption(s GameState) int {
	for i, o := range s.PendingScenario.Options {
		if s.Cash >= o.MinCash {
			return i
		}
	}
	return 0
}
