package game

type NetWorthBreakdown struct {
	Cash        int64 `json:"cash"`
	Assets      int64 `json:"assets"`
	Vehicles    int64 `json:"vehicles"`
	Liabilities int64 `json:"liabilities"`
	Mortgages   int64 `json:"mortgages"`
	NetWorth    int64 `json:"netWorth"`
}

// CalculateNetWorth is cash plus asset and vehicle values minus every
// outstanding balance. Nil slices count as empty.
func CalculateNetWorth(s GameState) int64 {
	return NetWorthParts(s).NetWorth
}

func NetWorthParts(s GameState) NetWorthBreakdown {
	b := NetWorthBreakdown{Cash: s.Cash}
	for _, a := range s.Assets {
		b.Assets += a.MarketValue()
	}
	for _, v := range s.Vehicles {
		b.Vehicles += v.Value
	}
	for _, l := range s.Liabilities {
		b.Liabilities += l.Balance
	}
	for _, m := range s.Mortgages {
		b.Mortgages += m.Balance
	}
	b.NetWorth = b.Cash + b.Assets + b.Vehicles - b.Liabilities - b.Mortgages
	return b
}
