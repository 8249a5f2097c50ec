package contracts

import "time"

// PriceBar is one stored OHLCV row of the stock_rate table
type PriceBar struct {
	CompanyID     int64
	Date          time.Time
	Open          float64
	High          float64
	Low           float64
	Close         float64
	AdjustedClose float64
	Volume        int64
}

// Point reduces a bar to the monthly adjusted close the game prices with
func (b PriceBar) Point() PricePoint {
	return PricePoint{CompanyID: b.CompanyID, Period: PeriodOf(b.Date), Price: b.AdjustedClose}
}

// CompanyCriteria selects companies by any of ids, names or symbols.
// An empty criteria selects every company.
type CompanyCriteria struct {
	IDs     []int64
	Names   []string
	Symbols []string
}

// Empty reports whether no filter is set
func (c CompanyCriteria) Empty() bool {
	return len(c.IDs) == 0 && len(c.Names) == 0 && len(c.Symbols) == 0
}
