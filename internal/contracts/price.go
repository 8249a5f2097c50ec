package contracts

// PricePoint is the adjusted close of one company for one month
type PricePoint struct {
	CompanyID int64   `json:"company_id"`
	Period    Period  `json:"period"`
	Price     float64 `json:"price"`
}

type priceKey struct {
	companyID int64
	period    Period
}

// DedupePricePoints keeps the first row per (company, month) and preserves order.
// Providers may return several rows per month (daily CSV imports); the game
// needs exactly one.
func DedupePricePoints(points []PricePoint) []PricePoint {
	seen := make(map[priceKey]struct{}, len(points))
	out := make([]PricePoint, 0, len(points))
	for _, p := range points {
		k := priceKey{companyID: p.CompanyID, period: p.Period}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

// FilterPricePoints keeps rows of the given companies inside [start, end]
func FilterPricePoints(points []PricePoint, ids []int64, start, end Period) []PricePoint {
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := make([]PricePoint, 0, len(points))
	for _, p := range points {
		if _, ok := wanted[p.CompanyID]; !ok {
			continue
		}
		if !p.Period.Within(start, end) {
			continue
		}
		out = append(out, p)
	}
	return out
}
