package contracts

import (
	"testing"
	"time"
)

func TestDedupePricePoints_KeepsFirst(t *testing.T) {
	jan := Period{Year: 2020, Month: time.January}
	feb := Period{Year: 2020, Month: time.February}

	points := []PricePoint{
		{CompanyID: 1, Period: jan, Price: 10},
		{CompanyID: 2, Period: jan, Price: 50},
		{CompanyID: 1, Period: jan, Price: 11}, // duplicate
		{CompanyID: 1, Period: feb, Price: 12},
		{CompanyID: 2, Period: jan, Price: 99}, // duplicate
	}

	got := DedupePricePoints(points)
	if len(got) != 3 {
		t.Fatalf("DedupePricePoints() returned %d rows, want 3", len(got))
	}
	if got[0].Price != 10 || got[1].Price != 50 || got[2].Price != 12 {
		t.Errorf("DedupePricePoints() = %+v, want first occurrences in order", got)
	}
}

func TestDedupePricePoints_Empty(t *testing.T) {
	if got := DedupePricePoints(nil); len(got) != 0 {
		t.Errorf("DedupePricePoints(nil) = %v, want empty", got)
	}
}

func TestFilterPricePoints(t *testing.T) {
	start := Period{Year: 2020, Month: time.February}
	end := Period{Year: 2020, Month: time.April}

	points := []PricePoint{
		{CompanyID: 1, Period: Period{2020, time.January}, Price: 1},  // before window
		{CompanyID: 1, Period: Period{2020, time.February}, Price: 2}, // start, inclusive
		{CompanyID: 3, Period: Period{2020, time.March}, Price: 3},    // not drafted
		{CompanyID: 2, Period: Period{2020, time.April}, Price: 4},    // end, inclusive
		{CompanyID: 2, Period: Period{2020, time.May}, Price: 5},      // after window
	}

	got := FilterPricePoints(points, []int64{1, 2}, start, end)
	if len(got) != 2 {
		t.Fatalf("FilterPricePoints() returned %d rows, want 2: %+v", len(got), got)
	}
	if got[0].Price != 2 || got[1].Price != 4 {
		t.Errorf("FilterPricePoints() = %+v", got)
	}
}

func TestPeriod(t *testing.T) {
	a := PeriodOf(time.Date(2014, time.January, 31, 12, 0, 0, 0, time.UTC))
	b := Period{Year: 2014, Month: time.February}
	c := Period{Year: 2015, Month: time.January}

	if a != (Period{Year: 2014, Month: time.January}) {
		t.Errorf("PeriodOf() = %v", a)
	}
	if !a.Before(b) || !b.Before(c) || c.Before(a) || a.Before(a) {
		t.Error("Before() ordering is wrong")
	}
	if !b.Within(a, c) || !a.Within(a, c) || !c.Within(a, c) {
		t.Error("Within() must be inclusive")
	}
	if c.Within(a, b) {
		t.Error("Within() accepted a period after the window")
	}
	if a.String() != "2014-01" {
		t.Errorf("String() = %q, want 2014-01", a.String())
	}
	if !b.Time().Equal(time.Date(2014, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Time() = %v", b.Time())
	}
}

func TestCompany_String(t *testing.T) {
	c := Company{ID: 1, Name: "Apple Inc.", Symbol: "AAPL"}
	if got := c.String(); got != "Apple Inc. (AAPL)" {
		t.Errorf("String() = %q", got)
	}
}
