package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DailyPoint is one day's value within a month series.
type DailyPoint struct {
	Day   int             `json:"day"`
	Value decimal.Decimal `json:"value"`
}

// DailySeries is a per-day series covering every calendar day of one month.
type DailySeries struct {
	Year  int          `json:"year"`
	Month time.Month   `json:"month"`
	Days  []DailyPoint `json:"days"`
}

// MovementDay is one day's income and expense magnitudes (both non-negative).
type MovementDay struct {
	Day     int             `json:"day"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// MovementReport is the per-day income/expense split for one month.
type MovementReport struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Days  []MovementDay `json:"days"`
}

// reportService derives series from ledger query results.
type reportService struct {
	ledger LedgerServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(ledger LedgerServicer) ReportServicer {
	return &reportService{ledger: ledger}
}

// DailyRunningBalance computes the cumulative signed balance for each day of
// the month. Transactions are processed in ascending (date, insertion) order,
// so a day with several entries holds its end-of-day running total and the
// series is a true running balance; days without activity stay at zero.
//
// An unbound user (id 0) yields the empty sentinel: a series of all zeroes.
func (s *reportService) DailyRunningBalance(userID uint, year int, month time.Month) (DailySeries, error) {
	numDays := daysIn(year, month)
	series := DailySeries{Year: year, Month: month, Days: make([]DailyPoint, numDays)}
	for i := range series.Days {
		series.Days[i] = DailyPoint{Day: i + 1, Value: decimal.Zero}
	}
	if userID == 0 {
		return series, nil
	}

	records, err := s.monthRecords(userID, year, month)
	if err != nil {
		return series, err
	}

	running := decimal.Zero
	for i := range records {
		running = running.Add(records[i].SignedAmount())
		series.Days[records[i].Date.Day()-1].Value = running
	}
	return series, nil
}

// DailyMovement sums income and expense magnitudes separately per day.
// Idle days report zero for both.
func (s *reportService) DailyMovement(userID uint, year int, month time.Month) (MovementReport, error) {
	numDays := daysIn(year, month)
	report := MovementReport{Year: year, Month: month, Days: make([]MovementDay, numDays)}
	for i := range report.Days {
		report.Days[i] = MovementDay{Day: i + 1, Income: decimal.Zero, Expense: decimal.Zero}
	}
	if userID == 0 {
		return report, nil
	}

	records, err := s.monthRecords(userID, year, month)
	if err != nil {
		return report, err
	}

	for i := range records {
		day := &report.Days[records[i].Date.Day()-1]
		if records[i].SignedAmount().IsNegative() {
			day.Expense = day.Expense.Add(records[i].Amount)
		} else {
			day.Income = day.Income.Add(records[i].Amount)
		}
	}
	return report, nil
}

// MonthlySummary returns the ledger's month breakdown, or nil for an unbound
// user.
func (s *reportService) MonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error) {
	if userID == 0 {
		return nil, nil
	}
	return s.ledger.GetMonthlySummary(userID, year, month)
}

// monthRecords fetches one month of transactions in ascending (date, id)
// order. The ledger hands them back newest-first; the reports accumulate
// oldest-first.
func (s *reportService) monthRecords(userID uint, year int, month time.Month) ([]TransactionRecord, error) {
	start, end := MonthWindow(year, month)
	lastDay := end.AddDate(0, 0, -1)

	records, err := s.ledger.GetTransactions(userID, TransactionFilter{StartDate: &start, EndDate: &lastDay})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Percentage returns value as a percentage of total, or 0 when total is zero.
func Percentage(value, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	pct, _ := value.Div(total).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// daysIn returns the number of calendar days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
