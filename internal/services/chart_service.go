package services

import (
	"fmt"
	"time"
)

// Theme selects chart color constants. It never affects the data itself.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// palette holds the color constants for one theme.
type palette struct {
	Line       string
	Fill       string
	Text       string
	Income     string
	Expense    string
	PieIncome  []string
	PieExpense []string
}

var (
	purples = []string{"#9370DB", "#8A2BE2", "#9932CC", "#BA55D3", "#DA70D6"}
	pinks   = []string{"#FF69B4", "#FF1493", "#C71585"}
)

func paletteFor(theme Theme) palette {
	p := palette{
		Line:       "#9370DB",
		Fill:       "#9370DB",
		Text:       "black",
		Income:     "#9370DB",
		Expense:    "#FF1493",
		PieIncome:  purples,
		PieExpense: append(append([]string{}, purples...), pinks...),
	}
	if theme == ThemeDark {
		p.Text = "white"
	}
	return p
}

// ChartPoint is one plotted value. Annotated points carry a formatted label.
type ChartPoint struct {
	Day       int     `json:"day"`
	Value     float64 `json:"value"`
	Annotated bool    `json:"annotated"`
	Label     string  `json:"label,omitempty"`
}

// LineChart is a chart-ready series for a line or filled-area plot.
type LineChart struct {
	Title     string       `json:"title"`
	XLabel    string       `json:"x_label"`
	YLabel    string       `json:"y_label"`
	Points    []ChartPoint `json:"points"`
	LineColor string       `json:"line_color"`
	FillColor string       `json:"fill_color,omitempty"`
	TextColor string       `json:"text_color"`
}

// MovementChart plots daily income and expense magnitudes side by side.
type MovementChart struct {
	Title     string    `json:"title"`
	XLabel    string    `json:"x_label"`
	YLabel    string    `json:"y_label"`
	Income    LineChart `json:"income"`
	Expense   LineChart `json:"expense"`
	TextColor string    `json:"text_color"`
}

// PieSlice is one category's share of a pie chart.
type PieSlice struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// PieChart is a chart-ready categorical breakdown.
type PieChart struct {
	Title     string     `json:"title"`
	Slices    []PieSlice `json:"slices"`
	Colors    []string   `json:"colors"`
	TextColor string     `json:"text_color"`
}

// CategoryPies pairs the income and expense pies for one month. A side with
// no data is nil.
type CategoryPies struct {
	Income  *PieChart `json:"income,omitempty"`
	Expense *PieChart `json:"expense,omitempty"`
}

// chartService shapes report output into renderable series.
type chartService struct {
	reports ReportServicer
}

// NewChartService creates a new ChartServicer.
func NewChartService(reports ReportServicer) ChartServicer {
	return &chartService{reports: reports}
}

// PerformanceChart is the filled-area running-balance chart for one month:
// x = day of month, y = running balance.
func (s *chartService) PerformanceChart(userID uint, year int, month time.Month, theme Theme) (*LineChart, error) {
	series, err := s.reports.DailyRunningBalance(userID, year, month)
	if err != nil {
		return nil, err
	}

	colors := paletteFor(theme)
	values := make([]float64, len(series.Days))
	for i := range series.Days {
		values[i], _ = series.Days[i].Value.Float64()
	}

	return &LineChart{
		Title:     fmt.Sprintf("Performance - %s %d", month, year),
		XLabel:    "Day",
		YLabel:    "Balance",
		Points:    annotate(values, false),
		LineColor: colors.Line,
		FillColor: colors.Fill,
		TextColor: colors.Text,
	}, nil
}

// MovementChart is the daily income/expense chart for one month.
func (s *chartService) MovementChart(userID uint, year int, month time.Month, theme Theme) (*MovementChart, error) {
	report, err := s.reports.DailyMovement(userID, year, month)
	if err != nil {
		return nil, err
	}

	colors := paletteFor(theme)
	income := make([]float64, len(report.Days))
	expense := make([]float64, len(report.Days))
	for i := range report.Days {
		income[i], _ = report.Days[i].Income.Float64()
		expense[i], _ = report.Days[i].Expense.Float64()
	}

	title := fmt.Sprintf("Movement - %s %d", month, year)
	return &MovementChart{
		Title:  title,
		XLabel: "Day",
		YLabel: "Amount",
		Income: LineChart{
			Title:     "Income",
			Points:    annotate(income, true),
			LineColor: colors.Income,
			TextColor: colors.Text,
		},
		Expense: LineChart{
			Title:     "Expense",
			Points:    annotate(expense, true),
			LineColor: colors.Expense,
			TextColor: colors.Text,
		},
		TextColor: colors.Text,
	}, nil
}

// CategoryCharts builds the income and expense pies from the monthly summary.
// Only categories with a non-zero total become slices.
func (s *chartService) CategoryCharts(userID uint, year int, month time.Month, theme Theme) (*CategoryPies, error) {
	summary, err := s.reports.MonthlySummary(userID, year, month)
	if err != nil {
		return nil, err
	}

	pies := &CategoryPies{}
	if summary == nil {
		return pies, nil
	}

	colors := paletteFor(theme)
	if income := pieFrom(summary.Income, "Income Categories", colors.PieIncome, colors.Text); income != nil {
		pies.Income = income
	}
	if expense := pieFrom(summary.Expense, "Expense Categories", colors.PieExpense, colors.Text); expense != nil {
		pies.Expense = expense
	}
	return pies, nil
}

func pieFrom(side SummarySide, title string, sliceColors []string, textColor string) *PieChart {
	slices := []PieSlice{}
	for _, cat := range side.Categories {
		if cat.Total.IsZero() {
			continue
		}
		value, _ := cat.Total.Float64()
		slices = append(slices, PieSlice{
			Label:      cat.Name,
			Value:      value,
			Percentage: Percentage(cat.Total, side.Total),
		})
	}
	if len(slices) == 0 {
		return nil
	}
	return &PieChart{Title: title, Slices: slices, Colors: sliceColors, TextColor: textColor}
}

// annotate marks the notable points of a series: the first day, the last day,
// and any day whose magnitude exceeds half the series' maximum magnitude.
// When requireNonZero is set (movement series), zero points are never labeled
// even at the ends.
func annotate(values []float64, requireNonZero bool) []ChartPoint {
	maxMag := 0.0
	for _, v := range values {
		if mag := abs(v); mag > maxMag {
			maxMag = mag
		}
	}

	points := make([]ChartPoint, len(values))
	for i, v := range values {
		point := ChartPoint{Day: i + 1, Value: v}
		notable := i == 0 || i == len(values)-1 || abs(v) > maxMag*0.5
		if notable && (!requireNonZero || v > 0) {
			point.Annotated = true
			point.Label = fmt.Sprintf("%.2f", v)
		}
		points[i] = point
	}
	return points
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
