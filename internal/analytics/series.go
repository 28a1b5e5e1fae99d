package analytics

import (
	"time"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

// DailySeries is a daily-frequency count series with no gaps: a day with no
// orders is a true zero, not missing data.
type DailySeries struct {
	Start  time.Time
	Values []float64
}

func (s DailySeries) Len() int { return len(s.Values) }

// LastDate is the final observed day of the series.
func (s DailySeries) LastDate() time.Time {
	if len(s.Values) == 0 {
		return s.Start
	}
	return s.Start.AddDate(0, 0, len(s.Values)-1)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildDailySeries counts orders per creation day and reindexes the result to
// a complete daily frequency, filling gaps with zero.
func BuildDailySeries(orders []*models.Order) DailySeries {
	if len(orders) == 0 {
		return DailySeries{}
	}
	counts := map[time.Time]float64{}
	var first, last time.Time
	for i, order := range orders {
		day := dayOf(order.CreatedAt)
		counts[day]++
		if i == 0 || day.Before(first) {
			first = day
		}
		if i == 0 || day.After(last) {
			last = day
		}
	}

	n := int(last.Sub(first).Hours()/24) + 1
	values := make([]float64, n)
	for day, count := range counts {
		idx := int(day.Sub(first).Hours() / 24)
		values[idx] = count
	}
	return DailySeries{Start: first, Values: values}
}
