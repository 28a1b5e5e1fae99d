package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

func ordersOn(days ...time.Time) []*models.Order {
	out := make([]*models.Order, len(days))
	for i, day := range days {
		out[i] = &models.Order{UserID: "u-1", TotalPrice: 10, CreatedAt: day}
	}
	return out
}

// syntheticSeries builds n days of a trending weekly pattern with a touch of
// deterministic noise.
func syntheticSeries(n int) DailySeries {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	values := make([]float64, n)
	weekly := []float64{4, 6, 9, 7, 11, 15, 12}
	for i := range values {
		trend := 20 + 0.3*float64(i)
		noise := 1.5 * math.Sin(float64(i)*1.7)
		values[i] = trend + weekly[i%7] + noise
	}
	return DailySeries{Start: start, Values: values}
}

func TestForecastSeries(t *testing.T) {
	series := syntheticSeries(60)

	for _, model := range []ForecastModel{ModelHoltWinters, ModelARIMA, ModelSARIMA} {
		t.Run(string(model), func(t *testing.T) {
			fc, err := ForecastSeries(series, 30, model)
			require.NoError(t, err)

			require.Len(t, fc.Points, 30)
			require.Len(t, fc.Lower, 30)
			require.Len(t, fc.Upper, 30)
			assert.Equal(t, series.LastDate(), fc.LastObserved)

			for i := range fc.Points {
				assert.LessOrEqual(t, fc.Lower[i], fc.Points[i], "step %d", i)
				assert.GreaterOrEqual(t, fc.Upper[i], fc.Points[i], "step %d", i)
				assert.False(t, math.IsNaN(fc.Points[i]), "step %d", i)
				assert.False(t, math.IsInf(fc.Points[i], 0), "step %d", i)
			}

			// the series trends upward, so the forecast should stay in a
			// plausible neighborhood of the last observations
			last := series.Values[series.Len()-1]
			assert.InDelta(t, last, fc.Points[0], last)
		})
	}
}

func TestForecastSeriesValidation(t *testing.T) {
	series := syntheticSeries(60)

	t.Run("rejects a non-positive horizon", func(t *testing.T) {
		_, err := ForecastSeries(series, 0, ModelHoltWinters)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects an unknown model", func(t *testing.T) {
		_, err := ForecastSeries(series, 10, ForecastModel("prophet"))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestForecastSeriesShortHistory(t *testing.T) {
	cases := []struct {
		model ForecastModel
		days  int
	}{
		{ModelHoltWinters, 13},
		{ModelARIMA, 9},
		{ModelSARIMA, 20},
	}
	for _, tc := range cases {
		t.Run(string(tc.model), func(t *testing.T) {
			_, err := ForecastSeries(syntheticSeries(tc.days), 7, tc.model)
			require.Error(t, err)
			assert.Equal(t, apperr.KindModelFit, apperr.KindOf(err))
		})
	}
}

func TestForecastConstantSeries(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	values := make([]float64, 30)
	for i := range values {
		values[i] = 5
	}
	series := DailySeries{Start: start, Values: values}

	_, err := ForecastSeries(series, 7, ModelHoltWinters)
	require.Error(t, err)
	assert.Equal(t, apperr.KindModelFit, apperr.KindOf(err))
}

func TestBuildDailySeriesZeroFills(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 14, 30, 0, 0, time.UTC)
	}
	orders := ordersOn(day(1), day(1), day(4))

	series := BuildDailySeries(orders)
	require.Equal(t, 4, series.Len())
	assert.Equal(t, []float64{2, 0, 0, 1}, series.Values)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), series.LastDate())
}
