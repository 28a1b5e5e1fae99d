package analytics

import (
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
)

const seasonalPeriod = 7 // weekly cycle over daily observations

// z-score for the symmetric 95% band on the Holt-Winters forecast.
var z95 = distuv.UnitNormal.Quantile(0.975)

type hwState struct {
	level  float64
	trend  float64
	season []float64
}

// holtWintersFit runs the additive-trend, additive-seasonality recursion for
// fixed smoothing parameters and returns the final state plus residuals.
func holtWintersFit(y []float64, alpha, beta, gamma float64) (hwState, []float64) {
	m := seasonalPeriod
	var firstSeason, secondSeason float64
	for i := 0; i < m; i++ {
		firstSeason += y[i]
		secondSeason += y[m+i]
	}
	firstSeason /= float64(m)
	secondSeason /= float64(m)

	st := hwState{
		level:  firstSeason,
		trend:  (secondSeason - firstSeason) / float64(m),
		season: make([]float64, m),
	}
	for i := 0; i < m; i++ {
		st.season[i] = y[i] - firstSeason
	}

	residuals := make([]float64, len(y))
	for t := 0; t < len(y); t++ {
		si := t % m
		fitted := st.level + st.trend + st.season[si]
		residuals[t] = y[t] - fitted

		prevLevel := st.level
		st.level = alpha*(y[t]-st.season[si]) + (1-alpha)*(st.level+st.trend)
		st.trend = beta*(st.level-prevLevel) + (1-beta)*st.trend
		st.season[si] = gamma*(y[t]-st.level) + (1-gamma)*st.season[si]
	}
	return st, residuals
}

// forecastHoltWinters fits additive Holt-Winters with period 7, optimizing
// the smoothing parameters by SSE, and derives a symmetric 95% band from the
// residual standard deviation (not a model-native interval).
func forecastHoltWinters(series DailySeries, horizon int) (*Forecast, error) {
	y := series.Values
	if len(y) < 2*seasonalPeriod {
		return nil, apperr.New(apperr.KindModelFit,
			"forecast unavailable: need at least %d daily observations, have %d", 2*seasonalPeriod, len(y))
	}
	if isConstant(y) {
		return nil, apperr.New(apperr.KindModelFit, "forecast unavailable: series is constant")
	}

	sse := func(params []float64) float64 {
		alpha, beta, gamma := logistic(params[0]), logistic(params[1]), logistic(params[2])
		_, residuals := holtWintersFit(y, alpha, beta, gamma)
		var total float64
		for _, r := range residuals {
			total += r * r
		}
		if math.IsNaN(total) || math.IsInf(total, 0) {
			return math.Inf(1)
		}
		return total
	}

	result, err := optimize.Minimize(optimize.Problem{Func: sse}, []float64{0, -1, -1}, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindModelFit, err, "forecast unavailable: smoothing fit failed")
	}
	alpha := logistic(result.X[0])
	beta := logistic(result.X[1])
	gamma := logistic(result.X[2])

	st, residuals := holtWintersFit(y, alpha, beta, gamma)
	sigma := stat.StdDev(residuals, nil)
	if math.IsNaN(sigma) {
		return nil, apperr.New(apperr.KindModelFit, "forecast unavailable: degenerate residuals")
	}

	forecast := &Forecast{
		Points:       make([]float64, horizon),
		Lower:        make([]float64, horizon),
		Upper:        make([]float64, horizon),
		LastObserved: series.LastDate(),
	}
	n := len(y)
	for h := 1; h <= horizon; h++ {
		point := st.level + float64(h)*st.trend + st.season[(n+h-1)%seasonalPeriod]
		forecast.Points[h-1] = point
		forecast.Lower[h-1] = point - z95*sigma
		forecast.Upper[h-1] = point + z95*sigma
	}
	return forecast, nil
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func isConstant(y []float64) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return false
		}
	}
	return true
}
