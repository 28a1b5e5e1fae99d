package analytics

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
)

// arimaSpec fixes the model orders. The regular leg is always (1,1,1); the
// seasonal leg (1,1,1) at period 7 is switched on for SARIMA.
type arimaSpec struct {
	seasonal bool
}

// expanded lag polynomials for the full model including differencing:
// ar(B)·y_t = ma(B)·ε_t with ar[0] = ma[0] = 1.
type arimaPolys struct {
	ar []float64
	ma []float64
}

func (spec arimaSpec) polys(params []float64) arimaPolys {
	phi := math.Tanh(params[0])
	theta := math.Tanh(params[1])

	ar := polyMul([]float64{1, -phi}, []float64{1, -1}) // (1-φB)(1-B)
	ma := []float64{1, theta}                           // (1+θB)
	if spec.seasonal {
		bigPhi := math.Tanh(params[2])
		bigTheta := math.Tanh(params[3])
		ar = polyMul(ar, polyAtLag(-bigPhi, seasonalPeriod)) // ·(1-ΦB⁷)
		ar = polyMul(ar, polyAtLag(-1, seasonalPeriod))      // ·(1-B⁷)
		ma = polyMul(ma, polyAtLag(bigTheta, seasonalPeriod))
	}
	return arimaPolys{ar: ar, ma: ma}
}

func (spec arimaSpec) nParams() int {
	if spec.seasonal {
		return 4
	}
	return 2
}

// minObservations leaves at least one season of effective sample beyond the
// longest lag the recursion needs.
func (spec arimaSpec) minObservations() int {
	if spec.seasonal {
		return 3 * seasonalPeriod
	}
	return 10
}

// residuals runs the conditional-sum-of-squares recursion
// e_t = Σ ar_i·y_{t-i} − Σ_{j≥1} ma_j·e_{t-j}, with pre-sample errors zero.
// Entries before the longest AR lag stay zero and are excluded from the SSE.
func (p arimaPolys) residuals(y []float64) []float64 {
	e := make([]float64, len(y))
	for t := len(p.ar) - 1; t < len(y); t++ {
		v := 0.0
		for i, coeff := range p.ar {
			v += coeff * y[t-i]
		}
		for j := 1; j < len(p.ma) && j <= t; j++ {
			v -= p.ma[j] * e[t-j]
		}
		e[t] = v
	}
	return e
}

func (p arimaPolys) css(y []float64) (sse float64, nEff int) {
	e := p.residuals(y)
	for t := len(p.ar) - 1; t < len(y); t++ {
		sse += e[t] * e[t]
		nEff++
	}
	return sse, nEff
}

// psiWeights expands the model into its MA(∞) representation; the forecast
// error variance at lead h is σ²·Σ_{j<h} ψ_j².
func (p arimaPolys) psiWeights(count int) []float64 {
	psi := make([]float64, count)
	if count == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < count; j++ {
		v := 0.0
		if j < len(p.ma) {
			v = p.ma[j]
		}
		for i := 1; i < len(p.ar) && i <= j; i++ {
			v -= p.ar[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

// forecastPoints iterates the difference equation forward, substituting
// forecasts for unobserved values and zero for future errors.
func (p arimaPolys) forecastPoints(y, residuals []float64, horizon int) []float64 {
	extended := append(append([]float64{}, y...), make([]float64, horizon)...)
	n := len(y)
	points := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		t := n + h
		v := 0.0
		for i := 1; i < len(p.ar); i++ {
			v -= p.ar[i] * extended[t-i]
		}
		for j := 1; j < len(p.ma); j++ {
			if t-j < n {
				v += p.ma[j] * residuals[t-j]
			}
		}
		extended[t] = v
		points[h] = v
	}
	return points
}

// forecastARIMA fits the fixed-order model by conditional sum of squares and
// takes the confidence band from the model's own forecast variance — unlike
// Holt-Winters, which uses the residual approximation.
func forecastARIMA(series DailySeries, horizon int, spec arimaSpec) (*Forecast, error) {
	y := series.Values
	if len(y) < spec.minObservations() {
		return nil, apperr.New(apperr.KindModelFit,
			"forecast unavailable: need at least %d daily observations, have %d", spec.minObservations(), len(y))
	}
	if isConstant(y) {
		return nil, apperr.New(apperr.KindModelFit, "forecast unavailable: series is constant")
	}

	objective := func(params []float64) float64 {
		sse, _ := spec.polys(params).css(y)
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return math.Inf(1)
		}
		return sse
	}

	initial := make([]float64, spec.nParams())
	for i := range initial {
		initial[i] = 0.1
	}
	result, err := optimize.Minimize(optimize.Problem{Func: objective}, initial, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindModelFit, err, "forecast unavailable: parameter estimation failed")
	}

	polys := spec.polys(result.X)
	sse, nEff := polys.css(y)
	if nEff == 0 {
		return nil, apperr.New(apperr.KindModelFit, "forecast unavailable: no effective sample")
	}
	sigma2 := sse / float64(nEff)

	residuals := polys.residuals(y)
	points := polys.forecastPoints(y, residuals, horizon)
	psi := polys.psiWeights(horizon)

	forecast := &Forecast{
		Points:       points,
		Lower:        make([]float64, horizon),
		Upper:        make([]float64, horizon),
		LastObserved: series.LastDate(),
	}
	var psiSquares float64
	for h := 0; h < horizon; h++ {
		psiSquares += psi[h] * psi[h]
		halfWidth := z95 * math.Sqrt(sigma2*psiSquares)
		forecast.Lower[h] = points[h] - halfWidth
		forecast.Upper[h] = points[h] + halfWidth
	}
	return forecast, nil
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// polyAtLag builds 1 + c·B^lag.
func polyAtLag(c float64, lag int) []float64 {
	out := make([]float64, lag+1)
	out[0] = 1
	out[lag] = c
	return out
}
