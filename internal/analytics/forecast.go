package analytics

import (
	"context"
	"time"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
)

type ForecastModel string

const (
	ModelHoltWinters ForecastModel = "holt_winters"
	ModelARIMA       ForecastModel = "arima"
	ModelSARIMA      ForecastModel = "sarima"
)

const DefaultHorizonDays = 30

type Forecast struct {
	Points       []float64 `json:"points"`
	Lower        []float64 `json:"lower_bound"`
	Upper        []float64 `json:"upper_bound"`
	LastObserved time.Time `json:"last_observed_date"`
}

// ForecastSeries fits the chosen model over a zero-filled daily series.
// Forecasts are stateless per call; a failed fit reports ModelFit so callers
// can degrade to historical data only.
func ForecastSeries(series DailySeries, horizon int, model ForecastModel) (*Forecast, error) {
	if horizon <= 0 {
		return nil, apperr.New(apperr.KindValidation, "forecast horizon must be positive")
	}
	switch model {
	case ModelHoltWinters:
		return forecastHoltWinters(series, horizon)
	case ModelARIMA:
		return forecastARIMA(series, horizon, arimaSpec{seasonal: false})
	case ModelSARIMA:
		return forecastARIMA(series, horizon, arimaSpec{seasonal: true})
	default:
		return nil, apperr.New(apperr.KindValidation, "unknown forecast model %q", model)
	}
}

// Forecast pulls the full order set, builds the daily count series and fits
// the requested model.
func (s *Service) Forecast(ctx context.Context, horizon int, model ForecastModel) (*Forecast, error) {
	orders, err := s.orders.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	series := BuildDailySeries(orders)
	if series.Len() == 0 {
		return nil, apperr.New(apperr.KindModelFit, "forecast unavailable: no order history")
	}
	forecast, err := ForecastSeries(series, horizon, model)
	if err != nil {
		s.log.Warn("forecast failed", "model", model, "observations", series.Len(), "err", err)
		return nil, err
	}
	return forecast, nil
}
