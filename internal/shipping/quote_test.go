package shipping_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/shipping"
)

func newQuoteService(t *testing.T) *shipping.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.ShippingPlan{}))

	for _, plan := range []models.ShippingPlan{
		{PlanID: "PLAN-AIR-S", MinWeight: 0, MaxWeight: 10, RatePerKg: 15, DeliveryTime: "1-2 days", Carrier: "SkyBridge Air"},
		{PlanID: "PLAN-AIR-M", MinWeight: 10, MaxWeight: 50, RatePerKg: 8.5, DeliveryTime: "3-5 days", Carrier: "SkyBridge Air"},
		{PlanID: "PLAN-SEA-M", MinWeight: 10, MaxWeight: 200, RatePerKg: 3.75, DeliveryTime: "15-25 days", Carrier: "BlueWave Lines"},
	} {
		require.NoError(t, gdb.Create(&plan).Error)
	}

	log := logger.NewNop()
	return shipping.NewService(repos.NewShippingPlanRepo(gdb, log), log)
}

func TestQuoteAll(t *testing.T) {
	ctx := context.Background()

	t.Run("prices every eligible plan cheapest first", func(t *testing.T) {
		svc := newQuoteService(t)
		quotes, err := svc.QuoteAll(ctx, 42.0)
		require.NoError(t, err)
		require.Len(t, quotes, 2)

		assert.Equal(t, "PLAN-SEA-M", quotes[0].Plan.PlanID)
		assert.True(t, quotes[0].Cost.Equal(decimal.NewFromFloat(157.5)), quotes[0].Cost.String())
		assert.Equal(t, "PLAN-AIR-M", quotes[1].Plan.PlanID)
		assert.True(t, quotes[1].Cost.Equal(decimal.NewFromFloat(357)), quotes[1].Cost.String())
	})

	t.Run("rounds to cents", func(t *testing.T) {
		svc := newQuoteService(t)
		quotes, err := svc.QuoteAll(ctx, 10.333)
		require.NoError(t, err)
		require.NotEmpty(t, quotes)
		// 10.333 kg x 3.75 = 38.74875, rounds to 38.75
		assert.True(t, quotes[0].Cost.Equal(decimal.NewFromFloat(38.75)), quotes[0].Cost.String())
	})

	t.Run("rejects non-positive weight", func(t *testing.T) {
		svc := newQuoteService(t)
		_, err := svc.QuoteAll(ctx, 0)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("no plan covers an out-of-band weight", func(t *testing.T) {
		svc := newQuoteService(t)
		quotes, err := svc.QuoteAll(ctx, 9000)
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})
}
