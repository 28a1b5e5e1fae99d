package abtest_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/abtest"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

func newRegistry(t *testing.T) *abtest.Registry {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.ABTest{}, &models.ABAssignment{}))

	log := logger.NewNop()
	return abtest.NewRegistry(repos.NewABTestRepo(gdb, log), log)
}

func TestCreateTest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active test with a generated id", func(t *testing.T) {
		registry := newRegistry(t)
		test, err := registry.CreateTest(ctx, "Checkout Button Color", []string{"blue", "green"}, models.MetricConversionRate, 14)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(test.TestID, "TEST-"))
		assert.Equal(t, models.ABTestActive, test.Status)
		assert.Equal(t, []string{"blue", "green"}, test.Variants)
		assert.Equal(t, test.StartDate.AddDate(0, 0, 14), test.EndDate)
	})

	t.Run("rejects blank variants, names and metrics", func(t *testing.T) {
		registry := newRegistry(t)

		_, err := registry.CreateTest(ctx, "No Variants", []string{" ", ""}, models.MetricOrderValue, 7)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = registry.CreateTest(ctx, "  ", []string{"a"}, models.MetricOrderValue, 7)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = registry.CreateTest(ctx, "Bad Metric", []string{"a"}, models.TargetMetric("revenue"), 7)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = registry.CreateTest(ctx, "Bad Duration", []string{"a"}, models.MetricOrderValue, 0)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestAssignVariant(t *testing.T) {
	ctx := context.Background()

	t.Run("assignment is sticky across calls", func(t *testing.T) {
		registry := newRegistry(t)
		test, err := registry.CreateTest(ctx, "Homepage Layout", []string{"control", "wide", "compact"}, models.MetricUserEngagement, 30)
		require.NoError(t, err)

		first, err := registry.AssignVariant(ctx, "u-1", test.TestID)
		require.NoError(t, err)
		assert.Contains(t, test.Variants, first)

		for i := 0; i < 20; i++ {
			again, err := registry.AssignVariant(ctx, "u-1", test.TestID)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("different users are assigned independently", func(t *testing.T) {
		registry := newRegistry(t)
		test, err := registry.CreateTest(ctx, "Pricing Page", []string{"a", "b"}, models.MetricOrderValue, 30)
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			variant, err := registry.AssignVariant(ctx, fmt.Sprintf("u-%d", i), test.TestID)
			require.NoError(t, err)
			assert.Contains(t, test.Variants, variant)
		}
	})

	t.Run("refuses completed tests and unknown ids", func(t *testing.T) {
		registry := newRegistry(t)
		test, err := registry.CreateTest(ctx, "Old Test", []string{"a"}, models.MetricOrderValue, 7)
		require.NoError(t, err)
		_, err = registry.Complete(ctx, test.TestID, nil)
		require.NoError(t, err)

		_, err = registry.AssignVariant(ctx, "u-1", test.TestID)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = registry.AssignVariant(ctx, "u-1", "TEST-unknown")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	registry := newRegistry(t)

	test, err := registry.CreateTest(ctx, "Shipping Banner", []string{"on", "off"}, models.MetricConversionRate, 7)
	require.NoError(t, err)

	results := map[string]float64{"on": 0.12, "off": 0.08}
	completed, err := registry.Complete(ctx, test.TestID, results)
	require.NoError(t, err)
	assert.Equal(t, models.ABTestCompleted, completed.Status)
	assert.Equal(t, results, completed.Results)

	// completing twice is refused
	_, err = registry.Complete(ctx, test.TestID, results)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
