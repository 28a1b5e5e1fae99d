package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

// tieredOrders builds customers in four clearly separated spend tiers, two
// customers per tier.
func tieredOrders() []*models.Order {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tiers := []struct {
		spendPerOrder float64
		orderCount    int
	}{
		{2500, 12}, // heavy buyers
		{400, 6},
		{60, 3},
		{10, 1}, // barely active
	}

	var out []*models.Order
	userIdx := 0
	for _, tier := range tiers {
		for dup := 0; dup < 2; dup++ {
			userID := fmt.Sprintf("u-%02d", userIdx)
			userIdx++
			for o := 0; o < tier.orderCount; o++ {
				out = append(out, &models.Order{
					UserID:        userID,
					TotalPrice:    tier.spendPerOrder,
					TotalWeightKg: 5,
					CreatedAt:     base.AddDate(0, 0, o),
				})
			}
		}
	}
	return out
}

func TestSegmentOrders(t *testing.T) {
	segments, err := SegmentOrders(tieredOrders())
	require.NoError(t, err)
	require.Len(t, segments, 8)

	// output is sorted by user id
	for i := 1; i < len(segments); i++ {
		assert.Less(t, segments[i-1].UserID, segments[i].UserID)
	}

	byName := map[string][]CustomerSegment{}
	for _, seg := range segments {
		byName[seg.SegmentName] = append(byName[seg.SegmentName], seg)
	}
	require.Len(t, byName, segmentClusters)

	// the heaviest spenders carry the top label, the lightest the bottom one
	for _, seg := range byName["High-Value Frequent Buyers"] {
		assert.InDelta(t, 30000, seg.TotalSpent, 1e-9)
		assert.Equal(t, 12, seg.OrderCount)
	}
	for _, seg := range byName["New/Inactive Customers"] {
		assert.InDelta(t, 10, seg.TotalSpent, 1e-9)
		assert.Equal(t, 1, seg.OrderCount)
	}

	// same tier, same cluster
	for name, members := range byName {
		require.Len(t, members, 2, name)
		assert.Equal(t, members[0].Cluster, members[1].Cluster, name)
	}
}

func TestSegmentOrdersDeterministic(t *testing.T) {
	first, err := SegmentOrders(tieredOrders())
	require.NoError(t, err)
	second, err := SegmentOrders(tieredOrders())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSegmentOrdersNeedsEnoughCustomers(t *testing.T) {
	orders := []*models.Order{
		{UserID: "u-1", TotalPrice: 100, CreatedAt: time.Now()},
		{UserID: "u-2", TotalPrice: 200, CreatedAt: time.Now()},
		{UserID: "u-3", TotalPrice: 300, CreatedAt: time.Now()},
	}
	_, err := SegmentOrders(orders)
	require.Error(t, err)
	assert.Equal(t, apperr.KindModelFit, apperr.KindOf(err))
}

func TestCustomerFeatures(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	orders := []*models.Order{
		{UserID: "u-1", TotalPrice: 100, TotalWeightKg: 10, CreatedAt: base},
		{UserID: "u-1", TotalPrice: 50, TotalWeightKg: 4, CreatedAt: base.AddDate(0, 0, 1)},
		{UserID: "u-2", TotalPrice: 20, TotalWeightKg: 1, CreatedAt: base},
	}

	features := customerFeatures(orders)
	require.Len(t, features, 2)

	assert.Equal(t, "u-1", features[0].UserID)
	assert.InDelta(t, 150, features[0].TotalSpent, 1e-9)
	assert.InDelta(t, 75, features[0].AvgOrderValue, 1e-9)
	assert.InDelta(t, 14, features[0].TotalWeight, 1e-9)
	assert.Equal(t, 2, features[0].OrderCount)

	assert.Equal(t, "u-2", features[1].UserID)
	assert.Equal(t, 1, features[1].OrderCount)
}
