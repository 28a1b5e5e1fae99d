package analytics

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

const (
	segmentClusters = 4
	segmentSeed     = 42
)

// segmentNames ordered by descending centroid spend.
var segmentNames = [segmentClusters]string{
	"High-Value Frequent Buyers",
	"Medium-Value Regular Buyers",
	"Low-Value Occasional Buyers",
	"New/Inactive Customers",
}

// CustomerSegment is a derived per-user aggregate; it is recomputed per
// request and never persisted.
type CustomerSegment struct {
	UserID        string  `json:"user_id"`
	TotalSpent    float64 `json:"total_spent"`
	AvgOrderValue float64 `json:"avg_order_value"`
	OrderCount    int     `json:"order_count"`
	TotalWeight   float64 `json:"total_weight"`
	Cluster       int     `json:"cluster"`
	SegmentName   string  `json:"segment_name"`
}

// Segment clusters customers on spend, average order value and order count.
// Weight totals are carried along for display but are not a clustering
// feature. Names are assigned by ranking cluster centroids on spend, so the
// labels stay stable regardless of the order k-means returns clusters in.
func (s *Service) Segment(ctx context.Context) ([]CustomerSegment, error) {
	orders, err := s.orders.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	return SegmentOrders(orders)
}

func SegmentOrders(orders []*models.Order) ([]CustomerSegment, error) {
	segments := customerFeatures(orders)
	if len(segments) < segmentClusters {
		return nil, apperr.New(apperr.KindModelFit,
			"segmentation unavailable: need at least %d distinct customers, have %d", segmentClusters, len(segments))
	}

	// Standardize the three clustering features; spend and count are on
	// incompatible scales.
	features := make([][3]float64, len(segments))
	for i, seg := range segments {
		features[i] = [3]float64{seg.TotalSpent, seg.AvgOrderValue, float64(seg.OrderCount)}
	}
	standardize(features)

	assignment := kMeans(features, segmentClusters, segmentSeed)

	// Rank clusters on mean member spend, highest first.
	spendSums := make([]float64, segmentClusters)
	sizes := make([]int, segmentClusters)
	for i, cluster := range assignment {
		spendSums[cluster] += segments[i].TotalSpent
		sizes[cluster]++
	}
	type ranked struct {
		cluster   int
		meanSpend float64
	}
	order := make([]ranked, segmentClusters)
	for c := 0; c < segmentClusters; c++ {
		mean := 0.0
		if sizes[c] > 0 {
			mean = spendSums[c] / float64(sizes[c])
		}
		order[c] = ranked{cluster: c, meanSpend: mean}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].meanSpend > order[j].meanSpend })
	nameOf := make([]string, segmentClusters)
	for rank, r := range order {
		nameOf[r.cluster] = segmentNames[rank]
	}

	for i := range segments {
		segments[i].Cluster = assignment[i]
		segments[i].SegmentName = nameOf[assignment[i]]
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].UserID < segments[j].UserID })
	return segments, nil
}

func customerFeatures(orders []*models.Order) []CustomerSegment {
	byUser := map[string]*CustomerSegment{}
	for _, order := range orders {
		seg, ok := byUser[order.UserID]
		if !ok {
			seg = &CustomerSegment{UserID: order.UserID}
			byUser[order.UserID] = seg
		}
		seg.TotalSpent += order.TotalPrice
		seg.TotalWeight += order.TotalWeightKg
		seg.OrderCount++
	}
	out := make([]CustomerSegment, 0, len(byUser))
	for _, seg := range byUser {
		seg.AvgOrderValue = seg.TotalSpent / float64(seg.OrderCount)
		out = append(out, *seg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func standardize(features [][3]float64) {
	for col := 0; col < 3; col++ {
		column := make([]float64, len(features))
		for i := range features {
			column[i] = features[i][col]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		for i := range features {
			features[i][col] = (features[i][col] - mean) / std
		}
	}
}

// kMeans is Lloyd's algorithm with k-means++ seeding and a fixed source for
// reproducible assignments.
func kMeans(points [][3]float64, k int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)
	assignment := make([]int, len(points))

	for iter := 0; iter < 100; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}

		sums := make([][3]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			c := assignment[i]
			for d := 0; d < 3; d++ {
				sums[c][d] += p[d]
			}
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster on the point farthest from its
				// current centroid.
				centroids[c] = points[farthestPoint(points, centroids, assignment)]
				changed = true
				continue
			}
			for d := 0; d < 3; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
		if !changed && iter > 0 {
			break
		}
	}
	return assignment
}

func seedCentroids(points [][3]float64, k int, rng *rand.Rand) [][3]float64 {
	centroids := make([][3]float64, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])
	for len(centroids) < k {
		weights := make([]float64, len(points))
		var total float64
		for i, p := range points {
			d := distSq(p, centroids[nearestCentroid(p, centroids)])
			weights[i] = d
			total += d
		}
		if total == 0 {
			centroids = append(centroids, points[rng.Intn(len(points))])
			continue
		}
		target := rng.Float64() * total
		cum := 0.0
		chosen := len(points) - 1
		for i, w := range weights {
			cum += w
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}
	return centroids
}

func nearestCentroid(p [3]float64, centroids [][3]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := distSq(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func farthestPoint(points [][3]float64, centroids [][3]float64, assignment []int) int {
	best, bestDist := 0, -1.0
	for i, p := range points {
		if d := distSq(p, centroids[assignment[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func distSq(a, b [3]float64) float64 {
	var total float64
	for d := 0; d < 3; d++ {
		diff := a[d] - b[d]
		total += diff * diff
	}
	return total
}
