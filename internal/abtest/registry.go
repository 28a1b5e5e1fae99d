// Package abtest keeps experiment bookkeeping: variant sets, the append-only
// assignment log and accumulated results.
package abtest

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

type Registry struct {
	tests repos.ABTestRepo
	log   *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRegistry(tests repos.ABTestRepo, baseLog *logger.Logger) *Registry {
	return &Registry{
		tests: tests,
		log:   baseLog.With("component", "ABTestRegistry"),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *Registry) CreateTest(ctx context.Context, name string, variants []string, metric models.TargetMetric, durationDays int) (*models.ABTest, error) {
	cleaned := make([]string, 0, len(variants))
	for _, v := range variants {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperr.New(apperr.KindValidation, "a test needs at least one variant")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.New(apperr.KindValidation, "test name is required")
	}
	if !metric.Valid() {
		return nil, apperr.New(apperr.KindValidation, "unknown target metric %q", metric)
	}
	if durationDays <= 0 {
		return nil, apperr.New(apperr.KindValidation, "duration must be positive")
	}

	now := time.Now()
	test := &models.ABTest{
		TestID:       fmt.Sprintf("TEST-%s-%s", now.Format("20060102150405"), uuid.NewString()[:8]),
		Name:         name,
		Variants:     cleaned,
		TargetMetric: metric,
		StartDate:    now,
		EndDate:      now.AddDate(0, 0, durationDays),
		Status:       models.ABTestActive,
		Results:      map[string]float64{},
	}
	if err := r.tests.Create(ctx, nil, test); err != nil {
		return nil, err
	}
	r.log.Info("ab test created", "test_id", test.TestID, "variants", len(cleaned))
	return test, nil
}

// AssignVariant maps a (user, test) pair to one variant for the test's
// lifetime: the first assignment is logged and every later call returns it.
func (r *Registry) AssignVariant(ctx context.Context, userID, testID string) (string, error) {
	test, err := r.tests.GetByTestID(ctx, nil, testID)
	if err != nil {
		return "", err
	}
	if test.Status != models.ABTestActive {
		return "", apperr.New(apperr.KindValidation, "test %s is %s", testID, test.Status)
	}

	existing, err := r.tests.GetAssignment(ctx, nil, test.ID, userID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.Variant, nil
	}

	variant := r.pick(test.Variants)
	assignment := &models.ABAssignment{
		TestRef:   test.ID,
		UserID:    userID,
		Variant:   variant,
		CreatedAt: time.Now(),
	}
	if err := r.tests.AppendAssignment(ctx, nil, assignment); err != nil {
		// A concurrent first assignment may have won the unique index; the
		// recorded variant is the sticky one either way.
		if winner, lookupErr := r.tests.GetAssignment(ctx, nil, test.ID, userID); lookupErr == nil && winner != nil {
			return winner.Variant, nil
		}
		return "", err
	}
	return variant, nil
}

func (r *Registry) ListActive(ctx context.Context) ([]*models.ABTest, error) {
	return r.tests.ListByStatus(ctx, nil, models.ABTestActive)
}

// Complete closes a test and records its final per-variant results.
func (r *Registry) Complete(ctx context.Context, testID string, results map[string]float64) (*models.ABTest, error) {
	test, err := r.tests.GetByTestID(ctx, nil, testID)
	if err != nil {
		return nil, err
	}
	if test.Status != models.ABTestActive {
		return nil, apperr.New(apperr.KindValidation, "test %s is already %s", testID, test.Status)
	}
	if results != nil {
		if err := r.tests.SetResults(ctx, nil, testID, results); err != nil {
			return nil, err
		}
		test.Results = results
	}
	if err := r.tests.SetStatus(ctx, nil, testID, models.ABTestCompleted); err != nil {
		return nil, err
	}
	test.Status = models.ABTestCompleted
	return test, nil
}

func (r *Registry) pick(variants []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return variants[r.rng.Intn(len(variants))]
}
