package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/2beens/fitstats/internal/config"
	"github.com/2beens/fitstats/internal/fitstats/exercises"
	"github.com/2beens/fitstats/internal/fitstats/mets"
	"github.com/2beens/fitstats/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=stats_mocks_test.go -package=stats_test

var (
	ErrReferenceLoad = errors.New("reference load failure")
	ErrRecordQuery   = errors.New("record query failure")
)

type metTableLoader interface {
	LoadTable(ctx context.Context) (mets.Table, error)
}

type exercisesSource interface {
	ListAll(ctx context.Context, params exercises.ListParams) ([]exercises.Exercise, error)
}

// AggregateRow holds the daily totals of one (exerciseType, subActivity) group.
type AggregateRow struct {
	ExerciseType  string  `json:"exerciseType"`
	SubActivity   *string `json:"subActivity"`
	TotalDuration float64 `json:"totalDuration"`
	TotalCalories float64 `json:"totalCalories"`
	Count         int     `json:"count"`
}

// Engine estimates calories burned per exercise group within a time window.
type Engine struct {
	resolver      metTableLoader
	exercisesRepo exercisesSource
	calorieConfig config.CalorieConfig
}

func NewEngine(
	resolver metTableLoader,
	exercisesRepo exercisesSource,
	calorieConfig config.CalorieConfig,
) *Engine {
	return &Engine{
		resolver:      resolver,
		exercisesRepo: exercisesRepo,
		calorieConfig: calorieConfig,
	}
}

// Calories returns the estimated energy in kcal for the given MET and duration in minutes.
func Calories(met, bodyWeightKg, durationMinutes float64) float64 {
	return met * bodyWeightKg * (durationMinutes / 60)
}

type groupKey struct {
	exerciseType   string
	subActivity    string
	hasSubActivity bool
}

// ComputeDailyStats groups the exercises within window by (exerciseType, subActivity)
// and sums duration, estimated calories and count per group.
// An empty username selects all users. Rows are sorted by exerciseType, then subActivity,
// with a nil subActivity first.
func (e *Engine) ComputeDailyStats(
	ctx context.Context,
	window Window,
	username string,
) (_ []AggregateRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "stats.engine.computeDailyStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("username", username),
		attribute.String("window.start", window.Start.String()),
		attribute.String("window.end", window.End.String()),
	)

	metTable, err := e.resolver.LoadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReferenceLoad, err)
	}

	records, err := e.exercisesRepo.ListAll(ctx, exercises.ListParams{
		Username: username,
		From:     &window.Start,
		To:       &window.End,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordQuery, err)
	}

	groups := make(map[groupKey]*AggregateRow)
	for _, ex := range records {
		if !window.Contains(ex.Date) || (username != "" && ex.Username != username) {
			continue
		}

		met, ok := metTable.Lookup(ex.ExerciseType, ex.SubActivity)
		if !ok {
			met = e.calorieConfig.DefaultMET
		}

		key := groupKey{exerciseType: ex.ExerciseType}
		if ex.SubActivity != nil {
			key.subActivity = *ex.SubActivity
			key.hasSubActivity = true
		}

		row, ok := groups[key]
		if !ok {
			row = &AggregateRow{ExerciseType: ex.ExerciseType}
			if key.hasSubActivity {
				subActivity := key.subActivity
				row.SubActivity = &subActivity
			}
			groups[key] = row
		}

		row.TotalDuration += ex.Duration
		row.TotalCalories += Calories(met, e.calorieConfig.BodyWeightKg, ex.Duration)
		row.Count++
	}

	rows := make([]AggregateRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return lessRow(rows[i], rows[j])
	})

	span.SetAttributes(
		attribute.Int("records", len(records)),
		attribute.Int("groups", len(rows)),
	)
	log.Tracef("daily stats for [%s] in [%s, %s): %d records, %d groups", username, window.Start, window.End, len(records), len(rows))

	return rows, nil
}

func lessRow(a, b AggregateRow) bool {
	if a.ExerciseType != b.ExerciseType {
		return a.ExerciseType < b.ExerciseType
	}
	if a.SubActivity == nil || b.SubActivity == nil {
		return a.SubActivity == nil && b.SubActivity != nil
	}
	return *a.SubActivity < *b.SubActivity
}
