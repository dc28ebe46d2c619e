package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/2beens/fitstats/internal/fitstats/exercises"
	"github.com/2beens/fitstats/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type ExerciseTotal struct {
	ExerciseType  string  `json:"exerciseType"`
	TotalDuration float64 `json:"totalDuration"`
}

type UserTotals struct {
	Username  string          `json:"username"`
	Exercises []ExerciseTotal `json:"exercises"`
}

// Analyzer computes duration totals over exercise records.
type Analyzer struct {
	exercisesRepo exercisesSource
}

func NewAnalyzer(exercisesRepo exercisesSource) *Analyzer {
	return &Analyzer{
		exercisesRepo: exercisesRepo,
	}
}

// UserTotals returns the total duration per exercise type for every user,
// or only for the given one when username is set.
func (a *Analyzer) UserTotals(ctx context.Context, username string) (_ []UserTotals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.userTotals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))

	records, err := a.exercisesRepo.ListAll(ctx, exercises.ListParams{
		Username: username,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordQuery, err)
	}

	user2records := make(map[string][]exercises.Exercise)
	for _, ex := range records {
		if username != "" && ex.Username != username {
			continue
		}
		user2records[ex.Username] = append(user2records[ex.Username], ex)
	}

	totals := make([]UserTotals, 0, len(user2records))
	for user, userRecords := range user2records {
		totals = append(totals, UserTotals{
			Username:  user,
			Exercises: totalsByType(userRecords),
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Username < totals[j].Username
	})

	return totals, nil
}

// WeeklyTotals returns the total duration per exercise type of a user within window.
func (a *Analyzer) WeeklyTotals(ctx context.Context, username string, window Window) (_ []ExerciseTotal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.weeklyTotals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("username", username),
		attribute.String("window.start", window.Start.String()),
		attribute.String("window.end", window.End.String()),
	)

	records, err := a.exercisesRepo.ListAll(ctx, exercises.ListParams{
		Username: username,
		From:     &window.Start,
		To:       &window.End,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordQuery, err)
	}

	inWindow := make([]exercises.Exercise, 0, len(records))
	for _, ex := range records {
		if ex.Username == username && window.Contains(ex.Date) {
			inWindow = append(inWindow, ex)
		}
	}

	return totalsByType(inWindow), nil
}

func totalsByType(records []exercises.Exercise) []ExerciseTotal {
	type2duration := make(map[string]float64)
	for _, ex := range records {
		type2duration[ex.ExerciseType] += ex.Duration
	}

	totals := make([]ExerciseTotal, 0, len(type2duration))
	for exType, duration := range type2duration {
		totals = append(totals, ExerciseTotal{
			ExerciseType:  exType,
			TotalDuration: duration,
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].ExerciseType < totals[j].ExerciseType
	})

	return totals
}
