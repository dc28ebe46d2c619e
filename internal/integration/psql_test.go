//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/fitstats/internal/config"
	"github.com/2beens/fitstats/internal/db"
	"github.com/2beens/fitstats/internal/fitstats/exercises"
	"github.com/2beens/fitstats/internal/fitstats/mets"
	"github.com/2beens/fitstats/internal/fitstats/stats"
	"github.com/2beens/fitstats/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) seedPostgresActivityMets() {
	t := s.T()
	for _, doc := range referenceActivityMets() {
		optionsJson, err := json.Marshal(doc.SubActivityOptions)
		require.NoError(t, err)
		_, err = s.DB.Exec(
			`INSERT INTO activity_mets (activity, dropdown_label, sub_activity_options) VALUES ($1, $2, $3)`,
			*doc.Activity, doc.DropdownLabel, string(optionsJson),
		)
		require.NoError(t, err)
	}

	// options are not a list
	_, err := s.DB.Exec(
		`INSERT INTO activity_mets (activity, dropdown_label, sub_activity_options) VALUES ($1, $2, $3)`,
		"Broken", "Broken", `"oops"`,
	)
	require.NoError(t, err)
	// no activity name
	_, err = s.DB.Exec(
		`INSERT INTO activity_mets (dropdown_label, sub_activity_options) VALUES ($1, $2)`,
		"Nameless", `[{"name": "Slow", "met": 3}]`,
	)
	require.NoError(t, err)
}

func (s *IntegrationTestSuite) TestPostgresStore() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	t := s.T()

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: "localhost",
		DBPort: s.postgresPort,
		DBName: testPostgresDBName,
	})
	require.NoError(t, err)
	defer pool.Close()

	// schema is already there, applying it again must be a no-op
	require.NoError(t, db.ApplySchema(ctx, pool))

	s.seedPostgresActivityMets()

	metricsManager := metrics.NewTestManager()
	metsRepo := mets.NewPsqlRepo(pool)
	resolver := mets.NewResolver(metsRepo, metricsManager)

	table, err := resolver.LoadTable(ctx)
	require.NoError(t, err)
	assert.Len(t, table, 15)
	assert.Equal(t, 8.3, table[mets.Key{Activity: "Running", SubActivity: "Moderate"}])
	assert.Equal(t, 2.5, table[mets.Key{Activity: "Home", SubActivity: "Stretching / Yoga"}])
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterMalformedMetEntries))

	exercisesRepo := exercises.NewPsqlRepo(pool)
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	for _, ex := range []exercises.Exercise{
		{Username: "pg-ana", ExerciseType: "Walking", SubActivity: strPtr("Fast"), Duration: 40, Date: day.Add(6 * time.Hour)},
		{Username: "pg-ana", ExerciseType: "Walking", SubActivity: strPtr("Fast"), Duration: 20, Date: day.Add(20 * time.Hour)},
		{Username: "pg-ana", ExerciseType: "Home", SubActivity: strPtr("Household Chores"), Duration: 90, Date: day.Add(10 * time.Hour)},
		{Username: "pg-ana", ExerciseType: "Walking", SubActivity: strPtr("Fast"), Duration: 999, Date: day.Add(24 * time.Hour)},
		{Username: "pg-bob", ExerciseType: "Walking", SubActivity: strPtr("Fast"), Duration: 999, Date: day.Add(time.Hour)},
	} {
		added, err := exercisesRepo.Add(ctx, ex)
		require.NoError(t, err)
		require.NotEmpty(t, added.ID)
	}

	window := stats.DayWindow(day)
	listed, err := exercisesRepo.ListAll(ctx, exercises.ListParams{
		Username: "pg-ana",
		From:     &window.Start,
		To:       &window.End,
	})
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, time.UTC, listed[0].Date.Location())

	engine := stats.NewEngine(resolver, exercisesRepo, config.CalorieConfig{
		BodyWeightKg: config.DefaultBodyWeightKg,
		DefaultMET:   config.DefaultMET,
	})
	rows, err := engine.ComputeDailyStats(ctx, window, "pg-ana")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Home", rows[0].ExerciseType)
	assert.Equal(t, 1, rows[0].Count)
	assert.InDelta(t, 3.0*66*90/60, rows[0].TotalCalories, 1e-9)

	assert.Equal(t, "Walking", rows[1].ExerciseType)
	assert.Equal(t, 2, rows[1].Count)
	assert.Equal(t, float64(60), rows[1].TotalDuration)
	assert.InDelta(t, 4.5*66*60/60, rows[1].TotalCalories, 1e-9)
}
