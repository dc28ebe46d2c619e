//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/fitstats/internal/fitstats/exercises"
	"github.com/2beens/fitstats/internal/fitstats/mets"
	"github.com/2beens/fitstats/internal/fitstats/stats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path string, body any) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) addExercise(ctx context.Context, exercise map[string]any) exercises.AddExerciseResponse {
	t := s.T()
	status, respBytes := s.doRequest(ctx, http.MethodPost, "/exercises/add/", exercise)
	require.Equal(t, http.StatusCreated, status, string(respBytes))

	var added exercises.AddExerciseResponse
	require.NoError(t, json.Unmarshal(respBytes, &added))
	return added
}

func (s *IntegrationTestSuite) TestHealthz() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status, respBytes := s.doRequest(ctx, http.MethodGet, "/healthz", nil)
	assert.Equal(s.T(), http.StatusOK, status)
	assert.JSONEq(s.T(), `{"status":"ok","components":{"mongo":"ok","redis":"ok"}}`, string(respBytes))
}

func (s *IntegrationTestSuite) TestActivities() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, respBytes := s.doRequest(ctx, http.MethodGet, "/exercises/activities/", nil)
	require.Equal(t, http.StatusOK, status)

	var activities []mets.ActivityMets
	require.NoError(t, json.Unmarshal(respBytes, &activities))
	// the undecodable seed document is not listed
	require.Len(t, activities, 5)
	assert.Equal(t, "Running", *activities[0].Activity)
	assert.Equal(t, "Select Intensity", activities[0].DropdownLabel)
	assert.Len(t, activities[0].SubActivityOptions, 3)
}

func (s *IntegrationTestSuite) TestDailyStats() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	username := "daily-" + uuid.NewString()

	added := s.addExercise(ctx, map[string]any{
		"username":     username,
		"exerciseType": "Running",
		"subActivity":  "Moderate",
		"description":  "morning run",
		"duration":     30,
		"date":         "2025-03-14T07:00:00Z",
	})
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, username, added.Username)

	s.addExercise(ctx, map[string]any{
		"username":     username,
		"exerciseType": "Running",
		"subActivity":  "Moderate",
		"duration":     15,
		"date":         "2025-03-14T23:59:59Z",
	})
	s.addExercise(ctx, map[string]any{
		"username":     username,
		"exerciseType": "Swimming",
		"duration":     60,
		"date":         "2025-03-14T12:00:00Z",
	})
	// next day, must not be counted
	s.addExercise(ctx, map[string]any{
		"username":     username,
		"exerciseType": "Running",
		"subActivity":  "Moderate",
		"duration":     100,
		"date":         "2025-03-15T00:00:00Z",
	})
	// another user on the same day
	s.addExercise(ctx, map[string]any{
		"username":     "other-" + uuid.NewString(),
		"exerciseType": "Running",
		"subActivity":  "Moderate",
		"duration":     100,
		"date":         "2025-03-14T10:00:00Z",
	})

	status, respBytes := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/stats/daily/?user=%s&date=2025-03-14", username), nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var resp stats.DailyStatsResponse
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	require.Len(t, resp.Stats, 2)

	running := resp.Stats[0]
	assert.Equal(t, "Running", running.ExerciseType)
	require.NotNil(t, running.SubActivity)
	assert.Equal(t, "Moderate", *running.SubActivity)
	assert.Equal(t, 2, running.Count)
	assert.Equal(t, float64(45), running.TotalDuration)
	assert.InDelta(t, 8.3*66*45/60, running.TotalCalories, 1e-9)

	// unknown activity, default MET of 1.0
	swimming := resp.Stats[1]
	assert.Equal(t, "Swimming", swimming.ExerciseType)
	assert.Nil(t, swimming.SubActivity)
	assert.Equal(t, 1, swimming.Count)
	assert.InDelta(t, 66.0, swimming.TotalCalories, 1e-9)

	// the same query gives the same answer
	status, again := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/stats/daily/?user=%s&date=2025-03-14", username), nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, string(respBytes), string(again))
}

func (s *IntegrationTestSuite) TestDailyStats_InvalidDate() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status, respBytes := s.doRequest(ctx, http.MethodGet, "/stats/daily/?date=yesterday", nil)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.JSONEq(s.T(), `{"error":"Invalid date format"}`, string(respBytes))
}

func (s *IntegrationTestSuite) TestWeeklyAndUserTotals() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	username := "weekly-" + uuid.NewString()
	for _, ex := range []map[string]any{
		{"exerciseType": "Cycling", "subActivity": "Fast", "duration": 40, "date": "2025-03-10T00:00:00Z"},
		{"exerciseType": "Cycling", "subActivity": "Slow", "duration": 20, "date": "2025-03-16T23:00:00Z"},
		{"exerciseType": "Gym", "subActivity": "Strength Training", "duration": 50, "date": "2025-03-12T18:00:00Z"},
		{"exerciseType": "Gym", "subActivity": "Strength Training", "duration": 35, "date": "2025-03-17T18:00:00Z"},
	} {
		ex["username"] = username
		s.addExercise(ctx, ex)
	}

	status, respBytes := s.doRequest(ctx, http.MethodGet,
		fmt.Sprintf("/stats/weekly/?user=%s&start=2025-03-10&end=2025-03-16", username), nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))
	assert.JSONEq(t, `{"stats":[
		{"exerciseType":"Cycling","totalDuration":60},
		{"exerciseType":"Gym","totalDuration":50}
	]}`, string(respBytes))

	status, respBytes = s.doRequest(ctx, http.MethodGet, "/stats/"+username, nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))
	assert.JSONEq(t, fmt.Sprintf(`{"stats":[{"username":"%s","exercises":[
		{"exerciseType":"Cycling","totalDuration":60},
		{"exerciseType":"Gym","totalDuration":85}
	]}]}`, username), string(respBytes))

	status, respBytes = s.doRequest(ctx, http.MethodGet,
		fmt.Sprintf("/stats/weekly/?user=%s&start=2025-03-16&end=2025-03-10", username), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Invalid date format"}`, string(respBytes))
}

func (s *IntegrationTestSuite) TestAddExercise_Invalid() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status, respBytes := s.doRequest(ctx, http.MethodPost, "/exercises/add/", map[string]any{
		"exerciseType": "Running",
		"duration":     -5,
	})
	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Contains(s.T(), string(respBytes), "username (required)")
}
