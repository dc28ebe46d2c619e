package exercises

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitstats/internal/telemetry/metrics"
	"github.com/2beens/fitstats/internal/telemetry/tracing"
	"github.com/2beens/fitstats/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type AddExerciseResponse struct {
	Exercise
	CountToday int `json:"countToday"`
}

type Handler struct {
	repo           exercisesRepo
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewHandler(repo exercisesRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.add")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var exercise Exercise
	if err := json.NewDecoder(r.Body).Decode(&exercise); err != nil {
		log.Tracef("new exercise, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid exercise json", http.StatusBadRequest)
		return
	}

	if err := exercise.Validate(); err != nil {
		log.Tracef("new exercise, validate: %s", err)
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	exercise.Date = exercise.Date.UTC()
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = handler.now().UTC()
	}

	span.SetAttributes(
		attribute.String("username", exercise.Username),
		attribute.String("exercise_type", exercise.ExerciseType),
	)

	addedExercise, err := handler.repo.Add(ctx, exercise)
	if err != nil {
		log.Errorf("failed to add new exercise [%s], [%s]: %s", exercise.Username, exercise.ExerciseType, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterExercisesAdded.Inc()
	}

	todayMidnight := handler.now().UTC().Truncate(24 * time.Hour)
	tomorrowMidnight := todayMidnight.Add(24 * time.Hour)
	exercisesToday, err := handler.repo.ListAll(ctx, ListParams{
		Username: addedExercise.Username,
		From:     &todayMidnight,
		To:       &tomorrowMidnight,
	})
	if err != nil {
		// the record is stored, the count is only informative
		log.Errorf("failed to get exercises today for [%s]: %s", addedExercise.Username, err)
	}

	log.Debugf("new exercise added: [%s] %s for %s", addedExercise.ID, addedExercise.ExerciseType, addedExercise.Username)

	pkg.WriteJSON(w, AddExerciseResponse{
		Exercise:   *addedExercise,
		CountToday: len(exercisesToday),
	}, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	exercises, err := handler.repo.ListAll(ctx, ListParams{
		Username: r.URL.Query().Get("user"),
	})
	if err != nil {
		log.Errorf("failed to list exercises: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if exercises == nil {
		exercises = make([]Exercise, 0)
	}

	pkg.WriteJSON(w, exercises, http.StatusOK)
}
