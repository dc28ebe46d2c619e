package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/fitstats/internal/telemetry/metrics"
	"github.com/2beens/fitstats/internal/telemetry/tracing"
	"github.com/2beens/fitstats/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=stats_handler_mocks_test.go -package=stats_test

type dailyStatsEngine interface {
	ComputeDailyStats(ctx context.Context, window Window, username string) ([]AggregateRow, error)
}

type DailyStatsResponse struct {
	Stats []AggregateRow `json:"stats"`
}

type UserTotalsResponse struct {
	Stats []UserTotals `json:"stats"`
}

type WeeklyTotalsResponse struct {
	Stats []ExerciseTotal `json:"stats"`
}

type Handler struct {
	engine         dailyStatsEngine
	analyzer       *Analyzer
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewHandler(engine dailyStatsEngine, analyzer *Analyzer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		engine:         engine,
		analyzer:       analyzer,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// SetupRoutes registers the stats routes; wrap is applied to every one of them (e.g. rate limiting).
func (handler *Handler) SetupRoutes(r *mux.Router, wrap func(next http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}
	route := func(path, name string, h http.HandlerFunc) {
		r.Handle(path, wrap(h)).Methods("GET", "OPTIONS").Name(name)
	}

	route("/stats", "stats", handler.HandleUserTotals)
	route("/stats/", "stats-slash", handler.HandleUserTotals)
	route("/stats/weekly/", "weekly-stats", handler.HandleWeeklyTotals)
	route("/stats/daily/", "daily-stats", handler.HandleDailyStats)
	route("/stats/{username}", "user-stats", handler.HandleUserTotals)
}

// HandleDailyStats serves the estimated calories per exercise group for one UTC day.
// Query params: user (optional, all users when empty), date (optional YYYY-MM-DD, today by default).
func (handler *Handler) HandleDailyStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.daily")
	defer span.End()

	username := r.URL.Query().Get("user")

	window := DayWindow(handler.now())
	if date := r.URL.Query().Get("date"); date != "" {
		var err error
		if window, err = ParseDay(date); err != nil {
			pkg.WriteJSONError(w, "Invalid date format", http.StatusBadRequest)
			return
		}
	}

	begin := time.Now()
	rows, err := handler.engine.ComputeDailyStats(ctx, window, username)
	handler.observe(metrics.KindDaily, begin, err)
	if err != nil {
		log.Errorf("compute daily stats for [%s], window [%s, %s): %s", username, window.Start, window.End, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if rows == nil {
		rows = make([]AggregateRow, 0)
	}

	pkg.WriteJSON(w, DailyStatsResponse{Stats: rows}, http.StatusOK)
}

// HandleWeeklyTotals serves duration totals per exercise type of a user.
// Query params: user, start and end (inclusive, YYYY-MM-DD).
func (handler *Handler) HandleWeeklyTotals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.weekly")
	defer span.End()

	username := r.URL.Query().Get("user")
	if username == "" {
		pkg.WriteJSONError(w, "user is required", http.StatusBadRequest)
		return
	}

	window, err := ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		log.Tracef("weekly stats, parse dates: %s", err)
		pkg.WriteJSONError(w, "Invalid date format", http.StatusBadRequest)
		return
	}

	begin := time.Now()
	totals, err := handler.analyzer.WeeklyTotals(ctx, username, window)
	handler.observe(metrics.KindWeekly, begin, err)
	if err != nil {
		log.Errorf("compute weekly stats for [%s]: %s", username, err)
		pkg.WriteJSONError(w, "An internal error occurred", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, WeeklyTotalsResponse{Stats: totals}, http.StatusOK)
}

// HandleUserTotals serves duration totals per user and exercise type.
// The optional {username} path var limits the result to a single user.
func (handler *Handler) HandleUserTotals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.totals")
	defer span.End()

	username := mux.Vars(r)["username"]

	begin := time.Now()
	totals, err := handler.analyzer.UserTotals(ctx, username)
	handler.observe(metrics.KindTotals, begin, err)
	if err != nil {
		log.Errorf("compute user totals [%s]: %s", username, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, UserTotalsResponse{Stats: totals}, http.StatusOK)
}

func (handler *Handler) observe(kind string, begin time.Time, err error) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.HistogramStatsDuration.WithLabelValues(kind).Observe(time.Since(begin).Seconds())
	if err != nil {
		handler.metricsManager.CounterStatsFailures.WithLabelValues(kind).Inc()
	}
}
