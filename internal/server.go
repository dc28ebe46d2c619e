package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitstats/internal/config"
	"github.com/2beens/fitstats/internal/db"
	"github.com/2beens/fitstats/internal/fitstats/exercises"
	"github.com/2beens/fitstats/internal/fitstats/mets"
	"github.com/2beens/fitstats/internal/fitstats/stats"
	"github.com/2beens/fitstats/internal/middleware"
	"github.com/2beens/fitstats/internal/telemetry/metrics"
	"github.com/2beens/fitstats/internal/telemetry/tracing"
	"github.com/2beens/fitstats/pkg"
)

const maxRequestBodyBytes = 1 << 20

type exercisesStore interface {
	Add(ctx context.Context, exercise exercises.Exercise) (*exercises.Exercise, error)
	ListAll(ctx context.Context, params exercises.ListParams) ([]exercises.Exercise, error)
}

type activityMetsStore interface {
	ListActivityMets(ctx context.Context) (_ []mets.ActivityMets, undecodable int, err error)
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config

	// only one of these is set, depending on the store driver
	mongoClient *mongo.Client
	dbPool      *pgxpool.Pool

	exercisesRepo exercisesStore
	metsRepo      activityMetsStore
	storePinger   pinger

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	s := &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
	}

	var collectors []prometheus.Collector
	switch params.Config.StoreDriver {
	case config.StoreDriverMongo:
		mongoClient, err := db.NewMongoClient(ctx, db.NewMongoClientParams{
			URI: params.Config.MongoURI,
		})
		if err != nil {
			return nil, fmt.Errorf("new mongo client: %w", err)
		}
		database := mongoClient.Database(params.Config.MongoDBName)

		exercisesRepo := exercises.NewMongoRepo(database)
		if err := exercisesRepo.EnsureIndexes(ctx); err != nil {
			log.Warnf("failed to ensure exercises indexes: %s", err)
		}

		s.mongoClient = mongoClient
		s.exercisesRepo = exercisesRepo
		s.metsRepo = mets.NewMongoRepo(database)
		s.storePinger = db.MongoPinger{Client: mongoClient}
	case config.StoreDriverPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         params.Config.PostgresHost,
			DBPort:         params.Config.PostgresPort,
			DBName:         params.Config.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		if params.Config.PostgresApplySchema {
			if err := db.ApplySchema(ctx, dbPool); err != nil {
				return nil, err
			}
		}

		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": params.Config.PostgresDBName},
		))

		s.dbPool = dbPool
		s.exercisesRepo = exercises.NewPsqlRepo(dbPool)
		s.metsRepo = mets.NewPsqlRepo(dbPool)
		s.storePinger = dbPool
	default:
		return nil, fmt.Errorf("unknown store driver: [%s]", params.Config.StoreDriver)
	}

	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("fitstats", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	s.redisClient = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := s.redisClient.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitstats", s.redisClient)
	if err != nil {
		return nil, err
	}
	s.otelShutdown = otelShutdown

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitstats-router"))

	exercisesHandler := exercises.NewHandler(s.exercisesRepo, s.metricsManager)
	r.HandleFunc("/exercises/", exercisesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises/add/", exercisesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("add-exercise")

	metsHandler := mets.NewHandler(s.metsRepo)
	r.HandleFunc("/exercises/activities/", metsHandler.HandleListActivities).Methods("GET", "OPTIONS").Name("list-activities")

	resolver := mets.NewResolver(s.metsRepo, s.metricsManager)
	statsHandler := stats.NewHandler(
		stats.NewEngine(resolver, s.exercisesRepo, s.config.CalorieConfig()),
		stats.NewAnalyzer(s.exercisesRepo),
		s.metricsManager,
	)
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	statsHandler.SetupRoutes(r, middleware.RateLimit(
		reqRateLimiter,
		"stats",
		s.config.StatsRateLimitPerMin,
		s.metricsManager,
	))

	health := &healthHandler{
		components: map[string]pinger{
			s.config.StoreDriver: s.storePinger,
			"redis":              redisPinger{client: s.redisClient},
		},
	}
	r.HandleFunc("/healthz", health.HandleHealth).Methods("GET").Name("healthz")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, "Not found", http.StatusNotFound)
	})

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.LimitRequestBody(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.mongoClient != nil {
		if err := s.mongoClient.Disconnect(ctx); err != nil {
			log.Errorf("failed to disconnect mongo client: %s", err)
		}
		log.Debugln("mongo client disconnected")
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
