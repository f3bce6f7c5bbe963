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
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/fittrackapp/backend/internal/auth"
	"github.com/fittrackapp/backend/internal/config"
	"github.com/fittrackapp/backend/internal/db"
	"github.com/fittrackapp/backend/internal/middleware"
	"github.com/fittrackapp/backend/internal/objectstore"
	"github.com/fittrackapp/backend/internal/profile"
	"github.com/fittrackapp/backend/internal/profileview"
	"github.com/fittrackapp/backend/internal/progress"
	"github.com/fittrackapp/backend/internal/telemetry/metrics"
	"github.com/fittrackapp/backend/internal/telemetry/tracing"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	gateway     *auth.Gateway
	objectStore *objectstore.Store

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config         *config.Config
	RedisPassword  string
	MinioAccessKey string
	MinioSecretKey string
	VersionInfo    string
	TracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "fittrack_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	gateway := auth.NewGateway(
		auth.NewUsersRepo(dbPool),
		auth.DefaultSessionTTL,
		rdb,
	)
	go func() {
		for range time.Tick(time.Hour * 8) {
			gateway.ScanAndClean(ctx)
		}
	}()

	otelShutdown, err := tracing.Setup(params.TracingEnabled, "fittrack-backend", rdb)
	if err != nil {
		return nil, err
	}

	objectStore, err := objectstore.NewStore(objectstore.NewStoreParams{
		Endpoint:        params.Config.MinioEndpoint,
		AccessKeyID:     params.MinioAccessKey,
		SecretAccessKey: params.MinioSecretKey,
		Bucket:          params.Config.MinioBucket,
		PublicBaseURL:   params.Config.MinioPublicBaseURL,
		UseSSL:          params.Config.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("new object store: %w", err)
	}

	return &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		redisClient: rdb,

		gateway:     gateway,
		objectStore: objectStore,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	authHandler := auth.NewHandler(s.gateway)
	r.HandleFunc("/auth/login", authHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/auth/signup", authHandler.HandleSignup).Methods("POST", "OPTIONS").Name("signup")
	r.HandleFunc("/auth/logout", authHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")

	profileService := profile.NewService(
		profile.NewRepo(s.dbPool),
		s.objectStore,
		s.gateway,
	)
	profileHandler := profile.NewHandler(profileService, s.metricsManager)
	r.HandleFunc("/profile", profileHandler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", profileHandler.HandleUpsertProfile).Methods("POST", "OPTIONS").Name("upsert-profile")
	r.HandleFunc("/profile/metrics", profileHandler.HandleGetMetrics).Methods("GET", "OPTIONS").Name("get-metrics")
	r.HandleFunc("/profile/metrics", profileHandler.HandleSaveMetrics).Methods("POST", "OPTIONS").Name("save-metrics")
	r.HandleFunc("/profile/avatar", profileHandler.HandleUploadAvatar).Methods("POST", "OPTIONS").Name("upload-avatar")

	progressService := progress.NewService(
		progress.NewRepo(s.dbPool),
		s.objectStore,
		s.metricsManager,
	)
	progressHandler := progress.NewHandler(progressService, s.metricsManager)
	r.HandleFunc("/progress/daily", progressHandler.HandleDailyProgress).Methods("GET", "OPTIONS").Name("daily-progress")
	r.HandleFunc("/progress/weekly", progressHandler.HandleWeeklyProgress).Methods("GET", "OPTIONS").Name("weekly-progress")
	r.HandleFunc("/progress/monthly", progressHandler.HandleMonthlyProgress).Methods("GET", "OPTIONS").Name("monthly-progress")
	r.HandleFunc("/progress/photos", progressHandler.HandleListPhotos).Methods("GET", "OPTIONS").Name("list-photos")
	r.HandleFunc("/progress/photos", progressHandler.HandleUploadPhoto).Methods("POST", "OPTIONS").Name("upload-photo")
	r.HandleFunc("/progress/photos", progressHandler.HandleDeletePhotos).Methods("DELETE", "OPTIONS").Name("delete-photos")
	r.HandleFunc("/progress/photos/{id}", progressHandler.HandleUpdatePhoto).Methods("PUT", "OPTIONS").Name("update-photo")
	r.HandleFunc("/progress/exercise/{exerciseId}/history", progressHandler.HandleExerciseHistory).Methods("GET", "OPTIONS").Name("exercise-history")

	overviewHandler := profileview.NewHandler(profileService, progressService)
	r.HandleFunc("/profile/overview", overviewHandler.HandleOverview).Methods("GET", "OPTIONS").Name("profile-overview")

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fittrack backend"))
	}).Methods("GET").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s.versionInfo))
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.gateway)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(allowedOrigins...))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

var allowedOrigins = []string{
	"https://app.fittrack.test",
	"https://fittrack.test",
	"http://localhost:3000",
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}
