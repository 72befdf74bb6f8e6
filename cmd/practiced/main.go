package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	api "github.com/examforge/practiced/internal/api/http"
	"github.com/examforge/practiced/internal/config"
	"github.com/examforge/practiced/internal/content"
	"github.com/examforge/practiced/internal/db"
	"github.com/examforge/practiced/internal/exam"
	"github.com/examforge/practiced/internal/session"
	"github.com/examforge/practiced/pkg/logger"
	"github.com/examforge/practiced/pkg/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	log := logger.Init(cfg.Debug, cfg.LogPath)
	defer log.Sync()

	monitoring.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Exam document ---
	src, err := content.NewFSSource(cfg.PracticesDir, cfg.ExamFile)
	if err != nil {
		log.Fatal("document source", zap.Error(err))
	}
	provider := content.NewExamProvider(src)

	// --- Session persistence + engine ---
	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatal("session store", zap.Error(err))
	}
	engine, err := session.NewEngine(ctx, store, provider, session.WithLogger(log))
	if err != nil {
		log.Fatal("session engine", zap.Error(err))
	}
	defer engine.Close()

	durationSeconds := int(exam.ExamDuration / time.Second)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(api.RequestLogger(log))
	r.Use(monitoring.Middleware)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/config", api.ConfigHandler(cfg.AppDomain, durationSeconds))
		ar.Get("/exam", api.GetExamHandler(provider, durationSeconds))
		ar.Post("/exam/score", api.ScoreExamHandler(provider))

		ar.Route("/session", func(sr chi.Router) {
			sr.Get("/", api.SessionStatusHandler(engine))
			sr.Post("/start", api.StartSessionHandler(engine))
			sr.Post("/answer", api.AnswerHandler(engine))
			sr.Post("/navigate", api.NavigateHandler(engine))
			sr.Post("/submit", api.SubmitSessionHandler(engine))
			sr.Post("/reset", api.ResetSessionHandler(engine))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Method(http.MethodGet, "/metrics", monitoring.Handler())

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("session_backend", cfg.SessionBackend),
			zap.String("exam_file", cfg.ExamFile))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

func buildStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return session.NewRedisStore(rdb, cfg.SessionNamespace), nil
	case "sqlite", "postgres":
		dbh, err := db.Open(ctx, db.Driver(cfg.SessionBackend), cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return session.NewSQLStore(dbh, cfg.SessionNamespace), nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.SessionBackend)
	}
}
