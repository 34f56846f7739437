package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/archsim/archsim-backend/config"
	cronjob "github.com/archsim/archsim-backend/internal/architecture_evaluation/cron"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/heuristics"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/repository"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/rules"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/service"
	appauth "github.com/archsim/archsim-backend/internal/auth"
	"github.com/archsim/archsim-backend/internal/bootstrap"
	"github.com/archsim/archsim-backend/internal/storage/postgres"
)

const serviceName = "archsim-evaluation"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := rules.LoadFile(cfg.Evaluation.RulesFile)
	if err != nil {
		log.Fatalf("rules: %v", err)
	}
	weights, err := heuristics.LoadWeightsFile(cfg.Evaluation.WeightsFile)
	if err != nil {
		log.Fatalf("weights: %v", err)
	}
	log.Printf("[info] loaded rules=%d weights=%v", len(engine.AllRules()), weights)

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()
	catalogRepo := repository.NewCatalogRepository(rdb)

	deps := service.ArchitectureDeps{
		Catalog:   catalogRepo,
		Evaluator: evaluation.NewEvaluator(engine, weights),
		Cache:     repository.NewReportCache(rdb, cfg.Redis.ReportTTL),
	}

	routerDeps := bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Redis:          rdb,
	}

	if cfg.PersistenceEnabled() {
		pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()

		sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("history db: %v", err)
		}
		defer sqlDB.Close()

		deps.Store = repository.NewArchitectureRepository(pool)
		deps.History = repository.NewHistoryRepository(sqlDB)
		routerDeps.DB = pool
	} else {
		log.Println("[warn] DB_DSN not set, architectures and history are kept in memory")
		deps.Store = repository.NewMemoryArchitectureRepository()
		deps.History = repository.NewMemoryHistoryRepository()
	}

	var authClient *auth.Client
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = appauth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
	} else {
		log.Println("[warn] FIREBASE_CREDENTIALS_PATH not set, trusting X-User-Id")
	}
	routerDeps.Auth = authClient

	archs := service.NewArchitectureService(deps)
	routerDeps.Catalog = service.NewCatalogService(catalogRepo, engine)
	routerDeps.Architectures = archs

	scheduler := cronjob.NewScheduler(archs)
	if err := scheduler.Start(cfg.Evaluation.ReevaluateCron); err != nil {
		log.Fatalf("cron: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(routerDeps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[info] %s %s listening on %s", serviceName, cfg.App.Version, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[info] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[error] shutdown: %v", err)
	}
}
