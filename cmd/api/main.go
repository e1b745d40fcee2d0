package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/refhub/referral-service/internal/api"
	"github.com/refhub/referral-service/internal/api/handler"
	"github.com/refhub/referral-service/internal/api/middleware"
	"github.com/refhub/referral-service/internal/core/ports"
	"github.com/refhub/referral-service/internal/core/service"
	"github.com/refhub/referral-service/internal/infrastructure/config"
	"github.com/refhub/referral-service/internal/infrastructure/db/mongo"
	"github.com/refhub/referral-service/internal/infrastructure/db/redis"
	"github.com/refhub/referral-service/internal/infrastructure/jobs"
	"github.com/refhub/referral-service/internal/infrastructure/queue"
	"github.com/refhub/referral-service/internal/infrastructure/storage"
	"github.com/refhub/referral-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var envFile string
	var seedAdmin bool

	flagSet := pflag.NewFlagSet("referral-api", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file merged into the environment before loading config")
	flagSet.BoolVar(&seedAdmin, "seed-admin", true, "create the ADMIN_EMAIL account at startup when missing")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, envconfig.OsLookuper())
	if err != nil {
		return err
	}
	logger.Init(loggerOptions(cfg))
	log := logger.Component("main")

	// ── Persistence ──────────────────────────────────────────────────────────
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "referral-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	accounts := mongo.NewAccountRepository(db)
	referrals := mongo.NewReferralRepository(db)
	activity := mongo.NewActivityRepository(db)
	if err := mongo.EnsureIndexes(ctx, accounts, referrals, activity); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	checks := map[string]handler.CheckFunc{
		"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
	}

	// Login throttling degrades to unlimited when Redis is unreachable.
	var loginLimiter middleware.Limiter
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, login rate limiting disabled")
	} else {
		defer closeRedis(rdb, log)
		loginLimiter = redis.NewRateLimiter(rdb, cfg.Login.RateLimit, cfg.Login.RateWindow, "ratelimit")
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	resumes, err := storage.NewResumeStore(storage.Config{
		URL:       cfg.Cloudinary.URL,
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Folder:    cfg.Cloudinary.Folder,
	}, logger.Component("storage"))
	if err != nil {
		return err
	}

	// ── Services ─────────────────────────────────────────────────────────────
	authService := service.NewAuthService(accounts, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	if seedAdmin && cfg.Admin.Email != "" {
		if _, err := authService.EnsureAdmin(ctx, ports.RegisterInput{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		}); err != nil {
			return err
		}
	}

	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, service.NewActivityService(activity, logger.Component("activity")), logger.Component("queue"))
	// Workers outlive the signal context so Close can drain pending records.
	dispatcher.Start(context.WithoutCancel(ctx))

	referralService := service.NewReferralService(service.ReferralDeps{
		Referrals:      referrals,
		Accounts:       accounts,
		Resumes:        resumes,
		Activity:       activity,
		Publisher:      dispatcher,
		MaxResumeBytes: cfg.MaxResumeBytes,
	}, logger.Component("referral"))

	gauge := jobs.NewStatusGauge(referrals, logger.Component("jobs"))
	scheduler, err := jobs.Schedule(cfg.Activity.StatusSchedule, gauge)
	if err != nil {
		return err
	}
	gauge.Run()
	scheduler.Start()

	// ── HTTP ─────────────────────────────────────────────────────────────────
	e := api.NewRouter(api.Dependencies{
		APIPrefix:      cfg.APIPrefix,
		CORSOrigins:    cfg.CORSOrigins,
		MaxResumeBytes: cfg.MaxResumeBytes,
		Auth:           authService,
		Referrals:      referralService,
		LoginLimiter:   loginLimiter,
		Checks:         checks,
		Registerer:     prometheus.DefaultRegisterer,
		Logger:         logger.Component("http"),
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	runErr := awaitStop(ctx, serveErr)
	if runErr != nil {
		log.Error().Err(runErr).Msg("server failed")
	} else {
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown incomplete")
	}
	<-scheduler.Stop().Done()
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("activity queue not drained")
	}

	log.Info().Msg("server stopped")
	return runErr
}

func loggerOptions(cfg *config.Config) logger.Options {
	return logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "referral-api",
	}
}

// awaitStop blocks until ctx is cancelled or the server exits, returning the
// server's error if it stopped on its own.
func awaitStop(ctx context.Context, serveErr <-chan error) error {
	select {
	case <-ctx.Done():
		return nil
	case err, ok := <-serveErr:
		if !ok {
			return errors.New("server exited unexpectedly")
		}
		return err
	}
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close failed")
	}
}
