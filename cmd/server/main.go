package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"yt-blindpicks/internal/bootstrap"
	"yt-blindpicks/internal/config"
	"yt-blindpicks/internal/handlers"
	"yt-blindpicks/internal/middleware"
	"yt-blindpicks/internal/picks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger, logCloser, err := bootstrap.Logger(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("could not set up logging")
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("could not start")
	}
	defer comps.Close()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	h := handlers.New(
		comps.Engine,
		picks.NewService(comps.Store, cfg.PicksMax),
		asynqClient,
		handlers.Options{WatchHost: cfg.WatchHost, FetchDurations: cfg.SyncFetchDurations, PicksMax: cfg.PicksMax},
		logger,
	)
	limiter := middleware.NewRateLimiterMiddleware(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(h, cfg.SyncSecret, limiter, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Starting server on :%s (commit: %s)", cfg.Port, CommitSHA)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server failed")
	}
}

func newRouter(h *handlers.Handlers, secret string, limiter *middleware.RateLimiterMiddleware, logger logrus.FieldLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(middleware.Logging(logger)))

	public := func(f http.HandlerFunc) http.Handler {
		return limiter.Middleware(f)
	}
	guarded := func(f http.HandlerFunc) http.Handler {
		return limiter.Middleware(middleware.RequireSecret(secret)(f))
	}

	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
	r.Handle("/api/blindpicks", public(h.GetBlindPicks)).Methods(http.MethodGet)
	r.Handle("/api/playlist/add", guarded(h.AddPlaylist)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/api/playlist/syncAll", guarded(h.SyncAll)).Methods(http.MethodPost)
	r.Handle("/api/playlist/enqueue", guarded(h.EnqueuePlaylist)).Methods(http.MethodPost)

	return r
}
