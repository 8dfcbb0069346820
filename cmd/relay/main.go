package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/promptlane/relay/pkg/config"
	"github.com/promptlane/relay/pkg/httpserver"
	"github.com/promptlane/relay/pkg/logger"
	"github.com/promptlane/relay/pkg/redis"
	"github.com/promptlane/relay/pkg/script"
	"github.com/promptlane/relay/pkg/webhook"
	"github.com/promptlane/relay/pkg/worker"
)

type appConfig struct {
	Env           string `env:"APP_ENV" envDefault:"development"`
	TaskKind      string `env:"WORKER_KIND" envDefault:"webhook"` // webhook or script
	IngestURL     string `env:"WEBHOOK_INGEST_URL"`
	SigningSecret string `env:"WEBHOOK_SIGNING_SECRET"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("relay worker exited", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	var (
		appCfg    appConfig
		redisCfg  redis.Config
		workerCfg worker.Config
		httpCfg   httpserver.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&workerCfg)
	config.MustLoad(&httpCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Env, "relay"))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer client.Close()

	queue := worker.NewRedisQueue(client, workerCfg.QueueName)

	handler, err := buildHandler(appCfg, log)
	if err != nil {
		return err
	}

	w, err := worker.NewWorker(queue, handler,
		append(worker.FromConfig(workerCfg), worker.WithLogger(log))...)
	if err != nil {
		return fmt.Errorf("create worker: %w", err)
	}

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	r := chi.NewRouter()
	r.Get("/health/live", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(ctx, log, redis.Healthcheck(client)))
	r.Get("/status", statusHandler(w, queue, handler))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(w.Run(ctx))
	eg.Go(func() error { return srv.Run(ctx, r) })

	return eg.Wait()
}

func buildHandler(cfg appConfig, log *slog.Logger) (worker.TaskHandler, error) {
	switch cfg.TaskKind {
	case webhook.KindWebhook:
		if cfg.IngestURL == "" {
			return nil, fmt.Errorf("WEBHOOK_INGEST_URL is required for the webhook worker")
		}
		opts := []webhook.HandlerOption{webhook.WithHandlerLogger(log)}
		if cfg.SigningSecret != "" {
			opts = append(opts, webhook.WithSigningSecret(cfg.SigningSecret))
		}
		return webhook.NewHandler(cfg.IngestURL, opts...)
	case script.KindScript:
		return script.New(script.WithLogger(log)), nil
	default:
		return nil, fmt.Errorf("unknown worker kind %q", cfg.TaskKind)
	}
}

func statusHandler(w *worker.Worker, queue *worker.RedisQueue, handler worker.TaskHandler) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, hostname, pid := w.WorkerInfo()

		depth, err := queue.Len(r.Context())
		if err != nil {
			depth = -1
		}

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]any{
			"worker_id":   id,
			"hostname":    hostname,
			"pid":         pid,
			"task_kind":   handler.Kind(),
			"queue":       queue.Key(),
			"queue_depth": depth,
			"in_flight":   w.InFlight(),
		})
	}
}
