package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"intake/internal/allocation"
	"intake/internal/application/adapters"
	"intake/internal/application/handler"
	appmetrics "intake/internal/application/metrics"
	"intake/internal/application/service"
	appmemory "intake/internal/application/store/memory"
	apppostgres "intake/internal/application/store/postgres"
	appredis "intake/internal/application/store/redis"
	"intake/internal/platform/config"
	"intake/internal/platform/httpserver"
	"intake/internal/platform/kafka"
	"intake/internal/platform/logger"
	"intake/internal/platform/metrics"
	"intake/internal/platform/middleware"
	"intake/internal/platform/postgres"
	"intake/internal/platform/redis"
	"intake/internal/referencedata"
	"intake/internal/wizard/section"
	"intake/pkg/platform/audit"
	"intake/pkg/platform/audit/publisher"
	kafkasink "intake/pkg/platform/audit/sink/kafka"
	auditmemory "intake/pkg/platform/audit/store/memory"
	auditpostgres "intake/pkg/platform/audit/store/postgres"
	"intake/pkg/platform/circuit"
	"intake/pkg/platform/httputil"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 15 * time.Minute
)

// infra holds the optional backing services. Each is nil when unconfigured.
type infra struct {
	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client
}

func (i *infra) close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	auditor := buildAuditPublisher(cfg, deps, log)
	defer auditor.Close()

	store, sweeper := buildStore(cfg, deps)

	backend, err := buildBackend(cfg)
	if err != nil {
		return err
	}

	refs, err := buildReferenceData(cfg, deps, log)
	if err != nil {
		return err
	}

	svc, err := service.New(store, backend, refs,
		service.WithLogger(log),
		service.WithAuditPublisher(auditor),
		service.WithMetrics(appmetrics.New()),
		service.WithJurisdiction(cfg.Wizard.Jurisdiction),
		service.WithRoundingStrategy(allocation.ParseStrategy(cfg.Wizard.Rounding)),
		service.WithRelockPolicy(section.ParseRelockPolicy(cfg.Wizard.SectionRelock)),
		service.WithRejectUnresolved(cfg.Wizard.RejectUnresolved),
	)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestContext)
	router.Use(middleware.Logger(log))
	router.Use(chimw.Recoverer)
	router.Use(metrics.New().Middleware)
	router.Get("/healthz", healthHandler(deps))
	router.Handle("/metrics", promhttp.Handler())
	handler.New(svc, log).Register(router)

	srv := httpserver.New(cfg.Addr, otelhttp.NewHandler(router, "intake"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting intake server", "addr", cfg.Addr, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down intake server")
		return srv.Shutdown(shutdownCtx)
	})
	if sweeper != nil {
		g.Go(func() error {
			sweepExpired(gctx, sweeper, log)
			return nil
		})
	}
	return g.Wait()
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	deps := &infra{}
	var err error
	if cfg.Postgres.URL != "" {
		if deps.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
			return nil, err
		}
		if err = postgres.Migrate(ctx, deps.db); err != nil {
			deps.close()
			return nil, err
		}
	}
	if deps.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		deps.close()
		return nil, err
	}
	if deps.kafka, err = kafka.New(cfg.Kafka); err != nil {
		deps.close()
		return nil, err
	}
	if deps.kafka != nil {
		if err := kafka.EnsureTopic(ctx, deps.kafka, cfg.Kafka.AuditTopic, cfg.Kafka.Partitions); err != nil {
			log.Warn("audit topic not provisioned", "topic", cfg.Kafka.AuditTopic, "error", err)
		}
	}
	return deps, nil
}

func buildAuditPublisher(cfg config.Config, deps *infra, log *slog.Logger) *publisher.Publisher {
	var store audit.Store = auditmemory.NewInMemoryStore()
	if deps.db != nil {
		store = auditpostgres.New(deps.db)
	}
	opts := []publisher.Option{
		publisher.WithAsyncBuffer(cfg.Audit.AsyncBuffer),
		publisher.WithSampler(publisher.NewSampler(cfg.Audit.OpsSampleRate)),
		publisher.WithMetrics(publisher.NewMetrics(prometheus.DefaultRegisterer)),
		publisher.WithLogger(log),
	}
	if deps.kafka != nil {
		opts = append(opts, publisher.WithSink(kafkasink.New(deps.kafka, cfg.Kafka.AuditTopic)))
	}
	return publisher.NewPublisher(store, opts...)
}

type expirySweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

func buildStore(cfg config.Config, deps *infra) (service.Store, expirySweeper) {
	switch cfg.Store {
	case config.StorePostgres:
		s := apppostgres.New(deps.db, apppostgres.WithTTL(cfg.SessionTTL))
		return s, s
	case config.StoreRedis:
		return appredis.New(deps.redis.Client, cfg.SessionTTL), nil
	default:
		return appmemory.NewInMemoryStore(appmemory.WithTTL(cfg.SessionTTL)), nil
	}
}

func buildBackend(cfg config.Config) (service.Backend, error) {
	if cfg.Backend.URL == "" {
		return adapters.NewLocalBackend(), nil
	}
	return adapters.NewHTTPBackend(cfg.Backend.URL, adapters.WithTimeout(cfg.Backend.Timeout))
}

func buildReferenceData(cfg config.Config, deps *infra, log *slog.Logger) (*referencedata.Service, error) {
	var source referencedata.Source = referencedata.StaticSource{Snapshot: referencedata.Default()}
	if cfg.Backend.URL != "" {
		remote, err := adapters.NewReferenceSource(cfg.Backend.URL,
			adapters.WithReferenceTimeout(cfg.Backend.Timeout),
			adapters.WithBreaker(circuit.New("reference_data", circuit.WithFailureThreshold(cfg.Backend.FailureThreshold))),
			adapters.WithReferenceLogger(log),
		)
		if err != nil {
			return nil, err
		}
		source = remote
	}

	var cache referencedata.Cache = referencedata.NewInMemoryCache(cfg.Reference.CacheTTL)
	if deps.redis != nil {
		cache = referencedata.NewRedisCache(deps.redis.Client, cfg.Reference.CacheTTL)
	}
	return referencedata.NewService(source, referencedata.WithLogger(log), referencedata.WithCache(cache)), nil
}

func healthHandler(deps *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		checks := map[string]string{}
		if deps.db != nil {
			checks["postgres"] = "ok"
			if err := deps.db.PingContext(ctx); err != nil {
				checks["postgres"], status = err.Error(), http.StatusServiceUnavailable
			}
		}
		if deps.redis != nil {
			checks["redis"] = "ok"
			if err := deps.redis.Health(ctx); err != nil {
				checks["redis"], status = err.Error(), http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": checks})
	}
}

func sweepExpired(ctx context.Context, sweeper expirySweeper, log *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sweeper.DeleteExpired(ctx)
			if err != nil {
				log.Warn("expired session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("expired sessions removed", "count", n)
			}
		}
	}
}
