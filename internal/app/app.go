package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/auth"
	healthcheck "github.com/vladislavdragonenkov/crm/internal/health"
	"github.com/vladislavdragonenkov/crm/internal/httpapi"
	"github.com/vladislavdragonenkov/crm/internal/redisx"
	"github.com/vladislavdragonenkov/crm/internal/service/catalog"
	"github.com/vladislavdragonenkov/crm/internal/service/customer"
	"github.com/vladislavdragonenkov/crm/internal/service/identity"
	"github.com/vladislavdragonenkov/crm/internal/service/inventory"
	"github.com/vladislavdragonenkov/crm/internal/service/order"
	"github.com/vladislavdragonenkov/crm/internal/service/report"
	"github.com/vladislavdragonenkov/crm/internal/version"
)

// Run поднимает API-сервер и сервер метрик и блокируется до остановки.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	repos, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	// Kafka опционален: при недоступности продолжаем без событий
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	cache := initRedis(ctx, cfg.RedisAddr, logger)
	defer func() {
		if cache != nil {
			_ = cache.Close()
		}
	}()

	tokens := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)
	resolver := auth.NewResolver(tokens, logger.WithField("layer", "auth"))

	svcLogger := logger.WithField("layer", "service")
	ledger := inventory.NewLedgerWithKafka(repos.Products, kafkaProducer, svcLogger)

	services := httpapi.Services{
		Identity: identity.NewService(repos.Sellers, tokens, svcLogger),
		Catalog:  catalog.NewService(repos.Products, svcLogger),
		Customer: customer.NewService(repos.Customers, svcLogger),
		Order:    order.NewServiceWithKafka(repos.Orders, repos.Customers, repos.Products, ledger, kafkaProducer, svcLogger),
		Report:   newReportService(repos, cache, svcLogger),
	}

	healthHandler := healthcheck.NewHandler(version.Version())
	if repos.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewPingChecker("postgres", repos.Store, 0))
	}
	if cache != nil {
		healthHandler.RegisterChecker("redis", healthcheck.NewPingChecker("redis", redisPinger{rdb: cache}, 0))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(resolver, services),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("API сервер слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем API сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func newReportService(repos *Repositories, cache *redis.Client, logger *log.Entry) *report.Service {
	if cache != nil {
		return report.NewServiceWithCache(repos.Orders, repos.Customers, repos.Sellers, cache, logger)
	}
	return report.NewService(repos.Orders, repos.Customers, repos.Sellers, logger)
}

// redisPinger адаптирует redis-клиент к health-проверке.
type redisPinger struct {
	rdb *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return redisx.Ping(ctx, p.rdb)
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
