package appcontext

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/config"
	"github.com/RoyceAzure/lab/pos/internal/infra/api"
	"github.com/RoyceAzure/lab/pos/internal/infra/metrics"
	"github.com/RoyceAzure/lab/pos/internal/infra/producer"
	"github.com/RoyceAzure/lab/pos/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/pos/internal/logger"
	"github.com/RoyceAzure/lab/pos/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// ApplicationContext 收銀與管理程式共用的依賴組裝
// redis, kafka, metrics 都是可選的, 未設定就不啟用
type ApplicationContext struct {
	Cf       *config.Config
	Logger   *zerolog.Logger
	Registry *prometheus.Registry
	Client   *api.Client

	Redis         *redis.Client
	CatalogMirror *redis_repo.CatalogSnapshotRepo
	CommandRepo   *redis_repo.CommandRepo
	OrderProducer *producer.OrderProducer

	CatalogService  *service.CatalogService
	HistoryService  *service.HistoryService
	CheckoutService *service.CheckoutService
	POSService      *service.POSService
	AdminService    *service.AdminService

	metricsServer *http.Server
	closers       []io.Closer
}

func NewApplicationContext(ctx context.Context, cf *config.Config, module string) (*ApplicationContext, error) {
	app := &ApplicationContext{Cf: cf, Registry: prometheus.NewRegistry()}
	if err := app.Init(ctx, module); err != nil {
		app.Shutdown(context.Background())
		return nil, err
	}
	return app, nil
}

func (app *ApplicationContext) Init(ctx context.Context, module string) error {
	if err := app.setUpLogger(module); err != nil {
		return err
	}
	app.setUpClient()
	if err := app.setUpRedis(ctx); err != nil {
		return err
	}
	app.setUpProducer()
	app.setUpServices()
	app.setUpMetricsServer()
	return nil
}

func (app *ApplicationContext) setUpLogger(module string) error {
	l, closer, err := logger.New(logger.Options{
		Module: module,
		Level:  app.Cf.LogLevel,
		Pretty: app.Cf.LogPretty,
		File:   app.Cf.LogFile,
	})
	if err != nil {
		return err
	}
	app.Logger = l
	app.closers = append(app.closers, closer)
	return nil
}

func (app *ApplicationContext) setUpClient() {
	app.Client = api.NewClient(app.Cf.APIBaseURL,
		api.WithTimeout(app.Cf.RequestTimeout),
		api.WithMetrics(metrics.NewRequestMetrics("client", app.Registry)),
		api.WithLogger(app.Logger),
	)
}

func (app *ApplicationContext) setUpRedis(ctx context.Context) error {
	if !app.Cf.RedisEnabled() {
		app.Logger.Info().Msg("redis disabled")
		return nil
	}
	rdb, err := redis_repo.GetRedisClient(ctx, app.Cf.RedisAddr,
		redis_repo.WithPassword(app.Cf.RedisPassword),
		redis_repo.WithDB(app.Cf.RedisDB),
	)
	if err != nil {
		return err
	}
	app.Redis = rdb
	app.CatalogMirror = redis_repo.NewCatalogSnapshotRepo(rdb, app.Cf.CatalogSnapshotTTL)
	app.CommandRepo = redis_repo.NewCommandRepo(rdb, app.Cf.CommandTTL)
	addr := app.Cf.RedisAddr
	app.closers = append(app.closers, closerFunc(func() error {
		return redis_repo.CloseRedisClient(addr)
	}))
	app.Logger.Info().Str("addr", app.Cf.RedisAddr).Msg("redis connected")
	return nil
}

func (app *ApplicationContext) setUpProducer() {
	if !app.Cf.KafkaEnabled() {
		app.Logger.Info().Msg("kafka disabled")
		return
	}
	w := producer.NewKafkaWriter(app.Cf.Brokers(), app.Cf.KafkaOrderTopic, app.Logger)
	app.OrderProducer = producer.NewOrderProducer(w)
	app.Logger.Info().Strs("brokers", app.Cf.Brokers()).Str("topic", app.Cf.KafkaOrderTopic).Msg("kafka producer ready")
}

func (app *ApplicationContext) setUpServices() {
	// 介面變數需避免 typed nil
	var mirror service.CatalogMirror
	if app.CatalogMirror != nil {
		mirror = app.CatalogMirror
	}
	var publisher service.OrderEventPublisher
	if app.OrderProducer != nil {
		publisher = app.OrderProducer
	}

	app.CatalogService = service.NewCatalogService(app.Client, mirror, app.Logger)
	app.HistoryService = service.NewHistoryService(app.Client)
	app.CheckoutService = service.NewCheckoutService(app.Client, publisher, app.Cf.DefaultCustomerName, app.Logger)
	app.POSService = service.NewPOSService(app.CatalogService, app.HistoryService, app.CheckoutService, app.Logger)
	app.AdminService = service.NewAdminService(app.CatalogService, app.Client, app.Logger)
}

func (app *ApplicationContext) setUpMetricsServer() {
	if app.Cf.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(app.Registry))
	app.metricsServer = &http.Server{Addr: app.Cf.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
}

// WarmStart 有 redis 時先用上次的快照填入目錄
func (app *ApplicationContext) WarmStart(ctx context.Context) {
	warmed, err := app.CatalogService.WarmStart(ctx)
	if err != nil && !errors.Is(err, redis_repo.ErrSnapshotNotFound) {
		app.Logger.Warn().Err(err).Msg("catalog warm start failed")
		return
	}
	if warmed {
		app.Logger.Info().Msg("catalog warm started")
	}
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	var errs []error
	if app.CheckoutService != nil {
		app.CheckoutService.Wait()
	}
	if app.OrderProducer != nil {
		errs = append(errs, app.OrderProducer.Close())
	}
	if app.metricsServer != nil {
		errs = append(errs, app.metricsServer.Shutdown(ctx))
	}
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i].Close())
	}
	return multierr.Combine(errs...)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
