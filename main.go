package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	domcart "example.com/shoppingcart/internal/domain/cart"
	domcustomer "example.com/shoppingcart/internal/domain/customer"
	domorder "example.com/shoppingcart/internal/domain/order"
	domproduct "example.com/shoppingcart/internal/domain/product"
	"example.com/shoppingcart/internal/infra/config"
	"example.com/shoppingcart/internal/infra/logger"
	"example.com/shoppingcart/internal/infra/persistence/dbtrace"
	"example.com/shoppingcart/internal/infra/persistence/mysql"
	"example.com/shoppingcart/internal/infra/persistence/postgres"
	"example.com/shoppingcart/internal/infra/security"
	"example.com/shoppingcart/internal/infra/tracing"
	httpapi "example.com/shoppingcart/internal/interface/http"
	authuc "example.com/shoppingcart/internal/usecase/auth"
	cartuc "example.com/shoppingcart/internal/usecase/cart"
	customeruc "example.com/shoppingcart/internal/usecase/customer"
	orderuc "example.com/shoppingcart/internal/usecase/order"
	productuc "example.com/shoppingcart/internal/usecase/product"
)

const serviceName = "shoppingcart"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// stores groups the repositories of one database driver.
type stores struct {
	customers domcustomer.Repository
	products  domproduct.Repository
	carts     domcart.Repository
	orders    domorder.Repository
	ping      func(ctx context.Context) error
	close     func()
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Service:     serviceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(log)

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}()

	dbtrace.SetSlowQueryLogging(cfg.SlowQuery, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	st, err := openStores(ctx, cfg, log, registry)
	if err != nil {
		return err
	}
	defer st.close()

	tokens := security.NewJWTService(cfg.JWTSecret, cfg.JWTExpiration)
	encoder := security.NewBcryptService(cfg.BcryptCost)

	api := httpapi.NewAPI(httpapi.Dependencies{
		AuthService:     authuc.NewService(st.customers, encoder, tokens),
		CustomerService: customeruc.NewService(st.customers, encoder, log),
		ProductService:  productuc.NewService(st.products),
		CartService:     cartuc.NewService(st.carts, st.customers, st.products, log),
		OrderService:    orderuc.NewService(st.orders, st.carts, st.customers, log),
		TokenService:    tokens,
		Logger:          log,
		Registry:        registry,
		ReadinessCheck:  st.ping,
		ServiceName:     serviceName,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", slog.String("addr", srv.Addr), slog.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer) (*stores, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, postgres.Config{
			DSN:             cfg.PostgresDSN,
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBConnMaxLifetime,
			MaxConnIdleTime: cfg.DBConnMaxIdleTime,
			ConnectAttempts: cfg.DBConnectAttempts,
			RetryWait:       cfg.DBConnectWait,
		}, log)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		reg.MustRegister(postgres.NewPoolStatsCollector(pool))

		return &stores{
			customers: postgres.NewCustomerRepository(pool),
			products:  postgres.NewProductRepository(pool),
			carts:     postgres.NewCartRepository(pool),
			orders:    postgres.NewOrderRepository(pool),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil

	default:
		db, err := mysql.Open(ctx, mysql.Config{
			DSN:             cfg.MySQLDSN,
			MaxOpenConns:    int(cfg.DBMaxConns),
			MaxIdleConns:    int(cfg.DBMinConns),
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnectAttempts: cfg.DBConnectAttempts,
			RetryWait:       cfg.DBConnectWait,
		}, log)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := mysql.Migrate(ctx, db, log); err != nil {
				db.Close()
				return nil, fmt.Errorf("migrate mysql: %w", err)
			}
		}
		reg.MustRegister(collectors.NewDBStatsCollector(db, serviceName))

		return &stores{
			customers: mysql.NewCustomerRepository(db),
			products:  mysql.NewProductRepository(db),
			carts:     mysql.NewCartRepository(db),
			orders:    mysql.NewOrderRepository(db),
			ping:      db.PingContext,
			close:     func() { _ = db.Close() },
		}, nil
	}
}
