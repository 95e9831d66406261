package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/food_storefront/internal/admin"
	"github.com/Skotchmaster/food_storefront/internal/cart"
	"github.com/Skotchmaster/food_storefront/internal/catalog"
	"github.com/Skotchmaster/food_storefront/internal/es"
	"github.com/Skotchmaster/food_storefront/internal/events"
	"github.com/Skotchmaster/food_storefront/internal/httpserver"
	"github.com/Skotchmaster/food_storefront/internal/identity"
	"github.com/Skotchmaster/food_storefront/internal/orders"
	"github.com/Skotchmaster/food_storefront/internal/payments"
	"github.com/Skotchmaster/food_storefront/internal/seed"
	"github.com/Skotchmaster/food_storefront/internal/session"
	"github.com/Skotchmaster/food_storefront/internal/users"
	"github.com/Skotchmaster/food_storefront/pkg/config"
	"github.com/Skotchmaster/food_storefront/pkg/db"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	config.MustMinBytes(cfg.SessionSecret, 32, "SESSION_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err == nil {
		err = seed.Migrate(initCtx, gdb)
	}
	if err == nil && cfg.SeedMockData {
		err = seed.Seed(initCtx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	userRepo := &users.GormRepo{DB: gdb}
	catalogRepo := &catalog.GormRepo{DB: gdb}
	orderRepo := &orders.GormRepo{DB: gdb}

	var cartStore cart.Store = &cart.GormStore{DB: gdb}
	var guard orders.Guard = orders.NewLocalGuard()
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		cartStore = &cart.RedisStore{Client: rdb, TTL: 7 * 24 * time.Hour}
		guard = &orders.RedisGuard{Client: rdb, TTL: orders.LockTTL(cfg.SettlementDelay)}
		logger.Info("redis_enabled", "addr", cfg.RedisAddr)
	}

	catalogSvc := &catalog.Service{Repo: catalogRepo}
	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		searcher := &catalog.ESSearcher{Client: client, Index: cfg.ESIndex}
		catalogSvc.Search = searcher
		catalogSvc.Index = searcher
		if n, err := catalog.Reindex(ctx, catalogRepo, searcher); err != nil {
			logger.Warn("reindex_failed", "error", err)
		} else {
			logger.Info("reindex_done", "restaurants", n)
		}
	}

	cartSvc := &cart.Service{Store: cartStore, Menu: catalogRepo, Events: publisher}
	paymentSvc := &payments.Service{Repo: &payments.GormRepo{DB: gdb}}
	userSvc := &users.Service{Repo: userRepo}
	orderSvc := &orders.Service{
		Repo:        orderRepo,
		Carts:       cartSvc,
		Payments:    paymentSvc,
		Restaurants: catalogRepo,
		Settler:     orders.SimulatedSettler{Delay: cfg.SettlementDelay},
		Guard:       guard,
		Events:      publisher,
	}

	idSvc := &identity.Service{
		Directory: userRepo,
		Codec:     session.NewCodec(cfg.SessionSecret, cfg.SessionTTL, cfg.ServiceName),
		Events:    publisher,
		DemoLogin: cfg.DemoLogin,
	}
	idSvc.OnLogout(cartSvc.OnLogout)
	if cfg.DemoLogin {
		logger.Warn("demo_login_enabled", "reason", "any password is accepted for a known email")
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	httpserver.UseMiddleware(e, logger, httpserver.CSRFConfig(cfg.CookieSecure))

	httpserver.Register(e, &httpserver.Deps{
		DB:              gdb,
		Identity:        idSvc,
		Session:         httpserver.SessionConfig{Secure: cfg.CookieSecure, TTL: cfg.SessionTTL},
		AuthHandler:     &httpserver.AuthHTTP{},
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: catalogSvc},
		CartHandler:     &httpserver.CartHTTP{Svc: cartSvc},
		OrdersHandler:   &httpserver.OrdersHTTP{Svc: orderSvc, Payments: paymentSvc},
		PaymentsHandler: &httpserver.PaymentsHTTP{Svc: paymentSvc},
		AdminHandler: &httpserver.AdminHTTP{
			Dashboard: &admin.Dashboard{
				Restaurants: admin.CounterFunc(catalogRepo.CountRestaurants),
				Dishes:      admin.CounterFunc(catalogRepo.CountMenuItems),
				Users:       admin.CounterFunc(userRepo.Count),
				Orders:      orderRepo,
			},
			Catalog: catalogSvc,
			Users:   userSvc,
			Orders:  orderSvc,
		},
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		logger.Info("server_starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("server_stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown_failed", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("publisher_close_failed", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server_stopped")
}
