package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/marketplace/internal/cache"
	"github.com/Skotchmaster/marketplace/internal/config"
	"github.com/Skotchmaster/marketplace/internal/db"
	"github.com/Skotchmaster/marketplace/internal/es"
	"github.com/Skotchmaster/marketplace/internal/httpserver"
	"github.com/Skotchmaster/marketplace/internal/imagestore"
	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/middleware/metrics"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/payment"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/service"
)

func main() {
	cfg := config.MustLoad(".env")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongo, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		cancel()
		log.Fatalf("mongo connect: %v", err)
	}
	if err := mongo.CreateIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("mongo indexes: %v", err)
	}
	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	products := repo.NewProductRepo(mongo.Database)
	shops := repo.NewShopRepo(mongo.Database)
	orders := repo.NewOrderRepo(mongo.Database)
	coupons := repo.NewCouponRepo(mongo.Database)
	users := repo.NewUserRepo(sqlDB)

	var events service.EventPublisher = mykafka.Nop{}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	images := newImageStore(cfg, logger)

	productSvc := &service.ProductService{
		Products: products,
		Shops:    shops,
		Orders:   orders,
		Images:   images,
		Events:   events,
	}

	if cfg.ESURL != "" {
		client, err := es.NewClient(es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, logger)
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			productSvc.Search = es.NewProductIndex(client, cfg.ESIndex)
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisAddr)
		cancel()
		if err != nil {
			logger.Warn("cache_disabled", "error", err)
			rdb = nil
		} else {
			productSvc.Cache = cache.NewProductCache(rdb, cfg.CacheTTL)
		}
	}

	paymentSvc := &service.PaymentService{PublishableKey: cfg.StripePublishableKey}
	if cfg.StripeSecretKey != "" {
		paymentSvc.Intents = payment.NewStripeService(cfg.StripeSecretKey, cfg.StripePublishableKey)
	} else {
		logger.Warn("payments_disabled", "reason", "STRIPE_SECRET_KEY is empty")
	}

	authSvc := &service.AuthService{
		Users:         users,
		Events:        events,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}
	shopSvc := &service.ShopService{Shops: shops, Images: images}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := httpserver.New(&httpserver.Deps{
		Logger:      logger,
		Metrics:     metrics.New(reg),
		ClientURL:   cfg.ClientURL,
		CSRFEnabled: cfg.CSRFEnabled,
		JWTSecret:   cfg.JWTAccessSecret,
		Refresher:   authSvc,
		Sellers:     shopSvc,
		Users:       &httpserver.UserHTTP{Svc: authSvc},
		Shops:       &httpserver.ShopHTTP{Svc: shopSvc},
		Products:    &httpserver.ProductHTTP{Svc: productSvc},
		Orders: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Orders:   orders,
			Products: products,
			Shops:    shops,
			Coupons:  coupons,
			Events:   events,
		}},
		Coupons:  &httpserver.CouponHTTP{Svc: &service.CouponService{Coupons: coupons}},
		Payments: &httpserver.PaymentHTTP{Svc: paymentSvc},
		Health:   &httpserver.HealthHTTP{Store: mongo},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}
	if producer != nil {
		_ = producer.Close()
	}
	_ = mongo.Disconnect(shutdownCtx)
	_ = db.Close(sqlDB)
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server_stopped")
}

// newImageStore falls back to process memory when no bucket is configured.
// Payloads are decoded as S3Store decodes them; the returned URLs are
// placeholders and nothing serves them.
func newImageStore(cfg config.Config, logger *slog.Logger) imagestore.Store {
	if cfg.S3Bucket == "" {
		logger.Warn("image_store_in_memory",
			"reason", "S3_BUCKET is empty",
			"note", "images are kept in process memory and their urls are not served")
		return imagestore.NewMemory("memory://images")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := imagestore.NewS3Store(ctx, imagestore.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("s3 store: %v", err)
	}
	return store
}
