package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/emiliohtp1/tienda-backend/internal/api"
	"github.com/emiliohtp1/tienda-backend/internal/auth"
	"github.com/emiliohtp1/tienda-backend/internal/cache"
	"github.com/emiliohtp1/tienda-backend/internal/cart"
	"github.com/emiliohtp1/tienda-backend/internal/catalog"
	"github.com/emiliohtp1/tienda-backend/internal/config"
	"github.com/emiliohtp1/tienda-backend/internal/events"
	"github.com/emiliohtp1/tienda-backend/internal/storage"
	"github.com/emiliohtp1/tienda-backend/internal/user"
)

type indexCreator interface {
	CreateIndexes(ctx context.Context) error
}

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx := context.Background()

	mongoDB, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Info("connected to MongoDB", zap.String("db", cfg.MongoDBName))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	log.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("checkout events enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	cartRepo := cart.NewMongoRepository(mongoDB)
	userRepo := user.NewMongoRepository(mongoDB)
	catalogStore := catalog.NewMongoStore(mongoDB)

	for _, repo := range []interface{}{cartRepo, userRepo} {
		if ic, ok := repo.(indexCreator); ok {
			if err := ic.CreateIndexes(ctx); err != nil {
				log.Fatal("failed to create indexes", zap.Error(err))
			}
		}
	}

	cartCache := cache.NewRedisCache(redisClient)
	cartService := cart.NewService(cartRepo, catalogStore, cartCache, log)
	checkoutService := cart.NewCheckoutService(cartRepo, catalogStore, cartCache, publisher, log)
	userService := user.NewService(userRepo, log)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	router := api.NewRouter(
		api.NewAuthHandler(userService, tokens),
		api.NewUserHandler(userService),
		api.NewCatalogHandler(catalogStore),
		api.NewCartHandler(cartService, checkoutService),
		tokens,
		log,
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
