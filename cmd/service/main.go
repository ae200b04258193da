package main

import (
	"os"

	"farmmarket/config"
	"farmmarket/internal/cache"
	"farmmarket/internal/hashing"
	"farmmarket/internal/producer"
	"farmmarket/internal/repository"
	"farmmarket/internal/service"
	"farmmarket/internal/token"
	"farmmarket/internal/transport/http/router"
	"farmmarket/pkg/database"
	"farmmarket/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title FarmMarket API
// @Version 1.0
// @Description API фермерского маркетплейса: каталог, корзина, оформление заказов
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repo := repository.New(db)

	var cartCache service.CartCountCache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTLSeconds, log)
		if err != nil {
			log.Warn("Redis недоступен, кэш корзины отключён", zap.Error(err))
		} else {
			defer redisClient.Close()
			cartCache = redisClient
		}
	}

	var events service.EventBus
	if cfg.Kafka.Enabled {
		orderProducer := producer.NewOrderProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer orderProducer.Close()
		events = orderProducer
		log.Info("Kafka producer подключён", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	hasher := hashing.NewBcrypt(0)
	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer)

	svc := router.Services{
		Auth:     service.NewAuthService(repo.Users, hasher, tokens, cfg.JWT.AccessExp, log),
		Cart:     service.NewCartService(repo, cartCache),
		Checkout: service.NewCheckoutService(repo, events, cartCache),
		Catalog:  service.NewCatalogService(repo),
		Orders:   service.NewOrderQueryService(repo),
		Farmers:  service.NewFarmerService(repo),
	}

	r := router.Router(svc, tokens, log)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("failed to run http server", zap.Error(err))
	}
}
