package main

import (
	"fmt"
	"time"

	"evm-bridge/internal/bridge"
	"evm-bridge/internal/fees"
	"evm-bridge/internal/handler"
	"evm-bridge/internal/history"
	"evm-bridge/internal/mq"
	"evm-bridge/internal/rpc"
	"evm-bridge/internal/server"
	"evm-bridge/internal/store"

	"evm-bridge/pkg/cache"
	"evm-bridge/pkg/config"
	"evm-bridge/pkg/database"
	"evm-bridge/pkg/logger"

	"go.uber.org/zap"
)

// @title EVM Bridge API
// @version 1.0
// @description Account/transaction bridge for EVM chains

// @host localhost:8080
// @BasePath /api/v1
func main() {
	config.Init()

	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)

	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	if config.Global.App.Env == "development" {
		logger.Info("development env: running GORM AutoMigrate")
		if err := db.AutoMigrate(store.AllModels()...); err != nil {
			logger.Fatal("auto migration failed", zap.Error(err))
		}
	} else {
		logger.Info("production env: skipping AutoMigrate, manage schema with the migrate tool")
	}

	// query cache backend
	var backend cache.Cache
	if config.Global.History.CacheBackend == "redis" {
		logger.Info("using Redis as the history cache backend")
		backend = cache.NewRedisCache(rdb)
	} else {
		backend = cache.NewMemoryCache(5*time.Minute, 10*time.Minute)
	}
	queryCache := cache.NewQueryCache(backend)
	historyTTL := time.Duration(config.Global.History.CacheTTLMs) * time.Millisecond

	// event producer
	var producer mq.Producer
	if config.Global.Redis.MQType == "kafka" {
		logger.Info("using Kafka for bridge events")
		producer = mq.NewKafkaProducer(config.Global.Kafka.Brokers)
	} else {
		logger.Info("using Redis Streams for bridge events")
		producer = mq.NewRedisProducer(rdb)
	}

	// one bridge per configured currency; currencies without an RPC endpoint
	// are skipped here and surface as a configuration error when requested
	bridges := map[string]bridge.AccountBridge{}
	for _, currency := range config.Global.Currencies {
		node, err := rpc.New(currency)
		if err != nil {
			logger.Warn("skipping currency",
				zap.String("currency", currency.ID),
				zap.Error(err),
			)
			continue
		}

		estimator := fees.NewEstimator(currency, node)
		historyService := history.NewService(history.NewHTTPProvider(currency), queryCache, historyTTL)

		// no signer in the server process: signing happens on the client side
		bridges[currency.ID] = bridge.New(currency, node, estimator, historyService, nil, producer)
		logger.Info("bridge ready",
			zap.String("currency", currency.ID),
			zap.Uint64("chain_id", currency.ChainID),
		)
	}

	bridgeHandler := handler.NewBridgeHandler(bridges, store.New(db))
	r := server.NewHTTPRouter(bridgeHandler)

	addr := ":" + config.Global.App.HttpPort
	logger.Info("HTTP server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("HTTP server exited", zap.Error(err))
	}
}
