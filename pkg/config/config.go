package config

import (
	"log"
	"strings"

	"evm-bridge/internal/model"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	History    HistoryConfig    `mapstructure:"history"`
	Currencies []model.Currency `mapstructure:"currencies"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type HistoryConfig struct {
	// CacheTTLMs is how long a fetched transaction list stays fresh.
	// Concurrent lookups within the window share one upstream call.
	CacheTTLMs int `mapstructure:"cache_ttl_ms"`
	PageSize   int `mapstructure:"page_size"`
	// CacheBackend selects the store behind the query cache: "memory" or
	// "redis".
	CacheBackend string `mapstructure:"cache_backend"`
}

var Global Config

func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

// CurrencyByID looks up a configured currency. The bool is false when the id
// is unknown.
func CurrencyByID(id string) (model.Currency, bool) {
	for _, c := range Global.Currencies {
		if c.ID == id {
			return c, true
		}
	}
	return model.Currency{}, false
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "bridge_user")
	viper.SetDefault("db.password", "bridge_password")
	viper.SetDefault("db.name", "bridge_db")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("history.cache_ttl_ms", 6000)
	viper.SetDefault("history.page_size", 100)
	viper.SetDefault("history.cache_backend", "memory")
}
