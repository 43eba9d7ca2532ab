package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	PostgresDSN string
	RedisURL    string
	MongoURI    string
	MongoDB     string

	KafkaBrokers []string
	EventsTopic  string
	OrdersGroup  string

	SNSTopicArn string

	StripeSecretKey string

	CartTTL time.Duration
}

// Load reads the environment, falling back to local-dev defaults. A .env
// file is honored when present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		PostgresDSN:     getEnv("POSTGRES_DSN", "host=localhost user=shop password=shop dbname=shop port=5432 sslmode=disable"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "inventory"),
		KafkaBrokers:    []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
		EventsTopic:     getEnv("EVENTS_TOPIC", "shop.events"),
		OrdersGroup:     getEnv("ORDERS_GROUP", "orders-service"),
		SNSTopicArn:     getEnv("SNS_TOPIC_ARN", ""),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		CartTTL:         time.Hour * 24 * 7,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
