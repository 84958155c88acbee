package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string
	DBDriver    string
	DBSQLDriver string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	AuthHTTPURL string
	UserURL     string
	CatalogURL  string
	CartURL     string
	OrderURL    string
	PaymentURL  string

	HTTPClientTimeout time.Duration

	EventBus         string
	KafkaBrokers     []string
	RabbitMQURL      string
	RabbitMQExchange string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	S3Bucket string
	S3Region string

	PostmarkServerToken string
	MailFrom            string

	CSRFCookieSecure bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_SQL_DRIVER", "pgx")

	v.SetDefault("AUTH_URL", "http://localhost:8081/")
	v.SetDefault("USER_URL", "http://localhost:8081")
	v.SetDefault("CATALOG_URL", "http://localhost:8082")
	v.SetDefault("CART_URL", "http://localhost:8083")
	v.SetDefault("ORDER_URL", "http://localhost:8084")
	v.SetDefault("PAYMENT_URL", "http://localhost:8085")
	v.SetDefault("HTTP_CLIENT_TIMEOUT", 5*time.Second)

	v.SetDefault("EVENT_BUS", "none")
	v.SetDefault("RABBITMQ_EXCHANGE", "shop.events")

	v.SetDefault("ES_INDEX", "products")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("MAIL_FROM", "no-reply@oss-shop.local")
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Config{
		ServiceName: v.GetString("SERVICE_NAME"),
		ServerPort:  v.GetInt("SERVER_PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DBSQLDriver: strings.ToLower(v.GetString("DB_SQL_DRIVER")),

		JWTAccessSecret:  []byte(v.GetString("JWT_SECRET")),
		JWTRefreshSecret: []byte(v.GetString("JWT_REFRESH_SECRET")),

		AuthHTTPURL: v.GetString("AUTH_URL"),
		UserURL:     v.GetString("USER_URL"),
		CatalogURL:  v.GetString("CATALOG_URL"),
		CartURL:     v.GetString("CART_URL"),
		OrderURL:    v.GetString("ORDER_URL"),
		PaymentURL:  v.GetString("PAYMENT_URL"),

		HTTPClientTimeout: v.GetDuration("HTTP_CLIENT_TIMEOUT"),

		EventBus:         strings.ToLower(v.GetString("EVENT_BUS")),
		KafkaBrokers:     CSV(v.GetString("KAFKA_BROKERS")),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),

		ESURL:      v.GetString("ES_URL"),
		ESUser:     v.GetString("ES_USER"),
		ESPassword: v.GetString("ES_PASSWORD"),
		ESIndex:    v.GetString("ES_INDEX"),

		S3Bucket: v.GetString("S3_BUCKET"),
		S3Region: v.GetString("S3_REGION"),

		PostmarkServerToken: v.GetString("POSTMARK_SERVER_TOKEN"),
		MailFrom:            v.GetString("MAIL_FROM"),

		CSRFCookieSecure: v.GetBool("CSRF_COOKIE_SECURE"),
	}
}

func (c Config) Addr() string {
	if c.ServerPort <= 0 {
		return ":8080"
	}
	return ":" + strconv.Itoa(c.ServerPort)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
