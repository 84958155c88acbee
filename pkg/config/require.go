package config

import (
	"fmt"
	"log"
	"strings"
)

// values maps the env names a service may require onto the loaded fields.
func (c Config) values() map[string]string {
	return map[string]string{
		"DATABASE_URL":       c.DatabaseURL,
		"JWT_SECRET":         string(c.JWTAccessSecret),
		"JWT_REFRESH_SECRET": string(c.JWTRefreshSecret),
		"AUTH_URL":           c.AuthHTTPURL,
		"USER_URL":           c.UserURL,
		"CATALOG_URL":        c.CatalogURL,
		"CART_URL":           c.CartURL,
		"ORDER_URL":          c.OrderURL,
		"PAYMENT_URL":        c.PaymentURL,
		"RABBITMQ_URL":       c.RabbitMQURL,
		"ES_URL":             c.ESURL,
		"S3_BUCKET":          c.S3Bucket,
	}
}

// Missing returns the required env names that resolved to an empty value,
// in the order they were asked for.
func (c Config) Missing(required ...string) []string {
	vals := c.values()
	var out []string
	for _, name := range required {
		if vals[name] == "" {
			out = append(out, name)
		}
	}
	return out
}

func (c Config) Validate(required ...string) error {
	if missing := c.Missing(required...); len(missing) > 0 {
		return fmt.Errorf("%s: missing required env %s", c.ServiceName, strings.Join(missing, ", "))
	}
	return nil
}

// MustLoad loads the shared config for service and exits when any of the
// required env vars is empty.
func MustLoad(service string, required ...string) Config {
	cfg := Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = service
	}
	if err := cfg.Validate(required...); err != nil {
		log.Fatal(err)
	}
	return cfg
}
