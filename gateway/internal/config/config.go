package config

import "github.com/Skotchmaster/oss_shop/pkg/config"

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	return ServiceConfig{Config: config.MustLoad("gateway",
		"JWT_SECRET",
		"USER_URL", "CATALOG_URL", "CART_URL", "ORDER_URL", "PAYMENT_URL",
	)}
}
