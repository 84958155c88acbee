package config

import "github.com/Skotchmaster/oss_shop/pkg/config"

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	return ServiceConfig{Config: config.MustLoad("order",
		"DATABASE_URL", "JWT_SECRET", "AUTH_URL",
		"USER_URL", "CATALOG_URL",
	)}
}
