package config

import "github.com/Skotchmaster/oss_shop/pkg/config"

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	return ServiceConfig{Config: config.MustLoad("payment",
		"DATABASE_URL",
	)}
}
