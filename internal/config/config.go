package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration parsed from environment variables.
// Gateway and SMTP credentials live in the settings record instead, so the
// admin panel can change them without a redeploy.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	DataDir         string        `envconfig:"DATA_DIR" default:"data"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	GatewayBaseURL  string        `envconfig:"GATEWAY_BASE_URL" default:""`
	GatewayTimeout  time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`
	AdminKey        string        `envconfig:"ADMIN_KEY" default:""`
	AllowTestOrders bool          `envconfig:"ALLOW_TEST_ORDERS" default:"false"`
	PurgeInterval   time.Duration `envconfig:"PURGE_INTERVAL" default:"1h"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
