package config

import (
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Application struct {
	Name        string        `env:"APP_NAME" envDefault:"kc-storefront"`
	Environment string        `env:"APP_ENVIRONMENT" envDefault:"development"`
	Port        int           `env:"APP_PORT" envDefault:"8600"`
	Debug       bool          `env:"APP_DEBUG" envDefault:"false"`
	Timeout     time.Duration `env:"APP_TIMEOUT" envDefault:"10s"`
}

type Backend struct {
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8000/api/v1"`
}

type Order struct {
	Expiration        time.Duration `env:"ORDER_EXPIRATION" envDefault:"24h"`
	ReconcileInterval time.Duration `env:"ORDER_RECONCILE_INTERVAL" envDefault:"2m"`
}

type Storage struct {
	Driver   string `env:"STORAGE_DRIVER" envDefault:"file"`
	FilePath string `env:"STORAGE_FILE_PATH" envDefault:".kartcis/local_storage.json"`
}

type Redis struct {
	Address  string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Prefix   string `env:"REDIS_PREFIX" envDefault:"kc-storefront:"`
}

type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Authorization,Content-Type"`
	ExposedHeaders   []string `env:"CORS_EXPOSED_HEADERS" envSeparator:"," envDefault:"X-Trace-ID"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"300"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
}

type Config struct {
	Application Application
	Backend     Backend
	Order       Order
	Storage     Storage
	Redis       Redis
	CORS        CORS
}

var (
	c    *Config
	once sync.Once
)

func Get() *Config {
	once.Do(func() {
		godotenv.Load()

		c = &Config{}
		if err := env.Parse(c); err != nil {
			panic(err)
		}
	})

	return c
}
