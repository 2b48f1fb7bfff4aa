package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	CORS       CORSConfig       `yaml:"cors"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Host        string        `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Port        int           `yaml:"port" env:"PORT" env-default:"5000"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Address - адрес для http.Server
func (c HTTPServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DatabaseConfig структура по работе с БД, переменные окружения как у libpq
type DatabaseConfig struct {
	Host         string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port         int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User         string `yaml:"user" env:"PGUSER" env-required:"true"`
	Password     string `yaml:"-" env:"PGPASSWORD" env-required:"true"`
	Name         string `yaml:"name" env:"PGDATABASE" env-required:"true"`
	SSLMode      string `yaml:"sslmode" env:"PGSSLMODE" env-default:"disable"`
	MaxOpenConns int    `yaml:"max_open_conns" env-default:"10"`
	MaxIdleConns int    `yaml:"max_idle_conns" env-default:"5"`
}

// DSN собирает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// AuthConfig - подпись токенов и хэширование паролей.
// Секрета по умолчанию нет: без JWT_SECRET приложение не стартует.
type AuthConfig struct {
	Secret     string        `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"24h"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

var configPath = flag.String("config", "", "path to config file")

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	return MustLoadByPath(fetchConfigPath())
}

// fetchConfigPath: флаг -config, затем CONFIG_PATH. Пустой путь - только переменные окружения
func fetchConfigPath() string {
	if !flag.Parsed() {
		flag.Parse()
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(path string) *Config {
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			panic("config file not found: " + path)
		}
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("can't load config: %v", err)
	}
	return cfg
}

// Load читает yaml (если путь задан) и переменные окружения, затем проверяет значения.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// переменная может быть задана, но пустой - cleanenv это пропускает
	if c.Auth.Secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.Database.Password == "" {
		return errors.New("PGPASSWORD must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}
