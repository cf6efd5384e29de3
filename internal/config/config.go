// config предоставляет структуру конфигурации news-gateway
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env       string          `yaml:"env"       env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Guardian  GuardianConfig  `yaml:"guardian"`
	Cache     CacheConfig     `yaml:"cache"`
	Limits    LimitsConfig    `yaml:"limits"`
	Aggregate AggregateConfig `yaml:"aggregate"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// GuardianConfig — доступ к контент-провайдеру.
type GuardianConfig struct {
	BaseURL string `yaml:"base_url" env:"GUARDIAN_BASE_URL" env-default:"https://content.guardianapis.com"`
	APIKey  string `yaml:"api_key"  env:"GUARDIAN_API_KEY"  env-required:"true"`
}

// CacheConfig — параметры кэша выдачи.
type CacheConfig struct {
	// TTL свежести записи; по его истечении запись остаётся читаемой
	// только для деградации при исчерпании квоты.
	TTL time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"15m"`
	// Интервал фоновой чистки устаревших записей.
	SweepInterval time.Duration `yaml:"sweep_interval" env:"CACHE_SWEEP_INTERVAL" env-default:"5m"`
}

// LimitsConfig — квота запросов к провайдеру.
type LimitsConfig struct {
	// Суточный потолок запросов (скользящее окно 24 часа).
	Daily int `yaml:"daily" env:"QUOTA_DAILY" env-default:"500"`
	// Потолок запросов в секунду (скользящее окно 1 секунда).
	PerSecond int `yaml:"per_second" env:"QUOTA_PER_SECOND" env-default:"1"`
	// Lenient поднимает потолки в LenientFactor раз, пока суточный счётчик
	// ниже LenientThreshold. Алгоритм резервирования не меняется.
	// Предназначен для интеграционных прогонов, в prod держать выключенным.
	Lenient          bool `yaml:"lenient"           env:"QUOTA_LENIENT"           env-default:"false"`
	LenientThreshold int  `yaml:"lenient_threshold" env:"QUOTA_LENIENT_THRESHOLD" env-default:"400"`
	LenientFactor    int  `yaml:"lenient_factor"    env:"QUOTA_LENIENT_FACTOR"    env-default:"10"`
}

// AggregateConfig — параметры агрегации ленты предпочтений.
type AggregateConfig struct {
	// Во сколько раз суммарная предвыборка по категориям превышает page_size.
	PrefetchFactor int `yaml:"prefetch_factor" env:"AGGREGATE_PREFETCH_FACTOR" env-default:"3"`
	// Пауза между последовательными запросами категорий; чуть больше
	// обратной величины секундного потолка, чтобы не упереться в него.
	PaceInterval time.Duration `yaml:"pace_interval" env:"AGGREGATE_PACE_INTERVAL" env-default:"1100ms"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	// Общий дедлайн обработки входящего запроса.
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"30s"`
	// Таймаут одного запроса к провайдеру.
	Upstream time.Duration `yaml:"upstream" env:"UPSTREAM_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.Guardian.BaseURL == "" {
		return fmt.Errorf("guardian.base_url is required")
	}
	if c.Guardian.APIKey == "" {
		return fmt.Errorf("guardian.api_key is required")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0")
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("cache.sweep_interval must be > 0")
	}
	if c.Limits.Daily <= 0 {
		return fmt.Errorf("limits.daily must be > 0")
	}
	if c.Limits.PerSecond <= 0 {
		return fmt.Errorf("limits.per_second must be > 0")
	}
	if c.Limits.Lenient {
		if c.Limits.LenientThreshold <= 0 {
			return fmt.Errorf("limits.lenient_threshold must be > 0 when lenient mode is on")
		}
		if c.Limits.LenientFactor <= 1 {
			return fmt.Errorf("limits.lenient_factor must be > 1 when lenient mode is on")
		}
	}
	if c.Aggregate.PrefetchFactor < 1 {
		return fmt.Errorf("aggregate.prefetch_factor must be >= 1")
	}
	if c.Aggregate.PaceInterval <= 0 {
		return fmt.Errorf("aggregate.pace_interval must be > 0")
	}
	if c.Timeouts.Service <= 0 {
		return fmt.Errorf("timeouts.service must be > 0")
	}
	if c.Timeouts.Upstream <= 0 {
		return fmt.Errorf("timeouts.upstream must be > 0")
	}
	return nil
}
