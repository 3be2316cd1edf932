package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Rabbit struct {
		URL string `koanf:"url"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers     []string `koanf:"brokers"`
		TopicEvents string   `koanf:"topic_events"`
	} `koanf:"kafka"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		Audience  string        `koanf:"audience"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`

	Gateway struct {
		AppID         string        `koanf:"app_id"`
		BaseURL       string        `koanf:"base_url"`
		PrivateKeyPEM string        `koanf:"private_key_pem"`
		QueryTimeout  time.Duration `koanf:"query_timeout"`
		PollInterval  time.Duration `koanf:"poll_interval"`
	} `koanf:"gateway"`

	Checkout struct {
		ShippingFeeCents int `koanf:"shipping_fee_cents"`
	} `koanf:"checkout"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix FRESHCART_, nested with __)
	// e.g. FRESHCART_MYSQL__DSN, FRESHCART_REDIS__PASSWORD
	if err := k.Load(env.Provider("FRESHCART_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "FRESHCART_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url required")
	}
	if c.Gateway.PollInterval <= 0 {
		return fmt.Errorf("gateway.poll_interval must be positive")
	}
	if c.Checkout.ShippingFeeCents < 0 {
		return fmt.Errorf("checkout.shipping_fee_cents must not be negative")
	}
	return nil
}
