package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	envDatabaseURL   = "DATABASE_URL"
	envSessionSecret = "SESSION_SECRET"
	envPort          = "PORT"
)

// ErrMissingSessionSecret is returned when the prod environment has no session secret.
var ErrMissingSessionSecret = errors.New("session secret is required in prod")

// ErrWriteTimeoutTooShort is returned when a check could outlive the response write deadline.
var ErrWriteTimeoutTooShort = errors.New("http server write timeout must exceed fetcher timeout")

type Config struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	Postgres   `yaml:"postgres"`
	Fetcher    `yaml:"fetcher"`
	Session    `yaml:"session"`
}

type HTTPServer struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes"`
	CertFile        string        `yaml:"cert_file"`
	KeyFile         string        `yaml:"key_file"`
}

// The write timeout must outlive a check, which blocks on the fetcher.
var defaultHTTPServer = HTTPServer{
	Port:            8080,
	ReadTimeout:     5 * time.Second,
	WriteTimeout:    30 * time.Second,
	IdleTimeout:     time.Minute,
	ShutdownTimeout: 15 * time.Second,
	MaxHeaderBytes:  1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// TLS reports whether both certificate and key files are configured.
func (s *HTTPServer) TLS() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

type Postgres struct {
	URL             string        `yaml:"url"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

// DSN returns URL when set and builds the connection string from parts otherwise.
func (p *Postgres) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	dsn := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.DB,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	if p.User != "" {
		dsn.User = url.UserPassword(p.User, p.Password)
	}

	return dsn.String()
}

type Fetcher struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxRedirects int           `yaml:"max_redirects"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodySize  int64         `yaml:"max_body_size"`
}

var defaultFetcher = Fetcher{
	Timeout:      10 * time.Second,
	MaxRedirects: 5,
	MaxBodySize:  5 << 20,
}

type Session struct {
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
}

var defaultSession = Session{
	Name: "page-analyzer",
}

// Load reads the optional .env file, the YAML file at path (skipped when path
// is empty) and then the environment overrides.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("%s: failed to load .env file: %w", op, err)
	}

	var cfg Config
	setDefaults(&cfg)

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.Env == EnvProd && cfg.Session.Secret == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingSessionSecret)
	}

	if cfg.HTTPServer.WriteTimeout <= cfg.Fetcher.Timeout {
		return nil, fmt.Errorf("%s: %w: %s <= %s",
			op, ErrWriteTimeoutTooShort, cfg.HTTPServer.WriteTimeout, cfg.Fetcher.Timeout)
	}

	return &cfg, nil
}

func loadDotEnv(file string) error {
	if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(envDatabaseURL); ok && v != "" {
		cfg.Postgres.URL = v
	}
	if v, ok := os.LookupEnv(envSessionSecret); ok && v != "" {
		cfg.Session.Secret = v
	}
	if v, ok := os.LookupEnv(envPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envPort, err)
		}
		cfg.HTTPServer.Port = port
	}
	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.Fetcher = defaultFetcher
	cfg.Session = defaultSession
}
