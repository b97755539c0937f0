package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port             int
	LogLevel         string
	Storage          string
	OperationTimeout time.Duration

	DB        DB
	Orders    OrdersGateway
	Notify    Notify
	Auth      Auth
	RateLimit RateLimit
	Dispatch  Dispatch
	Worker    Worker
	Pprof     PprofConfig
	Telemetry Telemetry
}

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		d.User, d.Pass, net.JoinHostPort(d.Host, d.Port), d.Name)
}

// OrdersGateway stores the order collaborator settings.
type OrdersGateway struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Notify stores status notification settings.
type Notify struct {
	Sink    string // log | kafka
	Brokers []string
	Topic   string
	Timeout time.Duration
}

// Auth stores bearer token settings.
type Auth struct {
	Secret string
}

// RateLimit stores per-caller request budget settings.
type RateLimit struct {
	Enabled    bool
	Backend    string // memory | redis
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
	Window     time.Duration
	RedisAddr  string
}

// Dispatch stores matching settings.
type Dispatch struct {
	MaxAttempts int
}

// Worker stores background sweep settings.
type Worker struct {
	Schedule    string
	MetricsPort int
}

// PprofConfig stores profiler listener settings.
type PprofConfig struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Telemetry stores tracing exporter settings. An empty endpoint disables export.
type Telemetry struct {
	Endpoint    string
	ServiceName string
}

// Accepted values of the backend selectors.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	SinkLog   = "log"
	SinkKafka = "kafka"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// RegisterFlags declares the command-line overrides on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.IntP("port", "p", defaultPort, "port to listen on")
	flags.String("log-level", defaultLogLevel, "log level: debug, info, warn, error")
	flags.String("storage", StoragePostgres, "storage backend: postgres or memory")
	flags.String("order-service-url", defaultOrdersGateway.BaseURL, "base URL of the order service")
	flags.String("notify-sink", defaultNotify.Sink, "status notification sink: log or kafka")
	flags.StringSlice("kafka-brokers", nil, "kafka bootstrap brokers")
	flags.String("worker-schedule", defaultWorker.Schedule, "cron spec for the background sweep")
	flags.Bool("pprof", false, "expose pprof on the pprof address")
	flags.String("env-file", ".env", "dotenv file to load before reading the environment")
}

// Load reads configuration in order: .env (if present) → environment → flags changed on flags.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	envFile := ".env"
	if flags != nil {
		if v, err := flags.GetString("env-file"); err == nil && v != "" {
			envFile = v
		}
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: %s not loaded: %v", envFile, err)
	}

	r := &envReader{}
	cfg := &Config{
		Port:             r.integer("PORT", defaultPort),
		LogLevel:         r.str("LOG_LEVEL", defaultLogLevel),
		Storage:          r.str("STORAGE", StoragePostgres),
		OperationTimeout: r.duration("OPERATION_TIMEOUT", defaultOperationTimeout),
		DB: DB{
			Host: r.str("POSTGRES_HOST", defaultDB.Host),
			Port: r.str("POSTGRES_PORT", defaultDB.Port),
			User: r.str("POSTGRES_USER", defaultDB.User),
			Pass: r.str("POSTGRES_PASSWORD", defaultDB.Pass),
			Name: r.str("POSTGRES_DB", defaultDB.Name),
		},
		Orders: OrdersGateway{
			BaseURL:     r.str("ORDER_SERVICE_URL", defaultOrdersGateway.BaseURL),
			Timeout:     r.duration("ORDERS_TIMEOUT", defaultOrdersGateway.Timeout),
			MaxAttempts: r.integer("ORDERS_MAX_ATTEMPTS", defaultOrdersGateway.MaxAttempts),
			BaseDelay:   r.duration("ORDERS_BASE_DELAY", defaultOrdersGateway.BaseDelay),
			MaxDelay:    r.duration("ORDERS_MAX_DELAY", defaultOrdersGateway.MaxDelay),
		},
		Notify: Notify{
			Sink:    r.str("NOTIFY_SINK", defaultNotify.Sink),
			Brokers: r.list("KAFKA_BROKERS", nil),
			Topic:   r.str("NOTIFY_TOPIC", defaultNotify.Topic),
			Timeout: r.duration("NOTIFY_TIMEOUT", defaultNotify.Timeout),
		},
		Auth: Auth{
			Secret: r.str("JWT_SECRET_KEY", ""),
		},
		RateLimit: RateLimit{
			Enabled:    r.boolean("RATE_LIMIT_ENABLED", defaultRateLimit.Enabled),
			Backend:    r.str("RATE_LIMIT_BACKEND", defaultRateLimit.Backend),
			Rate:       r.float("RATE_LIMIT_RATE", defaultRateLimit.Rate),
			Burst:      r.integer("RATE_LIMIT_BURST", defaultRateLimit.Burst),
			TTL:        r.duration("RATE_LIMIT_TTL", defaultRateLimit.TTL),
			MaxBuckets: r.integer("RATE_LIMIT_MAX_BUCKETS", defaultRateLimit.MaxBuckets),
			Window:     r.duration("RATE_LIMIT_WINDOW", defaultRateLimit.Window),
			RedisAddr:  r.str("REDIS_ADDR", ""),
		},
		Dispatch: Dispatch{
			MaxAttempts: r.integer("DISPATCH_MAX_ATTEMPTS", defaultDispatch.MaxAttempts),
		},
		Worker: Worker{
			Schedule:    r.str("WORKER_SCHEDULE", defaultWorker.Schedule),
			MetricsPort: r.integer("WORKER_METRICS_PORT", defaultWorker.MetricsPort),
		},
		Pprof: PprofConfig{
			Enabled: r.boolean("PPROF_ENABLED", false),
			Addr:    r.str("PPROF_ADDR", defaultPprofAddr),
			User:    r.str("PPROF_USER", ""),
			Pass:    r.str("PPROF_PASS", ""),
		},
		Telemetry: Telemetry{
			Endpoint:    r.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName: r.str("OTEL_SERVICE_NAME", defaultServiceName),
		},
	}
	if err := r.err(); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if flags != nil {
		if err := applyFlags(flags, cfg); err != nil {
			return nil, fmt.Errorf("parse flags: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(flags *pflag.FlagSet, cfg *Config) error {
	var err error
	if flags.Changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return err
		}
	}
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = flags.GetString("log-level"); err != nil {
			return err
		}
	}
	if flags.Changed("storage") {
		if cfg.Storage, err = flags.GetString("storage"); err != nil {
			return err
		}
	}
	if flags.Changed("order-service-url") {
		if cfg.Orders.BaseURL, err = flags.GetString("order-service-url"); err != nil {
			return err
		}
	}
	if flags.Changed("notify-sink") {
		if cfg.Notify.Sink, err = flags.GetString("notify-sink"); err != nil {
			return err
		}
	}
	if flags.Changed("kafka-brokers") {
		if cfg.Notify.Brokers, err = flags.GetStringSlice("kafka-brokers"); err != nil {
			return err
		}
	}
	if flags.Changed("worker-schedule") {
		if cfg.Worker.Schedule, err = flags.GetString("worker-schedule"); err != nil {
			return err
		}
	}
	if flags.Changed("pprof") {
		if cfg.Pprof.Enabled, err = flags.GetBool("pprof"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	if p, err := strconv.Atoi(c.DB.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("invalid POSTGRES_PORT: %q", c.DB.Port))
	}
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}
	switch c.Notify.Sink {
	case SinkLog:
	case SinkKafka:
		if len(c.Notify.Brokers) == 0 {
			errs = append(errs, errors.New("kafka sink requires KAFKA_BROKERS"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown notify sink %q", c.Notify.Sink))
	}
	switch c.RateLimit.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.RateLimit.Enabled && c.RateLimit.RedisAddr == "" {
			errs = append(errs, errors.New("redis rate limit backend requires REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown rate limit backend %q", c.RateLimit.Backend))
	}
	if c.Dispatch.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("invalid DISPATCH_MAX_ATTEMPTS: %d", c.Dispatch.MaxAttempts))
	}
	if c.Orders.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("invalid ORDERS_MAX_ATTEMPTS: %d", c.Orders.MaxAttempts))
	}
	return errors.Join(errs...)
}

// envReader reads typed values and collects every parse error.
type envReader struct {
	errs []error
}

func (r *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *envReader) str(key, def string) string {
	if v, ok := r.lookup(key); ok {
		return v
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *envReader) float(key string, def float64) float64 {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (r *envReader) boolean(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (r *envReader) list(key string, def []string) []string {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}
