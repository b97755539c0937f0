package config

import "time"

const (
	defaultPort             = 8080
	defaultLogLevel         = "info"
	defaultOperationTimeout = 10 * time.Second
	defaultPprofAddr        = "127.0.0.1:6060"
	defaultServiceName      = "service-delivery"
)

var defaultOrdersGateway = OrdersGateway{
	BaseURL:     "http://order-service:5000",
	Timeout:     3 * time.Second,
	MaxAttempts: 3,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    time.Second,
}

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "postgres",
	Pass: "postgres",
	Name: "delivery_db",
}

var defaultNotify = Notify{
	Sink:    SinkLog,
	Topic:   "delivery.status",
	Timeout: 2 * time.Second,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Backend:    BackendMemory,
	Rate:       10,
	Burst:      20,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
	Window:     time.Second,
}

var defaultDispatch = Dispatch{
	MaxAttempts: 3,
}

var defaultWorker = Worker{
	Schedule:    "@every 15s",
	MetricsPort: 9091,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultOrdersGateway returns the default orders gateway settings.
func DefaultOrdersGateway() OrdersGateway {
	return defaultOrdersGateway
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
