package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. CINEMA_DATA_BASE_URL.
const EnvPrefix = "CINEMA"

type Config struct {
	HTTP     HTTPConfig     `yaml:"http" envconfig:"HTTP"`
	GRPC     GRPCConfig     `yaml:"grpc" envconfig:"GRPC"`
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Redis    RedisConfig    `yaml:"redis" envconfig:"REDIS"`
	Events   EventsConfig   `yaml:"events" envconfig:"EVENTS"`
	Kafka    KafkaConfig    `yaml:"kafka" envconfig:"KAFKA"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq" envconfig:"RABBITMQ"`
	Catalog  CatalogConfig  `yaml:"catalog" envconfig:"CATALOG"`
	Booking  BookingConfig  `yaml:"booking" envconfig:"BOOKING"`
	Cart     CartConfig     `yaml:"cart" envconfig:"CART"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

type HTTPConfig struct {
	Address    string `yaml:"address" split_words:"true"`
	SwaggerDir string `yaml:"swagger_dir" split_words:"true"`
}

type GRPCConfig struct {
	Address string `yaml:"address" split_words:"true"`
}

const (
	BackendHTTP     = "http"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DataConfig points at the data service. Backend "postgres" swaps it for the
// local documents table described by Database, "memory" for an in-process
// store.
type DataConfig struct {
	Backend        string          `yaml:"backend" split_words:"true"`
	BaseURL        string          `yaml:"base_url" split_words:"true"`
	TimeoutSeconds int             `yaml:"timeout_seconds" split_words:"true"`
	Resources      ResourcesConfig `yaml:"resources" envconfig:"RESOURCES"`
}

type ResourcesConfig struct {
	Movies         string `yaml:"movies" split_words:"true"`
	Rooms          string `yaml:"rooms" split_words:"true"`
	Sessions       string `yaml:"sessions" split_words:"true"`
	Combos         string `yaml:"combos" split_words:"true"`
	Tickets        string `yaml:"tickets" split_words:"true"`
	ComboPurchases string `yaml:"combo_purchases" split_words:"true"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true"`
	User     string `yaml:"user" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	Name     string `yaml:"name" split_words:"true"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig with an empty Addr disables the catalog cache and the
// finalisation lock.
type RedisConfig struct {
	Addr     string `yaml:"addr" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	DB       int    `yaml:"db" split_words:"true"`
}

const (
	BrokerNone     = ""
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
)

type EventsConfig struct {
	Broker string `yaml:"broker" split_words:"true"`
	Topic  string `yaml:"topic" split_words:"true"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" split_words:"true"`
	GroupID string   `yaml:"group_id" split_words:"true"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url" split_words:"true"`
	Exchange string `yaml:"exchange" split_words:"true"`
	Queue    string `yaml:"queue" split_words:"true"`
}

type CatalogConfig struct {
	RefreshSeconds int `yaml:"refresh_seconds" split_words:"true"`
}

type BookingConfig struct {
	WorkflowTTLMinutes int  `yaml:"workflow_ttl_minutes" split_words:"true"`
	GuardFinalization  bool `yaml:"guard_finalization" split_words:"true"`
	LockTTLSeconds     int  `yaml:"lock_ttl_seconds" split_words:"true"`
}

type CartConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" split_words:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Format string `yaml:"format" split_words:"true"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" split_words:"true"`
	ServiceName string `yaml:"service_name" split_words:"true"`
	Environment string `yaml:"environment" split_words:"true"`
}

// LoadConfig reads the YAML file at path, then applies CINEMA_* environment
// overrides (a .env file in the working directory is loaded first if present)
// and finally fills defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	_ = godotenv.Load()
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.HTTP.Address, ":8080")
	setDefault(&c.GRPC.Address, ":9090")
	setDefault(&c.Data.Backend, BackendHTTP)
	setDefault(&c.Data.BaseURL, "http://localhost:3001")
	setDefaultInt(&c.Data.TimeoutSeconds, 10)
	setDefault(&c.Data.Resources.Movies, "filmes")
	setDefault(&c.Data.Resources.Rooms, "salas")
	setDefault(&c.Data.Resources.Sessions, "sessoes")
	setDefault(&c.Data.Resources.Combos, "combos")
	setDefault(&c.Data.Resources.Tickets, "ingressos")
	setDefault(&c.Data.Resources.ComboPurchases, "comprasCombos")
	setDefault(&c.Events.Topic, "cinema.purchases")
	setDefault(&c.Kafka.GroupID, "cinema-notifications")
	setDefault(&c.RabbitMQ.Exchange, "cinema.exchange")
	setDefault(&c.RabbitMQ.Queue, "cinema.notifications.q")
	setDefaultInt(&c.Catalog.RefreshSeconds, 5)
	setDefaultInt(&c.Booking.WorkflowTTLMinutes, 30)
	setDefaultInt(&c.Booking.LockTTLSeconds, 10)
	setDefaultInt(&c.Cart.TTLMinutes, 60)
	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "text")
	setDefault(&c.Tracing.ServiceName, "cinema")
	setDefault(&c.Tracing.Environment, "dev")
}

func (c *Config) validate() error {
	switch c.Data.Backend {
	case BackendHTTP, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown data backend %q", c.Data.Backend)
	}
	switch c.Events.Broker {
	case BrokerNone, BrokerKafka, BrokerRabbitMQ:
	default:
		return fmt.Errorf("unknown events broker %q", c.Events.Broker)
	}
	if c.Booking.GuardFinalization && c.Redis.Addr == "" {
		return fmt.Errorf("booking.guard_finalization requires redis.addr")
	}
	return nil
}

func setDefault(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setDefaultInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}
