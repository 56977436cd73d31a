package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Flight   FlightConfig   `yaml:"flight"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type LedgerConfig struct {
	Path string `yaml:"path"`
}

type FlightConfig struct {
	Number        string `yaml:"number"`
	From          string `yaml:"from"`
	To            string `yaml:"to"`
	DepartureTime string `yaml:"departure_time"`
	ArrivalTime   string `yaml:"arrival_time"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type BookingConfig struct {
	OverviewCacheTTL int `yaml:"overview_cache_ttl_seconds"`
	LedgerLockTTL    int `yaml:"ledger_lock_ttl_seconds"`
	LedgerLockWaitMs int `yaml:"ledger_lock_wait_ms"`
}

type WorkerConfig struct {
	ReconcileMinutes int `yaml:"reconcile_minutes"`
}

type LogConfig struct {
	Path       string `yaml:"path"`
	Debug      bool   `yaml:"debug"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LEDGER_PATH"); v != "" {
		c.Ledger.Path = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		c.HTTP.Address = v
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.HTTP.Address, ":8080")
	setDefault(&c.Ledger.Path, "bookings.txt")

	setDefault(&c.Flight.Number, "AI101")
	setDefault(&c.Flight.From, "New York")
	setDefault(&c.Flight.To, "Los Angeles")
	setDefault(&c.Flight.DepartureTime, "10:00 AM")
	setDefault(&c.Flight.ArrivalTime, "1:30 PM")

	setDefault(&c.Kafka.BookingEventsTopic, "booking_events")
	setDefault(&c.Kafka.GroupID, "flightledger-worker")

	setDefaultInt(&c.Booking.OverviewCacheTTL, 30)
	setDefaultInt(&c.Booking.LedgerLockTTL, 10)
	setDefaultInt(&c.Booking.LedgerLockWaitMs, 2000)
	setDefaultInt(&c.Worker.ReconcileMinutes, 5)

	setDefaultInt(&c.Log.MaxSizeMB, 10)
	setDefaultInt(&c.Log.MaxBackups, 7)
	setDefaultInt(&c.Log.MaxAgeDays, 28)
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
