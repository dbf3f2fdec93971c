package config

import (
	"fmt"
	"time"

	"event-notifier/internal/pkg/clock"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), scheduling policy
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Schedule ScheduleConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PATCH,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// Credentials have no defaults: a missing secret must fail at startup.
type SMTPConfig struct {
	Host     string        `envconfig:"SMTP_HOST" required:"true"`
	Port     string        `envconfig:"SMTP_PORT" default:"587"`
	Username string        `envconfig:"SMTP_USERNAME" required:"true"`
	Password string        `envconfig:"SMTP_PASSWORD" required:"true"`
	From     string        `envconfig:"SMTP_FROM" required:"true"`
	Security string        `envconfig:"SMTP_SECURITY" default:"starttls"` // starttls | tls | none
	Timeout  time.Duration `envconfig:"SMTP_TIMEOUT" default:"30s"`
}

type ScheduleConfig struct {
	TimeZone            string          `envconfig:"SCHEDULE_TIMEZONE" default:"UTC"`
	ReminderFireTime    clock.TimeOfDay `envconfig:"REMINDER_FIRE_TIME" default:"06:35"`
	SweepTime           clock.TimeOfDay `envconfig:"SWEEP_TIME" default:"09:00"`
	ReminderMaxAttempts int             `envconfig:"REMINDER_MAX_ATTEMPTS" default:"3"`
	UpdateMaxAttempts   int             `envconfig:"UPDATE_MAX_ATTEMPTS" default:"5"`
	RetryBaseDelay      time.Duration   `envconfig:"RETRY_BASE_DELAY" default:"60s"`
}

type WorkerConfig struct {
	Concurrency  int           `envconfig:"WORKER_CONCURRENCY" default:"4"`
	PollInterval time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"1s"`
	BatchSize    int           `envconfig:"WORKER_BATCH_SIZE" default:"20"`
	Lease        time.Duration `envconfig:"WORKER_LEASE" default:"5m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *SMTPConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *ScheduleConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if _, err := cfg.Schedule.Location(); err != nil {
		return Config{}, err
	}
	if cfg.Schedule.ReminderMaxAttempts < 1 || cfg.Schedule.UpdateMaxAttempts < 1 {
		return Config{}, fmt.Errorf("max attempts must be at least 1")
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		SMTP: SMTPConfig{
			Host:     "localhost",
			Port:     "1025",
			Username: "test",
			Password: "test",
			From:     "noreply@example.com",
			Security: "none",
			Timeout:  5 * time.Second,
		},
		Schedule: ScheduleConfig{
			TimeZone:            "UTC",
			ReminderFireTime:    clock.MustTimeOfDay("06:35"),
			SweepTime:           clock.MustTimeOfDay("09:00"),
			ReminderMaxAttempts: 3,
			UpdateMaxAttempts:   5,
			RetryBaseDelay:      time.Minute,
		},
		Worker: WorkerConfig{
			Concurrency:  2,
			PollInterval: 100 * time.Millisecond,
			BatchSize:    10,
			Lease:        time.Minute,
		},
	}
}
