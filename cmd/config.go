package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"coffeeshop/internal/core/application/dispatch"
	"coffeeshop/internal/jobs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisAddr enables the cross-instance lock; empty means in-process locking.
	RedisAddr string
	// NatsURL enables event publishing; empty means no event bus.
	NatsURL string

	// TelegramBotToken enables chat delivery and the webhook; empty means
	// messages are only logged.
	TelegramBotToken      string
	TelegramWebhookSecret string
	StaffChatIDs          []string

	OperationTimeout    time.Duration
	SendTimeout         time.Duration
	DispatchWorkers     int
	DispatchQueueSize   int
	DispatchFanoutLimit int

	CartTTL             time.Duration
	CartCleanupSchedule string

	// CatalogPath overrides the embedded menu.
	CatalogPath string
	Location    *time.Location
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds a Config from lookup, applying defaults for unset
// variables. Every malformed variable is reported, not just the first.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	p := envParser{lookup: lookup}

	cfg := Config{
		HTTPPort: p.str("HTTP_PORT", "8080"),
		LogLevel: p.str("LOG_LEVEL", "info"),

		DBHost:     p.str("DB_HOST", "localhost"),
		DBPort:     p.str("DB_PORT", "5432"),
		DBUser:     p.str("DB_USER", "postgres"),
		DBPassword: p.str("DB_PASSWORD", ""),
		DBName:     p.str("DB_NAME", "coffeeshop"),
		DBSslMode:  p.str("DB_SSLMODE", "disable"),

		RedisAddr: p.str("REDIS_ADDR", ""),
		NatsURL:   p.str("NATS_URL", ""),

		TelegramBotToken:      p.str("TELEGRAM_BOT_TOKEN", ""),
		TelegramWebhookSecret: p.str("TELEGRAM_WEBHOOK_SECRET", ""),
		StaffChatIDs:          p.list("STAFF_CHAT_IDS"),

		OperationTimeout:    p.duration("OPERATION_TIMEOUT", 5*time.Second),
		SendTimeout:         p.duration("SEND_TIMEOUT", dispatch.DefaultSendTimeout),
		DispatchWorkers:     p.positiveInt("DISPATCH_WORKERS", dispatch.DefaultWorkers),
		DispatchQueueSize:   p.positiveInt("DISPATCH_QUEUE_SIZE", dispatch.DefaultQueueSize),
		DispatchFanoutLimit: p.positiveInt("DISPATCH_FANOUT_LIMIT", dispatch.DefaultFanoutLimit),

		CartTTL:             p.duration("CART_TTL", 24*time.Hour),
		CartCleanupSchedule: p.str("CART_CLEANUP_SCHEDULE", jobs.DefaultCartExpirySchedule),

		CatalogPath: p.str("CATALOG_PATH", ""),
		Location:    p.location("TIMEZONE", time.UTC),
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DispatchConfig returns the notification dispatcher settings.
func (c Config) DispatchConfig() dispatch.Config {
	return dispatch.Config{
		StaffRecipients: c.StaffChatIDs,
		Workers:         c.DispatchWorkers,
		QueueSize:       c.DispatchQueueSize,
		FanoutLimit:     c.DispatchFanoutLimit,
		SendTimeout:     c.SendTimeout,
	}
}

type envParser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *envParser) raw(key string) (string, bool) {
	v, ok := p.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *envParser) str(key, def string) string {
	if v, ok := p.raw(key); ok {
		return v
	}
	return def
}

func (p *envParser) list(key string) []string {
	v, ok := p.raw(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a positive duration", key, v))
		return def
	}
	return d
}

func (p *envParser) positiveInt(key string, def int) int {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a positive integer", key, v))
		return def
	}
	return n
}

func (p *envParser) location(key string, def *time.Location) *time.Location {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return loc
}
