package config

// Config holds the application configuration.
type Config struct {
	Server     Server     `yaml:"server"`
	Database   Database   `yaml:"database"`
	Logger     Logger     `yaml:"logger"`
	Lyrics     Lyrics     `yaml:"lyrics"`
	Enrichment Enrichment `yaml:"enrichment"`
	Jobs       Jobs       `yaml:"jobs"`
	Telegram   Telegram   `yaml:"telegram"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Database holds the configuration for the catalog database.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Lyrics holds the configuration for the lyrics lookup path.
type Lyrics struct {
	Enabled         bool   `yaml:"enabled"`
	ProviderURL     string `yaml:"provider_url"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds" validate:"gt=0"`
	CacheMaxSize    int    `yaml:"cache_max_size" validate:"gt=0"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" validate:"gt=0"`
}

// Enrichment holds the configuration for the metadata enrichment gateway.
type Enrichment struct {
	Enabled        bool `yaml:"enabled"`
	TimeoutSeconds int  `yaml:"timeout_seconds" validate:"gt=0"`
}

// Jobs holds the configuration for background job bookkeeping.
type Jobs struct {
	Log                    bool   `yaml:"log"`
	LogPath                string `yaml:"log_path"`
	RetentionMinutes       int    `yaml:"retention_minutes"`
	CleanupIntervalMinutes int    `yaml:"cleanup_interval_minutes"`
}

// Telegram holds the configuration for job completion notifications.
type Telegram struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

// RateLimit holds the configuration for per-client request throttling.
type RateLimit struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Env holds the environment variable overrides. Any variable that is set
// wins over the value loaded from the YAML file.
type Env struct {
	Port          uint32 `envconfig:"SONGS_PORT"`
	DatabasePath  string `envconfig:"SONGS_DATABASE_PATH"`
	LogLevel      string `envconfig:"SONGS_LOG_LEVEL"`
	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`
}
