package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	DB          DBConfig          `mapstructure:"db"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Cron        CronConfig        `mapstructure:"cron"`
	OptionsData OptionsDataConfig `mapstructure:"options_data"`
	Query       QueryConfig       `mapstructure:"query"`
	Alerts      AlertsConfig      `mapstructure:"alerts"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Access      AccessConfig      `mapstructure:"access"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	DB      int    `mapstructure:"db"`
}

type CronConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	AlertScan string `mapstructure:"alert_scan"`
}

type OptionsDataConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	APIKey  string        `mapstructure:"api_key"`
}

type QueryConfig struct {
	DefaultPageSize int           `mapstructure:"default_page_size"`
	MaxPageSize     int           `mapstructure:"max_page_size"`
	Debounce        time.Duration `mapstructure:"debounce"`
	PreviewRows     int           `mapstructure:"preview_rows"`
	StreamInterval  time.Duration `mapstructure:"stream_interval"`
}

type AlertsConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MailRelayURL string        `mapstructure:"mail_relay_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRows      int           `mapstructure:"max_rows"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	Disabled      bool   `mapstructure:"disabled"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type AccessConfig struct {
	PastDueGraceDays int `mapstructure:"past_due_grace_days"`
	SignupTrialDays  int `mapstructure:"signup_trial_days"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.alert_scan", "@every 15m")
	v.SetDefault("options_data.base_url", "https://data.optionscreener.io")
	v.SetDefault("options_data.timeout", "15s")
	v.SetDefault("query.default_page_size", 50)
	v.SetDefault("query.max_page_size", 200)
	v.SetDefault("query.debounce", "800ms")
	v.SetDefault("query.preview_rows", 5)
	v.SetDefault("query.stream_interval", "30s")
	v.SetDefault("alerts.enabled", false)
	v.SetDefault("alerts.timeout", "10s")
	v.SetDefault("alerts.max_rows", 20)
	v.SetDefault("auth.disabled", false)
	v.SetDefault("access.past_due_grace_days", 7)
	v.SetDefault("access.signup_trial_days", 7)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
