package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Security SecurityConfig `mapstructure:"security"`
	Files    FilesConfig    `mapstructure:"files"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	Debug     bool   `mapstructure:"debug"`
	AdminKey  string `mapstructure:"admin_key"`
	StaticDir string `mapstructure:"static_dir"` // SPA build output, served at /
	AssetDir  string `mapstructure:"asset_dir"`  // game images, served at /assets
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

type SecurityConfig struct {
	// AdminPasswordHash is the bcrypt hash of the single admin password.
	// If empty, login (and therefore every write endpoint) is disabled.
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	JWTTTLH           time.Duration `mapstructure:"jwt_ttl_h"`
	RateLimitRPS      float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst    int           `mapstructure:"rate_limit_burst"`
}

type FilesConfig struct {
	// Dir holds the source spreadsheets (GameDB.xlsx, *.csv) seeded at startup.
	Dir string `mapstructure:"dir"`
}

type GameConfig struct {
	// TaskResetInterval controls how often due task-state resets are applied.
	TaskResetInterval time.Duration `mapstructure:"task_reset_interval"`
	// DefaultRefreshTime is used when a game has no refresh_time configured.
	DefaultRefreshTime string `mapstructure:"default_refresh_time"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.static_dir", "./static")
	v.SetDefault("server.asset_dir", "./files/image")
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data.db")
	v.SetDefault("database.mysql_max_open", 20)
	v.SetDefault("database.mysql_max_idle", 5)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("security.jwt_ttl_h", "72h")
	v.SetDefault("security.rate_limit_rps", 50)
	v.SetDefault("security.rate_limit_burst", 100)
	v.SetDefault("files.dir", "./files")
	v.SetDefault("game.task_reset_interval", "5m")
	v.SetDefault("game.default_refresh_time", "00:00")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
