package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Upload   UploadConfig   `mapstructure:"upload"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置，driver 取 postgres 或 sqlite
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置，未启用时缓存退化为进程内存
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StorageConfig 对象存储配置，Endpoint/AccessKey/Bucket 齐全时走预签名直传
type StorageConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	PresignExpiry int    `mapstructure:"presign_expiry"` // 秒
	LocalDir      string `mapstructure:"local_dir"`
}

// RemoteEnabled 是否启用远程对象存储
func (s *StorageConfig) RemoteEnabled() bool {
	return s.Endpoint != "" && s.AccessKey != "" && s.SecretKey != "" && s.Bucket != ""
}

// PresignDuration 返回预签名有效期
func (s *StorageConfig) PresignDuration() time.Duration {
	return time.Duration(s.PresignExpiry) * time.Second
}

// UploadConfig 上传限制
type UploadConfig struct {
	MaxInitiateSize int64    `mapstructure:"max_initiate_size"` // 字节
	MaxLocalSize    int64    `mapstructure:"max_local_size"`    // 字节
	AllowedTypes    []string `mapstructure:"allowed_types"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min"`
	RateLimitBurst  int      `mapstructure:"rate_limit_burst"`
}

// JWTConfig 外部身份提供方的令牌校验配置
type JWTConfig struct {
	JWKSURL      string   `mapstructure:"jwks_url"`
	Audience     string   `mapstructure:"audience"`
	Issuer       string   `mapstructure:"issuer"`
	Algorithms   []string `mapstructure:"algorithms"`
	JWKSCacheTTL int      `mapstructure:"jwks_cache_ttl"` // 秒
	JWKSTimeout  int      `mapstructure:"jwks_timeout"`   // 秒
}

// CacheTTL 返回密钥集缓存时间
func (j *JWTConfig) CacheTTL() time.Duration {
	return time.Duration(j.JWKSCacheTTL) * time.Second
}

// FetchTimeout 返回密钥集拉取超时
func (j *JWTConfig) FetchTimeout() time.Duration {
	return time.Duration(j.JWKSTimeout) * time.Second
}

// AuthConfig 开发模式下允许固定令牌直接登录
type AuthConfig struct {
	DevMode  bool   `mapstructure:"dev_mode"`
	DevToken string `mapstructure:"dev_token"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// 全局配置实例
var globalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "music-go")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.mode", "debug")
	v.SetDefault("app.port", 8000)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "music")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "music.db")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.presign_expiry", 3600)
	v.SetDefault("storage.local_dir", "uploads")

	v.SetDefault("upload.max_initiate_size", 100*1024*1024)
	v.SetDefault("upload.max_local_size", 50*1024*1024)
	v.SetDefault("upload.allowed_types", []string{"audio/mpeg", "audio/mp3", "audio/wav", "audio/x-wav", "audio/ogg", "audio/flac", "audio/x-m4a", "audio/mp4"})
	v.SetDefault("upload.rate_limit_per_min", 30)
	v.SetDefault("upload.rate_limit_burst", 5)

	v.SetDefault("jwt.jwks_url", "")
	v.SetDefault("jwt.audience", "")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("jwt.algorithms", []string{"RS256"})
	v.SetDefault("jwt.jwks_cache_ttl", 3600)
	v.SetDefault("jwt.jwks_timeout", 10)

	v.SetDefault("auth.dev_mode", false)
	v.SetDefault("auth.dev_token", "dev-token-2025")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/app.log")
}

// Load 加载配置文件，文件不存在时只使用默认值和环境变量
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// 设置配置文件路径
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 读取环境变量，例如 JWT_JWKS_URL 覆盖 jwt.jwks_url
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析配置到结构体
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// 保存到全局变量
	globalConfig = &cfg

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.JWT.JWKSCacheTTL <= 0 {
		return fmt.Errorf("jwt.jwks_cache_ttl must be positive")
	}
	if c.JWT.JWKSTimeout <= 0 {
		return fmt.Errorf("jwt.jwks_timeout must be positive")
	}
	if len(c.JWT.Algorithms) == 0 {
		return fmt.Errorf("jwt.algorithms must not be empty")
	}
	return nil
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded, please call Load() first")
	}
	return globalConfig
}
