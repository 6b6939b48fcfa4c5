package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Log     LogConfig
	AI      AIConfig
	Auth    AuthConfig
	Redis   RedisConfig
	Tracing TracingConfig `mapstructure:"tracing"`
	CORS    CORSConfig    `mapstructure:"cors"`

	// 运行时字段，非配置项
	ConfigFile string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// AIConfig describes the upstream generative model.
// APIKey may be empty; requests fail individually until it is set.
type AIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	Transport    string        `mapstructure:"transport"`
	StrictSchema bool          `mapstructure:"strict_schema"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	OTP OTPConfig `mapstructure:"otp"`
}

type OTPConfig struct {
	Mode       string        `mapstructure:"mode"`
	StaticCode string        `mapstructure:"static_code"`
	TTL        time.Duration `mapstructure:"ttl"`
	ExposeCode bool          `mapstructure:"expose_code"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const (
	TransportREST = "rest"
	TransportSDK  = "sdk"

	OTPModeStatic = "static"
	OTPModeRedis  = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)

	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.transport", TransportREST)
	v.SetDefault("ai.strict_schema", false)
	v.SetDefault("ai.timeout", 0)

	v.SetDefault("auth.otp.mode", OTPModeStatic)
	v.SetDefault("auth.otp.static_code", "1234")
	v.SetDefault("auth.otp.ttl", 5*time.Minute)
	v.SetDefault("auth.otp.expose_code", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// LoadConfig reads config.yaml from path (optional) and the environment.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ROADMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// AI
	v.BindEnv("ai.api_key", "GEMINI_API_KEY")
	v.BindEnv("ai.model", "GEMINI_MODEL")
	v.BindEnv("ai.base_url", "GEMINI_BASE_URL")

	// OTP
	v.BindEnv("auth.otp.mode", "OTP_MODE")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		if abs, err := filepath.Abs(used); err == nil {
			cfg.ConfigFile = abs
		} else {
			cfg.ConfigFile = used
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server.mode %q", c.Server.Mode)
	}

	switch c.AI.Transport {
	case TransportREST, TransportSDK:
	default:
		return fmt.Errorf("unknown ai.transport %q (want %s or %s)", c.AI.Transport, TransportREST, TransportSDK)
	}

	switch c.Auth.OTP.Mode {
	case OTPModeStatic, OTPModeRedis:
	default:
		return fmt.Errorf("unknown auth.otp.mode %q", c.Auth.OTP.Mode)
	}

	// 生产环境不允许在响应中回显验证码
	if c.Server.Mode == "release" && c.Auth.OTP.Mode == OTPModeRedis && c.Auth.OTP.ExposeCode {
		return fmt.Errorf("auth.otp.expose_code must be false in release mode with redis codes")
	}

	return nil
}

func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}
