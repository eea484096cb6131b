package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mieluoxxx/aiconfig-hub/internal/crypto"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 AICONFIG_SERVER_PORT
const EnvPrefix = "AICONFIG"

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid config")
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`            // sqlite / mysql
	Path            string        `mapstructure:"path"`              // SQLite 数据库文件路径
	DSN             string        `mapstructure:"dsn"`               // MySQL DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大生命周期
	AutoMigrate     bool          `mapstructure:"auto_migrate"`      // 是否自动迁移
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release / test
}

// Address 监听地址
func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json / text
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"` // Base64 编码的 32 字节密钥
	JWTSecret     string `mapstructure:"jwt_secret"`     // 为空时关闭鉴权
}

// TesterConfig 连接测试配置
type TesterConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// ClientConfig 命令行客户端配置
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Tester   TesterConfig   `mapstructure:"tester"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Client   ClientConfig   `mapstructure:"client"`
}

// setDefaults 注册默认值
// viper 只会从环境变量覆盖已知的 key，因此每个字段都需要在这里登记
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/aiconfig.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("security.encryption_key", "")
	v.SetDefault("security.jwt_secret", "")

	v.SetDefault("tester.timeout", 15*time.Second)

	v.SetDefault("cors.origins", []string{"*"})

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.token", "")
	v.SetDefault("client.timeout", 30*time.Second)
}

// LoadConfig 加载配置
// 优先级: 环境变量 > 配置文件 > 默认值；configPath 为空时只使用默认值和环境变量
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", ErrInvalidConfig)
		}
	case "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for mysql", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Security.EncryptionKey != "" {
		if _, err := crypto.ParseKey(c.Security.EncryptionKey); err != nil {
			return fmt.Errorf("%w: security.encryption_key: %w", ErrInvalidConfig, err)
		}
	}

	return nil
}
