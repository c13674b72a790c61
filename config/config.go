// config/config.go - 配置管理
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"terminal-terrace/library/packages/email"
)

// EnvPrefix 环境变量前缀, LIBRARY_AUTH__SECRET 覆盖 auth.secret
const EnvPrefix = "LIBRARY_"

var (
	Conf *AppConfig
	once sync.Once
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Redis       RedisConfig       `koanf:"redis"`
	Log         LogConfig         `koanf:"log"`
	Auth        AuthConfig        `koanf:"auth"`
	Circulation CirculationConfig `koanf:"circulation"`
	SMTP        SMTPConfig        `koanf:"smtp"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Mode         string        `koanf:"mode"` // debug, release, test
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	Swagger      bool          `koanf:"swagger"`
	FrontendURL  string        `koanf:"frontend_url"`
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"`
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Output string `koanf:"output"` // stdout, file
	Path   string `koanf:"path"`
}

type AuthConfig struct {
	Secret   string        `koanf:"secret"`
	TokenTTL time.Duration `koanf:"token_ttl"`
	Issuer   string        `koanf:"issuer"`
}

// CirculationConfig 借阅规则
type CirculationConfig struct {
	LoanDays            int `koanf:"loan_days"`
	MaxActiveBorrowings int `koanf:"max_active_borrowings"`
}

type SMTPConfig struct {
	email.Config `koanf:",squash"`
	From         string `koanf:"from"`
}

// Enabled reports whether outgoing mail is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Read builds a config from configPath, then .env and LIBRARY_* environment
// overrides, with defaults applied.
func Read(configPath string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("警告: 无法加载 .env 文件: %v", err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("加载配置文件失败: %w", err)
	}
	// 环境变量覆盖配置文件
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("加载环境变量失败: %w", err)
	}

	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	conf.applyDefaults()
	return conf, nil
}

// Load 只在第一次调用时读取, 结果保存在 Conf
func Load(configPath string) error {
	var err error
	once.Do(func() {
		Conf, err = Read(configPath)
	})
	return err
}

// MustLoad 加载配置，失败则退出
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
}

// envKey maps LIBRARY_CIRCULATION__LOAN_DAYS to circulation.loan_days.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	// yaml 中以秒为单位
	if c.Server.ReadTimeout > 0 && c.Server.ReadTimeout < time.Second {
		c.Server.ReadTimeout *= time.Second
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < time.Second {
		c.Server.WriteTimeout *= time.Second
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "library-api"
	}
	if c.Circulation.LoanDays == 0 {
		c.Circulation.LoanDays = 14
	}
	if c.Circulation.MaxActiveBorrowings == 0 {
		c.Circulation.MaxActiveBorrowings = 3
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
