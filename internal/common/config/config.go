package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Config 应用配置（JSON 文件，可被 Consul KV 覆盖，见 consul_kv.go）。
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Consul   ConsulConfig   `json:"consul"`
	Jaeger   JaegerConfig   `json:"jaeger"`
	Log      LogConfig      `json:"log"`
	Auth     AuthConfig     `json:"auth"`
	Engine   EngineConfig   `json:"engine"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name     string `json:"name"`      // 服务名称（Consul 注册名）
	Host     string `json:"host"`      // 监听地址
	HTTPPort int    `json:"http_port"` // HTTP 端口
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	MaxIdle  int    `json:"max_idle"`
	MaxOpen  int    `json:"max_open"`
}

// ConsulConfig Consul 配置
type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// KVKey 非空时启动阶段尝试从 Consul KV 拉取配置覆盖本地文件
	KVKey string `json:"kv_key"`
}

// JaegerConfig 链路追踪配置
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 采样率 0.0-1.0
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`
	Driver string `json:"driver"` // logrus, zap
}

// AuthConfig JWT 鉴权配置
type AuthConfig struct {
	Enabled   bool   `json:"enabled"`
	JWTSecret string `json:"jwt_secret"`
	Issuer    string `json:"issuer"`
	Audience  string `json:"audience"`
	AdminRole string `json:"admin_role"` // 报表/删除/库存管理所需角色
}

// EngineConfig 订单引擎业务参数
type EngineConfig struct {
	VINPrefix      string `json:"vin_prefix"`       // 按单造车的 VIN 前缀
	VINMaxAttempts int    `json:"vin_max_attempts"` // VIN 碰撞重试上限
	DefaultColor   string `json:"default_color"`    // 未指定颜色时的基础色
	OrderRateLimit int64  `json:"order_rate_limit"` // 下单接口每秒令牌数，0 表示不限流
}

// LoadConfig 加载配置文件；文件不存在时退回默认配置（开发环境友好）。
func LoadConfig(configPath string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logrus.Warnf("Config file not found: %s, using default config", configPath)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// defaultConfig 默认配置（开发环境）
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:     "dealer-order-service",
			Host:     "0.0.0.0",
			HTTPPort: 8080,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "autodealhub",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "localhost:6831",
			Sampler:  1.0,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
			Driver: "logrus",
		},
		Auth: AuthConfig{
			Enabled:   false,
			AdminRole: "admin",
		},
		Engine: EngineConfig{
			VINPrefix:      "ADH",
			VINMaxAttempts: 100,
			DefaultColor:   "black",
			OrderRateLimit: 50,
		},
	}
}
