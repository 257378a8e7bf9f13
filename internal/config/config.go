package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 应用基础信息
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// HTTPConfig HTTP 服务配置（健康检查与指标）
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 指标暴露配置
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// 链路类型
const (
	LinkSerial = "serial"
	LinkTCP    = "tcp"
)

// LinkConfig 模块链路配置：本地串口，或 ser2net 一类的 TCP 串口桥
type LinkConfig struct {
	Kind         string        `mapstructure:"kind"`
	Device       string        `mapstructure:"device"`
	BaudRate     int           `mapstructure:"baudRate"`
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	WriteQueue   int           `mapstructure:"writeQueue"`
}

// XBeeConfig 协议层配置
type XBeeConfig struct {
	MaxFrameLen     int      `mapstructure:"maxFrameLen"`
	StatusNamesPath string   `mapstructure:"statusNamesPath"`
	StartupCommands []string `mapstructure:"startupCommands"`
}

// Config 顶层配置结构
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Link    LinkConfig    `mapstructure:"link"`
	XBee    XBeeConfig    `mapstructure:"xbee"`
}

// Load 从 YAML/TOML/JSON 文件与环境变量加载配置。
// 若 path 为空，则尝试从环境变量 XBEE_CONFIG 读取；否则回退到 configs/xbeed.yaml。
func Load(path string) (*Config, error) {
	v := viper.New()

	// 环境变量覆盖：前缀 XBEE_，并将点号替换为下划线
	v.SetEnvPrefix("XBEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("xbeed")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 允许缺少配置文件，依赖默认值与环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查链路配置
func (c *Config) Validate() error {
	switch strings.ToLower(c.Link.Kind) {
	case LinkSerial:
		if c.Link.Device == "" {
			return errors.New("config: link.device is required for serial link")
		}
		if c.Link.BaudRate <= 0 {
			return fmt.Errorf("config: invalid link.baudRate %d", c.Link.BaudRate)
		}
	case LinkTCP:
		if c.Link.Addr == "" {
			return errors.New("config: link.addr is required for tcp link")
		}
	default:
		return fmt.Errorf("config: unknown link.kind %q", c.Link.Kind)
	}
	if c.XBee.MaxFrameLen < 0 {
		return fmt.Errorf("config: invalid xbee.maxFrameLen %d", c.XBee.MaxFrameLen)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "xbeed")
	v.SetDefault("app.env", "dev")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "logs/xbeed.log")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("link.kind", LinkSerial)
	v.SetDefault("link.device", "/dev/ttyUSB0")
	v.SetDefault("link.baudRate", 9600)
	v.SetDefault("link.addr", "")
	v.SetDefault("link.readTimeout", "1s")
	v.SetDefault("link.writeTimeout", "2s")
	v.SetDefault("link.writeQueue", 64)

	v.SetDefault("xbee.maxFrameLen", 0)
	v.SetDefault("xbee.statusNamesPath", "")
	v.SetDefault("xbee.startupCommands", []string{})
}
