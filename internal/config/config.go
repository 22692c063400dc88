package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 服务进程的全部可调参数。
// 来源优先级：环境变量（CODEPAIR_ 前缀） > 配置文件 > 默认值。
type Config struct {
	HTTPAddr    string `mapstructure:"http_addr"`    // REST + WebSocket 监听地址
	MetricsAddr string `mapstructure:"metrics_addr"` // /metrics 与 /healthz 监听地址
	BaseURL     string `mapstructure:"base_url"`     // 分享链接的前端基础地址

	OutBuffer    int           `mapstructure:"out_buffer"`     // 每连接发送缓冲区大小
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`   // WebSocket 读超时
	WriteTimeout time.Duration `mapstructure:"write_timeout"`  // WebSocket 写超时
	MaxFrameSize int           `mapstructure:"max_frame_size"` // 单帧最大字节数

	GraceInterval time.Duration `mapstructure:"grace_interval"` // 空会话保留时长
	MaxCodeSize   int           `mapstructure:"max_code_size"`  // 代码缓冲区大小上限（策略钩子）

	LogLevel string `mapstructure:"log_level"`
}

// Load 读取配置。configFile 为空时只使用默认值与环境变量。
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CODEPAIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate 拦截明显不可用的配置组合。
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr must not be empty")
	}
	if c.OutBuffer <= 0 {
		return fmt.Errorf("out_buffer must be positive, got %d", c.OutBuffer)
	}
	if c.MaxFrameSize <= 0 {
		return fmt.Errorf("max_frame_size must be positive, got %d", c.MaxFrameSize)
	}
	if c.GraceInterval <= 0 {
		return fmt.Errorf("grace_interval must be positive, got %s", c.GraceInterval)
	}
	if c.MaxCodeSize <= 0 {
		return fmt.Errorf("max_code_size must be positive, got %d", c.MaxCodeSize)
	}
	return nil
}
