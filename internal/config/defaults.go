package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":3000")
	v.SetDefault("metrics_addr", ":9091")
	v.SetDefault("base_url", "http://localhost:5173")

	v.SetDefault("out_buffer", 256)
	v.SetDefault("read_timeout", 60*time.Second)
	v.SetDefault("write_timeout", 10*time.Second)
	v.SetDefault("max_frame_size", 1<<20)

	// 空会话在最后一个成员离开后保留一小时，期间重新加入可取消回收
	v.SetDefault("grace_interval", time.Hour)
	v.SetDefault("max_code_size", 1<<20)

	v.SetDefault("log_level", "info")
}
