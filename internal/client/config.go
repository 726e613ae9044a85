package client

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// Config 是终端客户端的配置，全部来自 WORKSHEET_ 前缀的环境变量
type Config struct {
	ServerURL    string `env:"SERVER_URL" envDefault:"http://localhost:3000"`
	Language     string `env:"LANGUAGE"` // 留空则沿用上次保存的语言
	FlushDelayMS int    `env:"FLUSH_DELAY_MS" envDefault:"2000"`
	PageSize     int    `env:"PAGE_SIZE" envDefault:"8"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "WORKSHEET_"}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
