package config

import (
	"encoding/json"
	"os"

	"binance-futures-bot-go/internal/models"
)

// DefaultBaseURL 是币安期货测试网的REST基础地址
const DefaultBaseURL = "https://testnet.binancefuture.com"

// LoadConfig 从指定路径加载JSON配置文件并解析到Config结构体中。
// path 为空或文件不存在时返回默认配置，API密钥始终从环境变量读取。
func LoadConfig(path string) (*models.Config, error) {
	cfg := &models.Config{
		BaseURL:    DefaultBaseURL,
		RecvWindow: 5000,
		ListenAddr: ":8000",
		LogConfig:  models.LogConfig{Level: "info", Output: "console"},
	}

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				applyEnv(cfg)
				return cfg, nil
			}
			return nil, err
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RecvWindow <= 0 {
		cfg.RecvWindow = 5000
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv 从环境变量读取API密钥和模拟开关。
// 环境变量只在对应字段尚未设置时生效，便于命令行覆盖。
func applyEnv(cfg *models.Config) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("BINANCE_API_KEY")
	}
	if cfg.APISecret == "" {
		cfg.APISecret = os.Getenv("BINANCE_API_SECRET")
	}
	switch os.Getenv("DRY_RUN") {
	case "1", "true", "yes":
		cfg.DryRun = true
	}
}
