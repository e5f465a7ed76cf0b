package main

import (
	"flag"

	"binance-futures-bot-go/internal/bot"
	"binance-futures-bot-go/internal/config"
	"binance-futures-bot-go/internal/exchange"
	"binance-futures-bot-go/internal/logger"
	"binance-futures-bot-go/internal/models"
	"binance-futures-bot-go/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the config file")
	listenAddr := flag.String("listen", "", "listen address, overrides the config file")
	dryRun := flag.Bool("dry-run", false, "simulate orders without touching the exchange")
	flag.Parse()

	logger.InitLogger(models.LogConfig{Level: "info", Output: "console"})

	if err := godotenv.Load(); err != nil {
		logger.S().Info("未找到 .env 文件，将从系统环境变量中读取。")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Fatalf("无法加载配置文件: %v", err)
	}
	if *dryRun {
		cfg.DryRun = true
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	client := exchange.NewRESTClient(cfg.APIKey, cfg.APISecret, cfg.BaseURL, cfg.RecvWindow, logger.L())
	b := bot.NewBasicBot(cfg, client, logger.L())

	if !b.DryRun() {
		if err := client.SyncTime(); err != nil {
			logger.S().Warnf("服务器时间同步失败: %v，继续使用本地时钟。", err)
		}
	}

	server := web.NewServer(b, logger.L())
	if err := server.Start(cfg.ListenAddr); err != nil {
		logger.S().Fatalf("Web服务启动失败: %v", err)
	}
}
