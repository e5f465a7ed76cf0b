package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"binance-futures-bot-go/internal/bot"
	"binance-futures-bot-go/internal/config"
	"binance-futures-bot-go/internal/exchange"
	"binance-futures-bot-go/internal/logger"
	"binance-futures-bot-go/internal/models"
	"binance-futures-bot-go/internal/persistence"
	"binance-futures-bot-go/internal/reporter"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// --- 命令行参数定义 ---
	configPath := flag.String("config", "config.json", "path to the config file")
	symbol := flag.String("symbol", "", "trading symbol, e.g. BTCUSDT")
	side := flag.String("side", "", "order side: BUY or SELL")
	orderType := flag.String("type", "limit", "order type: market, limit, stop_limit, stop_market, take_profit, take_profit_market")
	quantity := flag.String("quantity", "", "order quantity")
	price := flag.String("price", "", "limit price (limit/stop_limit/take_profit)")
	stopPrice := flag.String("stop-price", "", "trigger price (stop/take-profit types)")
	tif := flag.String("tif", "", "time in force: GTC, IOC or FOK (default GTC)")
	strict := flag.Bool("strict", false, "reject values not aligned to the symbol grid instead of auto-adjusting")
	dryRun := flag.Bool("dry-run", false, "simulate orders without touching the exchange")

	diagnose := flag.Bool("diagnose", false, "run connectivity diagnostics and exit")
	showFilters := flag.Bool("show-filters", false, "print the symbol's trading constraints and exit")
	showBalance := flag.Bool("balance", false, "print account balances and exit")
	showPositions := flag.Bool("positions", false, "print open positions and exit")

	interactive := flag.Bool("interactive", false, "prompt for orders in a loop instead of reading flags")
	grid := flag.Bool("grid", false, "place a one-sided grid of limit orders instead of a single order")
	levels := flag.Int("levels", 5, "number of grid levels")
	stepPct := flag.String("step-pct", "0.5", "percent distance between grid levels")
	basePrice := flag.String("base-price", "", "grid base price (defaults to the last traded price)")
	flag.Parse()

	// --- 初始化日志（提前，便于记录配置加载过程） ---
	logger.InitLogger(models.LogConfig{Level: "info", Output: "console"})

	// --- 加载 .env 文件 ---
	if err := godotenv.Load(); err != nil {
		logger.S().Info("未找到 .env 文件，将从系统环境变量中读取。")
	}

	// --- 加载 JSON 配置 ---
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Fatalf("无法加载配置文件: %v", err)
	}
	if *dryRun {
		cfg.DryRun = true
	}

	// --- 使用文件中的配置重新初始化日志 ---
	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	// --- 初始化交易所客户端和机器人 ---
	client := exchange.NewRESTClient(cfg.APIKey, cfg.APISecret, cfg.BaseURL, cfg.RecvWindow, logger.L())
	b := bot.NewBasicBot(cfg, client, logger.L())

	if !b.DryRun() {
		if err := client.SyncTime(); err != nil {
			logger.S().Warnf("服务器时间同步失败: %v，继续使用本地时钟。", err)
		}
	}

	// --- 检查类子命令：执行后直接退出 ---
	switch {
	case *diagnose:
		reporter.RenderDiagnostics(os.Stdout, b.Diagnostics(*symbol))
		return
	case *showFilters:
		requireSymbol(*symbol)
		f, err := b.SymbolFilters(*symbol)
		if err != nil {
			logger.S().Fatalf("获取交易对约束失败: %v", err)
		}
		reporter.RenderFilters(os.Stdout, f)
		return
	case *showBalance:
		balances, err := b.Client().GetBalances()
		if err != nil {
			logger.S().Fatalf("查询余额失败: %v", err)
		}
		reporter.RenderBalances(os.Stdout, balances)
		return
	case *showPositions:
		positions, err := b.Client().GetPositions(*symbol)
		if err != nil {
			logger.S().Fatalf("查询持仓失败: %v", err)
		}
		reporter.RenderPositions(os.Stdout, positions)
		return
	}

	if *interactive {
		runInteractive(b, *strict)
		return
	}

	requireSymbol(*symbol)

	if *grid {
		runGrid(b, cfg, *symbol, *side, *levels, *stepPct, *quantity, *basePrice, *tif)
		return
	}

	// --- 单笔下单 ---
	req := models.OrderRequest{
		Symbol:      *symbol,
		Side:        models.Side(*side),
		Type:        models.OrderType(*orderType),
		Quantity:    parseDecimal(*quantity, "quantity"),
		Price:       parseDecimal(*price, "price"),
		StopPrice:   parseDecimal(*stopPrice, "stop-price"),
		TimeInForce: *tif,
	}

	res := b.PlaceOrder(req, "cli", *strict)
	printResult(res)
	if !res.Success {
		os.Exit(1)
	}
}

// runGrid 铺设网格并输出逐档结果；配置了DBPath时把会话落盘。
func runGrid(b *bot.BasicBot, cfg *models.Config, symbol, side string, levels int, stepPct, quantity, basePrice, tif string) {
	session, err := b.PlaceGridOrders(bot.GridParams{
		Symbol:      symbol,
		Side:        models.Side(side),
		Levels:      levels,
		StepPct:     parseDecimal(stepPct, "step-pct"),
		Quantity:    parseDecimal(quantity, "quantity"),
		BasePrice:   parseDecimal(basePrice, "base-price"),
		TimeInForce: tif,
	}, "cli")
	if err != nil {
		logger.S().Fatalf("网格铺设失败: %v", err)
	}

	reporter.RenderGridSession(os.Stdout, session)

	if cfg.DBPath != "" {
		repo, err := persistence.NewBadgerRepository(cfg.DBPath)
		if err != nil {
			logger.S().Errorf("打开会话数据库失败: %v", err)
			return
		}
		defer repo.Close()
		if err := repo.SaveSession(session); err != nil {
			logger.S().Errorf("保存网格会话失败: %v", err)
		} else {
			logger.S().Infof("网格会话已保存到 %s", cfg.DBPath)
		}
	}
}

// parseDecimal 解析十进制参数，空串按零值（未设置）处理
func parseDecimal(s, name string) decimal.Decimal {
	if s == "" {
		return decimal.Decimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		logger.S().Fatalf("参数 --%s 不是合法的数值: %q", name, s)
	}
	return d
}

func requireSymbol(symbol string) {
	if symbol == "" {
		logger.S().Fatal("必须通过 --symbol 指定交易对。")
	}
}

// printResult 以缩进JSON打印订单结果，便于脚本消费
func printResult(res models.OrderResult) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.S().Fatalf("序列化结果失败: %v", err)
	}
	fmt.Println(string(data))
}
