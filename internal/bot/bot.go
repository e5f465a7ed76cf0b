package bot

import (
	"fmt"
	"time"

	"binance-futures-bot-go/internal/exchange"
	"binance-futures-bot-go/internal/filters"
	"binance-futures-bot-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BasicBot 是期货下单机器人的核心结构。
// 它把一个订单意图翻译成符合交易所约束的签名请求，并把结果
// 统一归类为 OrderResult。每次调用至多发起一次HTTP请求，失败不重试。
type BasicBot struct {
	cfg     *models.Config
	client  exchange.Client
	filters *filters.FilterCache
	logger  *zap.Logger
}

// NewBasicBot 创建一个新的机器人实例。
// API密钥缺失时无条件进入模拟模式，无论调用方请求的是什么模式。
func NewBasicBot(cfg *models.Config, client exchange.Client, logger *zap.Logger) *BasicBot {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		if !cfg.DryRun {
			logger.Warn("未配置API密钥，仅以模拟模式运行。设置 BINANCE_API_KEY/BINANCE_API_SECRET 以发送真实订单。")
		}
		cfg.DryRun = true
	}

	return &BasicBot{
		cfg:     cfg,
		client:  client,
		filters: filters.NewFilterCache(logger),
		logger:  logger,
	}
}

// DryRun 报告机器人是否处于模拟模式。
func (b *BasicBot) DryRun() bool {
	return b.cfg.DryRun
}

// Client 返回底层交易所客户端，供CLI/Web直接查询余额和持仓。
func (b *BasicBot) Client() exchange.Client {
	return b.client
}

// PlaceOrder 执行完整的下单流水线：结构校验 → 模拟短路 → 约束规范化 →
// 参数映射 → 签名发送 → 结果分类。任何失败都以 OrderResult 返回，
// 不会向调用方抛出；source 标记调用来源，只用于日志和结果标注。
func (b *BasicBot) PlaceOrder(req models.OrderRequest, source string, strict bool) models.OrderResult {
	b.logger.Info("收到下单请求",
		zap.String("source", source),
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)),
		zap.String("type", string(req.Type)),
		zap.String("quantity", req.Quantity.String()),
		zap.Bool("strict", strict))

	if err := req.Validate(); err != nil {
		b.logger.Error("订单校验失败", zap.Error(err))
		return failure(err)
	}

	if b.cfg.DryRun {
		b.logger.Info("模拟模式：不发送真实订单")
		return b.simulate(req, source)
	}

	normalized, err := b.normalize(req, strict)
	if err != nil {
		b.logger.Error("订单规范化失败", zap.Error(err))
		return failure(err)
	}

	params, err := buildOrderParams(normalized)
	if err != nil {
		return failure(err)
	}
	params.Set("newClientOrderId", newClientOrderID())

	raw, err := b.client.PlaceOrder(params)
	if err != nil {
		b.logger.Error("下单请求失败", zap.Error(err))
		return failure(err)
	}

	raw["source"] = source
	b.logger.Info("订单已被交易所接受",
		zap.Any("orderId", raw["orderId"]),
		zap.Any("status", raw["status"]))
	return models.OrderResult{Success: true, Raw: raw}
}

// simulate 合成一个模拟成功的结果，回显输入字段，不触达网络和约束缓存。
func (b *BasicBot) simulate(req models.OrderRequest, source string) models.OrderResult {
	raw := map[string]interface{}{
		"symbol":  upperSymbol(req.Symbol),
		"side":    string(req.Side),
		"type":    string(req.Type),
		"status":  "SIMULATED",
		"origQty": req.Quantity.String(),
		"source":  source,
	}
	if req.Price.Sign() > 0 {
		raw["price"] = req.Price.String()
	}
	if req.StopPrice.Sign() > 0 {
		raw["stopPrice"] = req.StopPrice.String()
	}
	return models.OrderResult{Success: true, Raw: raw}
}

// normalize 按订单类型对价格/数量字段做网格规范化，返回调整后的副本。
// 约束解析失败不致命：跳过规范化，由交易所侧校验兜底。
func (b *BasicBot) normalize(req models.OrderRequest, strict bool) (models.OrderRequest, error) {
	if err := b.filters.Ensure(b.client, false); err != nil {
		b.logger.Warn("加载交易对约束失败，跳过本地规范化", zap.Error(err))
		return req, nil
	}

	f := b.filters.Get(req.Symbol)
	if f == nil {
		b.logger.Warn("未找到交易对的约束，跳过本地规范化", zap.String("symbol", req.Symbol))
		return req, nil
	}

	out := req

	q, err := b.normalizeValue("quantity", req.Quantity, f.ValidateQty, f.SnapQty, strict)
	if err != nil {
		return req, err
	}
	out.Quantity = q

	needPrice := req.Type == models.Limit || req.Type == models.StopLimit || req.Type == models.TakeProfit
	if needPrice {
		p, err := b.normalizeValue("price", req.Price, f.ValidatePrice, f.SnapPrice, strict)
		if err != nil {
			return req, err
		}
		out.Price = p
	}

	needStop := req.Type == models.StopLimit || req.Type == models.StopMarket ||
		req.Type == models.TakeProfit || req.Type == models.TakeProfitMarket
	if needStop {
		sp, err := b.normalizeValue("stop_price", req.StopPrice, f.ValidatePrice, f.SnapPrice, strict)
		if err != nil {
			return req, err
		}
		out.StopPrice = sp
	}

	return out, nil
}

// AdjustmentError 表示严格模式下拒绝的网格未对齐值，
// 消息中同时给出原始值和最近的有效值。
type AdjustmentError struct {
	Field   string
	Wanted  decimal.Decimal
	Nearest decimal.Decimal
}

func (e *AdjustmentError) Error() string {
	return fmt.Sprintf("%s %s 未对齐交易对网格，最近的有效值为 %s（严格模式拒绝自动调整）",
		e.Field, e.Wanted, e.Nearest)
}

// normalizeValue 对单个字段应用规范化策略。
// 范围越界在两种模式下都失败；仅网格未对齐时，严格模式拒绝，
// 调整模式向下对齐并记录调整前后的值。
func (b *BasicBot) normalizeValue(
	field string,
	v decimal.Decimal,
	valid func(decimal.Decimal) bool,
	snapFn func(decimal.Decimal) (decimal.Decimal, error),
	strict bool,
) (decimal.Decimal, error) {
	if valid(v) {
		return v, nil
	}

	snapped, err := snapFn(v)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if strict {
		return decimal.Decimal{}, &AdjustmentError{Field: field, Wanted: v, Nearest: snapped}
	}

	b.logger.Info("自动调整字段以对齐交易对网格",
		zap.String("field", field),
		zap.String("from", v.String()),
		zap.String("to", snapped.String()))
	return snapped, nil
}

// SymbolFilters 返回指定交易对的约束模型，供检查类工具使用。
// 缓存未加载时会先尝试加载一次。
func (b *BasicBot) SymbolFilters(symbol string) (*filters.SymbolFilters, error) {
	if err := b.filters.Ensure(b.client, false); err != nil {
		return nil, err
	}
	f := b.filters.Get(symbol)
	if f == nil {
		return nil, fmt.Errorf("未找到交易对 %s 的约束", upperSymbol(symbol))
	}
	return f, nil
}

// RefreshFilters 强制重新拉取交易所元数据并重建约束缓存。
func (b *BasicBot) RefreshFilters() error {
	return b.filters.Ensure(b.client, true)
}

// Diagnostics 运行连通性和认证诊断，返回无序的键值报告。
// 每项检查的失败都记入报告而不中断后续检查。
func (b *BasicBot) Diagnostics(symbol string) map[string]interface{} {
	out := make(map[string]interface{})

	if err := b.client.Ping(); err != nil {
		out["ping_error"] = err.Error()
	} else {
		out["ping"] = "ok"
	}

	if serverTime, err := b.client.GetServerTime(); err != nil {
		out["time_error"] = err.Error()
	} else {
		out["server_time"] = serverTime
		out["time_delta_ms"] = time.Now().UnixMilli() - serverTime
	}

	if info, err := b.client.GetExchangeInfo(); err != nil {
		out["exchange_info_error"] = err.Error()
	} else {
		out["exchange_info_symbols"] = len(info.Symbols)
		if symbol != "" {
			listed := false
			want := upperSymbol(symbol)
			for _, s := range info.Symbols {
				if s.Symbol == want {
					listed = true
					break
				}
			}
			out["symbol_listed"] = listed
		}
	}

	// 需要认证的检查，模拟模式下跳过
	if !b.cfg.DryRun {
		if balances, err := b.client.GetBalances(); err != nil {
			out["balance_error"] = err.Error()
		} else {
			out["balance_count"] = len(balances)
		}
		if acct, err := b.client.GetAccountInfo(); err != nil {
			out["account_error"] = err.Error()
		} else {
			out["assets"] = len(acct.Assets)
			out["positions"] = len(acct.Positions)
		}
	}

	if b.cfg.APIKey != "" {
		out["api_key_masked"] = maskKey(b.cfg.APIKey)
	}
	return out
}

// maskKey 遮蔽API密钥，只保留首尾各4个字符
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "***" + key[len(key)-4:]
}

func failure(err error) models.OrderResult {
	return models.OrderResult{Success: false, Error: err.Error()}
}
