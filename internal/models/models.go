package models

import (
	"fmt"
	"time"
)

// Config 结构体定义了机器人的所有配置参数
type Config struct {
	BaseURL    string    `json:"base_url"`    // REST API基础地址，默认为币安期货测试网
	RecvWindow int64     `json:"recv_window"` // 签名请求的接收窗口（毫秒）
	DryRun     bool      `json:"dry_run"`     // 是否为模拟模式（不发送真实订单）
	DBPath     string    `json:"db_path"`     // 网格会话数据库路径，留空则不持久化
	ListenAddr string    `json:"listen_addr"` // Web服务监听地址
	LogConfig  LogConfig `json:"log"`         // 日志配置

	// API密钥从环境变量加载，不写入配置文件
	APIKey    string `json:"-"`
	APISecret string `json:"-"`
}

// LogConfig 定义了日志相关的配置
type LogConfig struct {
	Level      string `json:"level"`       // 日志级别, e.g., "debug", "info", "warn", "error"
	Output     string `json:"output"`      // 输出模式: "console", "file", "both"
	File       string `json:"file"`        // 日志文件路径
	MaxSize    int    `json:"max_size"`    // 单个日志文件的最大大小 (MB)
	MaxBackups int    `json:"max_backups"` // 保留的旧日志文件最大数量
	MaxAge     int    `json:"max_age"`     // 旧日志文件的最大保留天数
	Compress   bool   `json:"compress"`    // 是否压缩旧日志文件
}

// AccountInfo 定义了币安账户信息
type AccountInfo struct {
	TotalWalletBalance string `json:"totalWalletBalance"`
	AvailableBalance   string `json:"availableBalance"`
	Assets             []struct {
		Asset            string `json:"asset"`
		WalletBalance    string `json:"walletBalance"`
		UnrealizedProfit string `json:"unrealizedProfit"`
		MarginBalance    string `json:"marginBalance"`
	} `json:"assets"`
	Positions []struct {
		Symbol      string `json:"symbol"`
		PositionAmt string `json:"positionAmt"`
	} `json:"positions"`
}

// Position 定义了持仓信息
type Position struct {
	Symbol           string `json:"symbol"`
	PositionAmt      string `json:"positionAmt"`
	EntryPrice       string `json:"entryPrice"`
	MarkPrice        string `json:"markPrice"`
	UnrealizedProfit string `json:"unRealizedProfit"`
	LiquidationPrice string `json:"liquidationPrice"`
	Leverage         string `json:"leverage"`
	MarginType       string `json:"marginType"`
	PositionSide     string `json:"positionSide"`
	Notional         string `json:"notional"`
	UpdateTime       int64  `json:"updateTime"`
}

// Balance 定义了账户中特定资产的余额信息
type Balance struct {
	Asset              string `json:"asset"`
	Balance            string `json:"balance"`
	CrossWalletBalance string `json:"crossWalletBalance"`
	AvailableBalance   string `json:"availableBalance"`
}

// ExchangeInfo holds the full exchange information response
type ExchangeInfo struct {
	Symbols []SymbolInfo `json:"symbols"`
}

// SymbolInfo holds trading rules for a single symbol
type SymbolInfo struct {
	Symbol  string   `json:"symbol"`
	Status  string   `json:"status"`
	Filters []Filter `json:"filters"`
}

// Filter holds filter data, we are interested in PRICE_FILTER and the lot filters
type Filter struct {
	FilterType  string `json:"filterType"`
	MinPrice    string `json:"minPrice,omitempty"`    // For PRICE_FILTER
	MaxPrice    string `json:"maxPrice,omitempty"`    // For PRICE_FILTER
	TickSize    string `json:"tickSize,omitempty"`    // For PRICE_FILTER
	MinQty      string `json:"minQty,omitempty"`      // For LOT_SIZE / MARKET_LOT_SIZE
	MaxQty      string `json:"maxQty,omitempty"`      // For LOT_SIZE / MARKET_LOT_SIZE
	StepSize    string `json:"stepSize,omitempty"`    // For LOT_SIZE / MARKET_LOT_SIZE
	MinNotional string `json:"minNotional,omitempty"` // For MIN_NOTIONAL
}

// APIError 定义了币安API返回的错误信息结构，并附带HTTP状态码和原始响应体
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Msg        string `json:"msg"`
	Body       string `json:"-"`
}

// Error 方法使得 APIError 实现了 error 接口
func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d API error: code=%d, msg=%s", e.StatusCode, e.Code, e.Msg)
}

// GridSession 记录一次网格挂单会话，用于持久化与事后检查
type GridSession struct {
	Symbol    string            `json:"symbol"`
	Side      string            `json:"side"`
	BasePrice string            `json:"base_price"`
	CreatedAt time.Time         `json:"created_at"`
	Levels    []GridLevelResult `json:"levels"`
}

// GridLevelResult 记录网格中单个档位的下单结果
type GridLevelResult struct {
	Price         string `json:"price"`
	Quantity      string `json:"quantity"`
	ClientOrderID string `json:"client_order_id,omitempty"`
	OrderID       int64  `json:"order_id,omitempty"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}
