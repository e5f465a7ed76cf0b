package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side 定义了交易方向的类型
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// OrderType 定义了用户层面的订单类型
type OrderType string

const (
	Market           OrderType = "market"
	Limit            OrderType = "limit"
	StopLimit        OrderType = "stop_limit"
	StopMarket       OrderType = "stop_market"
	TakeProfit       OrderType = "take_profit"
	TakeProfitMarket OrderType = "take_profit_market"
)

// TimeInForce 的合法取值
const (
	GTC = "GTC"
	IOC = "IOC"
	FOK = "FOK"
)

// OrderRequest 是调用方构造的订单意图。
// 价格与数量使用 decimal 精确表示，零值表示字段未提供。
// 校验通过后不再修改，规范化产生新的下单参数而不是回写本结构。
type OrderRequest struct {
	Symbol      string          `json:"symbol"`
	Side        Side            `json:"side"`
	Type        OrderType       `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price,omitempty"`
	StopPrice   decimal.Decimal `json:"stop_price,omitempty"`
	TimeInForce string          `json:"time_in_force,omitempty"` // 默认 GTC
}

// ValidationError 表示订单意图的结构性错误，Field 指出问题字段
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate 按固定顺序检查订单意图的结构正确性，遇到第一个错误即返回。
// 只做本地检查，不涉及交易所的价格/数量网格（那发生在下单流水线中）。
func (r *OrderRequest) Validate() error {
	switch r.Side {
	case Buy, Sell:
	default:
		return &ValidationError{Field: "side", Reason: fmt.Sprintf("无效的方向 %q，必须是 BUY 或 SELL", string(r.Side))}
	}

	switch r.Type {
	case Market, Limit, StopLimit, StopMarket, TakeProfit, TakeProfitMarket:
	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("无效的订单类型 %q", string(r.Type))}
	}

	if r.Quantity.Sign() <= 0 {
		return &ValidationError{Field: "quantity", Reason: "数量必须为正数"}
	}

	needPrice := r.Type == Limit || r.Type == StopLimit || r.Type == TakeProfit
	if needPrice && r.Price.Sign() <= 0 {
		return &ValidationError{Field: "price", Reason: fmt.Sprintf("订单类型 %s 需要正的限价", string(r.Type))}
	}

	needStop := r.Type == StopLimit || r.Type == StopMarket || r.Type == TakeProfit || r.Type == TakeProfitMarket
	if needStop && r.StopPrice.Sign() <= 0 {
		return &ValidationError{Field: "stop_price", Reason: fmt.Sprintf("订单类型 %s 需要正的触发价", string(r.Type))}
	}

	if r.TimeInForce != "" && r.TimeInForce != GTC && r.TimeInForce != IOC && r.TimeInForce != FOK {
		return &ValidationError{Field: "time_in_force", Reason: fmt.Sprintf("无效的 timeInForce %q", r.TimeInForce)}
	}

	return nil
}

// OrderResult 是下单流水线返回给调用方的统一结果。
// 所有错误类型在此被折叠为 Error 字符串，调用方只需判断 Success。
type OrderResult struct {
	Success bool                   `json:"success"`
	Raw     map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
