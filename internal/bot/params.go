package bot

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"binance-futures-bot-go/internal/models"

	"github.com/jxskiss/base62"
)

// buildOrderParams 把订单意图确定性地映射为下单接口的参数表。
// 每种订单类型对应一组固定的参数形状，不会有隐式字段进入请求：
//
//	market             -> MARKET              quantity
//	limit              -> LIMIT               quantity, price, timeInForce
//	stop_limit         -> STOP                quantity, price, stopPrice, timeInForce
//	stop_market        -> STOP_MARKET         quantity, stopPrice
//	take_profit        -> TAKE_PROFIT         quantity, price, stopPrice, timeInForce
//	take_profit_market -> TAKE_PROFIT_MARKET  quantity, stopPrice
//
// 价格和数量以decimal字符串编码，交易对统一转为大写。
func buildOrderParams(req models.OrderRequest) (url.Values, error) {
	p := url.Values{}
	p.Set("symbol", upperSymbol(req.Symbol))
	p.Set("side", string(req.Side))
	p.Set("quantity", req.Quantity.String())

	tif := req.TimeInForce
	if tif == "" {
		tif = models.GTC
	}

	switch req.Type {
	case models.Market:
		p.Set("type", "MARKET")
	case models.Limit:
		p.Set("type", "LIMIT")
		p.Set("timeInForce", tif)
		p.Set("price", req.Price.String())
	case models.StopLimit:
		// 期货的STOP订单：price 为限价，stopPrice 为触发价
		p.Set("type", "STOP")
		p.Set("timeInForce", tif)
		p.Set("price", req.Price.String())
		p.Set("stopPrice", req.StopPrice.String())
	case models.StopMarket:
		p.Set("type", "STOP_MARKET")
		p.Set("stopPrice", req.StopPrice.String())
	case models.TakeProfit:
		p.Set("type", "TAKE_PROFIT")
		p.Set("timeInForce", tif)
		p.Set("price", req.Price.String())
		p.Set("stopPrice", req.StopPrice.String())
	case models.TakeProfitMarket:
		p.Set("type", "TAKE_PROFIT_MARKET")
		p.Set("stopPrice", req.StopPrice.String())
	default:
		return nil, fmt.Errorf("不支持的订单类型: %s", req.Type)
	}

	return p, nil
}

// newClientOrderID 生成base62编码的客户端订单ID，便于在日志中追踪
func newClientOrderID() string {
	return "bot-" + string(base62.FormatInt(time.Now().UnixNano()))
}

func upperSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
