package bot

import (
	"fmt"
	"time"

	"binance-futures-bot-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GridParams 描述一次单边网格挂单：以基准价为起点，按百分比步长
// 向下（买入）或向上（卖出）铺设若干限价单。
type GridParams struct {
	Symbol      string          `json:"symbol"`
	Side        models.Side     `json:"side"`
	Levels      int             `json:"levels"`
	StepPct     decimal.Decimal `json:"step_pct"`              // 相邻档位间的百分比步长
	Quantity    decimal.Decimal `json:"quantity"`              // 每档数量
	BasePrice   decimal.Decimal `json:"base_price,omitempty"`  // 零值时取最新成交价
	TimeInForce string          `json:"time_in_force,omitempty"`
}

// PlaceGridOrders 逐档调用下单流水线铺设网格，每档独立成败。
// 网格层本身不做约束运算——规范化完全由 PlaceOrder 内部完成。
func (b *BasicBot) PlaceGridOrders(p GridParams, source string) (*models.GridSession, error) {
	if p.Levels <= 0 {
		return nil, fmt.Errorf("网格档数必须为正数，收到 %d", p.Levels)
	}
	if p.StepPct.Sign() <= 0 {
		return nil, fmt.Errorf("网格步长必须为正数，收到 %s", p.StepPct)
	}
	if p.Quantity.Sign() <= 0 {
		return nil, fmt.Errorf("每档数量必须为正数，收到 %s", p.Quantity)
	}
	if p.Side != models.Buy && p.Side != models.Sell {
		return nil, fmt.Errorf("无效的方向 %q，必须是 BUY 或 SELL", string(p.Side))
	}

	base := p.BasePrice
	if base.Sign() <= 0 {
		price, err := b.client.GetPrice(p.Symbol)
		if err != nil {
			return nil, fmt.Errorf("获取基准价格失败: %w", err)
		}
		base = price
	}

	b.logger.Info("开始铺设网格",
		zap.String("symbol", p.Symbol),
		zap.String("side", string(p.Side)),
		zap.Int("levels", p.Levels),
		zap.String("basePrice", base.String()))

	session := &models.GridSession{
		Symbol:    upperSymbol(p.Symbol),
		Side:      string(p.Side),
		BasePrice: base.String(),
		CreatedAt: time.Now(),
	}

	hundred := decimal.NewFromInt(100)
	for i := 1; i <= p.Levels; i++ {
		offset := p.StepPct.Mul(decimal.NewFromInt(int64(i))).Div(hundred)
		var price decimal.Decimal
		if p.Side == models.Buy {
			price = base.Mul(decimal.NewFromInt(1).Sub(offset))
		} else {
			price = base.Mul(decimal.NewFromInt(1).Add(offset))
		}

		req := models.OrderRequest{
			Symbol:      p.Symbol,
			Side:        p.Side,
			Type:        models.Limit,
			Quantity:    p.Quantity,
			Price:       price,
			TimeInForce: p.TimeInForce,
		}

		res := b.PlaceOrder(req, source, false)
		level := models.GridLevelResult{
			Price:    price.String(),
			Quantity: p.Quantity.String(),
			Success:  res.Success,
			Error:    res.Error,
		}
		if res.Success {
			if id, ok := res.Raw["orderId"].(float64); ok {
				level.OrderID = int64(id)
			}
			if cid, ok := res.Raw["clientOrderId"].(string); ok {
				level.ClientOrderID = cid
			}
		}
		session.Levels = append(session.Levels, level)
	}

	return session, nil
}
