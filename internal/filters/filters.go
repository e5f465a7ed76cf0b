package filters

import (
	"fmt"

	"binance-futures-bot-go/internal/models"

	"github.com/shopspring/decimal"
)

// SymbolFilters 表示单个交易对的价格/数量网格约束。
// 全部字段使用精确的十进制表示，避免二进制浮点数导致的网格归属误判
// （例如 tickSize 0.01 下 10.00 被误判为不在网格上）。
// 从交易所元数据构造后不可变。
type SymbolFilters struct {
	Symbol   string
	PriceMin decimal.Decimal
	PriceMax decimal.Decimal // 0 表示无上限
	TickSize decimal.Decimal // 0 表示无价格网格约束
	QtyMin   decimal.Decimal
	QtyMax   decimal.Decimal // 0 表示无上限
	StepSize decimal.Decimal // 0 表示无数量网格约束
}

// RangeError 表示数值超出交易对允许的范围（区别于仅未对齐网格）。
type RangeError struct {
	Field string
	Value decimal.Decimal
	Limit decimal.Decimal
	Below bool // true 表示低于最小值，false 表示高于最大值
}

func (e *RangeError) Error() string {
	if e.Below {
		return fmt.Sprintf("%s %s 低于最小值 %s", e.Field, e.Value, e.Limit)
	}
	return fmt.Sprintf("%s %s 高于最大值 %s", e.Field, e.Value, e.Limit)
}

// FromSymbolInfo 从交易所返回的交易对元数据构造约束。
// 扫描过滤器列表，取 PRICE_FILTER 和 LOT_SIZE / MARKET_LOT_SIZE；
// 缺失的过滤器按"无约束"处理，无法解析的条目跳过而不报错。
func FromSymbolInfo(info models.SymbolInfo) SymbolFilters {
	f := SymbolFilters{
		Symbol:   info.Symbol,
		TickSize: decimal.NewFromInt(1),
		StepSize: decimal.NewFromInt(1),
	}

	for _, flt := range info.Filters {
		switch flt.FilterType {
		case "PRICE_FILTER":
			min, err1 := parseOrZero(flt.MinPrice)
			max, err2 := parseOrZero(flt.MaxPrice)
			tick, err3 := parseOrZero(flt.TickSize)
			if err1 != nil || err2 != nil || err3 != nil {
				continue
			}
			f.PriceMin, f.PriceMax, f.TickSize = min, max, tick
		case "LOT_SIZE", "MARKET_LOT_SIZE":
			min, err1 := parseOrZero(flt.MinQty)
			max, err2 := parseOrZero(flt.MaxQty)
			step, err3 := parseOrZero(flt.StepSize)
			if err1 != nil || err2 != nil || err3 != nil {
				continue
			}
			f.QtyMin, f.QtyMax, f.StepSize = min, max, step
		}
	}
	return f
}

func parseOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, nil
	}
	return decimal.NewFromString(s)
}

// ValidatePrice 判断价格是否在范围内且落在 PriceMin + k*TickSize 的网格上。
func (f SymbolFilters) ValidatePrice(p decimal.Decimal) bool {
	return validate(p, f.PriceMin, f.PriceMax, f.TickSize)
}

// SnapPrice 将价格向下取整到网格上不大于它的最近有效点。
// 始终向下（朝 PriceMin 方向）取整，这是对止损/限价的保守偏置。
// 超出范围返回 *RangeError。
func (f SymbolFilters) SnapPrice(p decimal.Decimal) (decimal.Decimal, error) {
	return snap("price", p, f.PriceMin, f.PriceMax, f.TickSize)
}

// ValidateQty 判断数量是否在范围内且落在 QtyMin + k*StepSize 的网格上。
func (f SymbolFilters) ValidateQty(q decimal.Decimal) bool {
	return validate(q, f.QtyMin, f.QtyMax, f.StepSize)
}

// SnapQty 将数量向下取整到最近的有效网格点，语义与 SnapPrice 相同。
func (f SymbolFilters) SnapQty(q decimal.Decimal) (decimal.Decimal, error) {
	return snap("quantity", q, f.QtyMin, f.QtyMax, f.StepSize)
}

func validate(v, min, max, quantum decimal.Decimal) bool {
	if v.Cmp(min) < 0 {
		return false
	}
	if max.Sign() > 0 && v.Cmp(max) > 0 {
		return false
	}
	if quantum.Sign() <= 0 {
		return true
	}
	// QuoRem 给出精确的整数商和余数，余数为零即在网格上
	_, rem := v.Sub(min).QuoRem(quantum, 0)
	return rem.IsZero()
}

func snap(field string, v, min, max, quantum decimal.Decimal) (decimal.Decimal, error) {
	if v.Cmp(min) < 0 {
		return decimal.Decimal{}, &RangeError{Field: field, Value: v, Limit: min, Below: true}
	}
	if max.Sign() > 0 && v.Cmp(max) > 0 {
		return decimal.Decimal{}, &RangeError{Field: field, Value: v, Limit: max}
	}
	if quantum.Sign() <= 0 {
		return v, nil
	}
	// v >= min，截断商即向下取整
	steps, _ := v.Sub(min).QuoRem(quantum, 0)
	return min.Add(steps.Mul(quantum)), nil
}
