package reporter

import (
	"fmt"
	"io"
	"sort"

	"binance-futures-bot-go/internal/filters"
	"binance-futures-bot-go/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// newTable 返回统一风格的表格写入器
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// RenderDiagnostics 以键值表格输出诊断报告，键按字母序排列，保证输出稳定
func RenderDiagnostics(w io.Writer, diag map[string]interface{}) {
	keys := make([]string, 0, len(diag))
	for k := range diag {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := newTable(w)
	t.SetTitle("诊断报告")
	t.AppendHeader(table.Row{"检查项", "结果"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, fmt.Sprintf("%v", diag[k])})
	}
	t.Render()
}

// RenderBalances 输出非零资产余额表
func RenderBalances(w io.Writer, balances []models.Balance) {
	t := newTable(w)
	t.SetTitle("账户余额")
	t.AppendHeader(table.Row{"资产", "余额", "全仓余额", "可用余额"})
	for _, b := range balances {
		t.AppendRow(table.Row{b.Asset, b.Balance, b.CrossWalletBalance, b.AvailableBalance})
	}
	t.Render()
}

// RenderPositions 输出当前持仓表
func RenderPositions(w io.Writer, positions []models.Position) {
	t := newTable(w)
	t.SetTitle("当前持仓")
	t.AppendHeader(table.Row{"交易对", "持仓量", "开仓价", "标记价", "未实现盈亏", "杠杆"})
	for _, p := range positions {
		t.AppendRow(table.Row{
			p.Symbol, p.PositionAmt, p.EntryPrice, p.MarkPrice,
			p.UnrealizedProfit, p.Leverage,
		})
	}
	t.Render()
}

// RenderFilters 输出单个交易对的约束模型
func RenderFilters(w io.Writer, f *filters.SymbolFilters) {
	t := newTable(w)
	t.SetTitle("交易对约束: " + f.Symbol)
	t.AppendHeader(table.Row{"约束", "最小值", "最大值", "步进"})
	t.AppendRow(table.Row{"价格", f.PriceMin.String(), f.PriceMax.String(), f.TickSize.String()})
	t.AppendRow(table.Row{"数量", f.QtyMin.String(), f.QtyMax.String(), f.StepSize.String()})
	t.Render()
}

// RenderGridSession 输出网格会话的逐档结果，并统计成败数量
func RenderGridSession(w io.Writer, s *models.GridSession) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("网格会话 %s %s 基准价 %s", s.Symbol, s.Side, s.BasePrice))
	t.AppendHeader(table.Row{"#", "价格", "数量", "订单ID", "结果"})

	ok := 0
	for i, lv := range s.Levels {
		result := "成功"
		if !lv.Success {
			result = "失败: " + lv.Error
		} else {
			ok++
		}
		t.AppendRow(table.Row{i + 1, lv.Price, lv.Quantity, lv.OrderID, result})
	}
	t.AppendFooter(table.Row{"", "", "", "成功/总数", fmt.Sprintf("%d/%d", ok, len(s.Levels))})
	t.Render()
}
