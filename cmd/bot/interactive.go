package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"binance-futures-bot-go/internal/bot"
	"binance-futures-bot-go/internal/models"

	"github.com/shopspring/decimal"
)

// runInteractive 进入交互式下单循环，逐项提示输入并复用同一条下单流水线。
// 输入 q 或空交易对退出。
func runInteractive(b *bot.BasicBot, strict bool) {
	reader := bufio.NewReader(os.Stdin)
	mode := "实盘"
	if b.DryRun() {
		mode = "模拟"
	}
	fmt.Printf("交互式下单（%s模式），输入 q 退出。\n", mode)

	for {
		symbol := prompt(reader, "交易对 (如 BTCUSDT)")
		if symbol == "" || strings.EqualFold(symbol, "q") {
			fmt.Println("退出。")
			return
		}

		side := strings.ToUpper(prompt(reader, "方向 BUY/SELL"))
		orderType := strings.ToLower(prompt(reader, "类型 market/limit/stop_limit/stop_market/take_profit/take_profit_market"))

		qty, ok := promptDecimal(reader, "数量")
		if !ok {
			continue
		}

		req := models.OrderRequest{
			Symbol:   symbol,
			Side:     models.Side(side),
			Type:     models.OrderType(orderType),
			Quantity: qty,
		}

		switch req.Type {
		case models.Limit, models.StopLimit, models.TakeProfit:
			if req.Price, ok = promptDecimal(reader, "限价"); !ok {
				continue
			}
		}
		switch req.Type {
		case models.StopLimit, models.StopMarket, models.TakeProfit, models.TakeProfitMarket:
			if req.StopPrice, ok = promptDecimal(reader, "触发价"); !ok {
				continue
			}
		}

		printResult(b.PlaceOrder(req, "interactive", strict))
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s> ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// promptDecimal 读取一个十进制数值，解析失败时提示并放弃本笔订单
func promptDecimal(reader *bufio.Reader, label string) (decimal.Decimal, bool) {
	raw := prompt(reader, label)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Printf("无效的数值 %q，本笔订单已取消。\n", raw)
		return decimal.Decimal{}, false
	}
	return d, true
}
