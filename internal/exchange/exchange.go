package exchange

import (
	"net/url"

	"binance-futures-bot-go/internal/models"

	"github.com/shopspring/decimal"
)

// Client 定义了下单流水线和诊断所依赖的交易所方法。
// 这使得机器人可以在真实请求和测试替身之间轻松切换。
type Client interface {
	Ping() error
	GetServerTime() (int64, error)
	GetExchangeInfo() (*models.ExchangeInfo, error)
	PlaceOrder(params url.Values) (map[string]interface{}, error)
	GetBalances() ([]models.Balance, error)
	GetAccountInfo() (*models.AccountInfo, error)
	GetPositions(symbol string) ([]models.Position, error)
	GetPrice(symbol string) (decimal.Decimal, error)
}
